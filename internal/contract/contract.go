// Package contract defines the capability contracts every wire-format backend
// must satisfy. Entities only ever see these interfaces, never the concrete
// JSON types behind them.
package contract

import "time"

// Kind identifies a capability contract. The set is fixed at build time.
type Kind string

const (
	KindAction                   Kind = "action"
	KindBoard                    Kind = "board"
	KindBoardPersonalPreferences Kind = "boardPersonalPreferences"
	KindCard                     Kind = "card"
	KindMember                   Kind = "member"
	KindOrganization             Kind = "organization"
	KindOrganizationMembership   Kind = "organizationMembership"
)

// Kinds returns every known contract kind.
func Kinds() []Kind {
	return []Kind{
		KindAction,
		KindBoard,
		KindBoardPersonalPreferences,
		KindCard,
		KindMember,
		KindOrganization,
		KindOrganizationMembership,
	}
}

// ParseKind maps a kind name to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// BoardPersonalPreferences is the current member's view settings for a board.
type BoardPersonalPreferences interface {
	ShowListGuide() *bool
	SetShowListGuide(*bool)
	ShowSidebar() *bool
	SetShowSidebar(*bool)
	ShowSidebarActivity() *bool
	SetShowSidebarActivity(*bool)
	ShowSidebarBoardActions() *bool
	SetShowSidebarBoardActions(*bool)
	ShowSidebarMembers() *bool
	SetShowSidebarMembers(*bool)
	EmailPosition() *string
	SetEmailPosition(*string)
}

// Board is a board's top-level fields.
type Board interface {
	ID() string
	Name() *string
	SetName(*string)
	Description() *string
	SetDescription(*string)
	Closed() *bool
	SetClosed(*bool)
	Pinned() *bool
	SetPinned(*bool)
	URL() *string
	OrganizationID() *string
}

// Card is a card's fields.
type Card interface {
	ID() string
	Name() *string
	SetName(*string)
	Description() *string
	SetDescription(*string)
	Closed() *bool
	SetClosed(*bool)
	Due() *time.Time
	SetDue(*time.Time)
	ListID() *string
	SetListID(*string)
	BoardID() *string
	Position() *float64
	SetPosition(*float64)
	URL() *string
	ShortURL() *string
	ShortID() int
}

// Member is a user account.
type Member interface {
	ID() string
	Username() *string
	FullName() *string
	SetFullName(*string)
	Initials() *string
	SetInitials(*string)
	Bio() *string
	SetBio(*string)
	AvatarHash() *string
	URL() *string
	Confirmed() *bool
	MemberType() *string
}

// Action is an immutable activity record.
type Action interface {
	ID() string
	Type() *string
	Date() *time.Time
	MemberCreatorID() *string
	Text() *string
	BoardID() *string
	CardID() *string
}

// Organization is a team.
type Organization interface {
	ID() string
	Name() *string
	DisplayName() *string
	SetDisplayName(*string)
	Description() *string
	SetDescription(*string)
	Website() *string
	SetWebsite(*string)
}

// OrganizationMembership links a member to an organization.
type OrganizationMembership interface {
	ID() string
	MemberID() *string
	MemberType() OrganizationMembershipType
	SetMemberType(OrganizationMembershipType)
	Unconfirmed() *bool
	Deactivated() *bool
}
