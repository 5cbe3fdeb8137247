package entity

import (
	"context"
	"net/http"
	"strings"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/validate"
)

type memberBacking = contract.Member

var memberIdentity = Identity{
	Kind:        contract.KindMember,
	Key:         "members",
	Key2:        "members",
	WriteMethod: http.MethodPut,
}

var (
	memberFullName = stringField("fullName", memberBacking.FullName, memberBacking.SetFullName).
			required().check(validate.NonEmptyString)
	memberInitials = stringField("initials", memberBacking.Initials, memberBacking.SetInitials).
			required().check(validate.StringLength(1, 4))
	memberBio        = stringField("bio", memberBacking.Bio, memberBacking.SetBio)
	memberUsername   = readPtr(memberBacking.Username)
	memberAvatarHash = readPtr(memberBacking.AvatarHash)
	memberURL        = readPtr(memberBacking.URL)
	memberConfirmed  = readPtr(memberBacking.Confirmed)
	memberType       = readPtr(memberBacking.MemberType)
)

// Member is a user account. id may be the member's id or username.
type Member struct {
	Expiring[memberBacking]
}

func NewMember(sess *session.Session, id string) *Member {
	return &Member{Expiring: newExpiring[memberBacking](sess, memberIdentity, id, nil)}
}

func (m *Member) FullName(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, memberFullName)
}

// SetFullName trims surrounding whitespace before storing the name.
func (m *Member) SetFullName(ctx context.Context, v *string) error {
	if v != nil {
		trimmed := strings.TrimSpace(*v)
		v = &trimmed
	}
	return setField(ctx, &m.Expiring, memberFullName, v)
}

func (m *Member) Initials(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, memberInitials)
}

func (m *Member) SetInitials(ctx context.Context, v *string) error {
	return setField(ctx, &m.Expiring, memberInitials, v)
}

func (m *Member) Bio(ctx context.Context) *string { return getField(ctx, &m.Expiring, memberBio) }

func (m *Member) SetBio(ctx context.Context, v *string) error {
	return setField(ctx, &m.Expiring, memberBio, v)
}

func (m *Member) Username(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, memberUsername)
}

func (m *Member) AvatarHash(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, memberAvatarHash)
}

func (m *Member) URL(ctx context.Context) *string { return getField(ctx, &m.Expiring, memberURL) }

func (m *Member) Confirmed(ctx context.Context) *bool {
	return getField(ctx, &m.Expiring, memberConfirmed)
}

func (m *Member) MemberType(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, memberType)
}
