package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/entity"
)

// The *Json types snapshot an entity's getters for output.
//
// SYNC WARNING: each must have a field for every getter of its entity.
// See TestJsonFieldSync.

type boardJson struct {
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Closed         *bool   `json:"closed,omitempty"`
	Pinned         *bool   `json:"pinned,omitempty"`
	URL            *string `json:"url,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

func boardToJson(ctx context.Context, b *entity.Board) boardJson {
	return boardJson{
		ID:             b.ID(),
		Name:           b.Name(ctx),
		Description:    b.Description(ctx),
		Closed:         b.Closed(ctx),
		Pinned:         b.Pinned(ctx),
		URL:            b.URL(ctx),
		OrganizationID: b.OrganizationID(ctx),
	}
}

type prefsJson struct {
	Board                   string  `json:"board"`
	ShowListGuide           *bool   `json:"show_list_guide,omitempty"`
	ShowSidebar             *bool   `json:"show_sidebar,omitempty"`
	ShowSidebarActivity     *bool   `json:"show_sidebar_activity,omitempty"`
	ShowSidebarBoardActions *bool   `json:"show_sidebar_board_actions,omitempty"`
	ShowSidebarMembers      *bool   `json:"show_sidebar_members,omitempty"`
	EmailPosition           *string `json:"email_position,omitempty"`
}

func prefsToJson(ctx context.Context, p *entity.BoardPersonalPreferences) prefsJson {
	return prefsJson{
		Board:                   p.Owner().ID(),
		ShowListGuide:           p.ShowListGuide(ctx),
		ShowSidebar:             p.ShowSidebar(ctx),
		ShowSidebarActivity:     p.ShowSidebarActivity(ctx),
		ShowSidebarBoardActions: p.ShowSidebarBoardActions(ctx),
		ShowSidebarMembers:      p.ShowSidebarMembers(ctx),
		EmailPosition:           p.EmailPosition(ctx),
	}
}

type cardJson struct {
	ID          string     `json:"id"`
	ShortID     int        `json:"short_id"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Closed      *bool      `json:"closed,omitempty"`
	Due         *time.Time `json:"due,omitempty"`
	Position    *float64   `json:"position,omitempty"`
	ListID      *string    `json:"list_id,omitempty"`
	BoardID     *string    `json:"board_id,omitempty"`
	URL         *string    `json:"url,omitempty"`
	ShortURL    *string    `json:"short_url,omitempty"`
}

func cardToJson(ctx context.Context, c *entity.Card) cardJson {
	return cardJson{
		ID:          c.ID(),
		ShortID:     c.ShortID(ctx),
		Name:        c.Name(ctx),
		Description: c.Description(ctx),
		Closed:      c.Closed(ctx),
		Due:         c.Due(ctx),
		Position:    c.Position(ctx),
		ListID:      c.ListID(ctx),
		BoardID:     c.BoardID(ctx),
		URL:         c.URL(ctx),
		ShortURL:    c.ShortURL(ctx),
	}
}

type memberJson struct {
	ID         string  `json:"id"`
	Username   *string `json:"username,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	Initials   *string `json:"initials,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	AvatarHash *string `json:"avatar_hash,omitempty"`
	URL        *string `json:"url,omitempty"`
	Confirmed  *bool   `json:"confirmed,omitempty"`
	MemberType *string `json:"member_type,omitempty"`
}

func memberToJson(ctx context.Context, m *entity.Member) memberJson {
	return memberJson{
		ID:         m.ID(),
		Username:   m.Username(ctx),
		FullName:   m.FullName(ctx),
		Initials:   m.Initials(ctx),
		Bio:        m.Bio(ctx),
		AvatarHash: m.AvatarHash(ctx),
		URL:        m.URL(ctx),
		Confirmed:  m.Confirmed(ctx),
		MemberType: m.MemberType(ctx),
	}
}

type actionJson struct {
	ID              string     `json:"id"`
	Type            *string    `json:"type,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Text            *string    `json:"text,omitempty"`
	BoardID         *string    `json:"board_id,omitempty"`
	CardID          *string    `json:"card_id,omitempty"`
	MemberCreatorID *string    `json:"member_creator_id,omitempty"`
}

func actionToJson(ctx context.Context, a *entity.Action) actionJson {
	return actionJson{
		ID:              a.ID(),
		Type:            a.Type(ctx),
		Date:            a.Date(ctx),
		Text:            a.Text(ctx),
		BoardID:         a.BoardID(ctx),
		CardID:          a.CardID(ctx),
		MemberCreatorID: a.MemberCreatorID(ctx),
	}
}

type organizationJson struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
}

func organizationToJson(ctx context.Context, o *entity.Organization) organizationJson {
	return organizationJson{
		ID:          o.ID(),
		Name:        o.Name(ctx),
		DisplayName: o.DisplayName(ctx),
		Description: o.Description(ctx),
		Website:     o.Website(ctx),
	}
}

type membershipJson struct {
	ID           string                              `json:"id"`
	Organization string                              `json:"organization"`
	MemberID     *string                             `json:"member_id,omitempty"`
	MemberType   contract.OrganizationMembershipType `json:"member_type"`
	Unconfirmed  *bool                               `json:"unconfirmed,omitempty"`
	Deactivated  *bool                               `json:"deactivated,omitempty"`
}

func membershipToJson(ctx context.Context, m *entity.OrganizationMembership) membershipJson {
	return membershipJson{
		ID:           m.ID(),
		Organization: m.Owner().ID(),
		MemberID:     m.MemberID(ctx),
		MemberType:   m.MemberType(ctx),
		Unconfirmed:  m.Unconfirmed(ctx),
		Deactivated:  m.Deactivated(ctx),
	}
}

// writeJson is the result of a write command.
type writeJson struct {
	Method  string   `json:"method,omitempty"`
	Path    string   `json:"path,omitempty"`
	Params  []string `json:"params"`
	Skipped bool     `json:"skipped,omitempty"`
}

func writeToJson(r entity.FlushResult) writeJson {
	params := make([]string, 0, len(r.Sent))
	for _, p := range r.Sent {
		params = append(params, p.Name+"="+p.Value)
	}
	return writeJson{Method: r.Method, Path: r.Path, Params: params, Skipped: r.Skipped}
}

// printJson marshals the value as indented JSON and writes it to w.
func printJson(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
