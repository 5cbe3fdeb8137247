package entity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/queue"
	"github.com/amterp/trellis/internal/session"
)

type prefsBacking = contract.BoardPersonalPreferences

var preferencesIdentity = Identity{
	Kind:        contract.KindBoardPersonalPreferences,
	Key:         "myPrefs",
	Key2:        "myPrefs",
	WriteMethod: http.MethodPost,
	Exclusive:   "name",
}

// The preferences endpoint takes one setting per request as a name/value pair.
func prefField(name string, get func(prefsBacking) *bool, set func(prefsBacking, *bool)) field[prefsBacking, *bool] {
	return boolField(name, get, set).required().encodeWith(func(name string, v *bool) []queue.Param {
		return []queue.Param{
			{Name: "name", Value: name},
			{Name: "value", Value: strconv.FormatBool(*v)},
		}
	})
}

var (
	prefShowListGuide = prefField("showListGuide",
		prefsBacking.ShowListGuide, prefsBacking.SetShowListGuide)
	prefShowSidebar = prefField("showSidebar",
		prefsBacking.ShowSidebar, prefsBacking.SetShowSidebar)
	prefShowSidebarActivity = prefField("showSidebarActivity",
		prefsBacking.ShowSidebarActivity, prefsBacking.SetShowSidebarActivity)
	prefShowSidebarBoardActions = prefField("showSidebarBoardActions",
		prefsBacking.ShowSidebarBoardActions, prefsBacking.SetShowSidebarBoardActions)
	prefShowSidebarMembers = prefField("showSidebarMembers",
		prefsBacking.ShowSidebarMembers, prefsBacking.SetShowSidebarMembers)

	prefEmailPosition = stringField("emailPosition",
		prefsBacking.EmailPosition, prefsBacking.SetEmailPosition).
		required().
		check(emailPosition).
		encodeWith(func(name string, v *string) []queue.Param {
			return []queue.Param{{Name: "name", Value: name}, {Name: "value", Value: *v}}
		})
)

func emailPosition(field string, v *string) error {
	if v != nil && *v != "top" && *v != "bottom" {
		return trerr.InvalidField(field, `must be "top" or "bottom"`)
	}
	return nil
}

// PreferenceNames lists the boolean settings SetPreference accepts.
var PreferenceNames = []string{
	"showListGuide",
	"showSidebar",
	"showSidebarActivity",
	"showSidebarBoardActions",
	"showSidebarMembers",
}

// BoardPersonalPreferences is the current member's view settings for a board.
type BoardPersonalPreferences struct {
	Expiring[prefsBacking]
}

// NewBoardPersonalPreferences creates the preferences of board. Prefer
// Board.Preferences, which keeps the result owned by the board.
func NewBoardPersonalPreferences(sess *session.Session, board *Board) *BoardPersonalPreferences {
	return &BoardPersonalPreferences{
		Expiring: newExpiring[prefsBacking](sess, preferencesIdentity, "", board),
	}
}

// ShowListGuide reports whether the list guide is expanded. It only applies
// when horizontal scrolling is enabled.
func (p *BoardPersonalPreferences) ShowListGuide(ctx context.Context) *bool {
	return getField(ctx, &p.Expiring, prefShowListGuide)
}

func (p *BoardPersonalPreferences) SetShowListGuide(ctx context.Context, v *bool) error {
	return setField(ctx, &p.Expiring, prefShowListGuide, v)
}

// ShowSidebar reports whether the sidebar is shown.
func (p *BoardPersonalPreferences) ShowSidebar(ctx context.Context) *bool {
	return getField(ctx, &p.Expiring, prefShowSidebar)
}

func (p *BoardPersonalPreferences) SetShowSidebar(ctx context.Context, v *bool) error {
	return setField(ctx, &p.Expiring, prefShowSidebar, v)
}

// ShowSidebarActivity reports whether the sidebar's activity section is shown.
func (p *BoardPersonalPreferences) ShowSidebarActivity(ctx context.Context) *bool {
	return getField(ctx, &p.Expiring, prefShowSidebarActivity)
}

func (p *BoardPersonalPreferences) SetShowSidebarActivity(ctx context.Context, v *bool) error {
	return setField(ctx, &p.Expiring, prefShowSidebarActivity, v)
}

// ShowSidebarBoardActions reports whether the sidebar's board actions
// section is shown.
func (p *BoardPersonalPreferences) ShowSidebarBoardActions(ctx context.Context) *bool {
	return getField(ctx, &p.Expiring, prefShowSidebarBoardActions)
}

func (p *BoardPersonalPreferences) SetShowSidebarBoardActions(ctx context.Context, v *bool) error {
	return setField(ctx, &p.Expiring, prefShowSidebarBoardActions, v)
}

// ShowSidebarMembers reports whether the sidebar's members section is shown.
func (p *BoardPersonalPreferences) ShowSidebarMembers(ctx context.Context) *bool {
	return getField(ctx, &p.Expiring, prefShowSidebarMembers)
}

func (p *BoardPersonalPreferences) SetShowSidebarMembers(ctx context.Context, v *bool) error {
	return setField(ctx, &p.Expiring, prefShowSidebarMembers, v)
}

// EmailPosition is where new cards created by email land: "top" or "bottom".
func (p *BoardPersonalPreferences) EmailPosition(ctx context.Context) *string {
	return getField(ctx, &p.Expiring, prefEmailPosition)
}

func (p *BoardPersonalPreferences) SetEmailPosition(ctx context.Context, v *string) error {
	return setField(ctx, &p.Expiring, prefEmailPosition, v)
}

// Preference reads a boolean setting by its wire name.
func (p *BoardPersonalPreferences) Preference(ctx context.Context, name string) (*bool, error) {
	f, err := prefByName(name)
	if err != nil {
		return nil, err
	}
	return getField(ctx, &p.Expiring, f), nil
}

// SetPreference writes a boolean setting by its wire name.
func (p *BoardPersonalPreferences) SetPreference(ctx context.Context, name string, v bool) error {
	f, err := prefByName(name)
	if err != nil {
		return err
	}
	return setField(ctx, &p.Expiring, f, &v)
}

func prefByName(name string) (field[prefsBacking, *bool], error) {
	switch name {
	case "showListGuide":
		return prefShowListGuide, nil
	case "showSidebar":
		return prefShowSidebar, nil
	case "showSidebarActivity":
		return prefShowSidebarActivity, nil
	case "showSidebarBoardActions":
		return prefShowSidebarBoardActions, nil
	case "showSidebarMembers":
		return prefShowSidebarMembers, nil
	}
	return field[prefsBacking, *bool]{}, trerr.InvalidField("preference", "unknown setting "+strconv.Quote(name))
}
