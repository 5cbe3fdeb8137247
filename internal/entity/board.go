package entity

import (
	"context"
	"net/http"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/validate"
)

type boardBacking = contract.Board

var boardIdentity = Identity{
	Kind:        contract.KindBoard,
	Key:         "boards",
	Key2:        "boards",
	WriteMethod: http.MethodPut,
}

var (
	boardName = stringField("name", boardBacking.Name, boardBacking.SetName).
			required().check(validate.NonEmptyString)
	boardDesc   = stringField("desc", boardBacking.Description, boardBacking.SetDescription)
	boardClosed = boolField("closed", boardBacking.Closed, boardBacking.SetClosed).required()
	boardPinned = boolField("pinned", boardBacking.Pinned, boardBacking.SetPinned).required()
	boardURL    = readPtr(boardBacking.URL)
	boardOrgID  = readPtr(boardBacking.OrganizationID)
)

// Board is a collection of lists and cards.
type Board struct {
	Expiring[boardBacking]

	prefs *BoardPersonalPreferences
}

func NewBoard(sess *session.Session, id string) *Board {
	return &Board{Expiring: newExpiring[boardBacking](sess, boardIdentity, id, nil)}
}

// Preferences returns the current member's preferences for the board.
// Expiring the board expires them too.
func (b *Board) Preferences() *BoardPersonalPreferences {
	if b.prefs == nil {
		b.prefs = NewBoardPersonalPreferences(b.sess, b)
		b.addChild(b.prefs)
	}
	return b.prefs
}

func (b *Board) Name(ctx context.Context) *string { return getField(ctx, &b.Expiring, boardName) }

func (b *Board) SetName(ctx context.Context, v *string) error {
	return setField(ctx, &b.Expiring, boardName, v)
}

func (b *Board) Description(ctx context.Context) *string {
	return getField(ctx, &b.Expiring, boardDesc)
}

func (b *Board) SetDescription(ctx context.Context, v *string) error {
	return setField(ctx, &b.Expiring, boardDesc, v)
}

func (b *Board) Closed(ctx context.Context) *bool { return getField(ctx, &b.Expiring, boardClosed) }

func (b *Board) SetClosed(ctx context.Context, v *bool) error {
	return setField(ctx, &b.Expiring, boardClosed, v)
}

func (b *Board) Pinned(ctx context.Context) *bool { return getField(ctx, &b.Expiring, boardPinned) }

func (b *Board) SetPinned(ctx context.Context, v *bool) error {
	return setField(ctx, &b.Expiring, boardPinned, v)
}

func (b *Board) URL(ctx context.Context) *string { return getField(ctx, &b.Expiring, boardURL) }

func (b *Board) OrganizationID(ctx context.Context) *string {
	return getField(ctx, &b.Expiring, boardOrgID)
}
