package entity

import (
	"context"
	"net/http"
	"time"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/validate"
)

type cardBacking = contract.Card

var cardIdentity = Identity{
	Kind:        contract.KindCard,
	Key:         "cards",
	Key2:        "cards",
	WriteMethod: http.MethodPut,
}

var (
	cardName = stringField("name", cardBacking.Name, cardBacking.SetName).
			required().check(validate.NonEmptyString)
	cardDesc   = stringField("desc", cardBacking.Description, cardBacking.SetDescription)
	cardClosed = boolField("closed", cardBacking.Closed, cardBacking.SetClosed).required()
	cardDue    = timeField("due", cardBacking.Due, cardBacking.SetDue)
	cardPos    = floatField("pos", cardBacking.Position, cardBacking.SetPosition).
			required().check(validate.Position)
	cardList = stringField("idList", cardBacking.ListID, cardBacking.SetListID).
			required().check(validate.NonEmptyString)
	cardBoard    = readPtr(cardBacking.BoardID)
	cardURL      = readPtr(cardBacking.URL)
	cardShortURL = readPtr(cardBacking.ShortURL)
	cardShortID  = readField(cardBacking.ShortID)
)

// Card is a single work item. id may be the card's id or its short link.
type Card struct {
	Expiring[cardBacking]
}

func NewCard(sess *session.Session, id string) *Card {
	return &Card{Expiring: newExpiring[cardBacking](sess, cardIdentity, id, nil)}
}

func (c *Card) Name(ctx context.Context) *string { return getField(ctx, &c.Expiring, cardName) }

func (c *Card) SetName(ctx context.Context, v *string) error {
	return setField(ctx, &c.Expiring, cardName, v)
}

func (c *Card) Description(ctx context.Context) *string {
	return getField(ctx, &c.Expiring, cardDesc)
}

func (c *Card) SetDescription(ctx context.Context, v *string) error {
	return setField(ctx, &c.Expiring, cardDesc, v)
}

func (c *Card) Closed(ctx context.Context) *bool { return getField(ctx, &c.Expiring, cardClosed) }

func (c *Card) SetClosed(ctx context.Context, v *bool) error {
	return setField(ctx, &c.Expiring, cardClosed, v)
}

// Due returns the due date, or nil when the card has none.
func (c *Card) Due(ctx context.Context) *time.Time { return getField(ctx, &c.Expiring, cardDue) }

// SetDue sets the due date. nil clears it.
func (c *Card) SetDue(ctx context.Context, v *time.Time) error {
	return setField(ctx, &c.Expiring, cardDue, v)
}

func (c *Card) Position(ctx context.Context) *float64 { return getField(ctx, &c.Expiring, cardPos) }

func (c *Card) SetPosition(ctx context.Context, v *float64) error {
	return setField(ctx, &c.Expiring, cardPos, v)
}

func (c *Card) ListID(ctx context.Context) *string { return getField(ctx, &c.Expiring, cardList) }

// MoveToList moves the card to another list on its board.
func (c *Card) MoveToList(ctx context.Context, listID string) error {
	return setField(ctx, &c.Expiring, cardList, &listID)
}

func (c *Card) BoardID(ctx context.Context) *string { return getField(ctx, &c.Expiring, cardBoard) }
func (c *Card) URL(ctx context.Context) *string     { return getField(ctx, &c.Expiring, cardURL) }

func (c *Card) ShortURL(ctx context.Context) *string {
	return getField(ctx, &c.Expiring, cardShortURL)
}

// ShortID is the card's number within its board.
func (c *Card) ShortID(ctx context.Context) int { return getField(ctx, &c.Expiring, cardShortID) }
