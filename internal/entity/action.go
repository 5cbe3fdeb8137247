package entity

import (
	"context"
	"time"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
)

type actionBacking = contract.Action

var actionIdentity = Identity{
	Kind:     contract.KindAction,
	Key:      "actions",
	Key2:     "actions",
	ReadOnly: true,
}

var (
	actionType    = readPtr(actionBacking.Type)
	actionDate    = readPtr(actionBacking.Date)
	actionCreator = readPtr(actionBacking.MemberCreatorID)
	actionText    = readPtr(actionBacking.Text)
	actionBoard   = readPtr(actionBacking.BoardID)
	actionCard    = readPtr(actionBacking.CardID)
)

// Action is an immutable record of something a member did.
type Action struct {
	Expiring[actionBacking]
}

func NewAction(sess *session.Session, id string) *Action {
	return &Action{Expiring: newExpiring[actionBacking](sess, actionIdentity, id, nil)}
}

func (a *Action) Type(ctx context.Context) *string    { return getField(ctx, &a.Expiring, actionType) }
func (a *Action) Date(ctx context.Context) *time.Time { return getField(ctx, &a.Expiring, actionDate) }
func (a *Action) Text(ctx context.Context) *string    { return getField(ctx, &a.Expiring, actionText) }
func (a *Action) BoardID(ctx context.Context) *string { return getField(ctx, &a.Expiring, actionBoard) }
func (a *Action) CardID(ctx context.Context) *string  { return getField(ctx, &a.Expiring, actionCard) }

func (a *Action) MemberCreatorID(ctx context.Context) *string {
	return getField(ctx, &a.Expiring, actionCreator)
}
