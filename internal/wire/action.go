package wire

import "time"

// Action is the JSON form of an action. The service nests the subject of an
// action under "data".
type Action struct {
	IDField              string     `json:"id"`
	TypeField            *string    `json:"type,omitempty"`
	DateField            *time.Time `json:"date,omitempty"`
	MemberCreatorIDField *string    `json:"idMemberCreator,omitempty"`
	Data                 ActionData `json:"data"`
}

// ActionData is the subject of an action.
type ActionData struct {
	Text  *string    `json:"text,omitempty"`
	Board *EntityRef `json:"board,omitempty"`
	Card  *EntityRef `json:"card,omitempty"`
}

// EntityRef is a short reference to another entity.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (a *Action) ID() string               { return a.IDField }
func (a *Action) Type() *string            { return a.TypeField }
func (a *Action) Date() *time.Time         { return a.DateField }
func (a *Action) MemberCreatorID() *string { return a.MemberCreatorIDField }
func (a *Action) Text() *string            { return a.Data.Text }
func (a *Action) BoardID() *string         { return refID(a.Data.Board) }
func (a *Action) CardID() *string          { return refID(a.Data.Card) }

func refID(r *EntityRef) *string {
	if r == nil || r.ID == "" {
		return nil
	}
	id := r.ID
	return &id
}
