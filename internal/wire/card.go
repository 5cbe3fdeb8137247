package wire

import "time"

// Card is the JSON form of a card.
type Card struct {
	IDField       string     `json:"id"`
	NameField     *string    `json:"name,omitempty"`
	DescField     *string    `json:"desc,omitempty"`
	ClosedField   *bool      `json:"closed,omitempty"`
	DueField      *time.Time `json:"due,omitempty"`
	ListIDField   *string    `json:"idList,omitempty"`
	BoardIDField  *string    `json:"idBoard,omitempty"`
	PosField      *float64   `json:"pos,omitempty"`
	URLField      *string    `json:"url,omitempty"`
	ShortURLField *string    `json:"shortUrl,omitempty"`
	ShortLink     string     `json:"shortLink,omitempty"`
	IDShort       int        `json:"idShort,omitempty"`
}

func (c *Card) ID() string               { return c.IDField }
func (c *Card) Name() *string            { return c.NameField }
func (c *Card) SetName(v *string)        { c.NameField = v }
func (c *Card) Description() *string     { return c.DescField }
func (c *Card) SetDescription(v *string) { c.DescField = v }
func (c *Card) Closed() *bool            { return c.ClosedField }
func (c *Card) SetClosed(v *bool)        { c.ClosedField = v }
func (c *Card) Due() *time.Time          { return c.DueField }
func (c *Card) SetDue(v *time.Time)      { c.DueField = v }
func (c *Card) ListID() *string          { return c.ListIDField }
func (c *Card) SetListID(v *string)      { c.ListIDField = v }
func (c *Card) BoardID() *string         { return c.BoardIDField }
func (c *Card) Position() *float64       { return c.PosField }
func (c *Card) SetPosition(v *float64)   { c.PosField = v }
func (c *Card) URL() *string             { return c.URLField }
func (c *Card) ShortURL() *string        { return c.ShortURLField }
func (c *Card) ShortID() int             { return c.IDShort }
