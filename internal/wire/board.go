package wire

// Board is the JSON form of a board.
type Board struct {
	IDField             string  `json:"id"`
	NameField           *string `json:"name,omitempty"`
	DescField           *string `json:"desc,omitempty"`
	ClosedField         *bool   `json:"closed,omitempty"`
	PinnedField         *bool   `json:"pinned,omitempty"`
	URLField            *string `json:"url,omitempty"`
	OrganizationIDField *string `json:"idOrganization,omitempty"`
}

func (b *Board) ID() string               { return b.IDField }
func (b *Board) Name() *string            { return b.NameField }
func (b *Board) SetName(v *string)        { b.NameField = v }
func (b *Board) Description() *string     { return b.DescField }
func (b *Board) SetDescription(v *string) { b.DescField = v }
func (b *Board) Closed() *bool            { return b.ClosedField }
func (b *Board) SetClosed(v *bool)        { b.ClosedField = v }
func (b *Board) Pinned() *bool            { return b.PinnedField }
func (b *Board) SetPinned(v *bool)        { b.PinnedField = v }
func (b *Board) URL() *string             { return b.URLField }
func (b *Board) OrganizationID() *string  { return b.OrganizationIDField }
