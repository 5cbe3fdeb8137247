package wire

// Member is the JSON form of a member.
type Member struct {
	IDField         string  `json:"id"`
	UsernameField   *string `json:"username,omitempty"`
	FullNameField   *string `json:"fullName,omitempty"`
	InitialsField   *string `json:"initials,omitempty"`
	BioField        *string `json:"bio,omitempty"`
	AvatarHashField *string `json:"avatarHash,omitempty"`
	URLField        *string `json:"url,omitempty"`
	ConfirmedField  *bool   `json:"confirmed,omitempty"`
	MemberTypeField *string `json:"memberType,omitempty"`
}

func (m *Member) ID() string            { return m.IDField }
func (m *Member) Username() *string     { return m.UsernameField }
func (m *Member) FullName() *string     { return m.FullNameField }
func (m *Member) SetFullName(v *string) { m.FullNameField = v }
func (m *Member) Initials() *string     { return m.InitialsField }
func (m *Member) SetInitials(v *string) { m.InitialsField = v }
func (m *Member) Bio() *string          { return m.BioField }
func (m *Member) SetBio(v *string)      { m.BioField = v }
func (m *Member) AvatarHash() *string   { return m.AvatarHashField }
func (m *Member) URL() *string          { return m.URLField }
func (m *Member) Confirmed() *bool      { return m.ConfirmedField }
func (m *Member) MemberType() *string   { return m.MemberTypeField }
