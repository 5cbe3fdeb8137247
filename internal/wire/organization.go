package wire

import "github.com/amterp/trellis/internal/contract"

// Organization is the JSON form of an organization.
type Organization struct {
	IDField          string  `json:"id"`
	NameField        *string `json:"name,omitempty"`
	DisplayNameField *string `json:"displayName,omitempty"`
	DescField        *string `json:"desc,omitempty"`
	WebsiteField     *string `json:"website,omitempty"`
}

func (o *Organization) ID() string               { return o.IDField }
func (o *Organization) Name() *string            { return o.NameField }
func (o *Organization) DisplayName() *string     { return o.DisplayNameField }
func (o *Organization) SetDisplayName(v *string) { o.DisplayNameField = v }
func (o *Organization) Description() *string     { return o.DescField }
func (o *Organization) SetDescription(v *string) { o.DescField = v }
func (o *Organization) Website() *string         { return o.WebsiteField }
func (o *Organization) SetWebsite(v *string)     { o.WebsiteField = v }

// OrganizationMembership is the JSON form of an organization membership.
type OrganizationMembership struct {
	IDField          string  `json:"id"`
	MemberIDField    *string `json:"idMember,omitempty"`
	MemberTypeField  string  `json:"memberType,omitempty"`
	UnconfirmedField *bool   `json:"unconfirmed,omitempty"`
	DeactivatedField *bool   `json:"deactivated,omitempty"`
}

func (m *OrganizationMembership) ID() string        { return m.IDField }
func (m *OrganizationMembership) MemberID() *string { return m.MemberIDField }

// MemberType returns MembershipUnknown for values this build does not know.
func (m *OrganizationMembership) MemberType() contract.OrganizationMembershipType {
	return contract.ParseOrganizationMembershipType(m.MemberTypeField)
}

func (m *OrganizationMembership) SetMemberType(v contract.OrganizationMembershipType) {
	m.MemberTypeField = v.Wire()
}

func (m *OrganizationMembership) Unconfirmed() *bool { return m.UnconfirmedField }
func (m *OrganizationMembership) Deactivated() *bool { return m.DeactivatedField }
