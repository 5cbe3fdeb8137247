package entity

import (
	"context"
	"net/http"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/validate"
)

type orgBacking = contract.Organization

var organizationIdentity = Identity{
	Kind:        contract.KindOrganization,
	Key:         "organizations",
	Key2:        "organizations",
	WriteMethod: http.MethodPut,
}

var (
	orgName        = readPtr(orgBacking.Name)
	orgDisplayName = stringField("displayName", orgBacking.DisplayName, orgBacking.SetDisplayName).
			required().check(validate.NonEmptyString)
	orgDesc    = stringField("desc", orgBacking.Description, orgBacking.SetDescription)
	orgWebsite = stringField("website", orgBacking.Website, orgBacking.SetWebsite).check(validate.URL)
)

// Organization is a team of members.
type Organization struct {
	Expiring[orgBacking]

	memberships map[string]*OrganizationMembership
}

func NewOrganization(sess *session.Session, id string) *Organization {
	return &Organization{Expiring: newExpiring[orgBacking](sess, organizationIdentity, id, nil)}
}

// Membership returns the organization's membership with the given id.
// Repeated calls return the same entity, and expiring the organization
// expires it.
func (o *Organization) Membership(id string) *OrganizationMembership {
	if m, ok := o.memberships[id]; ok {
		return m
	}
	if o.memberships == nil {
		o.memberships = make(map[string]*OrganizationMembership)
	}
	m := newOrganizationMembership(o.sess, o, id)
	o.memberships[id] = m
	o.addChild(m)
	return m
}

func (o *Organization) Name(ctx context.Context) *string { return getField(ctx, &o.Expiring, orgName) }

func (o *Organization) DisplayName(ctx context.Context) *string {
	return getField(ctx, &o.Expiring, orgDisplayName)
}

func (o *Organization) SetDisplayName(ctx context.Context, v *string) error {
	return setField(ctx, &o.Expiring, orgDisplayName, v)
}

func (o *Organization) Description(ctx context.Context) *string {
	return getField(ctx, &o.Expiring, orgDesc)
}

func (o *Organization) SetDescription(ctx context.Context, v *string) error {
	return setField(ctx, &o.Expiring, orgDesc, v)
}

func (o *Organization) Website(ctx context.Context) *string {
	return getField(ctx, &o.Expiring, orgWebsite)
}

func (o *Organization) SetWebsite(ctx context.Context, v *string) error {
	return setField(ctx, &o.Expiring, orgWebsite, v)
}
