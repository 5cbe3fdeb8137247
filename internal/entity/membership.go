package entity

import (
	"context"
	"net/http"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/queue"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/validate"
)

type membershipBacking = contract.OrganizationMembership

var membershipIdentity = Identity{
	Kind:        contract.KindOrganizationMembership,
	Key:         "memberships",
	Key2:        "memberships",
	WriteMethod: http.MethodPut,
}

var (
	membershipType = field[membershipBacking, contract.OrganizationMembershipType]{
		name:   "type",
		get:    membershipBacking.MemberType,
		set:    membershipBacking.SetMemberType,
		isNil:  func(v contract.OrganizationMembershipType) bool { return v == "" },
		equal:  func(a, b contract.OrganizationMembershipType) bool { return a == b },
		clone:  func(v contract.OrganizationMembershipType) contract.OrganizationMembershipType { return v },
		checks: []validate.Check[contract.OrganizationMembershipType]{validate.Enumeration},
		encode: func(name string, v contract.OrganizationMembershipType) []queue.Param {
			return []queue.Param{{Name: name, Value: v.Wire()}}
		},
	}
	membershipMember      = readPtr(membershipBacking.MemberID)
	membershipUnconfirmed = readPtr(membershipBacking.Unconfirmed)
	membershipDeactivated = readPtr(membershipBacking.Deactivated)
)

// OrganizationMembership links a member to an organization. Obtain one with
// Organization.Membership.
type OrganizationMembership struct {
	Expiring[membershipBacking]
}

func newOrganizationMembership(sess *session.Session, org *Organization, id string) *OrganizationMembership {
	return &OrganizationMembership{
		Expiring: newExpiring[membershipBacking](sess, membershipIdentity, id, org),
	}
}

// MemberType returns the member's role. Roles this build does not know
// read as contract.MembershipUnknown.
func (m *OrganizationMembership) MemberType(ctx context.Context) contract.OrganizationMembershipType {
	t := getField(ctx, &m.Expiring, membershipType)
	if t == "" {
		return contract.MembershipUnknown
	}
	return t
}

func (m *OrganizationMembership) SetMemberType(ctx context.Context, v contract.OrganizationMembershipType) error {
	return setField(ctx, &m.Expiring, membershipType, v)
}

func (m *OrganizationMembership) MemberID(ctx context.Context) *string {
	return getField(ctx, &m.Expiring, membershipMember)
}

func (m *OrganizationMembership) Unconfirmed(ctx context.Context) *bool {
	return getField(ctx, &m.Expiring, membershipUnconfirmed)
}

func (m *OrganizationMembership) Deactivated(ctx context.Context) *bool {
	return getField(ctx, &m.Expiring, membershipDeactivated)
}
