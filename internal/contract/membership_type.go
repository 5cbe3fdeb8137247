package contract

import "strings"

// OrganizationMembershipType enumerates known organization membership types.
type OrganizationMembershipType string

const (
	// MembershipUnknown is not recognized. It may have been added to the
	// service after this version was built.
	MembershipUnknown  OrganizationMembershipType = "unknown"
	MembershipAdmin    OrganizationMembershipType = "admin"
	MembershipNormal   OrganizationMembershipType = "normal"
	MembershipObserver OrganizationMembershipType = "observer"
	// MembershipGhost is a member who was invited but has not joined yet.
	MembershipGhost OrganizationMembershipType = "ghost"
)

var membershipDisplay = map[OrganizationMembershipType]string{
	MembershipUnknown:  "Unknown",
	MembershipAdmin:    "Admin",
	MembershipNormal:   "Normal",
	MembershipObserver: "Observer",
	MembershipGhost:    "Ghost",
}

// ParseOrganizationMembershipType maps a wire value to a membership type.
// Unrecognized values map to MembershipUnknown.
func ParseOrganizationMembershipType(s string) OrganizationMembershipType {
	t := OrganizationMembershipType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := membershipDisplay[t]; ok {
		return t
	}
	return MembershipUnknown
}

// Known reports whether t is a concrete, recognized membership type.
func (t OrganizationMembershipType) Known() bool {
	_, ok := membershipDisplay[t]
	return ok && t != MembershipUnknown
}

// Display returns a human-readable label.
func (t OrganizationMembershipType) Display() string {
	if d, ok := membershipDisplay[t]; ok {
		return d
	}
	return membershipDisplay[MembershipUnknown]
}

// Wire returns the value the service expects.
func (t OrganizationMembershipType) Wire() string {
	return string(t)
}
