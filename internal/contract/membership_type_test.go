package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrganizationMembershipType(t *testing.T) {
	tests := []struct {
		in   string
		want OrganizationMembershipType
	}{
		{"admin", MembershipAdmin},
		{"Normal", MembershipNormal},
		{" observer ", MembershipObserver},
		{"ghost", MembershipGhost},
		{"superuser", MembershipUnknown},
		{"", MembershipUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrganizationMembershipType(tt.in))
		})
	}
}

func TestOrganizationMembershipType_Known(t *testing.T) {
	assert.True(t, MembershipAdmin.Known())
	assert.False(t, MembershipUnknown.Known())
	assert.False(t, OrganizationMembershipType("owner").Known())
}

func TestOrganizationMembershipType_Display(t *testing.T) {
	assert.Equal(t, "Observer", MembershipObserver.Display())
	assert.Equal(t, "Unknown", OrganizationMembershipType("owner").Display())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("card")
	assert.True(t, ok)
	assert.Equal(t, KindCard, k)

	_, ok = ParseKind("webhook")
	assert.False(t, ok)
}
