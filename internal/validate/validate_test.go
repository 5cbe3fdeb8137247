package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
)

func ptr[T any](v T) *T { return &v }

func TestWritable(t *testing.T) {
	require.NoError(t, Writable(true, false, "card"))

	err := Writable(false, false, "card")
	require.Error(t, err)
	assert.True(t, trerr.IsPermissionError(err))
	assert.Contains(t, err.Error(), "no service session attached")

	err = Writable(true, true, "action")
	require.Error(t, err)
	assert.True(t, trerr.IsPermissionError(err))
	assert.Contains(t, err.Error(), "read-only")

	err = Writable(false, true, "action")
	assert.Contains(t, err.Error(), "read-only")
}

func TestNullable(t *testing.T) {
	assert.NoError(t, Nullable("showSidebar", true, true))
	assert.NoError(t, Nullable("name", false, false))

	err := Nullable("name", false, true)
	require.Error(t, err)
	assert.True(t, trerr.IsValidationError(err))
}

func TestNonEmptyString(t *testing.T) {
	tests := []struct {
		name    string
		value   *string
		wantErr bool
	}{
		{"nil", nil, false},
		{"text", ptr("Roadmap"), false},
		{"empty", ptr(""), true},
		{"whitespace", ptr("   "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NonEmptyString("name", tt.value)
			if tt.wantErr {
				assert.True(t, trerr.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStringLength(t *testing.T) {
	initials := StringLength(1, 4)

	assert.NoError(t, initials("initials", nil))
	assert.NoError(t, initials("initials", ptr("AL")))
	assert.NoError(t, initials("initials", ptr("ÄÖÜß")))
	assert.Error(t, initials("initials", ptr("")))
	assert.Error(t, initials("initials", ptr("ABCDE")))

	unbounded := StringLength(0, 0)
	assert.NoError(t, unbounded("bio", ptr(string(make([]byte, 10000)))))
}

func TestEnumeration(t *testing.T) {
	assert.NoError(t, Enumeration("type", contract.MembershipAdmin))
	assert.NoError(t, Enumeration("type", contract.MembershipGhost))
	assert.Error(t, Enumeration("type", contract.MembershipUnknown))
	assert.Error(t, Enumeration("type", contract.OrganizationMembershipType("superuser")))
}

func TestPosition(t *testing.T) {
	assert.NoError(t, Position("pos", nil))
	assert.NoError(t, Position("pos", ptr(16384.0)))
	assert.Error(t, Position("pos", ptr(0.0)))
	assert.Error(t, Position("pos", ptr(-1.0)))
	assert.Error(t, Position("pos", ptr(math.NaN())))
	assert.Error(t, Position("pos", ptr(math.Inf(1))))
}

func TestURL(t *testing.T) {
	assert.NoError(t, URL("website", nil))
	assert.NoError(t, URL("website", ptr("")))
	assert.NoError(t, URL("website", ptr("https://example.com/team")))
	assert.Error(t, URL("website", ptr("example.com")))
	assert.Error(t, URL("website", ptr("ftp://example.com")))
	assert.Error(t, URL("website", ptr("https://")))
}

func TestAll_StopsAtFirstFailure(t *testing.T) {
	calls := 0
	counting := func(field string, v *string) error {
		calls++
		return nil
	}

	err := All[*string]("name", ptr(""), NonEmptyString, counting)
	require.Error(t, err)
	assert.Equal(t, 0, calls)

	require.NoError(t, All[*string]("name", ptr("ok"), NonEmptyString, counting))
	assert.Equal(t, 1, calls)
}
