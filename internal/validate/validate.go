// Package validate holds the checks every entity setter runs before it
// mutates anything. All functions are pure.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
)

// Check tests a single proposed field value.
type Check[T any] func(field string, v T) error

// Writable fails when the entity has no live session or cannot be written.
// Read-only wins over detached since it holds regardless of session state.
func Writable(attached, readOnly bool, entity string) error {
	if readOnly {
		return trerr.ReadOnly(entity)
	}
	if !attached {
		return trerr.Detached(entity)
	}
	return nil
}

// Nullable fails when a non-nullable field is given no value.
func Nullable(field string, nullable, isNil bool) error {
	if isNil && !nullable {
		return trerr.InvalidField(field, "value is required")
	}
	return nil
}

// NonEmptyString rejects blank strings. A nil value is left to Nullable.
func NonEmptyString(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return trerr.InvalidField(field, "must not be empty")
	}
	return nil
}

// StringLength bounds the rune count of a string. max <= 0 means unbounded.
func StringLength(min, max int) Check[*string] {
	return func(field string, v *string) error {
		if v == nil {
			return nil
		}
		n := utf8.RuneCountInString(*v)
		if n < min {
			return trerr.InvalidField(field, fmt.Sprintf("must be at least %d characters", min))
		}
		if max > 0 && n > max {
			return trerr.InvalidField(field, fmt.Sprintf("must be at most %d characters", max))
		}
		return nil
	}
}

// Enumeration accepts only concrete, recognized membership types.
func Enumeration(field string, v contract.OrganizationMembershipType) error {
	if !v.Known() {
		return trerr.InvalidField(field, fmt.Sprintf("unknown value %q", string(v)))
	}
	return nil
}

// Position accepts finite, positive card positions.
func Position(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return trerr.InvalidField(field, "must be a positive number")
	}
	return nil
}

// URL accepts absolute http and https URLs. An empty string clears the field.
func URL(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	u, err := url.Parse(*v)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return trerr.InvalidField(field, "must be an absolute http(s) URL")
	}
	return nil
}

// All runs checks in order and returns the first failure.
func All[T any](field string, v T, checks ...Check[T]) error {
	for _, check := range checks {
		if err := check(field, v); err != nil {
			return err
		}
	}
	return nil
}
