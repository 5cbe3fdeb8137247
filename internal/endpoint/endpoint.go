// Package endpoint maps an entity's identity (and its owner's) to a REST path.
package endpoint

import (
	"net/url"
	"strings"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
)

// Keyed is anything with a REST identity.
type Keyed interface {
	Kind() contract.Kind
	ID() string
	// Key is the collection segment when the entity stands alone.
	Key() string
	// Key2 is the collection segment when the entity sits under an owner.
	Key2() string
}

// Endpoint is a resolved, relative REST path.
type Endpoint struct {
	Segments []string
}

// String joins the escaped segments with '/'.
func (e Endpoint) String() string {
	escaped := make([]string, len(e.Segments))
	for i, s := range e.Segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// Generator resolves endpoints. The zero value is ready to use.
type Generator struct{}

// Generate returns the endpoint for target, nested under owner when owner is
// non-nil. The result depends only on the two identities.
func (Generator) Generate(owner, target Keyed) (Endpoint, error) {
	if target == nil {
		return Endpoint{}, &trerr.ConfigurationError{Subject: "endpoint", Message: "no target entity"}
	}

	if owner == nil {
		if target.Key() == "" {
			return Endpoint{}, missingKey(target)
		}
		segs := []string{target.Key()}
		if id := target.ID(); id != "" {
			segs = append(segs, id)
		}
		return Endpoint{Segments: segs}, nil
	}

	if owner.Key() == "" {
		return Endpoint{}, missingKey(owner)
	}
	if owner.ID() == "" {
		return Endpoint{}, &trerr.ConfigurationError{
			Subject: string(target.Kind()),
			Message: "owner " + string(owner.Kind()) + " has no id",
		}
	}
	if target.Key2() == "" {
		return Endpoint{}, missingKey(target)
	}

	segs := []string{owner.Key(), owner.ID(), target.Key2()}
	if id := target.ID(); id != "" {
		segs = append(segs, id)
	}
	return Endpoint{Segments: segs}, nil
}

func missingKey(k Keyed) error {
	return &trerr.ConfigurationError{Subject: string(k.Kind()), Message: "no endpoint key"}
}
