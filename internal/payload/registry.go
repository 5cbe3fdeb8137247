// Package payload turns opaque server responses into typed backing objects.
//
// A Registry maps each capability contract to a factory producing the
// concrete wire type for it. Callers ask for a contract and never learn which
// concrete type answered.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
)

// Factory returns a new, zero backing value implementing one contract.
// The value must be a pointer so it can be decoded into.
type Factory func() any

// Envelope is a response already wrapped by a transport.
type Envelope struct {
	StatusCode int
	Data       any
}

// Registry maps contract kinds to factories. It is built once at startup and
// is read-only afterwards.
type Registry struct {
	factories map[contract.Kind]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[contract.Kind]Factory)}
}

// Register binds a factory to a contract kind, replacing any earlier binding.
func (r *Registry) Register(kind contract.Kind, factory Factory) {
	r.factories[kind] = factory
}

// Registered reports whether kind has a factory.
func (r *Registry) Registered(kind contract.Kind) bool {
	_, ok := r.factories[kind]
	return ok
}

// Materialize builds a backing object for kind from raw.
//
// raw may be a field map, JSON bytes or string, an Envelope wrapping any of
// those, or nil. A nil or JSON-null payload returns ErrEmptyPayload.
func (r *Registry) Materialize(kind contract.Kind, raw any) (any, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, trerr.UnregisteredContract(string(kind))
	}

	data, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("materialize %s: %w", kind, err)
	}

	obj := factory()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, fmt.Errorf("materialize %s: %w", kind, err)
	}
	return obj, nil
}

// Materialize is the typed form of Registry.Materialize. If raw already
// implements T it is returned unchanged, so applying a materialized object
// again is a no-op.
func Materialize[T any](r *Registry, kind contract.Kind, raw any) (T, error) {
	var zero T
	if !r.Registered(kind) {
		return zero, trerr.UnregisteredContract(string(kind))
	}
	if typed, ok := raw.(T); ok {
		return typed, nil
	}

	obj, err := r.Materialize(kind, raw)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, &trerr.ConfigurationError{
			Subject: string(kind),
			Message: fmt.Sprintf("factory produced %T, which does not satisfy the contract", obj),
		}
	}
	return typed, nil
}

// normalize reduces every accepted raw form to JSON bytes.
func normalize(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, trerr.ErrEmptyPayload
	case *Envelope:
		if v == nil {
			return nil, trerr.ErrEmptyPayload
		}
		return normalize(v.Data)
	case Envelope:
		return normalize(v.Data)
	case json.RawMessage:
		return checkBytes(v)
	case []byte:
		return checkBytes(v)
	case string:
		return checkBytes([]byte(v))
	case map[string]any:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported payload type %T", raw)
	}
}

func checkBytes(b []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, trerr.ErrEmptyPayload
	}
	return trimmed, nil
}
