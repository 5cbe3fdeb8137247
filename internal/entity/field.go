package entity

import (
	"context"
	"strconv"
	"time"

	"github.com/amterp/trellis/internal/queue"
	"github.com/amterp/trellis/internal/validate"
)

// field describes one property of a backing object: how to read and write
// it, what values it accepts, and how it goes over the wire.
type field[B, V any] struct {
	name     string
	nullable bool
	get      func(B) V
	set      func(B, V)
	isNil    func(V) bool
	equal    func(a, b V) bool
	clone    func(V) V
	encode   func(name string, v V) []queue.Param
	checks   []validate.Check[V]
}

func (f field[B, V]) required() field[B, V] {
	f.nullable = false
	return f
}

func (f field[B, V]) check(checks ...validate.Check[V]) field[B, V] {
	f.checks = append(append([]validate.Check[V]{}, f.checks...), checks...)
	return f
}

func (f field[B, V]) encodeWith(encode func(name string, v V) []queue.Param) field[B, V] {
	f.encode = encode
	return f
}

func ptrField[B any, T comparable](name string, get func(B) *T, set func(B, *T), format func(T) string) field[B, *T] {
	return field[B, *T]{
		name:     name,
		nullable: true,
		get:      get,
		set:      set,
		isNil:    func(v *T) bool { return v == nil },
		equal: func(a, b *T) bool {
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		},
		clone: clonePtr[T],
		encode: func(name string, v *T) []queue.Param {
			if v == nil {
				return []queue.Param{{Name: name, Value: "null"}}
			}
			return []queue.Param{{Name: name, Value: format(*v)}}
		},
	}
}

func boolField[B any](name string, get func(B) *bool, set func(B, *bool)) field[B, *bool] {
	return ptrField(name, get, set, strconv.FormatBool)
}

// stringField clears with an empty string rather than null.
func stringField[B any](name string, get func(B) *string, set func(B, *string)) field[B, *string] {
	f := ptrField(name, get, set, func(s string) string { return s })
	return f.encodeWith(func(name string, v *string) []queue.Param {
		if v == nil {
			return []queue.Param{{Name: name, Value: ""}}
		}
		return []queue.Param{{Name: name, Value: *v}}
	})
}

func floatField[B any](name string, get func(B) *float64, set func(B, *float64)) field[B, *float64] {
	return ptrField(name, get, set, func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
}

func timeField[B any](name string, get func(B) *time.Time, set func(B, *time.Time)) field[B, *time.Time] {
	f := ptrField(name, get, set, func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	})
	f.equal = func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Equal(*b)
	}
	return f
}

// readField is a value field with no write path.
func readField[B, V any](get func(B) V) field[B, V] {
	return field[B, V]{get: get, clone: func(v V) V { return v }}
}

// readPtr is a pointer field with no write path. Reads return copies.
func readPtr[B, T any](get func(B) *T) field[B, *T] {
	return field[B, *T]{get: get, clone: clonePtr[T]}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// getField reads a field, refreshing first if the entity's policy requires
// it. It returns the zero value when there is no backing object, or when a
// stale one could not be refetched.
func getField[B, V any](ctx context.Context, e *Expiring[B], f field[B, V]) V {
	if !e.verifyNotExpired(ctx) || !e.hasBacking {
		var zero V
		return zero
	}
	return f.clone(f.get(e.backing))
}

// setField is the only write path into a backing object. It validates,
// suppresses writes of an unchanged value, mutates the backing object,
// queues the wire parameters and flushes.
func setField[B, V any](ctx context.Context, e *Expiring[B], f field[B, V], v V) error {
	if err := validate.Writable(e.sess != nil, e.ident.ReadOnly, string(e.ident.Kind)); err != nil {
		return err
	}
	if err := validate.Nullable(f.name, f.nullable, f.isNil(v)); err != nil {
		return err
	}
	if err := validate.All(f.name, v, f.checks...); err != nil {
		return err
	}

	// Compare against what a read would return now.
	e.verifyNotExpired(ctx)
	if err := e.ensureBacking(); err != nil {
		return err
	}
	if f.equal(f.get(e.backing), v) {
		return nil
	}

	params := f.encode(f.name, v)
	if err := e.checkExclusive(params); err != nil {
		return err
	}

	f.set(e.backing, f.clone(v))
	for _, p := range params {
		e.queue.Set(p.Name, p.Value)
	}

	if e.holding {
		return nil
	}
	_, err := e.Post(ctx)
	return err
}
