package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/amterp/trellis/internal/contract"
)

// Expirable is an entity the tracker can invalidate.
type Expirable interface {
	Kind() contract.Kind
	ID() string
	Expire()
}

type trackKey struct {
	kind contract.Kind
	id   string
}

// Tracker indexes live entities by kind and id so remote change
// notifications can find them. Entities are tracked explicitly and held until
// untracked.
type Tracker struct {
	mu      sync.Mutex
	entries map[trackKey][]Expirable
	log     zerolog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(log zerolog.Logger) *Tracker {
	return &Tracker{entries: make(map[trackKey][]Expirable), log: log}
}

// Track registers e. Tracking the same entity twice is a no-op.
func (t *Tracker) Track(e Expirable) {
	k := trackKey{e.Kind(), e.ID()}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.entries[k] {
		if existing == e {
			return
		}
	}
	t.entries[k] = append(t.entries[k], e)
}

// Untrack removes e.
func (t *Tracker) Untrack(e Expirable) {
	k := trackKey{e.Kind(), e.ID()}
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.entries[k]
	for i, existing := range list {
		if existing == e {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(t.entries, k)
	} else {
		t.entries[k] = list
	}
}

// Len returns how many entities are tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, list := range t.entries {
		n += len(list)
	}
	return n
}

// ExpireKind expires every tracked entity matching kind and id and returns
// how many were expired.
func (t *Tracker) ExpireKind(kind contract.Kind, id string) int {
	t.mu.Lock()
	list := make([]Expirable, len(t.entries[trackKey{kind, id}]))
	copy(list, t.entries[trackKey{kind, id}])
	t.mu.Unlock()

	// Expire outside the lock; entities propagate to their children.
	for _, e := range list {
		e.Expire()
	}
	if len(list) > 0 {
		t.log.Debug().Str("kind", string(kind)).Str("id", id).Int("count", len(list)).Msg("expired")
	}
	return len(list)
}
