// Package live streams remote change events and expires the cached entities
// they name.
package live

import (
	"encoding/json"
	"time"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/session"
)

// Message types sent on the live socket.
const (
	MessageConnected = "connected"
	MessageChange    = "change"
)

// Message is one frame on the live socket.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event reports that an entity changed remotely. Aliases are other ids the
// entity answers to, such as a card's short link or a member's username.
type Event struct {
	ID       string        `json:"id"`
	Action   string        `json:"action"`
	Kind     contract.Kind `json:"kind"`
	EntityID string        `json:"entityId"`
	Aliases  []string      `json:"aliases,omitempty"`
	At       time.Time     `json:"at"`
}

// Keys returns the entity id followed by its aliases.
func (e Event) Keys() []string {
	keys := make([]string, 0, 1+len(e.Aliases))
	if e.EntityID != "" {
		keys = append(keys, e.EntityID)
	}
	for _, a := range e.Aliases {
		if a != "" && a != e.EntityID {
			keys = append(keys, a)
		}
	}
	return keys
}

// Encode wraps e in a change message.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: MessageChange, Data: data})
}

// ExpireHandler returns a handler that expires every entity tracker holds
// under the event's kind and any of its keys.
func ExpireHandler(tracker *session.Tracker) func(Event) {
	return func(ev Event) {
		for _, key := range ev.Keys() {
			tracker.ExpireKind(ev.Kind, key)
		}
	}
}
