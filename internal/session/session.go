// Package session holds the service reference shared by every entity.
//
// A Session is constructed once and injected into entities. Attaching a
// transport makes the session live; detaching it turns every write into a
// no-op and every refresh into a miss.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amterp/trellis/internal/endpoint"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/payload"
	"github.com/amterp/trellis/internal/transport"
	"github.com/amterp/trellis/internal/wire"
)

// StalePolicy decides what a read does when the cached value is stale.
type StalePolicy string

const (
	// StaleRefetch refreshes synchronously before returning.
	StaleRefetch StalePolicy = "refetch"
	// StaleServe returns the last known value and leaves refreshing to the caller.
	StaleServe StalePolicy = "serve-stale"
)

// DefaultFreshness is how long a fetched entity stays fresh.
const DefaultFreshness = 30 * time.Second

// ParseStalePolicy maps a config value to a policy. Empty means StaleRefetch.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch StalePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StaleRefetch:
		return StaleRefetch, nil
	case StaleServe:
		return StaleServe, nil
	default:
		return "", &trerr.ConfigurationError{
			Subject: "stale_policy",
			Message: fmt.Sprintf("unknown policy %q (want %q or %q)", s, StaleRefetch, StaleServe),
		}
	}
}

// Options configures a Session. Zero values get defaults.
type Options struct {
	Transport transport.Transport
	Registry  *payload.Registry
	// Freshness of zero means entities never go stale by time alone.
	Freshness time.Duration
	Policy    StalePolicy
	Clock     func() time.Time
	Logger    zerolog.Logger
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	transport transport.Transport

	registry  *payload.Registry
	generator endpoint.Generator
	freshness time.Duration
	policy    StalePolicy
	clock     func() time.Time
	log       zerolog.Logger
	tracker   *Tracker
}

// New creates a session. It is attached iff opts.Transport is non-nil.
func New(opts Options) *Session {
	registry := opts.Registry
	if registry == nil {
		registry = wire.NewRegistry()
	}
	policy := opts.Policy
	if policy == "" {
		policy = StaleRefetch
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	log := logger.WithComponent(opts.Logger, "session")

	return &Session{
		transport: opts.Transport,
		registry:  registry,
		freshness: opts.Freshness,
		policy:    policy,
		clock:     clock,
		log:       log,
		tracker:   NewTracker(log),
	}
}

// Attach makes t the live transport.
func (s *Session) Attach(t transport.Transport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport = t
	s.log.Debug().Msg("attached")
}

// Detach drops the transport. Queued writes stay queued.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport = nil
	s.log.Debug().Msg("detached")
}

// Attached reports whether a transport is live.
func (s *Session) Attached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport != nil
}

// Transport returns the live transport, if any.
func (s *Session) Transport() (transport.Transport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport, s.transport != nil
}

func (s *Session) Registry() *payload.Registry   { return s.registry }
func (s *Session) Generator() endpoint.Generator { return s.generator }
func (s *Session) Freshness() time.Duration      { return s.freshness }
func (s *Session) Policy() StalePolicy           { return s.policy }
func (s *Session) Now() time.Time                { return s.clock() }
func (s *Session) Logger() zerolog.Logger        { return s.log }
func (s *Session) Tracker() *Tracker             { return s.tracker }
