// Package entity implements the lazily refreshed, write-queued remote objects
// (boards, cards, members, ...) on top of a shared Session.
//
// Entities are not safe for concurrent use. One caller drives an entity at a
// time; the session they share is.
package entity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/endpoint"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/payload"
	"github.com/amterp/trellis/internal/queue"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/transport"
	"github.com/amterp/trellis/internal/wire"
)

// State is where an entity sits in its freshness lifecycle.
type State int

const (
	Unfetched State = iota
	Fresh
	Stale
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unfetched"
	}
}

// Identity is the static description of an entity type.
type Identity struct {
	Kind contract.Kind
	// Key is the collection segment for a standalone entity, Key2 the one
	// used under an owner.
	Key      string
	Key2     string
	ReadOnly bool
	// WriteMethod is http.MethodPost or http.MethodPut. Empty means POST.
	WriteMethod string
	// Exclusive names a parameter the queue may hold only one value of.
	// Queuing a second, different value is rejected instead of overwriting.
	Exclusive string
}

// Expirer is anything that can be invalidated by its owner.
type Expirer interface {
	Expire()
}

// Expiring is the shared base of every entity. B is the entity's contract.
type Expiring[B any] struct {
	ident Identity
	id    string
	owner endpoint.Keyed
	sess  *session.Session

	backing    B
	hasBacking bool
	refreshed  time.Time
	expired    bool

	queue    *queue.Queue
	holding  bool
	children []Expirer
	lastErr  error
	log      zerolog.Logger
}

func newExpiring[B any](sess *session.Session, ident Identity, id string, owner endpoint.Keyed) Expiring[B] {
	log := zerolog.Nop()
	if sess != nil {
		log = sess.Logger()
	}
	return Expiring[B]{
		ident: ident,
		id:    id,
		owner: owner,
		sess:  sess,
		queue: queue.New(),
		log:   log.With().Str("entity", string(ident.Kind)).Str("id", id).Logger(),
	}
}

func (e *Expiring[B]) Kind() contract.Kind   { return e.ident.Kind }
func (e *Expiring[B]) ID() string            { return e.id }
func (e *Expiring[B]) Key() string           { return e.ident.Key }
func (e *Expiring[B]) Key2() string          { return e.ident.Key2 }
func (e *Expiring[B]) Owner() endpoint.Keyed { return e.owner }
func (e *Expiring[B]) ReadOnly() bool        { return e.ident.ReadOnly }

// Session returns the session the entity was created with, which may be nil.
func (e *Expiring[B]) Session() *session.Session { return e.sess }

// LastError returns the most recent refresh or write failure, cleared by the
// next successful refresh.
func (e *Expiring[B]) LastError() error { return e.lastErr }

// RefreshedAt returns when the backing object was last replaced from the
// service. Zero if it never was.
func (e *Expiring[B]) RefreshedAt() time.Time { return e.refreshed }

// Pending returns an ordered snapshot of queued, unsent parameters.
func (e *Expiring[B]) Pending() []queue.Param { return e.queue.Params() }

// State reports the entity's freshness.
func (e *Expiring[B]) State() State {
	if e.refreshed.IsZero() {
		return Unfetched
	}
	if e.expired {
		return Stale
	}
	if f := e.freshness(); f > 0 && e.now().Sub(e.refreshed) >= f {
		return Stale
	}
	return Fresh
}

// IsStale reports whether a read would see an out-of-date value.
func (e *Expiring[B]) IsStale() bool {
	return e.State() == Stale
}

// Expire marks the entity stale, along with everything it owns.
func (e *Expiring[B]) Expire() {
	e.expired = true
	for _, c := range e.children {
		c.Expire()
	}
}

func (e *Expiring[B]) addChild(c Expirer) {
	e.children = append(e.children, c)
}

// Refresh fetches the entity. It returns false, with no error, when the
// service has no such entity or no transport is attached.
func (e *Expiring[B]) Refresh(ctx context.Context) (bool, error) {
	t, ok := e.transport()
	if !ok {
		return false, nil
	}

	ep, err := e.endpoint()
	if err != nil {
		return false, err
	}

	env, err := t.Get(ctx, transport.Request{Path: ep.String()})
	if err != nil {
		e.lastErr = err
		return false, err
	}
	if env == nil {
		e.log.Debug().Str("path", ep.String()).Msg("not found on refresh")
		e.lastErr = trerr.EntityNotFound(string(e.ident.Kind), e.id)
		return false, nil
	}

	if err := e.ApplyJSON(env); err != nil {
		e.lastErr = err
		return false, err
	}
	return true, nil
}

// ApplyJSON replaces the backing object with one materialized from raw.
// Applying an already materialized contract value stores it as is.
func (e *Expiring[B]) ApplyJSON(raw any) error {
	obj, err := payload.Materialize[B](e.registry(), e.ident.Kind, raw)
	if err != nil {
		return err
	}
	e.backing = obj
	e.hasBacking = true
	e.expired = false
	e.lastErr = nil
	e.stamp()
	return nil
}

// Post flushes the write queue in one request.
//
// Without an attached transport nothing is sent and the queue is kept.
// Otherwise the queue is emptied whether or not the write succeeds; a failed
// write returns a *WriteError, and Requeue puts its parameters back.
func (e *Expiring[B]) Post(ctx context.Context) (FlushResult, error) {
	if e.queue.Len() == 0 {
		return FlushResult{Skipped: true}, nil
	}
	t, ok := e.transport()
	if !ok {
		e.log.Debug().Int("pending", e.queue.Len()).Msg("detached, write deferred")
		return FlushResult{Skipped: true}, nil
	}

	ep, err := e.endpoint()
	if err != nil {
		return FlushResult{}, err
	}

	method := e.writeMethod()
	result := FlushResult{
		Method: method,
		Path:   ep.String(),
		Sent:   e.queue.Drain(),
	}
	req := transport.Request{Path: result.Path, Params: result.Sent}

	var env *payload.Envelope
	if method == http.MethodPut {
		env, err = t.Put(ctx, req)
	} else {
		env, err = t.Post(ctx, req)
	}
	if err != nil {
		e.lastErr = err
		e.log.Warn().Err(err).Str("method", method).Str("path", result.Path).
			Int("dropped", len(result.Sent)).Msg("write failed")
		return result, &WriteError{Entity: string(e.ident.Kind), ID: e.id, Result: result, Err: err}
	}

	if env != nil {
		if err := e.ApplyJSON(env); err != nil && !errors.Is(err, trerr.ErrEmptyPayload) {
			e.log.Warn().Err(err).Msg("ignoring unreadable write response")
		}
	}
	return result, nil
}

// Requeue puts the parameters of a failed flush back on the queue, ahead of
// anything queued since. Values queued since win. It refuses, leaving the
// queue as is, when that would overwrite a different exclusive parameter.
func (e *Expiring[B]) Requeue(result FlushResult) error {
	if err := e.checkExclusive(result.Sent); err != nil {
		return err
	}
	e.queue.Restore(result.Sent)
	return nil
}

// Batch runs fn with flushing held, so setters called from fn only queue,
// then sends everything queued in one request. If fn fails nothing is sent
// and what it queued stays pending. Inside another Batch, the outer one
// flushes.
func (e *Expiring[B]) Batch(ctx context.Context, fn func() error) (FlushResult, error) {
	held := e.holding
	e.holding = true
	err := fn()
	e.holding = held
	if err != nil {
		return FlushResult{}, err
	}
	if held {
		return FlushResult{Skipped: true}, nil
	}
	return e.Post(ctx)
}

// checkExclusive rejects params carrying a value of the exclusive parameter
// that differs from the one already queued.
func (e *Expiring[B]) checkExclusive(params []queue.Param) error {
	if e.ident.Exclusive == "" {
		return nil
	}
	v, ok := transport.ParamValue(params, e.ident.Exclusive)
	if !ok {
		return nil
	}
	if queued, found := e.queue.Get(e.ident.Exclusive); found && queued != v {
		return trerr.InvalidField(v, fmt.Sprintf("%s %q is still waiting to be sent; Post it first", e.ident.Exclusive, queued))
	}
	return nil
}

// verifyNotExpired refreshes before a read when the policy asks for it, and
// reports whether the backing object may be read. Under StaleRefetch a stale
// entity whose refresh fails or finds nothing is withheld, with the cause in
// LastError. Without a transport the last known value is served. Reads never
// fail.
func (e *Expiring[B]) verifyNotExpired(ctx context.Context) bool {
	state := e.State()
	switch state {
	case Fresh:
		return true
	case Stale:
		if e.policy() == session.StaleServe {
			return true
		}
	case Unfetched:
		if e.policy() == session.StaleServe && e.hasBacking {
			return true
		}
	}
	if _, ok := e.transport(); !ok {
		return true
	}
	ok, err := e.Refresh(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("implicit refresh failed")
	}
	return ok || state == Unfetched
}

// ensureBacking gives a never-fetched entity an empty backing object so a
// local write has somewhere to land.
func (e *Expiring[B]) ensureBacking() error {
	if e.hasBacking {
		return nil
	}
	obj, err := payload.Materialize[B](e.registry(), e.ident.Kind, "{}")
	if err != nil {
		return err
	}
	e.backing = obj
	e.hasBacking = true
	return nil
}

// stamp records a refresh time strictly after the previous one, even when the
// clock has not moved.
func (e *Expiring[B]) stamp() {
	now := e.now()
	if !now.After(e.refreshed) {
		now = e.refreshed.Add(time.Nanosecond)
	}
	e.refreshed = now
}

func (e *Expiring[B]) endpoint() (endpoint.Endpoint, error) {
	var g endpoint.Generator
	if e.sess != nil {
		g = e.sess.Generator()
	}
	return g.Generate(e.owner, e)
}

func (e *Expiring[B]) writeMethod() string {
	if e.ident.WriteMethod == "" {
		return http.MethodPost
	}
	return e.ident.WriteMethod
}

func (e *Expiring[B]) transport() (transport.Transport, bool) {
	if e.sess == nil {
		return nil, false
	}
	return e.sess.Transport()
}

func (e *Expiring[B]) registry() *payload.Registry {
	if e.sess == nil {
		return wire.NewRegistry()
	}
	return e.sess.Registry()
}

func (e *Expiring[B]) policy() session.StalePolicy {
	if e.sess == nil {
		return session.StaleRefetch
	}
	return e.sess.Policy()
}

func (e *Expiring[B]) freshness() time.Duration {
	if e.sess == nil {
		return 0
	}
	return e.sess.Freshness()
}

func (e *Expiring[B]) now() time.Time {
	if e.sess == nil {
		return time.Now()
	}
	return e.sess.Now()
}
