package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	DefaultMinBackoff = 500 * time.Millisecond
	DefaultMaxBackoff = 30 * time.Second

	// LivePath is the live socket path relative to the service base URL.
	LivePath = "/live"

	readLimit = 64 * 1024
	pongWait  = 60 * time.Second
)

// URL builds the live socket URL for a service base URL, carrying the
// credentials as query params the way every other request does.
func URL(baseURL, key, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + LivePath)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in %s", u.Scheme, baseURL)
	}
	q := u.Query()
	if key != "" {
		q.Set("key", key)
	}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Options configures a Subscriber.
type Options struct {
	URL        string
	Handler    func(Event)
	Dialer     *websocket.Dialer
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Logger     zerolog.Logger
	// OnConnect is called after each successful dial.
	OnConnect func()
}

// Subscriber reads change events from the live socket and hands each one to
// its handler. The handler runs on the subscriber's goroutine.
type Subscriber struct {
	opts Options
	log  zerolog.Logger
}

// NewSubscriber creates a subscriber. Run starts it.
func NewSubscriber(opts Options) *Subscriber {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = DefaultMinBackoff
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = DefaultMaxBackoff
		if opts.MaxBackoff < opts.MinBackoff {
			opts.MaxBackoff = opts.MinBackoff
		}
	}
	if opts.Handler == nil {
		opts.Handler = func(Event) {}
	}
	return &Subscriber{opts: opts, log: opts.Logger}
}

// Run connects and reads until ctx is cancelled, reconnecting with
// exponential backoff. It always returns ctx.Err().
func (s *Subscriber) Run(ctx context.Context) error {
	backoff := s.opts.MinBackoff
	for {
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = s.opts.MinBackoff
		}
		s.log.Warn().Err(err).Dur("retry_in", backoff).Msg("live connection lost")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if backoff > s.opts.MaxBackoff {
			backoff = s.opts.MaxBackoff
		}
	}
}

// session runs one connection. connected reports whether the dial succeeded.
func (s *Subscriber) session(ctx context.Context) (connected bool, err error) {
	conn, _, err := s.opts.Dialer.DialContext(ctx, s.opts.URL, nil)
	if err != nil {
		return false, err
	}
	s.log.Debug().Msg("live connected")
	if s.opts.OnConnect != nil {
		s.opts.OnConnect()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		s.handle(data)
	}
}

func (s *Subscriber) handle(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed live message")
		return
	}
	if msg.Type != MessageChange {
		return
	}

	var ev Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed change event")
		return
	}
	if ev.Kind == "" || len(ev.Keys()) == 0 {
		return
	}
	s.log.Debug().Str("event", ev.ID).Str("kind", string(ev.Kind)).Str("entity", ev.EntityID).Msg("change")
	s.opts.Handler(ev)
}
