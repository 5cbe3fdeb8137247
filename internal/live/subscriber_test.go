package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/session"
)

type fakeEntity struct {
	kind    contract.Kind
	id      string
	expired atomic.Int32
}

func (f *fakeEntity) Kind() contract.Kind { return f.kind }
func (f *fakeEntity) ID() string          { return f.id }
func (f *fakeEntity) Expire()             { f.expired.Add(1) }

// socketServer upgrades every request and runs serve on the connection.
func socketServer(t *testing.T, serve func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestURL(t *testing.T) {
	u, err := URL("http://127.0.0.1:4040/1/", "k", "t")
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:4040/1/live?key=k&token=t", u)

	u, err = URL("https://api.trello.com/1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "wss://api.trello.com/1/live", u)

	_, err = URL("ftp://example.com", "", "")
	assert.Error(t, err)
}

func TestEvent_Keys(t *testing.T) {
	ev := Event{EntityID: "c1", Aliases: []string{"abc", "c1", ""}}
	assert.Equal(t, []string{"c1", "abc"}, ev.Keys())
	assert.Empty(t, Event{}.Keys())
}

func TestExpireHandler(t *testing.T) {
	tracker := session.NewTracker(logger.NewTestLogger())
	byID := &fakeEntity{kind: contract.KindCard, id: "c1"}
	byShort := &fakeEntity{kind: contract.KindCard, id: "abc"}
	other := &fakeEntity{kind: contract.KindBoard, id: "c1"}
	tracker.Track(byID)
	tracker.Track(byShort)
	tracker.Track(other)

	ExpireHandler(tracker)(Event{Kind: contract.KindCard, EntityID: "c1", Aliases: []string{"abc"}})

	assert.EqualValues(t, 1, byID.expired.Load())
	assert.EqualValues(t, 1, byShort.expired.Load())
	assert.EqualValues(t, 0, other.expired.Load())
}

func TestSubscriber_DeliversChangeEvents(t *testing.T) {
	ev := Event{ID: "e1", Action: "updateCard", Kind: contract.KindCard, EntityID: "c1"}
	change, err := ev.Encode()
	require.NoError(t, err)

	srv := socketServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected","data":{}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, change)
		// Hold the connection until the client goes away.
		conn.ReadMessage()
	})

	got := make(chan Event, 1)
	sub := NewSubscriber(Options{
		URL:     wsURL(srv),
		Handler: func(e Event) { got <- e },
		Logger:  logger.NewTestLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	select {
	case e := <-got:
		assert.Equal(t, "e1", e.ID)
		assert.Equal(t, contract.KindCard, e.Kind)
		assert.Equal(t, "c1", e.EntityID)
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestSubscriber_Reconnects(t *testing.T) {
	var connects atomic.Int32
	srv := socketServer(t, func(conn *websocket.Conn) {
		// Drop every connection straight away.
		conn.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconnected := make(chan struct{})
	sub := NewSubscriber(Options{
		URL:        wsURL(srv),
		MinBackoff: 10 * time.Millisecond,
		MaxBackoff: 20 * time.Millisecond,
		Logger:     logger.NewTestLogger(),
		OnConnect: func() {
			if connects.Add(1) == 3 {
				close(reconnected)
			}
		},
	})
	go sub.Run(ctx)

	select {
	case <-reconnected:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected 3 connects, got %d", connects.Load())
	}
}

func TestSubscriber_StopsWhileUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub := NewSubscriber(Options{URL: url, MinBackoff: 10 * time.Millisecond, Logger: logger.NewTestLogger()})
	err := sub.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
