// Package sandbox is an in-memory stand-in for the collaboration service,
// speaking the part of its REST API that trellis uses. It backs offline
// development and integration tests.
package sandbox

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// APIPrefix is the path the API is mounted under, matching the service's
// versioned base URL.
const APIPrefix = "/1"

// Options configures a sandbox Server.
type Options struct {
	Port        int
	Credentials Credentials
	Seed        *Seed
	SiteURL     string
	Clock       func() time.Time
	Logger      zerolog.Logger
}

// Server runs the sandbox over HTTP.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	store      *Store
	hub        *Hub
}

// NewServer builds the router and state. Nothing listens until Start.
func NewServer(opts Options) *Server {
	store := NewStore(opts.Seed, opts.SiteURL, opts.Clock)
	hub := NewHub(opts.Logger)
	handler := NewHandler(store, hub, opts.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(RequestLog(opts.Logger))
	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(Auth(opts.Credentials))
		handler.Routes(r)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: r,
		store:  store,
		hub:    hub,
	}
}

// Handler returns the root handler, for mounting in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the sandbox state.
func (s *Server) Store() *Store {
	return s.store
}

// Hub returns the live event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens on the configured port. Blocks until shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l. Blocks until shutdown.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

// Shutdown gracefully stops the server. Live sockets are hijacked
// connections, so they are closed by their clients or on process exit.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
