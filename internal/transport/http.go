package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adlio/trello"
	"github.com/rs/zerolog"

	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/payload"
	"github.com/amterp/trellis/internal/queue"
)

// DefaultBaseURL is the public service API root.
const DefaultBaseURL = "https://api.trello.com/1"

// HTTPConfig configures an HTTP transport.
type HTTPConfig struct {
	BaseURL string
	Key     string
	Token   string
	Timeout time.Duration
}

// HTTP is a Transport backed by an adlio/trello client. Reads go through the
// client, which handles auth and request throttling. Writes reuse its base
// URL, credentials and http.Client but build the query themselves.
type HTTP struct {
	client *trello.Client
	log    zerolog.Logger
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg HTTPConfig, log zerolog.Logger) *HTTP {
	client := trello.NewClient(cfg.Key, cfg.Token)
	if cfg.BaseURL != "" {
		client.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.Client = &http.Client{Timeout: timeout}

	log = logger.WithComponent(log, "transport")
	client.Logger = logger.DebugfAdapter{Logger: log}

	return &HTTP{client: client, log: log}
}

func (h *HTTP) Get(ctx context.Context, req Request) (*payload.Envelope, error) {
	return h.do(ctx, http.MethodGet, req)
}

func (h *HTTP) Post(ctx context.Context, req Request) (*payload.Envelope, error) {
	return h.do(ctx, http.MethodPost, req)
}

func (h *HTTP) Put(ctx context.Context, req Request) (*payload.Envelope, error) {
	return h.do(ctx, http.MethodPut, req)
}

func (h *HTTP) do(ctx context.Context, method string, req Request) (*payload.Envelope, error) {
	if method != http.MethodGet {
		return h.write(ctx, method, req)
	}

	args := make(trello.Arguments, len(req.Params))
	for _, p := range req.Params {
		args[p.Name] = p.Value
	}

	var body json.RawMessage
	if err := h.client.WithContext(ctx).Get(req.Path, args, &body); err != nil {
		if trello.IsNotFound(err) {
			h.log.Debug().Str("method", method).Str("path", req.Path).Msg("not found")
			return nil, nil
		}
		return nil, &trerr.TransportError{
			Method:     method,
			Path:       req.Path,
			StatusCode: statusOf(err),
			Err:        err,
		}
	}

	h.log.Debug().Str("method", method).Str("path", req.Path).Int("bytes", len(body)).Msg("ok")
	return &payload.Envelope{StatusCode: http.StatusOK, Data: body}, nil
}

// write sends a POST or PUT with its parameters in queue order. The client's
// Arguments map would sort them, and the preferences endpoint reads name
// before value.
func (h *HTTP) write(ctx context.Context, method string, req Request) (*payload.Envelope, error) {
	fail := func(status int, err error) error {
		return &trerr.TransportError{Method: method, Path: req.Path, StatusCode: status, Err: err}
	}

	u := h.client.BaseURL + "/" + strings.TrimLeft(req.Path, "/") + "?" +
		encodeParams(req.Params, h.client.Key, h.client.Token)
	r, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fail(0, err)
	}

	resp, err := h.client.Client.Do(r)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		h.log.Debug().Str("method", method).Str("path", req.Path).Msg("not found")
		return nil, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fail(resp.StatusCode, errors.New(strings.TrimSpace(string(body))))
	}

	h.log.Debug().Str("method", method).Str("path", req.Path).Int("bytes", len(body)).
		Int("params", len(req.Params)).Msg("ok")
	return &payload.Envelope{StatusCode: resp.StatusCode, Data: json.RawMessage(body)}, nil
}

// encodeParams builds a query string from params in order, followed by the
// credentials.
func encodeParams(params []queue.Param, key, token string) string {
	var b strings.Builder
	add := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	for _, p := range params {
		add(p.Name, p.Value)
	}
	add("key", key)
	add("token", token)
	return b.String()
}

// statusOf recovers what the client error tells us about the status code.
func statusOf(err error) int {
	switch {
	case trello.IsPermissionDenied(err):
		return http.StatusUnauthorized
	case trello.IsRateLimit(err):
		return http.StatusTooManyRequests
	default:
		return 0
	}
}
