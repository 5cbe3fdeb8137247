//go:generate mockgen -destination=mock_transport.go -package=transport github.com/amterp/trellis/internal/transport Transport

// Package transport moves requests between entities and the remote service.
package transport

import (
	"context"

	"github.com/amterp/trellis/internal/payload"
	"github.com/amterp/trellis/internal/queue"
)

// Request is a single call against a relative REST path.
type Request struct {
	Path   string
	Params []queue.Param
}

// Transport executes requests. A nil envelope with a nil error means the
// resource does not exist.
type Transport interface {
	Get(ctx context.Context, req Request) (*payload.Envelope, error)
	Post(ctx context.Context, req Request) (*payload.Envelope, error)
	Put(ctx context.Context, req Request) (*payload.Envelope, error)
}

// ParamValue returns the first value for name in params.
func ParamValue(params []queue.Param, name string) (string, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
