package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/amterp/trellis/internal/payload"
	"github.com/amterp/trellis/internal/transport"
)

// Call is one request seen by a RecordingTransport.
type Call struct {
	Method  string
	Request transport.Request
}

// RecordingTransport records every request and answers from canned
// responses. A request with no canned response gets (nil, nil), which reads
// as not found for GET and as an empty body for writes.
type RecordingTransport struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]json.RawMessage
	err       error
}

func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{responses: make(map[string]json.RawMessage)}
}

// Respond sets the body returned for method and path.
func (r *RecordingTransport) Respond(method, path, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[method+" "+path] = json.RawMessage(body)
}

// Forget drops the canned response for method and path, so calls to it find
// nothing.
func (r *RecordingTransport) Forget(method, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.responses, method+" "+path)
}

// FailWith makes every following call return err. nil restores normal
// behaviour.
func (r *RecordingTransport) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns every recorded call, optionally filtered by method.
func (r *RecordingTransport) Calls(method ...string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if len(method) == 0 || c.Method == method[0] {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps responses.
func (r *RecordingTransport) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *RecordingTransport) Get(ctx context.Context, req transport.Request) (*payload.Envelope, error) {
	return r.handle(http.MethodGet, req)
}

func (r *RecordingTransport) Post(ctx context.Context, req transport.Request) (*payload.Envelope, error) {
	return r.handle(http.MethodPost, req)
}

func (r *RecordingTransport) Put(ctx context.Context, req transport.Request) (*payload.Envelope, error) {
	return r.handle(http.MethodPut, req)
}

func (r *RecordingTransport) handle(method string, req transport.Request) (*payload.Envelope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Method: method, Request: req})
	if r.err != nil {
		return nil, r.err
	}
	body, ok := r.responses[method+" "+req.Path]
	if !ok {
		return nil, nil
	}
	return &payload.Envelope{StatusCode: http.StatusOK, Data: body}, nil
}
