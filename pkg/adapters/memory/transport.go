package memory

import (
	"context"
	"fmt"
	"sync"
)

// Transport is a scripted ports.CRMTransport for tests and embedded demos:
// responses are stubbed per method and path, every call is recorded.
type Transport struct {
	mu        sync.Mutex
	responses map[string]any
	err       error
	calls     []TransportCall
}

// TransportCall records one request seen by the transport.
type TransportCall struct {
	Method string
	Path   string
	Body   any
}

// NewTransport creates a transport with no stubbed responses.
func NewTransport() *Transport {
	return &Transport{responses: make(map[string]any)}
}

// Stub registers the response for a method and exact path. Returns the
// transport for chaining.
func (t *Transport) Stub(method, path string, resp any) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[method+" "+path] = resp
	return t
}

// Fail makes every subsequent call return err.
func (t *Transport) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Do implements ports.CRMTransport.
func (t *Transport) Do(ctx context.Context, method, path string, body any) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls = append(t.calls, TransportCall{Method: method, Path: path, Body: body})
	if t.err != nil {
		return nil, t.err
	}
	resp, ok := t.responses[method+" "+path]
	if !ok {
		return nil, fmt.Errorf("no stubbed response for %s %s", method, path)
	}
	return resp, nil
}

// Calls returns the recorded requests in order.
func (t *Transport) Calls() []TransportCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TransportCall(nil), t.calls...)
}
