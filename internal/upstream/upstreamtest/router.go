// Package upstreamtest fakes upstream services at the RoundTripper level so tests
// exercise the real upstream.HTTPClient without network access.
package upstreamtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

// Handler answers one faked route. payload may be a string or []byte (sent raw) or any
// value (sent as JSON).
type Handler func(r *http.Request, body []byte) (status int, payload any)

type Router struct {
	mu     sync.Mutex
	routes map[string]Handler
	delays map[string]time.Duration
	calls  map[string]int
	bodies map[string][][]byte
}

func NewRouter() *Router {
	return &Router{
		routes: map[string]Handler{},
		delays: map[string]time.Duration{},
		calls:  map[string]int{},
		bodies: map[string][][]byte{},
	}
}

func key(method, path string) string { return method + " " + path }

// JSON registers a fixed response.
func (rt *Router) JSON(method, path string, status int, payload any) *Router {
	return rt.Handle(method, path, func(*http.Request, []byte) (int, any) { return status, payload })
}

func (rt *Router) Handle(method, path string, h Handler) *Router {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes[key(method, path)] = h
	return rt
}

// Delay holds the response for d, or until the request context ends.
func (rt *Router) Delay(method, path string, d time.Duration) *Router {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.delays[key(method, path)] = d
	return rt
}

// Calls reports how many requests hit method+path.
func (rt *Router) Calls(method, path string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.calls[key(method, path)]
}

// Bodies returns the request bodies received on method+path, in arrival order.
func (rt *Router) Bodies(method, path string) [][]byte {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([][]byte, len(rt.bodies[key(method, path)]))
	copy(out, rt.bodies[key(method, path)])
	return out
}

func (rt *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	k := key(req.Method, req.URL.Path)

	rt.mu.Lock()
	rt.calls[k]++
	rt.bodies[k] = append(rt.bodies[k], body)
	h, ok := rt.routes[k]
	delay := rt.delays[k]
	rt.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	status, payload := http.StatusNotFound, any(map[string]string{"error": "no route " + k})
	if ok {
		status, payload = h(req, body)
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	var raw []byte
	switch p := payload.(type) {
	case nil:
	case string:
		raw = []byte(p)
	case []byte:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("upstreamtest: marshal payload: %w", err)
		}
		raw = b
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(raw)),
		Request:    req,
	}, nil
}

// Client builds a real HTTPClient whose transport is this router.
func (rt *Router) Client(t testing.TB, domain upstream.Domain) *upstream.HTTPClient {
	t.Helper()
	c, err := upstream.NewWithHTTPClient(domain, upstream.Endpoint{
		BaseURL: "http://" + string(domain) + ".test",
		Timeout: 2 * time.Second,
	}, &http.Client{Transport: rt}, logger.Nop())
	if err != nil {
		t.Fatalf("upstreamtest: NewWithHTTPClient: %v", err)
	}
	return c
}

// Set builds typed clients for all four domains backed by routers.
func Set(t testing.TB, enrollment, course, payment, identity *Router) upstream.Set {
	t.Helper()
	return upstream.NewSet(
		enrollment.Client(t, upstream.DomainEnrollment),
		course.Client(t, upstream.DomainCourse),
		payment.Client(t, upstream.DomainPayment),
		identity.Client(t, upstream.DomainIdentity),
	)
}
