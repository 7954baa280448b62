package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type FailureKind string

const (
	KindNetwork  FailureKind = "network"
	KindStatus   FailureKind = "status"
	KindDecode   FailureKind = "decode"
	KindEncode   FailureKind = "encode"
	KindTimeout  FailureKind = "timeout"
	KindCanceled FailureKind = "canceled"
	KindPanic    FailureKind = "panic"
	KindUnknown  FailureKind = "unknown"
)

// CallFailure is a network error, non-2xx status, or undecodable body from an upstream.
// It is always returned as a value inside Result and never panics past the client.
type CallFailure struct {
	Domain     Domain
	Method     string
	Path       string
	Kind       FailureKind
	StatusCode int
	Body       string
	Err        error
}

func (f *CallFailure) Error() string {
	if f == nil {
		return "upstream call failed"
	}
	where := fmt.Sprintf("%s %s %s", f.Domain, f.Method, f.Path)
	switch {
	case f.Kind == KindStatus && f.Body != "":
		return fmt.Sprintf("upstream %s: status=%d body=%s", where, f.StatusCode, f.Body)
	case f.Kind == KindStatus:
		return fmt.Sprintf("upstream %s: status=%d", where, f.StatusCode)
	case f.Err != nil:
		return fmt.Sprintf("upstream %s: %s: %v", where, f.Kind, f.Err)
	default:
		return fmt.Sprintf("upstream %s: %s", where, f.Kind)
	}
}

func (f *CallFailure) Unwrap() error { return f.Err }

func (f *CallFailure) HTTPStatusCode() int {
	if f == nil {
		return 0
	}
	return f.StatusCode
}

// Reason renders the failure as "status 500" / "timeout" for logs and probe output.
func (f *CallFailure) Reason() string {
	if f == nil {
		return string(KindUnknown)
	}
	if f.Kind == KindStatus {
		return fmt.Sprintf("status %d", f.StatusCode)
	}
	return string(f.Kind)
}

// AsFailure wraps an arbitrary error as a CallFailure, classifying timeouts and
// cancellation. Existing CallFailures are returned as is.
func AsFailure(err error) *CallFailure {
	if err == nil {
		return nil
	}
	var cf *CallFailure
	if errors.As(err, &cf) {
		return cf
	}
	return &CallFailure{Kind: classify(err), Err: err}
}

func classify(err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// Transient reports whether repeating the call may succeed: timeouts, network errors,
// and 408, 429 or 5xx answers.
func (f *CallFailure) Transient() bool {
	if f == nil {
		return false
	}
	switch f.Kind {
	case KindTimeout, KindNetwork:
		return true
	case KindStatus:
		code := f.StatusCode
		return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
	default:
		return false
	}
}

// IsTransient reports whether err wraps a transient CallFailure or a deadline.
func IsTransient(err error) bool {
	var cf *CallFailure
	if errors.As(err, &cf) {
		return cf.Transient()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
