package upstream

import "encoding/json"

// Result is the outcome of a single upstream call. Exactly one of Value (when OK)
// or Failure (when !OK) is meaningful; a failed call never carries a partial value.
type Result[T any] struct {
	OK      bool
	Value   T
	Failure *CallFailure
}

func Success[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

func Fail[T any](f *CallFailure) Result[T] {
	return Result[T]{Failure: f}
}

// Or returns the value on success and def otherwise.
func (r Result[T]) Or(def T) T {
	if !r.OK {
		return def
	}
	return r.Value
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.OK {
		return nil
	}
	if r.Failure == nil {
		return &CallFailure{Kind: KindUnknown}
	}
	return r.Failure
}

// Reason is a short, log-friendly failure description ("" on success).
func (r Result[T]) Reason() string {
	if r.OK {
		return ""
	}
	if r.Failure == nil {
		return string(KindUnknown)
	}
	return r.Failure.Reason()
}

// Map converts a successful value; failures pass through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.OK {
		return Result[U]{Failure: r.Failure}
	}
	return Success(fn(r.Value))
}

// Decode turns a raw success into a typed one. A body that does not decode as T is a
// failure of kind decode, so callers never see a half-filled T.
func Decode[T any](r Result[json.RawMessage]) Result[T] {
	if !r.OK {
		return Result[T]{Failure: r.Failure}
	}
	var out T
	if len(r.Value) == 0 {
		return Success(out)
	}
	if err := json.Unmarshal(r.Value, &out); err != nil {
		return Result[T]{Failure: &CallFailure{Kind: KindDecode, Err: err}}
	}
	return Success(out)
}

// decodeCall is Decode for a known call; decode failures name the call they came from.
func decodeCall[T any](domain Domain, method, path string, r Result[json.RawMessage]) Result[T] {
	out := Decode[T](r)
	if f := out.Failure; f != nil && f.Domain == "" {
		f.Domain, f.Method, f.Path = domain, method, path
	}
	return out
}
