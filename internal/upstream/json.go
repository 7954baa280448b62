package upstream

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetJSON issues a GET and decodes the body as T.
func GetJSON[T any](ctx context.Context, c Client, path string) Result[T] {
	return decodeCall[T](c.Domain(), http.MethodGet, path, c.Get(ctx, path))
}

// PostJSON issues a POST with body and decodes the response as T.
func PostJSON[T any](ctx context.Context, c Client, path string, body any) Result[T] {
	return decodeCall[T](c.Domain(), http.MethodPost, path, c.Post(ctx, path, body))
}

// PutJSON issues a PUT with body and decodes the response as T.
func PutJSON[T any](ctx context.Context, c Client, path string, body any) Result[T] {
	return decodeCall[T](c.Domain(), http.MethodPut, path, c.Put(ctx, path, body))
}

// Empty is the payload of calls whose response body is ignored.
type Empty struct{}

// Send issues a write whose response body is not needed; only success matters.
func Send(ctx context.Context, c Client, method, path string, body any) Result[Empty] {
	switch method {
	case http.MethodPost:
		return Map(c.Post(ctx, path, body), discard)
	case http.MethodPut:
		return Map(c.Put(ctx, path, body), discard)
	case http.MethodDelete:
		return Map(c.Delete(ctx, path), discard)
	default:
		return Map(c.Get(ctx, path), discard)
	}
}

func discard(json.RawMessage) Empty { return Empty{} }
