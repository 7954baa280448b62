package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the caller identity resolved from the bearer token.
// Token is forwarded verbatim to upstream services.
type RequestData struct {
	UserID    string
	SessionID string
	Role      string
	Token     string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
