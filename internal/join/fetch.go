package join

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FetchEach resolves a value per key with at most limit lookups in flight and returns
// the hits as a Lookup. fn reports ok=false for a miss or a failed lookup; neither
// aborts the other keys.
func FetchEach[K comparable, V any](ctx context.Context, source string, limit int, keys []K, fn func(ctx context.Context, k K) (V, bool)) *Lookup[K, V] {
	if limit <= 0 {
		limit = 8
	}
	var (
		mu  sync.Mutex
		out = make(map[K]V, len(keys))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, k := range keys {
		k := k
		g.Go(func() error {
			v, ok := fn(gctx, k)
			if !ok {
				return nil
			}
			mu.Lock()
			out[k] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return FromMap(source, out)
}
