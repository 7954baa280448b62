package reorder

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

const DefaultPersistTimeout = 10 * time.Second

// Loader fetches the current server order of a collection.
type Loader interface {
	Load(ctx context.Context, key Key) ([]Item, error)
}

// Store loads and persists collections.
type Store interface {
	Loader
	Persister
}

type Options struct {
	PersistTimeout time.Duration
	Log            *logger.Logger
}

// Registry holds the live collections of every session.
type Registry struct {
	store Store
	opts  Options

	mu        sync.Mutex
	cols      map[Key]*Collection
	observers []func(Settlement)
}

func NewRegistry(store Store, opts Options) *Registry {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = DefaultPersistTimeout
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	opts.Log = opts.Log.With("service", "ReorderRegistry")
	return &Registry{store: store, opts: opts, cols: map[Key]*Collection{}}
}

// OnSettle registers fn for every settled intent of every collection. Register
// observers before the first Open.
func (r *Registry) OnSettle(fn func(Settlement)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

func (r *Registry) dispatch(s Settlement) {
	r.mu.Lock()
	obs := append([]func(Settlement){}, r.observers...)
	r.mu.Unlock()
	for _, fn := range obs {
		fn(s)
	}
}

func (r *Registry) Get(key Key) (*Collection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cols[key]
	return c, ok
}

// Open returns the live collection for key, loading it from the store on first use.
func (r *Registry) Open(ctx context.Context, key Key) (*Collection, error) {
	if c, ok := r.Get(key); ok {
		return c, nil
	}
	items, err := r.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cols[key]; ok {
		return c, nil
	}
	c := newCollection(key, items, r.store, r.opts.PersistTimeout, r.opts.Log, r.dispatch)
	r.cols[key] = c
	return c, nil
}

// Refresh reloads a settled collection from the store. A collection with outstanding
// intents keeps its optimistic list.
func (r *Registry) Refresh(ctx context.Context, key Key) (*Collection, error) {
	c, ok := r.Get(key)
	if !ok {
		return r.Open(ctx, key)
	}
	if c.Outstanding() > 0 {
		return c, nil
	}
	items, err := r.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !c.reset(items) {
		r.opts.Log.Debug("refresh skipped; collection busy", "kind", key.Kind, "scope_id", key.ScopeID)
	}
	return c, nil
}

// Sweep drops settled collections untouched for longer than maxIdle and returns how
// many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, c := range r.cols {
		touched, idle := c.idleSince()
		if idle && touched.Before(cutoff) {
			delete(r.cols, k)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cols)
}

// StartSweeper runs Sweep every interval until ctx ends.
func (r *Registry) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := r.Sweep(maxIdle); n > 0 {
					r.opts.Log.Debug("evicted idle collections", "count", n)
				}
			}
		}
	}()
}

// Forget drops every settled collection of kind and scope across sessions so the next
// Open reloads it. Used after a create or delete changes membership.
func (r *Registry) Forget(kind Kind, scopeID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, c := range r.cols {
		if k.Kind != kind || k.ScopeID != scopeID {
			continue
		}
		if _, idle := c.idleSince(); idle {
			delete(r.cols, k)
			n++
		}
	}
	return n
}
