package aggregate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]bool
}

func (r *recordingObserver) ObserveUpstreamCall(view, call string, ok bool, reason string, dur time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]bool{}
	}
	r.calls[view+"/"+call] = ok
}

func okAfter[T any](v T, d time.Duration) func(ctx context.Context) upstream.Result[T] {
	return func(ctx context.Context) upstream.Result[T] {
		select {
		case <-time.After(d):
			return upstream.Success(v)
		case <-ctx.Done():
			return upstream.Fail[T](upstream.AsFailure(ctx.Err()))
		}
	}
}

func failWith[T any](status int) func(ctx context.Context) upstream.Result[T] {
	return func(ctx context.Context) upstream.Result[T] {
		return upstream.Fail[T](&upstream.CallFailure{Kind: upstream.KindStatus, StatusCode: status})
	}
}

func TestRunIssuesCallsConcurrently(t *testing.T) {
	const n = 4
	var started sync.WaitGroup
	started.Add(n)
	barrier := make(chan struct{})
	go func() {
		started.Wait()
		close(barrier)
	}()

	wait := func(ctx context.Context) upstream.Result[int] {
		started.Done()
		select {
		case <-barrier:
			return upstream.Success(1)
		case <-ctx.Done():
			return upstream.Fail[int](upstream.AsFailure(ctx.Err()))
		}
	}

	results := make([]upstream.Result[int], n)
	calls := make([]Call, n)
	for i := range calls {
		calls[i] = Bind("c", &results[i], wait)
	}
	report := Run(context.Background(), Options{View: "concurrency", CallTimeout: time.Second}, calls...)

	assert.False(t, report.Degraded(), "sequential issuing would deadlock on the barrier and time out")
	for _, r := range results {
		assert.True(t, r.OK)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	var (
		a upstream.Result[string]
		b upstream.Result[int]
		c upstream.Result[float64]
	)
	obs := &recordingObserver{}
	report := Run(context.Background(), Options{View: "overview", Observer: obs},
		Bind("a", &a, okAfter("alpha", 5*time.Millisecond)),
		Bind("b", &b, failWith[int](500)),
		Bind("c", &c, okAfter(4.6, 1*time.Millisecond)),
	)

	assert.Equal(t, "alpha", a.Or(""))
	assert.Equal(t, 0, b.Or(0))
	assert.Equal(t, 4.6, c.Or(0))
	assert.Equal(t, []string{"b"}, report.Failed())

	ob, ok := report.Outcome("b")
	require.True(t, ok)
	assert.Equal(t, "status 500", ob.Reason)
	assert.Equal(t, map[string]bool{"overview/a": true, "overview/b": false, "overview/c": true}, obs.calls)
}

func TestRunWaitsForAllCallsAfterEarlyFailure(t *testing.T) {
	var (
		fast upstream.Result[int]
		slow upstream.Result[int]
	)
	Run(context.Background(), Options{View: "wait"},
		Bind("fast", &fast, failWith[int](503)),
		Bind("slow", &slow, okAfter(42, 30*time.Millisecond)),
	)
	require.True(t, slow.OK)
	assert.Equal(t, 42, slow.Value)
	assert.False(t, fast.OK)
}

func TestRunTimesOutCallsThatIgnoreContext(t *testing.T) {
	var hung, fine upstream.Result[int]
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	report := Run(context.Background(), Options{View: "timeout", CallTimeout: 30 * time.Millisecond},
		Bind("hung", &hung, func(context.Context) upstream.Result[int] {
			<-release
			return upstream.Success(99)
		}),
		Bind("fine", &fine, okAfter(1, time.Millisecond)),
	)

	assert.Less(t, time.Since(start), time.Second)
	require.False(t, hung.OK)
	assert.Equal(t, upstream.KindTimeout, hung.Failure.Kind)
	assert.Equal(t, 0, hung.Or(0))
	assert.Equal(t, 1, fine.Or(0))
	o, _ := report.Outcome("hung")
	assert.Equal(t, "timeout", o.Reason)
}

func TestRunRecoversPanics(t *testing.T) {
	var boom, fine upstream.Result[int]
	report := Run(context.Background(), Options{View: "panic"},
		Bind("boom", &boom, func(context.Context) upstream.Result[int] { panic("kaboom") }),
		Bind("fine", &fine, okAfter(7, time.Millisecond)),
	)
	assert.False(t, boom.OK)
	assert.Equal(t, upstream.KindPanic, boom.Failure.Kind)
	assert.Equal(t, 7, fine.Value)
	assert.Equal(t, []string{"boom"}, report.Failed())
}

func TestRunRespectsMaxConcurrency(t *testing.T) {
	var inflight, peak atomic.Int32
	track := func(ctx context.Context) upstream.Result[int] {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return upstream.Success(1)
	}
	rs := make([]upstream.Result[int], 6)
	calls := make([]Call, len(rs))
	for i := range rs {
		calls[i] = Bind("t", &rs[i], track)
	}
	Run(context.Background(), Options{View: "limit", MaxConcurrency: 2}, calls...)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestBoth(t *testing.T) {
	ok := upstream.Success(1)
	bad := upstream.Fail[string](upstream.AsFailure(errors.New("down")))
	assert.True(t, Both(ok, upstream.Success("x")))
	assert.False(t, Both(ok, bad))
}
