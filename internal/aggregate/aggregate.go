package aggregate

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const DefaultCallTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/yungbote/neurobridge-dashboard/internal/aggregate")

// Observer receives one notification per settled call.
type Observer interface {
	ObserveUpstreamCall(view, call string, ok bool, reason string, dur time.Duration)
}

type Options struct {
	View        string
	CallTimeout time.Duration
	// MaxConcurrency caps in-flight calls; 0 means all at once.
	MaxConcurrency int
	Log            *logger.Logger
	Observer       Observer
}

// Call is one named upstream request inside a view. Build it with Bind.
type Call struct {
	Name string

	run    func(ctx context.Context) (commit func(), failure *upstream.CallFailure)
	onFail func(f *upstream.CallFailure)
}

// Bind declares a call whose settled result is stored in dst once every call of the
// view has settled. Timeouts and panics store a failed result.
func Bind[T any](name string, dst *upstream.Result[T], fn func(ctx context.Context) upstream.Result[T]) Call {
	return Call{
		Name: name,
		run: func(ctx context.Context) (func(), *upstream.CallFailure) {
			r := fn(ctx)
			var f *upstream.CallFailure
			if !r.OK {
				f = r.Failure
				if f == nil {
					f = &upstream.CallFailure{Kind: upstream.KindUnknown}
				}
			}
			return func() { *dst = r }, f
		},
		onFail: func(f *upstream.CallFailure) { *dst = upstream.Fail[T](f) },
	}
}

type Outcome struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"durationMs"`
}

// Report lists every call of a view in declaration order.
type Report struct {
	View     string        `json:"view"`
	Outcomes []Outcome     `json:"outcomes"`
	Duration time.Duration `json:"durationMs"`
}

func (r Report) Failed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if !o.OK {
			out = append(out, o.Name)
		}
	}
	return out
}

// Degraded reports whether any field of the view fell back to its default.
func (r Report) Degraded() bool { return len(r.Failed()) > 0 }

func (r Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

type settled struct {
	outcome Outcome
	commit  func()
}

// Run issues every call concurrently, waits for all of them to settle, then commits
// their results. It never returns an error: failures are logged, observed and
// recorded in the Report while the caller applies per-field defaults.
func Run(ctx context.Context, opts Options, calls ...Call) Report {
	ctx = ctxutil.Default(ctx)
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	ctx, span := tracer.Start(ctx, "aggregate."+opts.View, trace.WithAttributes(
		attribute.String("dashboard.view", opts.View),
		attribute.Int("dashboard.calls", len(calls)),
	))
	defer span.End()

	start := time.Now()
	results := make([]settled, len(calls))

	var g errgroup.Group
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}
	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			results[i] = runOne(ctx, timeout, c)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{View: opts.View, Outcomes: make([]Outcome, 0, len(calls)), Duration: time.Since(start)}
	for _, s := range results {
		s.commit()
		o := s.outcome
		report.Outcomes = append(report.Outcomes, o)
		if opts.Observer != nil {
			opts.Observer.ObserveUpstreamCall(opts.View, o.Name, o.OK, o.Reason, o.Duration)
		}
		if !o.OK {
			span.AddEvent("upstream call failed", trace.WithAttributes(
				attribute.String("call", o.Name),
				attribute.String("reason", o.Reason),
			))
			log.Warn("upstream call failed; using defaults",
				"view", opts.View,
				"call", o.Name,
				"reason", o.Reason,
				"duration_ms", o.Duration.Milliseconds(),
				"request_id", ctxutil.RequestID(ctx),
			)
		}
	}
	if failed := report.Failed(); len(failed) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d calls failed", len(failed), len(calls)))
	}
	return report
}

func runOne(ctx context.Context, timeout time.Duration, c Call) settled {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	callCtx, span := tracer.Start(callCtx, "upstream."+c.Name)
	defer span.End()

	type result struct {
		commit  func()
		failure *upstream.CallFailure
	}
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{failure: &upstream.CallFailure{Kind: upstream.KindPanic, Err: fmt.Errorf("panic: %v", rec)}}
			}
		}()
		commit, f := c.run(callCtx)
		done <- result{commit: commit, failure: f}
	}()

	var r result
	select {
	case r = <-done:
	case <-callCtx.Done():
		// The call ignored its context; abandon it. Its late result is never committed.
		r = result{failure: upstream.AsFailure(callCtx.Err())}
	}

	o := Outcome{Name: c.Name, OK: r.failure == nil, Duration: time.Since(start)}
	commit := r.commit
	if r.failure != nil {
		o.Reason = r.failure.Reason()
		span.SetStatus(codes.Error, o.Reason)
		f := r.failure
		commit = func() { c.onFail(f) }
	}
	if commit == nil {
		commit = func() {}
	}
	return settled{outcome: o, commit: commit}
}

// Both reports whether both sides of a hard-dependency join succeeded.
func Both[A, B any](a upstream.Result[A], b upstream.Result[B]) bool {
	return a.OK && b.OK
}
