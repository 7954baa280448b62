package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *CounterVec

	upstreamCalls   *CounterVec
	upstreamLatency *HistogramVec
	viewsDegraded   *CounterVec
	joinMisses      *CounterVec

	reorderOutcomes *CounterVec
	reorderDuration *HistogramVec
	validationFails *CounterVec

	sseClients *Gauge
	redisUp    *Gauge
	redisPing  *Gauge
}

func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("dashboard_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"dashboard_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("dashboard_api_inflight_requests", "In-flight API requests."),
		apiErrors:   NewCounterVec("dashboard_api_server_errors_total", "API responses with a 5xx status.", nil),

		upstreamCalls: NewCounterVec("dashboard_upstream_calls_total", "Upstream calls by view/call/outcome.", []string{"view", "call", "outcome"}),
		upstreamLatency: NewHistogramVec(
			"dashboard_upstream_call_duration_seconds",
			"Upstream call latency in seconds by view/call.",
			[]string{"view", "call"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		viewsDegraded: NewCounterVec("dashboard_views_degraded_total", "Views served with at least one defaulted field.", []string{"view"}),
		joinMisses:    NewCounterVec("dashboard_join_misses_total", "Primary rows without a match in a secondary source.", []string{"view", "source"}),

		reorderOutcomes: NewCounterVec("dashboard_reorder_outcomes_total", "Reorder intents by collection kind and outcome.", []string{"kind", "outcome"}),
		reorderDuration: NewHistogramVec(
			"dashboard_reorder_settle_seconds",
			"Time from gesture to settled state by collection kind and outcome.",
			[]string{"kind", "outcome"},
			nil,
		),
		validationFails: NewCounterVec("dashboard_validation_failures_total", "Mutation inputs rejected before any upstream call.", []string{"operation"}),

		sseClients: NewGauge("dashboard_sse_clients", "Connected SSE clients."),
		redisUp:    NewGauge("dashboard_redis_up", "Redis reachability (1=up)."),
		redisPing:  NewGauge("dashboard_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, pw := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.upstreamCalls, m.upstreamLatency, m.viewsDegraded, m.joinMisses,
		m.reorderOutcomes, m.reorderDuration, m.validationFails,
		m.sseClients, m.redisUp, m.redisPing,
	} {
		if err := pw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	if strings.HasPrefix(status, "5") {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveUpstreamCall satisfies aggregate.Observer.
func (m *Metrics) ObserveUpstreamCall(view, call string, ok bool, reason string, dur time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = reason
		if i := strings.IndexByte(outcome, ' '); i > 0 {
			// "status 503" -> "status" keeps label cardinality bounded
			outcome = outcome[:i]
		}
	}
	m.upstreamCalls.Inc(view, call, outcome)
	m.upstreamLatency.Observe(dur.Seconds(), view, call)
}

func (m *Metrics) IncViewDegraded(view string) {
	if m == nil {
		return
	}
	m.viewsDegraded.Inc(view)
}

func (m *Metrics) AddJoinMisses(view, source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.joinMisses.Add(float64(n), view, source)
}

func (m *Metrics) ObserveReorder(kind, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.reorderOutcomes.Inc(kind, outcome)
	m.reorderDuration.Observe(dur.Seconds(), kind, outcome)
}

func (m *Metrics) IncValidationFailure(operation string) {
	if m == nil {
		return
	}
	m.validationFails.Inc(operation)
}

func (m *Metrics) SSEClientConnected() {
	if m == nil {
		return
	}
	m.sseClients.Inc()
}

func (m *Metrics) SSEClientDisconnected() {
	if m == nil {
		return
	}
	m.sseClients.Dec()
}

// StartRedisCollector pings the realtime bus redis every interval (10s when unset).
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
