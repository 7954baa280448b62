package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/auth"
	"github.com/yungbote/neurobridge-dashboard/internal/http"
	"github.com/yungbote/neurobridge-dashboard/internal/observability"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime/bus"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const shutdownGrace = 5 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Upstream upstream.Set
	Services Services
	Verifier *auth.Verifier
	SSEHub   *realtime.SSEHub
	Bus      *bus.RedisBus
	Server   *http.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New wires the dashboard from a validated config. Redis is optional; without it
// realtime events stay on this replica.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := newWithLogger(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func newWithLogger(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	otelShutdown, err := observability.SetupTracing(ctx, log, cfg.Otel.tracing(cfg.Env))
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.New()
	}

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	up, err := wireUpstream(log, cfg.Upstream)
	if err != nil {
		return nil, err
	}

	var rbus *bus.RedisBus
	if cfg.Redis.Addr != "" {
		rbus, err = bus.NewRedisBus(ctx, log, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
	}

	hub := realtime.NewSSEHub(log, metrics)
	var pub realtime.Publisher
	if rbus != nil {
		pub = rbus
	}
	emitter := realtime.NewEmitter(log, hub, pub)

	services := wireServices(log, cfg, up, metrics, emitter)
	handlers := wireHandlers(log, services, hub, rbus)
	middleware := wireMiddleware(log, verifier)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Upstream:     up,
		Services:     services,
		Verifier:     verifier,
		SSEHub:       hub,
		Bus:          rbus,
		Server:       wireServer(log, cfg, metrics, handlers, middleware),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background loops: the reorder sweeper, the redis forwarder and
// collector, and the standalone metrics listener when configured.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Services.Reorder.StartSweeper(ctx, a.Cfg.Reorder.SweepInterval, a.Cfg.Reorder.IdleTTL)

	if a.Bus != nil {
		if err := a.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start redis forwarder: %w", err)
		}
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Bus.Client(), a.Cfg.Metrics.RedisInterval)
	}
	if a.Cfg.Metrics.Enabled && a.Cfg.Metrics.Addr != "" {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
	}
	return nil
}

// Run serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, a.Cfg.HTTP.Addr, a.Cfg.HTTP.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
