package app

import (
	"github.com/yungbote/neurobridge-dashboard/internal/auth"
	"github.com/yungbote/neurobridge-dashboard/internal/http"
	httpH "github.com/yungbote/neurobridge-dashboard/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-dashboard/internal/http/middleware"
	"github.com/yungbote/neurobridge-dashboard/internal/observability"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime/bus"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Dashboard  *httpH.DashboardHandler
	Content    *httpH.ContentHandler
	Collection *httpH.CollectionHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub, rbus *bus.RedisBus) Handlers {
	log.Info("Wiring handlers...")
	deps := map[string]httpH.Pinger{}
	if rbus != nil {
		deps["redis"] = rbus
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(deps),
		Dashboard:  httpH.NewDashboardHandler(log, services.Dashboard),
		Content:    httpH.NewContentHandler(log, services.Content),
		Collection: httpH.NewCollectionHandler(log, services.Reorder),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, verifier *auth.Verifier) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, verifier),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	rc := http.RouterConfig{
		Log:               log,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		ServiceName:       cfg.Otel.ServiceName,
		AuthMiddleware:    middleware.Auth,
		DashboardHandler:  handlers.Dashboard,
		ContentHandler:    handlers.Content,
		CollectionHandler: handlers.Collection,
		RealtimeHandler:   handlers.Realtime,
		HealthHandler:     handlers.Health,
		Metrics:           metrics,
		MetricsRoute:      cfg.Metrics.Addr == "",
	}
	srv := http.NewServer(rc)
	srv.OnShutdown(handlers.Realtime.CloseAll)
	return srv
}
