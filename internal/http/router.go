package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-dashboard/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-dashboard/internal/http/middleware"
	"github.com/yungbote/neurobridge-dashboard/internal/observability"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// MetricsRoute serves GET /metrics on this router.
	MetricsRoute   bool
	CORSOrigins    []string
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	DashboardHandler  *httpH.DashboardHandler
	ContentHandler    *httpH.ContentHandler
	CollectionHandler *httpH.CollectionHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil && cfg.MetricsRoute {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api/dashboard")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Views
		if cfg.DashboardHandler != nil {
			api.GET("/overview", cfg.DashboardHandler.Overview)
			api.GET("/engagement", cfg.DashboardHandler.Engagement)
			api.GET("/students", cfg.DashboardHandler.Students)
			api.GET("/demographics", cfg.DashboardHandler.Demographics)
			api.GET("/financials", cfg.DashboardHandler.Financials)
			api.GET("/courses/:id/content", cfg.DashboardHandler.CourseContent)
			api.GET("/tabs/:tab", cfg.DashboardHandler.Tab)
		}

		// Course content
		if cfg.ContentHandler != nil {
			api.GET("/courses/:id/modules", cfg.ContentHandler.ListModules)
			api.POST("/courses/:id/modules", cfg.ContentHandler.CreateModule)
			api.GET("/courses/:id/resources", cfg.ContentHandler.ListResources)
			api.GET("/courses/:id/assignments", cfg.ContentHandler.ListAssignments)
			api.PUT("/modules/:id", cfg.ContentHandler.UpdateModule)
			api.DELETE("/modules/:id", cfg.ContentHandler.DeleteModule)
			api.GET("/modules/:id/lessons", cfg.ContentHandler.ListLessons)
		}

		// Reorderable collections
		if cfg.CollectionHandler != nil {
			api.GET("/collections/:kind/:scopeId", cfg.CollectionHandler.Get)
			api.POST("/collections/:kind/:scopeId/reorder", cfg.CollectionHandler.Reorder)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
