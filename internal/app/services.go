package app

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/content"
	"github.com/yungbote/neurobridge-dashboard/internal/dashboard"
	"github.com/yungbote/neurobridge-dashboard/internal/observability"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/realtime"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type Services struct {
	Dashboard *dashboard.Service
	Content   *content.Service
	Reorder   *reorder.Registry
}

func wireServices(log *logger.Logger, cfg Config, up upstream.Set, metrics *observability.Metrics, emitter *realtime.Emitter) Services {
	log.Info("Wiring services...")

	registry := reorder.NewRegistry(reorder.NewCourseStore(up.Course), reorder.Options{
		PersistTimeout: cfg.Reorder.PersistTimeout,
		Log:            log,
	})
	registry.OnSettle(func(s reorder.Settlement) {
		metrics.ObserveReorder(string(s.Key.Kind), string(s.Status), s.Duration)
	})
	registry.OnSettle(func(s reorder.Settlement) {
		if s.Key.Session == "" {
			return
		}
		emitter.Emit(context.Background(), realtime.ReorderMessage(s))
	})

	return Services{
		Dashboard: dashboard.NewService(log, up, metrics, dashboard.Options{
			CallTimeout:       cfg.Upstream.CallTimeout,
			LookupConcurrency: cfg.Upstream.LookupConcurrency,
		}),
		Content: content.NewService(log, up.Course, registry, metrics),
		Reorder: registry,
	}
}
