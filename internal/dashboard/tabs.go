package dashboard

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/tabs"
)

// Tabs lists the dashboard sections in display order with their skeletons and loaders.
func (s *Service) Tabs() *tabs.Catalog[string] {
	return tabs.NewCatalog(
		tabs.Tab[string]{
			ID:       ViewOverview,
			Skeleton: func() any { return DefaultOverview() },
			Load:     func(ctx context.Context) any { return s.Overview(ctx) },
		},
		tabs.Tab[string]{
			ID:       ViewEngagement,
			Skeleton: func() any { return DefaultEngagement() },
			Load:     func(ctx context.Context) any { return s.Engagement(ctx) },
		},
		tabs.Tab[string]{
			ID:       ViewStudents,
			Skeleton: func() any { return DefaultStudents() },
			Load:     func(ctx context.Context) any { return s.Students(ctx) },
		},
		tabs.Tab[string]{
			ID:       ViewDemographics,
			Skeleton: func() any { return DefaultDemographics() },
			Load:     func(ctx context.Context) any { return s.Demographics(ctx) },
		},
		tabs.Tab[string]{
			ID:       ViewFinancials,
			Skeleton: func() any { return DefaultFinancials() },
			Load:     func(ctx context.Context) any { return s.Financials(ctx) },
		},
	)
}
