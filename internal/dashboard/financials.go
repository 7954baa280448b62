package dashboard

import (
	"context"
	"sort"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const defaultCurrency = "USD"

type FinancialSummary struct {
	Currency      string  `json:"currency"`
	GrossRevenue  float64 `json:"grossRevenue"`
	NetRevenue    float64 `json:"netRevenue"`
	Refunds       float64 `json:"refunds"`
	PlatformFees  float64 `json:"platformFees"`
	PendingPayout float64 `json:"pendingPayout"`
}

type RevenueRow struct {
	CourseID    string  `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Revenue     float64 `json:"revenue"`
	Sales       int     `json:"sales"`
	Refunds     int     `json:"refunds"`
	Share       float64 `json:"share"`
}

type Financials struct {
	Summary         FinancialSummary `json:"summary"`
	RevenueByCourse []RevenueRow     `json:"revenueByCourse"`
	Meta            Meta             `json:"meta"`
}

func (s *Service) Financials(ctx context.Context) Financials {
	var (
		fin     upstream.Result[upstream.Financials]
		revenue upstream.Result[[]upstream.CourseRevenue]
		courses upstream.Result[[]upstream.CourseSummary]
	)
	report := s.run(ctx, ViewFinancials,
		aggregate.Bind(CallFinancials, &fin, s.up.Payment.Financials),
		aggregate.Bind(CallRevenueBreakdown, &revenue, s.up.Payment.RevenueBreakdown),
		aggregate.Bind(CallMyCourses, &courses, s.up.Course.MyCourses),
	)

	vm := DefaultFinancials()
	f := fin.Or(upstream.Financials{})
	vm.Summary = FinancialSummary{
		Currency:      f.Currency,
		GrossRevenue:  join.Round(f.GrossRevenue.Float(), 2),
		NetRevenue:    join.Round(f.NetRevenue.Float(), 2),
		Refunds:       join.Round(f.Refunds.Float(), 2),
		PlatformFees:  join.Round(f.PlatformFees.Float(), 2),
		PendingPayout: join.Round(f.PendingPayout.Float(), 2),
	}
	if vm.Summary.Currency == "" {
		vm.Summary.Currency = defaultCurrency
	}

	var titles *join.Lookup[string, upstream.CourseSummary]
	if courses.OK {
		titles = join.NewLookup(sourceCourses, courses.Value, func(c upstream.CourseSummary) string { return c.ID })
	}
	rows := revenue.Or(nil)
	var total float64
	for _, r := range rows {
		total += r.Revenue.Float()
	}
	vm.RevenueByCourse = join.Rows(rows, func(r upstream.CourseRevenue) RevenueRow {
		return RevenueRow{
			CourseID:    r.CourseID,
			CourseTitle: titles.Or(r.CourseID, upstream.CourseSummary{Title: join.UnknownCourse}).Title,
			Revenue:     join.Round(r.Revenue.Float(), 2),
			Sales:       r.Sales.Int(),
			Refunds:     r.Refunds.Int(),
			Share:       join.Percent(r.Revenue.Float(), total),
		}
	})
	sort.SliceStable(vm.RevenueByCourse, func(i, j int) bool {
		return vm.RevenueByCourse[i].Revenue > vm.RevenueByCourse[j].Revenue
	})

	vm.Meta = s.meta(ViewFinancials, join.CollectMisses(titles), report)
	return vm
}
