package dashboard

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const (
	sourcePerformance = "coursePerformance"
	sourceRevenue     = "revenueBreakdown"
	sourceCourses     = "courses"
	sourceUsers       = "users"
	sourceGrades      = "grades"
)

type StatMetric struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

func statFrom(m upstream.StatMetric) StatMetric {
	return StatMetric{Value: m.Value.Float(), Change: m.Change.Float()}
}

// Stats are the four headline cards. Students and revenue come from the enrollment
// service; active courses and rating from the course service.
type Stats struct {
	TotalStudents StatMetric `json:"totalStudents"`
	TotalRevenue  StatMetric `json:"totalRevenue"`
	ActiveCourses StatMetric `json:"activeCourses"`
	AverageRating StatMetric `json:"averageRating"`
}

type Trend struct {
	Date        string  `json:"date"`
	Enrollments int     `json:"enrollments"`
	Completions int     `json:"completions"`
	Revenue     float64 `json:"revenue"`
}

type CourseRow struct {
	CourseID   string  `json:"courseId"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Students   int     `json:"students"`
	Completion float64 `json:"completion"`
	Rating     float64 `json:"rating"`
	Revenue    float64 `json:"revenue"`
	Sales      int     `json:"sales"`
}

type Overview struct {
	Stats   Stats       `json:"stats"`
	Trends  []Trend     `json:"trends"`
	Courses []CourseRow `json:"courses"`
	Meta    Meta        `json:"meta"`
}

func (s *Service) Overview(ctx context.Context) Overview {
	var (
		analytics   upstream.Result[upstream.InstructorAnalytics]
		courseStats upstream.Result[upstream.CourseStats]
		trends      upstream.Result[[]upstream.TrendPoint]
		perf        upstream.Result[[]upstream.CoursePerformance]
		courses     upstream.Result[[]upstream.CourseSummary]
		revenue     upstream.Result[[]upstream.CourseRevenue]
	)
	report := s.run(ctx, ViewOverview,
		aggregate.Bind(CallEnrollmentStats, &analytics, s.up.Enrollment.InstructorAnalytics),
		aggregate.Bind(CallCourseStats, &courseStats, s.up.Course.InstructorStats),
		aggregate.Bind(CallTrends, &trends, s.up.Enrollment.Trends),
		aggregate.Bind(CallCoursePerformance, &perf, s.up.Enrollment.CoursePerformance),
		aggregate.Bind(CallMyCourses, &courses, s.up.Course.MyCourses),
		aggregate.Bind(CallRevenueBreakdown, &revenue, s.up.Payment.RevenueBreakdown),
	)

	vm := DefaultOverview()
	a := analytics.Or(upstream.InstructorAnalytics{})
	cs := courseStats.Or(upstream.CourseStats{})
	vm.Stats = Stats{
		TotalStudents: statFrom(a.TotalStudents),
		TotalRevenue:  statFrom(a.TotalRevenue),
		ActiveCourses: statFrom(cs.ActiveCourses),
		AverageRating: statFrom(cs.AverageRating),
	}
	vm.Trends = join.Rows(trends.Or(nil), func(p upstream.TrendPoint) Trend {
		return Trend{Date: p.Date, Enrollments: p.Enrollments.Int(), Completions: p.Completions.Int(), Revenue: p.Revenue.Float()}
	})

	var misses join.Misses
	// Course rows need both the course list and its performance; a one-sided join is
	// worse than none, so either failure leaves the list empty.
	if aggregate.Both(courses, perf) {
		perfBy := join.NewLookup(sourcePerformance, perf.Value, func(p upstream.CoursePerformance) string { return p.CourseID })
		var revBy *join.Lookup[string, upstream.CourseRevenue]
		if revenue.OK {
			revBy = join.NewLookup(sourceRevenue, revenue.Value, func(r upstream.CourseRevenue) string { return r.CourseID })
		}
		vm.Courses = join.Rows(courses.Value, func(c upstream.CourseSummary) CourseRow {
			p := perfBy.Or(c.ID, upstream.CoursePerformance{})
			r := revBy.Or(c.ID, upstream.CourseRevenue{})
			return CourseRow{
				CourseID:   c.ID,
				Title:      c.Title,
				Status:     c.Status,
				Students:   p.Students.Int(),
				Completion: join.Round(p.Completion.Float(), 1),
				Rating:     join.Round(p.Rating.Float(), 2),
				Revenue:    join.Round(r.Revenue.Float(), 2),
				Sales:      r.Sales.Int(),
			}
		})
		misses = join.CollectMisses(perfBy, revBy)
	}

	vm.Meta = s.meta(ViewOverview, misses, report)
	return vm
}
