package dashboard

import (
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream/upstreamtest"
)

type route struct {
	rt     func(f *fixture) *upstreamtest.Router
	method string
	path   string
}

var overviewRoutes = []route{
	{func(f *fixture) *upstreamtest.Router { return f.enrollment }, http.MethodGet, "/api/analytics/instructor"},
	{func(f *fixture) *upstreamtest.Router { return f.course }, http.MethodGet, "/api/courses/instructor/stats"},
	{func(f *fixture) *upstreamtest.Router { return f.enrollment }, http.MethodGet, "/api/analytics/instructor/trends"},
	{func(f *fixture) *upstreamtest.Router { return f.enrollment }, http.MethodGet, "/api/analytics/instructor/course-performance"},
	{func(f *fixture) *upstreamtest.Router { return f.course }, http.MethodGet, "/api/courses/my-courses"},
	{func(f *fixture) *upstreamtest.Router { return f.payment }, http.MethodGet, "/api/payments/analytics/instructor/revenue-breakdown"},
}

type fixture struct {
	enrollment *upstreamtest.Router
	course     *upstreamtest.Router
	payment    *upstreamtest.Router
	identity   *upstreamtest.Router
}

// healthyFixture answers every dashboard route with a small, consistent data set.
func healthyFixture() *fixture {
	f := &fixture{
		enrollment: upstreamtest.NewRouter(),
		course:     upstreamtest.NewRouter(),
		payment:    upstreamtest.NewRouter(),
		identity:   upstreamtest.NewRouter(),
	}
	ok := http.StatusOK

	f.enrollment.
		JSON(http.MethodGet, "/api/analytics/instructor", ok, map[string]any{
			"totalStudents": map[string]any{"value": 1200, "change": 12.5},
			"totalRevenue":  map[string]any{"value": "45999.50", "change": 8},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/trends", ok, []map[string]any{
			{"date": "2026-09-01", "enrollments": 10, "completions": 3, "revenue": 199},
			{"date": "2026-09-08", "enrollments": 14, "completions": 5, "revenue": "250.5"},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/course-performance", ok, []map[string]any{
			{"courseId": "c1", "students": 40, "completion": 72.56, "rating": 4.8},
			{"courseId": "c2", "students": 12, "completion": "30", "rating": nil},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/weekly-engagement", ok, []map[string]any{
			{"week": "W1", "activeStudents": 80, "lessonsCompleted": 200, "hoursSpent": 120.25},
			{"week": "W2", "activeStudents": 95, "lessonsCompleted": 240, "hoursSpent": "130"},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/module-progress", ok, []map[string]any{
			{"moduleId": "m1", "courseId": "c1", "title": "Intro", "started": 40, "completed": 30, "completion": 75},
			{"moduleId": "m2", "courseId": "c1", "title": "Types", "started": 20, "completed": 5},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/discussion-engagement", ok, []map[string]any{
			{"courseId": "c1", "threads": 4, "replies": 20, "participants": 9, "responseRate": 80},
			{"courseId": "c9", "threads": 1, "replies": 2, "participants": 2},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/demographics", ok, map[string]any{
			"countries": []map[string]any{{"label": "KE", "count": 30}, {"label": "US", "count": 10}},
			"ageGroups": []map[string]any{{"label": "18-24", "count": 25, "percentage": 62.5}},
			"devices":   []map[string]any{},
		}).
		JSON(http.MethodGet, "/api/analytics/instructor/top-students", ok, []map[string]any{
			{"userId": "u1", "courseId": "c1", "progress": 98, "score": "91.5"},
			{"userId": "u2", "courseId": "c2", "progress": 90, "score": 88},
			{"userId": "u3", "courseId": "c404", "progress": 70, "score": 60},
		}).
		JSON(http.MethodGet, "/api/analytics/students/u1/courses/c1/grade", ok, map[string]any{"grade": "A", "score": 91.5}).
		JSON(http.MethodGet, "/api/analytics/students/u2/courses/c2/grade", ok, map[string]any{"grade": "B+", "score": 88})

	f.course.
		JSON(http.MethodGet, "/api/courses/instructor/stats", ok, map[string]any{
			"activeCourses": map[string]any{"value": 5, "change": 2},
			"averageRating": map[string]any{"value": 4.6, "change": 0.1},
		}).
		JSON(http.MethodGet, "/api/courses/my-courses", ok, []map[string]any{
			{"id": "c1", "title": "Go Basics", "status": "published"},
			{"id": "c2", "title": "Concurrency", "status": "draft"},
		}).
		JSON(http.MethodPost, "/api/courses/bulk", ok, []map[string]any{
			{"id": "c1", "title": "Go Basics"},
			{"id": "c2", "title": "Concurrency"},
		})

	f.payment.
		JSON(http.MethodGet, "/api/payments/analytics/instructor/revenue-breakdown", ok, []map[string]any{
			{"courseId": "c1", "revenue": 3000, "sales": 60},
			{"courseId": "c2", "revenue": "1000", "sales": 20, "refunds": 1},
		}).
		JSON(http.MethodGet, "/api/payments/analytics/instructor/financials", ok, map[string]any{
			"currency": "KES", "grossRevenue": 4000, "netRevenue": "3600.004", "platformFees": 400,
		})

	f.identity.
		JSON(http.MethodPost, "/api/users/bulk", ok, []map[string]any{
			{"id": "u1", "name": "Amina", "avatar": "a.png"},
			{"id": "u2", "name": "Brian"},
		})
	return f
}

func (f *fixture) fail(r route) {
	r.rt(f).JSON(r.method, r.path, http.StatusInternalServerError, map[string]any{"error": "boom"})
}

func (f *fixture) service(t *testing.T) *Service {
	t.Helper()
	return NewService(logger.Nop(), upstreamtest.Set(t, f.enrollment, f.course, f.payment, f.identity), nil, Options{
		CallTimeout: time.Second,
	})
}
