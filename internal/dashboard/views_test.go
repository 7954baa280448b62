package dashboard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream/upstreamtest"
)

func TestStudentsJoinsProfilesCoursesAndGrades(t *testing.T) {
	vm := healthyFixture().service(t).Students(context.Background())

	require.Len(t, vm.TopStudents, 3)
	assert.Equal(t, TopStudentRow{
		StudentID: "u1", Name: "Amina", Avatar: "a.png",
		CourseID: "c1", CourseTitle: "Go Basics",
		Progress: 98, Score: 91.5, Grade: "A",
	}, vm.TopStudents[0])
	assert.Equal(t, "B+", vm.TopStudents[1].Grade)

	third := vm.TopStudents[2]
	assert.Equal(t, join.UnknownStudent, third.Name)
	assert.Equal(t, join.UnknownCourse, third.CourseTitle)
	assert.Equal(t, join.NoGrade, third.Grade)
	assert.Equal(t, 70.0, third.Progress)

	assert.False(t, vm.Meta.Degraded)
	assert.Equal(t, join.Misses{sourceUsers: 1, sourceCourses: 1, sourceGrades: 1}, join.Misses(vm.Meta.JoinMisses))
}

func TestPerRowLookupsUseCallTimeout(t *testing.T) {
	f := healthyFixture()
	f.enrollment.Delay(http.MethodGet, "/api/analytics/students/u1/courses/c1/grade", 5*time.Second)
	f.course.
		JSON(http.MethodGet, "/api/courses/k1/modules", http.StatusOK, []map[string]any{{"id": "m1", "title": "First"}}).
		JSON(http.MethodGet, "/api/modules/m1/lessons", http.StatusOK, []map[string]any{{"id": "l1", "title": "A"}}).
		Delay(http.MethodGet, "/api/modules/m1/lessons", 5*time.Second)
	svc := NewService(logger.Nop(), upstreamtest.Set(t, f.enrollment, f.course, f.payment, f.identity), nil, Options{
		CallTimeout: 100 * time.Millisecond,
	})

	start := time.Now()
	vm := svc.Students(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, vm.TopStudents, 3)
	assert.Equal(t, join.NoGrade, vm.TopStudents[0].Grade)
	assert.Equal(t, "B+", vm.TopStudents[1].Grade)
	assert.Equal(t, 2, vm.Meta.JoinMisses[sourceGrades])

	start = time.Now()
	content := svc.CourseContent(context.Background(), "k1")
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, content.Modules, 1)
	assert.Empty(t, content.Modules[0].Lessons)
	assert.Equal(t, 1, content.Meta.JoinMisses[sourceLessons])
}

func TestStudentsIdentityFailureUsesPlaceholderNames(t *testing.T) {
	f := healthyFixture()
	f.identity.JSON(http.MethodPost, "/api/users/bulk", http.StatusServiceUnavailable, nil)
	vm := f.service(t).Students(context.Background())

	require.Len(t, vm.TopStudents, 3)
	for _, row := range vm.TopStudents {
		assert.Equal(t, join.UnknownStudent, row.Name)
	}
	assert.Equal(t, "Go Basics", vm.TopStudents[0].CourseTitle)
	assert.Equal(t, []string{CallUserProfiles}, vm.Meta.Failed)
	assert.NotContains(t, vm.Meta.JoinMisses, sourceUsers)
}

func TestStudentsPrimaryFailureSkipsSecondaryCalls(t *testing.T) {
	f := healthyFixture()
	f.enrollment.JSON(http.MethodGet, "/api/analytics/instructor/top-students", http.StatusInternalServerError, nil)
	vm := f.service(t).Students(context.Background())

	assert.NotNil(t, vm.TopStudents)
	assert.Empty(t, vm.TopStudents)
	assert.Equal(t, []string{CallTopStudents}, vm.Meta.Failed)
	assert.Zero(t, f.identity.Calls(http.MethodPost, "/api/users/bulk"))
	assert.Zero(t, f.course.Calls(http.MethodPost, "/api/courses/bulk"))
}

func TestStudentsRequestsDistinctIDs(t *testing.T) {
	f := healthyFixture()
	f.enrollment.JSON(http.MethodGet, "/api/analytics/instructor/top-students", http.StatusOK, []map[string]any{
		{"userId": "u1", "courseId": "c1"},
		{"userId": "u1", "courseId": "c2"},
	})
	f.service(t).Students(context.Background())

	bodies := f.identity.Bodies(http.MethodPost, "/api/users/bulk")
	require.Len(t, bodies, 1)
	assert.JSONEq(t, `{"ids":["u1"]}`, string(bodies[0]))
}

func TestEngagement(t *testing.T) {
	vm := healthyFixture().service(t).Engagement(context.Background())

	assert.Equal(t, EngagementSummary{ActiveStudents: 95, AverageCompletion: 50, TotalReplies: 22}, vm.Summary)
	require.Len(t, vm.Modules, 2)
	assert.Equal(t, 25.0, vm.Modules[1].Completion)
	require.Len(t, vm.Discussions, 2)
	assert.Equal(t, "Go Basics", vm.Discussions[0].CourseTitle)
	assert.Equal(t, join.UnknownCourse, vm.Discussions[1].CourseTitle)
	assert.Equal(t, 1, vm.Meta.JoinMisses[sourceCourses])
}

func TestEngagementWeeklyFailureLeavesOtherSections(t *testing.T) {
	f := healthyFixture()
	f.enrollment.JSON(http.MethodGet, "/api/analytics/instructor/weekly-engagement", http.StatusBadGateway, nil)
	vm := f.service(t).Engagement(context.Background())

	assert.Empty(t, vm.Weekly)
	assert.Zero(t, vm.Summary.ActiveStudents)
	assert.Equal(t, 50.0, vm.Summary.AverageCompletion)
	assert.Len(t, vm.Discussions, 2)
	assert.Equal(t, []string{CallWeeklyEngagement}, vm.Meta.Failed)
}

func TestDemographicsComputesMissingPercentages(t *testing.T) {
	vm := healthyFixture().service(t).Demographics(context.Background())

	assert.Equal(t, 40, vm.TotalStudents)
	assert.Equal(t, []Segment{{Label: "KE", Count: 30, Percentage: 75}, {Label: "US", Count: 10, Percentage: 25}}, vm.Countries)
	assert.Equal(t, 62.5, vm.AgeGroups[0].Percentage)
	assert.NotNil(t, vm.Devices)
	assert.Empty(t, vm.Devices)
}

func TestDemographicsFailure(t *testing.T) {
	f := healthyFixture()
	f.enrollment.JSON(http.MethodGet, "/api/analytics/instructor/demographics", http.StatusInternalServerError, nil)
	vm := f.service(t).Demographics(context.Background())

	def := DefaultDemographics()
	assert.Equal(t, def.Countries, vm.Countries)
	assert.Zero(t, vm.TotalStudents)
	assert.True(t, vm.Meta.Degraded)
}

func TestFinancials(t *testing.T) {
	vm := healthyFixture().service(t).Financials(context.Background())

	assert.Equal(t, FinancialSummary{Currency: "KES", GrossRevenue: 4000, NetRevenue: 3600, PlatformFees: 400}, vm.Summary)
	require.Len(t, vm.RevenueByCourse, 2)
	assert.Equal(t, RevenueRow{CourseID: "c1", CourseTitle: "Go Basics", Revenue: 3000, Sales: 60, Share: 75}, vm.RevenueByCourse[0])
	assert.Equal(t, 25.0, vm.RevenueByCourse[1].Share)
}

func TestFinancialsSummaryFailureDefaultsCurrency(t *testing.T) {
	f := healthyFixture()
	f.payment.JSON(http.MethodGet, "/api/payments/analytics/instructor/financials", http.StatusInternalServerError, nil)
	f.course.JSON(http.MethodGet, "/api/courses/my-courses", http.StatusInternalServerError, nil)
	vm := f.service(t).Financials(context.Background())

	assert.Equal(t, FinancialSummary{Currency: defaultCurrency}, vm.Summary)
	require.Len(t, vm.RevenueByCourse, 2)
	assert.Equal(t, join.UnknownCourse, vm.RevenueByCourse[0].CourseTitle)
	assert.ElementsMatch(t, []string{CallFinancials, CallMyCourses}, vm.Meta.Failed)
}

func TestCourseContentOrdersCollectionsAndIsolatesLessonFailures(t *testing.T) {
	f := healthyFixture()
	f.course.
		JSON(http.MethodGet, "/api/courses/k1/modules", http.StatusOK, []map[string]any{
			{"id": "m2", "courseId": "k1", "title": "Second", "order": 2},
			{"id": "m1", "courseId": "k1", "title": "First", "order": 1, "published": true},
		}).
		JSON(http.MethodGet, "/api/modules/m1/lessons", http.StatusOK, []map[string]any{
			{"id": "l2", "moduleId": "m1", "title": "B", "order": 2},
			{"id": "l1", "moduleId": "m1", "title": "A", "order": 1, "durationMinutes": 12},
		}).
		JSON(http.MethodGet, "/api/modules/m2/lessons", http.StatusInternalServerError, nil).
		JSON(http.MethodGet, "/api/courses/k1/resources", http.StatusInternalServerError, nil).
		JSON(http.MethodGet, "/api/courses/k1/assignments", http.StatusOK, []map[string]any{
			{"id": "a1", "courseId": "k1", "title": "Quiz", "order": 0},
		})

	vm := f.service(t).CourseContent(context.Background(), "k1")

	assert.Equal(t, "k1", vm.CourseID)
	require.Len(t, vm.Modules, 2)
	assert.Equal(t, "m1", vm.Modules[0].ID)
	assert.Equal(t, []LessonView{{ID: "l1", Title: "A", Order: 1, DurationMinutes: 12}, {ID: "l2", Title: "B", Order: 2}}, vm.Modules[0].Lessons)
	assert.NotNil(t, vm.Modules[1].Lessons)
	assert.Empty(t, vm.Modules[1].Lessons)
	assert.Empty(t, vm.Resources)
	assert.Len(t, vm.Assignments, 1)
	assert.Equal(t, []string{CallResources}, vm.Meta.Failed)
}

func TestProbeCoversEveryView(t *testing.T) {
	reports := healthyFixture().service(t).Probe(context.Background())
	views := map[string]bool{}
	for _, r := range reports {
		views[r.View] = true
		assert.False(t, r.Degraded(), "view %s", r.View)
	}
	assert.Equal(t, map[string]bool{
		ViewOverview: true, ViewEngagement: true, ViewStudents: true, ViewDemographics: true, ViewFinancials: true,
	}, views)
}
