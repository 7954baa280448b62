package upstream

import (
	"context"
	"net/url"
)

const analyticsBase = "/api/analytics/instructor"

// EnrollmentClient reads the enrollment/analytics service.
type EnrollmentClient struct {
	c Client
}

func NewEnrollmentClient(c Client) *EnrollmentClient { return &EnrollmentClient{c: c} }

func (e *EnrollmentClient) InstructorAnalytics(ctx context.Context) Result[InstructorAnalytics] {
	return GetJSON[InstructorAnalytics](ctx, e.c, analyticsBase)
}

func (e *EnrollmentClient) Trends(ctx context.Context) Result[[]TrendPoint] {
	return GetJSON[[]TrendPoint](ctx, e.c, analyticsBase+"/trends")
}

func (e *EnrollmentClient) CoursePerformance(ctx context.Context) Result[[]CoursePerformance] {
	return GetJSON[[]CoursePerformance](ctx, e.c, analyticsBase+"/course-performance")
}

func (e *EnrollmentClient) WeeklyEngagement(ctx context.Context) Result[[]WeeklyEngagement] {
	return GetJSON[[]WeeklyEngagement](ctx, e.c, analyticsBase+"/weekly-engagement")
}

func (e *EnrollmentClient) TopStudents(ctx context.Context) Result[[]TopStudent] {
	return GetJSON[[]TopStudent](ctx, e.c, analyticsBase+"/top-students")
}

func (e *EnrollmentClient) ModuleProgress(ctx context.Context) Result[[]ModuleProgress] {
	return GetJSON[[]ModuleProgress](ctx, e.c, analyticsBase+"/module-progress")
}

func (e *EnrollmentClient) DiscussionEngagement(ctx context.Context) Result[[]DiscussionStat] {
	return GetJSON[[]DiscussionStat](ctx, e.c, analyticsBase+"/discussion-engagement")
}

func (e *EnrollmentClient) Demographics(ctx context.Context) Result[Demographics] {
	return GetJSON[Demographics](ctx, e.c, analyticsBase+"/demographics")
}

// StudentGrade is the per-row lookup used when joining top students.
func (e *EnrollmentClient) StudentGrade(ctx context.Context, studentID, courseID string) Result[StudentGrade] {
	path := "/api/analytics/students/" + url.PathEscape(studentID) + "/courses/" + url.PathEscape(courseID) + "/grade"
	return GetJSON[StudentGrade](ctx, e.c, path)
}
