package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// CourseClient reads and writes the course service.
type CourseClient struct {
	c Client
}

func NewCourseClient(c Client) *CourseClient { return &CourseClient{c: c} }

func (cc *CourseClient) InstructorStats(ctx context.Context) Result[CourseStats] {
	return GetJSON[CourseStats](ctx, cc.c, "/api/courses/instructor/stats")
}

func (cc *CourseClient) MyCourses(ctx context.Context) Result[[]CourseSummary] {
	return GetJSON[[]CourseSummary](ctx, cc.c, "/api/courses/my-courses")
}

// Bulk resolves course summaries by id. An empty id list succeeds without a call.
func (cc *CourseClient) Bulk(ctx context.Context, ids []string) Result[[]CourseSummary] {
	if len(ids) == 0 {
		return Success([]CourseSummary{})
	}
	return PostJSON[[]CourseSummary](ctx, cc.c, "/api/courses/bulk", bulkRequest{IDs: ids})
}

func (cc *CourseClient) Modules(ctx context.Context, courseID string) Result[[]Module] {
	return GetJSON[[]Module](ctx, cc.c, "/api/courses/"+url.PathEscape(courseID)+"/modules")
}

func (cc *CourseClient) CreateModule(ctx context.Context, courseID string, in ModuleInput) Result[Module] {
	return PostJSON[Module](ctx, cc.c, "/api/courses/"+url.PathEscape(courseID)+"/modules", in)
}

func (cc *CourseClient) UpdateModule(ctx context.Context, moduleID string, in ModuleInput) Result[Module] {
	return PutJSON[Module](ctx, cc.c, "/api/modules/"+url.PathEscape(moduleID), in)
}

func (cc *CourseClient) DeleteModule(ctx context.Context, moduleID string) Result[Empty] {
	return Send(ctx, cc.c, http.MethodDelete, "/api/modules/"+url.PathEscape(moduleID), nil)
}

func (cc *CourseClient) Lessons(ctx context.Context, moduleID string) Result[[]Lesson] {
	return GetJSON[[]Lesson](ctx, cc.c, "/api/modules/"+url.PathEscape(moduleID)+"/lessons")
}

func (cc *CourseClient) Resources(ctx context.Context, courseID string) Result[[]Resource] {
	return GetJSON[[]Resource](ctx, cc.c, "/api/courses/"+url.PathEscape(courseID)+"/resources")
}

func (cc *CourseClient) Assignments(ctx context.Context, courseID string) Result[[]Assignment] {
	return GetJSON[[]Assignment](ctx, cc.c, "/api/courses/"+url.PathEscape(courseID)+"/assignments")
}

func (cc *CourseClient) ReorderModules(ctx context.Context, ids []string) Result[Empty] {
	return Send(ctx, cc.c, http.MethodPost, "/api/modules/reorder", ReorderRequest{IDs: ids})
}

func (cc *CourseClient) ReorderLessons(ctx context.Context, moduleID string, ids []string) Result[Empty] {
	return Send(ctx, cc.c, http.MethodPost, "/api/lessons/reorder", ReorderRequest{ModuleID: moduleID, IDs: ids})
}

func (cc *CourseClient) ReorderResources(ctx context.Context, courseID string, ids []string) Result[Empty] {
	return Send(ctx, cc.c, http.MethodPost, "/api/resources/reorder", ReorderRequest{CourseID: courseID, IDs: ids})
}

func (cc *CourseClient) ReorderAssignments(ctx context.Context, courseID string, ids []string) Result[Empty] {
	return Send(ctx, cc.c, http.MethodPost, "/api/assignments/reorder", ReorderRequest{CourseID: courseID, IDs: ids})
}
