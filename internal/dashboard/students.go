package dashboard

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type TopStudentRow struct {
	StudentID   string  `json:"studentId"`
	Name        string  `json:"name"`
	Avatar      string  `json:"avatar,omitempty"`
	CourseID    string  `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Progress    float64 `json:"progress"`
	Score       float64 `json:"score"`
	Grade       string  `json:"grade"`
	LastActive  string  `json:"lastActive,omitempty"`
}

type Students struct {
	TopStudents []TopStudentRow `json:"topStudents"`
	Meta        Meta            `json:"meta"`
}

type gradeKey struct {
	StudentID string
	CourseID  string
}

// Students joins the top-students list against user profiles and course details, then
// looks up a grade per row. Secondary gaps become placeholders; only a failed
// top-students call empties the list.
func (s *Service) Students(ctx context.Context) Students {
	var top upstream.Result[[]upstream.TopStudent]
	primary := s.run(ctx, ViewStudents,
		aggregate.Bind(CallTopStudents, &top, s.up.Enrollment.TopStudents),
	)

	vm := DefaultStudents()
	if !top.OK || len(top.Value) == 0 {
		vm.Meta = s.meta(ViewStudents, nil, primary)
		return vm
	}

	userIDs := join.Keys(top.Value, func(t upstream.TopStudent) string { return t.UserID })
	courseIDs := join.Keys(top.Value, func(t upstream.TopStudent) string { return t.CourseID })

	var (
		users   upstream.Result[[]upstream.UserProfile]
		courses upstream.Result[[]upstream.CourseSummary]
		grades  *join.Lookup[gradeKey, upstream.StudentGrade]
	)
	pairs := join.Keys(top.Value, func(t upstream.TopStudent) gradeKey {
		return gradeKey{StudentID: t.UserID, CourseID: t.CourseID}
	})
	gradesDone := make(chan struct{})
	go func() {
		defer close(gradesDone)
		grades = lookup(ctx, s, sourceGrades, pairs, func(ctx context.Context, k gradeKey) (upstream.StudentGrade, bool) {
			r := s.up.Enrollment.StudentGrade(ctx, k.StudentID, k.CourseID)
			if !r.OK {
				s.log.Debug("grade lookup failed", "student_id", k.StudentID, "course_id", k.CourseID, "reason", r.Reason())
			}
			return r.Value, r.OK
		})
	}()
	secondary := s.run(ctx, ViewStudents,
		aggregate.Bind(CallUserProfiles, &users, func(ctx context.Context) upstream.Result[[]upstream.UserProfile] {
			return s.up.Identity.Users(ctx, userIDs)
		}),
		aggregate.Bind(CallCourseDetails, &courses, func(ctx context.Context) upstream.Result[[]upstream.CourseSummary] {
			return s.up.Course.Bulk(ctx, courseIDs)
		}),
	)
	<-gradesDone

	var (
		userBy   *join.Lookup[string, upstream.UserProfile]
		courseBy *join.Lookup[string, upstream.CourseSummary]
	)
	if users.OK {
		userBy = join.NewLookup(sourceUsers, users.Value, func(u upstream.UserProfile) string { return u.ID })
	}
	if courses.OK {
		courseBy = join.NewLookup(sourceCourses, courses.Value, func(c upstream.CourseSummary) string { return c.ID })
	}

	vm.TopStudents = join.Rows(top.Value, func(t upstream.TopStudent) TopStudentRow {
		u := userBy.Or(t.UserID, upstream.UserProfile{Name: join.UnknownStudent})
		c := courseBy.Or(t.CourseID, upstream.CourseSummary{Title: join.UnknownCourse})
		g := grades.Or(gradeKey{StudentID: t.UserID, CourseID: t.CourseID}, upstream.StudentGrade{Grade: join.NoGrade})
		if g.Grade == "" {
			g.Grade = join.NoGrade
		}
		return TopStudentRow{
			StudentID:   t.UserID,
			Name:        u.Name,
			Avatar:      u.Avatar,
			CourseID:    t.CourseID,
			CourseTitle: c.Title,
			Progress:    join.Round(t.Progress.Float(), 1),
			Score:       join.Round(t.Score.Float(), 1),
			Grade:       g.Grade,
			LastActive:  t.LastSeen,
		}
	})

	vm.Meta = s.meta(ViewStudents, join.CollectMisses(userBy, courseBy, grades), primary, secondary)
	return vm
}
