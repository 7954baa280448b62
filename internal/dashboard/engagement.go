package dashboard

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type WeeklyPoint struct {
	Week             string  `json:"week"`
	ActiveStudents   int     `json:"activeStudents"`
	LessonsCompleted int     `json:"lessonsCompleted"`
	HoursSpent       float64 `json:"hoursSpent"`
}

type ModuleProgressRow struct {
	ModuleID   string  `json:"moduleId"`
	CourseID   string  `json:"courseId"`
	Title      string  `json:"title"`
	Started    int     `json:"started"`
	Completed  int     `json:"completed"`
	Completion float64 `json:"completion"`
}

type DiscussionRow struct {
	CourseID     string  `json:"courseId"`
	CourseTitle  string  `json:"courseTitle"`
	Threads      int     `json:"threads"`
	Replies      int     `json:"replies"`
	Participants int     `json:"participants"`
	ResponseRate float64 `json:"responseRate"`
}

// EngagementSummary fields each derive from a single call and default independently.
type EngagementSummary struct {
	ActiveStudents    int     `json:"activeStudents"`
	AverageCompletion float64 `json:"averageCompletion"`
	TotalReplies      int     `json:"totalReplies"`
}

type Engagement struct {
	Summary     EngagementSummary   `json:"summary"`
	Weekly      []WeeklyPoint       `json:"weekly"`
	Modules     []ModuleProgressRow `json:"modules"`
	Discussions []DiscussionRow     `json:"discussions"`
	Meta        Meta                `json:"meta"`
}

func (s *Service) Engagement(ctx context.Context) Engagement {
	var (
		weekly      upstream.Result[[]upstream.WeeklyEngagement]
		modules     upstream.Result[[]upstream.ModuleProgress]
		discussions upstream.Result[[]upstream.DiscussionStat]
		courses     upstream.Result[[]upstream.CourseSummary]
	)
	report := s.run(ctx, ViewEngagement,
		aggregate.Bind(CallWeeklyEngagement, &weekly, s.up.Enrollment.WeeklyEngagement),
		aggregate.Bind(CallModuleProgress, &modules, s.up.Enrollment.ModuleProgress),
		aggregate.Bind(CallDiscussionEngagement, &discussions, s.up.Enrollment.DiscussionEngagement),
		aggregate.Bind(CallMyCourses, &courses, s.up.Course.MyCourses),
	)

	vm := DefaultEngagement()
	vm.Weekly = join.Rows(weekly.Or(nil), func(w upstream.WeeklyEngagement) WeeklyPoint {
		return WeeklyPoint{
			Week:             w.Week,
			ActiveStudents:   w.ActiveStudents.Int(),
			LessonsCompleted: w.LessonsCompleted.Int(),
			HoursSpent:       join.Round(w.HoursSpent.Float(), 1),
		}
	})
	if n := len(vm.Weekly); n > 0 {
		vm.Summary.ActiveStudents = vm.Weekly[n-1].ActiveStudents
	}

	vm.Modules = join.Rows(modules.Or(nil), func(m upstream.ModuleProgress) ModuleProgressRow {
		completion := m.Completion.Float()
		if completion == 0 && m.Started > 0 {
			completion = join.Percent(float64(m.Completed), float64(m.Started))
		}
		return ModuleProgressRow{
			ModuleID:   m.ModuleID,
			CourseID:   m.CourseID,
			Title:      m.Title,
			Started:    m.Started.Int(),
			Completed:  m.Completed.Int(),
			Completion: join.Round(completion, 1),
		}
	})
	if len(vm.Modules) > 0 {
		var sum float64
		for _, m := range vm.Modules {
			sum += m.Completion
		}
		vm.Summary.AverageCompletion = join.Round(sum/float64(len(vm.Modules)), 1)
	}

	var titles *join.Lookup[string, upstream.CourseSummary]
	if courses.OK {
		titles = join.NewLookup(sourceCourses, courses.Value, func(c upstream.CourseSummary) string { return c.ID })
	}
	vm.Discussions = join.Rows(discussions.Or(nil), func(d upstream.DiscussionStat) DiscussionRow {
		vm.Summary.TotalReplies += d.Replies.Int()
		return DiscussionRow{
			CourseID:     d.CourseID,
			CourseTitle:  titles.Or(d.CourseID, upstream.CourseSummary{Title: join.UnknownCourse}).Title,
			Threads:      d.Threads.Int(),
			Replies:      d.Replies.Int(),
			Participants: d.Participants.Int(),
			ResponseRate: join.Round(d.ResponseRate.Float(), 1),
		}
	})

	vm.Meta = s.meta(ViewEngagement, join.CollectMisses(titles), report)
	return vm
}
