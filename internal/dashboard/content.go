package dashboard

import (
	"context"
	"sort"

	"github.com/yungbote/neurobridge-dashboard/internal/aggregate"
	"github.com/yungbote/neurobridge-dashboard/internal/join"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

const sourceLessons = "lessons"

type LessonView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"durationMinutes"`
}

type ModuleView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Order       int          `json:"order"`
	Published   bool         `json:"published"`
	Lessons     []LessonView `json:"lessons"`
}

type ResourceView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
	URL   string `json:"url,omitempty"`
	Order int    `json:"order"`
}

type AssignmentView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"dueDate,omitempty"`
	Order   int    `json:"order"`
}

type CourseContent struct {
	CourseID    string           `json:"courseId"`
	Modules     []ModuleView     `json:"modules"`
	Resources   []ResourceView   `json:"resources"`
	Assignments []AssignmentView `json:"assignments"`
	Meta        Meta             `json:"meta"`
}

// CourseContent loads the editable collections of one course. Lessons are fetched per
// module after the module list arrives; a module whose lessons fail shows none.
func (s *Service) CourseContent(ctx context.Context, courseID string) CourseContent {
	var (
		modules     upstream.Result[[]upstream.Module]
		resources   upstream.Result[[]upstream.Resource]
		assignments upstream.Result[[]upstream.Assignment]
	)
	report := s.run(ctx, ViewContent,
		aggregate.Bind(CallModules, &modules, func(ctx context.Context) upstream.Result[[]upstream.Module] {
			return s.up.Course.Modules(ctx, courseID)
		}),
		aggregate.Bind(CallResources, &resources, func(ctx context.Context) upstream.Result[[]upstream.Resource] {
			return s.up.Course.Resources(ctx, courseID)
		}),
		aggregate.Bind(CallAssignments, &assignments, func(ctx context.Context) upstream.Result[[]upstream.Assignment] {
			return s.up.Course.Assignments(ctx, courseID)
		}),
	)

	vm := DefaultCourseContent(courseID)
	mods := append([]upstream.Module(nil), modules.Or(nil)...)
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].Order < mods[j].Order })

	moduleIDs := join.Keys(mods, func(m upstream.Module) string { return m.ID })
	lessons := lookup(ctx, s, sourceLessons, moduleIDs, func(ctx context.Context, id string) ([]upstream.Lesson, bool) {
		r := s.up.Course.Lessons(ctx, id)
		return r.Value, r.OK
	})

	vm.Modules = join.Rows(mods, func(m upstream.Module) ModuleView {
		ls := append([]upstream.Lesson(nil), lessons.Or(m.ID, nil)...)
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Order < ls[j].Order })
		return ModuleView{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order.Int(),
			Published:   m.Published,
			Lessons: join.Rows(ls, func(l upstream.Lesson) LessonView {
				return LessonView{ID: l.ID, Title: l.Title, Order: l.Order.Int(), DurationMinutes: l.DurationMinutes.Int()}
			}),
		}
	})

	res := append([]upstream.Resource(nil), resources.Or(nil)...)
	sort.SliceStable(res, func(i, j int) bool { return res[i].Order < res[j].Order })
	vm.Resources = join.Rows(res, func(r upstream.Resource) ResourceView {
		return ResourceView{ID: r.ID, Title: r.Title, Kind: r.Kind, URL: r.URL, Order: r.Order.Int()}
	})

	as := append([]upstream.Assignment(nil), assignments.Or(nil)...)
	sort.SliceStable(as, func(i, j int) bool { return as[i].Order < as[j].Order })
	vm.Assignments = join.Rows(as, func(a upstream.Assignment) AssignmentView {
		return AssignmentView{ID: a.ID, Title: a.Title, DueDate: a.DueDate, Order: a.Order.Int()}
	})

	vm.Meta = s.meta(ViewContent, join.CollectMisses(lessons), report)
	return vm
}
