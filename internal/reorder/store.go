package reorder

import (
	"context"

	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

// CourseStore backs every collection kind with the course service.
type CourseStore struct {
	Course *upstream.CourseClient
}

func NewCourseStore(course *upstream.CourseClient) *CourseStore {
	return &CourseStore{Course: course}
}

func (s *CourseStore) Load(ctx context.Context, key Key) ([]Item, error) {
	switch key.Kind {
	case KindModules:
		return items(s.Course.Modules(ctx, key.ScopeID), func(m upstream.Module) Item {
			return Item{ID: m.ID, Order: m.Order.Int(), Title: m.Title}
		})
	case KindLessons:
		return items(s.Course.Lessons(ctx, key.ScopeID), func(l upstream.Lesson) Item {
			return Item{ID: l.ID, Order: l.Order.Int(), Title: l.Title}
		})
	case KindResources:
		return items(s.Course.Resources(ctx, key.ScopeID), func(r upstream.Resource) Item {
			return Item{ID: r.ID, Order: r.Order.Int(), Title: r.Title}
		})
	case KindAssignments:
		return items(s.Course.Assignments(ctx, key.ScopeID), func(a upstream.Assignment) Item {
			return Item{ID: a.ID, Order: a.Order.Int(), Title: a.Title}
		})
	default:
		return nil, ErrUnknownKind
	}
}

func (s *CourseStore) Persist(ctx context.Context, key Key, ids []string) error {
	var res upstream.Result[upstream.Empty]
	switch key.Kind {
	case KindModules:
		res = s.Course.ReorderModules(ctx, ids)
	case KindLessons:
		res = s.Course.ReorderLessons(ctx, key.ScopeID, ids)
	case KindResources:
		res = s.Course.ReorderResources(ctx, key.ScopeID, ids)
	case KindAssignments:
		res = s.Course.ReorderAssignments(ctx, key.ScopeID, ids)
	default:
		return ErrUnknownKind
	}
	return res.Err()
}

func items[T any](res upstream.Result[[]T], fn func(T) Item) ([]Item, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(res.Value))
	for _, v := range res.Value {
		out = append(out, fn(v))
	}
	return Normalize(out), nil
}
