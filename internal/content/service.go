package content

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

// PersistError wraps an upstream write that failed after validation passed.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }

func (e *PersistError) Unwrap() error { return e.Err }

// UpstreamStatus is the status the upstream answered with, or 0 when it never did.
func (e *PersistError) UpstreamStatus() int {
	if cf := upstream.AsFailure(e.Err); cf != nil {
		return cf.StatusCode
	}
	return 0
}

// Collections is notified when a write changes which items a list holds.
type Collections interface {
	Forget(kind reorder.Kind, scopeID string) int
}

// ValidationRecorder counts inputs rejected before reaching the upstream.
type ValidationRecorder interface {
	IncValidationFailure(operation string)
}

type Service struct {
	log         *logger.Logger
	course      *upstream.CourseClient
	collections Collections
	rec         ValidationRecorder
}

func NewService(log *logger.Logger, course *upstream.CourseClient, collections Collections, rec ValidationRecorder) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		log:         log.With("service", "ContentService"),
		course:      course,
		collections: collections,
		rec:         rec,
	}
}

func (s *Service) rejected(op string, err error) error {
	if s.rec != nil {
		s.rec.IncValidationFailure(op)
	}
	return err
}

func (s *Service) forget(kind reorder.Kind, scopeID string) {
	if s.collections == nil || scopeID == "" {
		return
	}
	s.collections.Forget(kind, scopeID)
}

func (s *Service) CreateModule(ctx context.Context, courseID string, in upstream.ModuleInput) (upstream.Module, error) {
	const op = "create_module"
	if err := requireID("courseId", courseID); err != nil {
		return upstream.Module{}, s.rejected(op, err)
	}
	if err := Validate(in); err != nil {
		return upstream.Module{}, s.rejected(op, err)
	}
	res := s.course.CreateModule(ctx, courseID, in)
	if !res.OK {
		s.log.Warn("create module failed", "course_id", courseID, "reason", res.Reason())
		return upstream.Module{}, &PersistError{Op: op, Err: res.Err()}
	}
	s.forget(reorder.KindModules, courseID)
	return res.Value, nil
}

func (s *Service) UpdateModule(ctx context.Context, moduleID string, in upstream.ModuleInput) (upstream.Module, error) {
	const op = "update_module"
	if err := requireID("moduleId", moduleID); err != nil {
		return upstream.Module{}, s.rejected(op, err)
	}
	if err := Validate(in); err != nil {
		return upstream.Module{}, s.rejected(op, err)
	}
	res := s.course.UpdateModule(ctx, moduleID, in)
	if !res.OK {
		s.log.Warn("update module failed", "module_id", moduleID, "reason", res.Reason())
		return upstream.Module{}, &PersistError{Op: op, Err: res.Err()}
	}
	// titles shown in cached lists are now stale
	s.forget(reorder.KindModules, res.Value.CourseID)
	return res.Value, nil
}

// DeleteModule removes a module. courseID is optional and only used to drop the
// cached module list of that course.
func (s *Service) DeleteModule(ctx context.Context, moduleID, courseID string) error {
	const op = "delete_module"
	if err := requireID("moduleId", moduleID); err != nil {
		return s.rejected(op, err)
	}
	res := s.course.DeleteModule(ctx, moduleID)
	if !res.OK {
		s.log.Warn("delete module failed", "module_id", moduleID, "reason", res.Reason())
		return &PersistError{Op: op, Err: res.Err()}
	}
	s.forget(reorder.KindModules, courseID)
	s.forget(reorder.KindLessons, moduleID)
	return nil
}

func (s *Service) ListModules(ctx context.Context, courseID string) ([]upstream.Module, error) {
	if err := requireID("courseId", courseID); err != nil {
		return nil, err
	}
	return list(s.course.Modules(ctx, courseID))
}

func (s *Service) ListLessons(ctx context.Context, moduleID string) ([]upstream.Lesson, error) {
	if err := requireID("moduleId", moduleID); err != nil {
		return nil, err
	}
	return list(s.course.Lessons(ctx, moduleID))
}

func (s *Service) ListResources(ctx context.Context, courseID string) ([]upstream.Resource, error) {
	if err := requireID("courseId", courseID); err != nil {
		return nil, err
	}
	return list(s.course.Resources(ctx, courseID))
}

func (s *Service) ListAssignments(ctx context.Context, courseID string) ([]upstream.Assignment, error) {
	if err := requireID("courseId", courseID); err != nil {
		return nil, err
	}
	return list(s.course.Assignments(ctx, courseID))
}

func list[T any](res upstream.Result[[]T]) ([]T, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	if res.Value == nil {
		return []T{}, nil
	}
	return res.Value, nil
}
