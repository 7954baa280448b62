package reorder

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindModules     Kind = "modules"
	KindLessons     Kind = "lessons"
	KindAssignments Kind = "assignments"
	KindResources   Kind = "resources"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindModules, KindLessons, KindAssignments, KindResources:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Key identifies one editable list. ScopeID is the course id for modules, resources
// and assignments, and the module id for lessons. Collections with different keys
// never share state.
type Key struct {
	Session string `json:"-"`
	Kind    Kind   `json:"kind"`
	ScopeID string `json:"scopeId"`
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.ScopeID
}
