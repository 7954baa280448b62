// Package tabs models dashboard tab navigation: selecting a tab shows its skeleton
// until that tab's data resolves.
package tabs

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownTab = errors.New("tabs: unknown tab")

type Phase int

const (
	Idle Phase = iota
	Navigating
)

func (p Phase) String() string {
	if p == Navigating {
		return "navigating"
	}
	return "idle"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type State[ID comparable] struct {
	Active  ID    `json:"active"`
	Pending ID    `json:"pending"`
	Phase   Phase `json:"phase"`
}

// Controller tracks the active and pending tab. Only the resolution of the most
// recently selected tab ends navigation; late resolutions of abandoned tabs are ignored.
type Controller[ID comparable] struct {
	skeletons map[ID]func() any

	mu      sync.Mutex
	active  ID
	pending ID
	phase   Phase
}

func NewController[ID comparable](initial ID, skeletons map[ID]func() any) (*Controller[ID], error) {
	if _, ok := skeletons[initial]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTab, initial)
	}
	return &Controller[ID]{skeletons: skeletons, active: initial, pending: initial}, nil
}

// Select starts navigating to id. Selecting the tab that is already active and idle is
// a no-op and reports false.
func (c *Controller[ID]) Select(id ID) (bool, error) {
	if _, ok := c.skeletons[id]; !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownTab, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Idle && c.active == id {
		return false, nil
	}
	c.pending = id
	c.phase = Navigating
	return true, nil
}

// Resolve marks id's data as loaded. It returns false when id is not the pending tab.
func (c *Controller[ID]) Resolve(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Navigating || c.pending != id {
		return false
	}
	c.active = id
	c.phase = Idle
	return true
}

func (c *Controller[ID]) State() State[ID] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[ID]{Active: c.active, Pending: c.pending, Phase: c.phase}
}

// Skeleton is the placeholder for the pending tab while navigating, nil otherwise.
func (c *Controller[ID]) Skeleton() any {
	c.mu.Lock()
	pending, phase := c.pending, c.phase
	c.mu.Unlock()
	if phase != Navigating {
		return nil
	}
	return c.skeletons[pending]()
}
