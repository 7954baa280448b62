package tabs

import (
	"context"
	"fmt"
)

// Tab pairs a placeholder with the loader for the real data.
type Tab[ID comparable] struct {
	ID       ID
	Skeleton func() any
	Load     func(ctx context.Context) any
}

type Catalog[ID comparable] struct {
	order []ID
	tabs  map[ID]Tab[ID]
}

func NewCatalog[ID comparable](tabs ...Tab[ID]) *Catalog[ID] {
	c := &Catalog[ID]{tabs: make(map[ID]Tab[ID], len(tabs))}
	for _, t := range tabs {
		if _, dup := c.tabs[t.ID]; !dup {
			c.order = append(c.order, t.ID)
		}
		c.tabs[t.ID] = t
	}
	return c
}

func (c *Catalog[ID]) IDs() []ID { return append([]ID(nil), c.order...) }

func (c *Catalog[ID]) Has(id ID) bool {
	_, ok := c.tabs[id]
	return ok
}

func (c *Catalog[ID]) Skeleton(id ID) (any, error) {
	t, ok := c.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTab, id)
	}
	return t.Skeleton(), nil
}

func (c *Catalog[ID]) Load(ctx context.Context, id ID) (any, error) {
	t, ok := c.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTab, id)
	}
	return t.Load(ctx), nil
}

// Controller starts a controller over this catalog's skeletons with initial active.
func (c *Catalog[ID]) Controller(initial ID) (*Controller[ID], error) {
	sk := make(map[ID]func() any, len(c.tabs))
	for id, t := range c.tabs {
		sk[id] = t.Skeleton
	}
	return NewController(initial, sk)
}

// Navigate runs one full transition: select id, load it, resolve it. onSkeleton, when
// set, receives the placeholder before loading starts.
func (c *Catalog[ID]) Navigate(ctx context.Context, ctrl *Controller[ID], id ID, onSkeleton func(any)) (any, error) {
	moved, err := ctrl.Select(id)
	if err != nil {
		return nil, err
	}
	if moved && onSkeleton != nil {
		onSkeleton(ctrl.Skeleton())
	}
	data, err := c.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctrl.Resolve(id)
	return data, nil
}
