package reorder

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownItem = errors.New("reorder: unknown item")
	ErrInvalidMove = errors.New("reorder: target index out of range")
	ErrUnknownKind = errors.New("reorder: unknown collection kind")
)

// Item is one element of an ordered collection. Order is dense and 0-based.
type Item struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Title string `json:"title,omitempty"`
}

// Normalize returns a copy sorted by Order (ties keep input order) and renumbered 0..n-1.
func Normalize(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	if out == nil {
		out = []Item{}
	}
	return out
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Move returns a new list with id moved to index to, every order recomputed, and the
// index the item came from. The input is never modified.
func Move(items []Item, id string, to int) ([]Item, int, error) {
	from := indexOf(items, id)
	if from < 0 {
		return nil, -1, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	if to < 0 || to >= len(items) {
		return nil, from, fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidMove, to, len(items)-1)
	}

	out := make([]Item, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out, Item{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	for i := range out {
		out[i].Order = i
	}
	return out, from, nil
}

func IDs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// Dense reports whether orders are exactly 0..n-1 in list order.
func Dense(items []Item) bool {
	for i, it := range items {
		if it.Order != i {
			return false
		}
	}
	return true
}

// Snapshot is an immutable copy of a list, captured before a gesture is applied.
type Snapshot struct {
	items []Item
}

func Capture(items []Item) Snapshot {
	return Snapshot{items: append([]Item(nil), items...)}
}

func (s Snapshot) Items() []Item {
	out := append([]Item(nil), s.items...)
	if out == nil {
		out = []Item{}
	}
	return out
}

func (s Snapshot) Len() int { return len(s.items) }
