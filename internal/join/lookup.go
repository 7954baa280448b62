package join

import "sync/atomic"

// Placeholders used for secondary fields when a correlation key has no match.
const (
	UnknownStudent = "Unknown Student"
	UnknownCourse  = "Unknown Course"
	NoGrade        = "N/A"
)

// Lookup is a secondary collection indexed by its correlation key.
// A miss is not an error; it is counted so callers can tell it apart from a failed call.
type Lookup[K comparable, V any] struct {
	source string
	index  map[K]V
	misses atomic.Int64
}

// NewLookup indexes rows by key once. Later rows win on duplicate keys.
func NewLookup[K comparable, V any](source string, rows []V, key func(V) K) *Lookup[K, V] {
	idx := make(map[K]V, len(rows))
	for _, r := range rows {
		idx[key(r)] = r
	}
	return &Lookup[K, V]{source: source, index: idx}
}

// FromMap wraps an already keyed collection.
func FromMap[K comparable, V any](source string, m map[K]V) *Lookup[K, V] {
	if m == nil {
		m = map[K]V{}
	}
	return &Lookup[K, V]{source: source, index: m}
}

func (l *Lookup[K, V]) Get(k K) (V, bool) {
	if l == nil {
		var zero V
		return zero, false
	}
	v, ok := l.index[k]
	if !ok {
		l.misses.Add(1)
	}
	return v, ok
}

// Or returns the match for k or placeholder.
func (l *Lookup[K, V]) Or(k K, placeholder V) V {
	if v, ok := l.Get(k); ok {
		return v
	}
	return placeholder
}

func (l *Lookup[K, V]) Source() string {
	if l == nil {
		return ""
	}
	return l.source
}

func (l *Lookup[K, V]) Misses() int {
	if l == nil {
		return 0
	}
	return int(l.misses.Load())
}

func (l *Lookup[K, V]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.index)
}

// Rows builds exactly one composite row per primary row, in primary order.
func Rows[P, C any](primary []P, build func(P) C) []C {
	out := make([]C, 0, len(primary))
	for _, p := range primary {
		out = append(out, build(p))
	}
	return out
}

// Keys collects distinct keys from rows, preserving first-seen order and skipping zero keys.
func Keys[P any, K comparable](rows []P, key func(P) K) []K {
	var zero K
	seen := make(map[K]struct{}, len(rows))
	out := make([]K, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if k == zero {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

type missCounter interface {
	Source() string
	Misses() int
}

// Misses summarises join misses per secondary source.
type Misses map[string]int

func CollectMisses(lookups ...missCounter) Misses {
	out := Misses{}
	for _, l := range lookups {
		if l == nil {
			continue
		}
		if n := l.Misses(); n > 0 {
			out[l.Source()] += n
		}
	}
	return out
}

func (m Misses) Total() int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
