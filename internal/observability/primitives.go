package observability

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Metric primitives rendered in the Prometheus text exposition format. Every method
// is a no-op on a nil receiver so optional metrics need no guards at call sites.

// family is a named set of float samples keyed by their rendered label set.
type family struct {
	name   string
	help   string
	kind   string
	labels []string

	mu      sync.Mutex
	samples map[string]float64
}

func newFamily(name, help, kind string, labels []string) *family {
	return &family{name: name, help: help, kind: kind, labels: labels, samples: map[string]float64{}}
}

func (f *family) update(fn func(float64) float64, values []string) {
	key := renderLabels(f.labels, values)
	f.mu.Lock()
	f.samples[key] = fn(f.samples[key])
	f.mu.Unlock()
}

func (f *family) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, f.name, f.help, f.kind)
	f.mu.Lock()
	for _, key := range sortedKeys(f.samples) {
		writeSample(bw, f.name, key, formatFloat(f.samples[key]))
	}
	f.mu.Unlock()
	return bw.Flush()
}

// CounterVec is a monotonically increasing counter per label set. A CounterVec
// without labels is a plain counter.
type CounterVec struct{ f *family }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{f: newFamily(name, help, "counter", labels)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil || v < 0 {
		return
	}
	c.f.update(func(cur float64) float64 { return cur + v }, values)
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.f.write(w)
}

// Gauge is a single value that moves both ways.
type Gauge struct{ f *family }

func NewGauge(name, help string) *Gauge {
	return &Gauge{f: newFamily(name, help, "gauge", nil)}
}

func (g *Gauge) Set(v float64) {
	if g == nil {
		return
	}
	g.f.update(func(float64) float64 { return v }, nil)
}

func (g *Gauge) Inc() { g.add(1) }
func (g *Gauge) Dec() { g.add(-1) }

func (g *Gauge) add(d float64) {
	if g == nil {
		return
	}
	g.f.update(func(cur float64) float64 { return cur + d }, nil)
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.f.write(w)
}

var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// HistogramVec tracks observation counts per upper bound for each label set.
type HistogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.Mutex
	series map[string]*histogram
}

type histogram struct {
	// counts[i] holds observations in (buckets[i-1], buckets[i]]; the last slot is +Inf.
	counts []uint64
	sum    float64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}
	b := append([]float64(nil), buckets...)
	sort.Float64s(b)
	return &HistogramVec{name: name, help: help, labels: labels, buckets: b, series: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	key := renderLabels(h.labels, values)
	i := sort.SearchFloat64s(h.buckets, v)

	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.series[key]
	if s == nil {
		s = &histogram{counts: make([]uint64, len(h.buckets)+1)}
		h.series[key] = s
	}
	s.counts[i]++
	s.sum += v
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	writeHeader(bw, h.name, h.help, "histogram")

	h.mu.Lock()
	for _, key := range sortedKeys(h.series) {
		s := h.series[key]
		var cum uint64
		for i, le := range h.buckets {
			cum += s.counts[i]
			writeSample(bw, h.name+"_bucket", withLabel(key, "le", formatFloat(le)), strconv.FormatUint(cum, 10))
		}
		cum += s.counts[len(h.buckets)]
		writeSample(bw, h.name+"_bucket", withLabel(key, "le", "+Inf"), strconv.FormatUint(cum, 10))
		writeSample(bw, h.name+"_sum", key, formatFloat(s.sum))
		writeSample(bw, h.name+"_count", key, strconv.FormatUint(cum, 10))
	}
	h.mu.Unlock()
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, name, help, kind string) {
	w.WriteString("# HELP " + name + " " + help + "\n")
	w.WriteString("# TYPE " + name + " " + kind + "\n")
}

func writeSample(w *bufio.Writer, name, labels, value string) {
	w.WriteString(name + labels + " " + value + "\n")
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// renderLabels renders {a="x",b="y"}; missing values become "unknown".
func renderLabels(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, n := range names {
		v := "unknown"
		if i < len(values) {
			v = values[i]
		}
		pairs[i] = n + `="` + labelEscaper.Replace(v) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func withLabel(rendered, name, value string) string {
	pair := name + `="` + labelEscaper.Replace(value) + `"`
	if rendered == "" {
		return "{" + pair + "}"
	}
	return strings.TrimSuffix(rendered, "}") + "," + pair + "}"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
