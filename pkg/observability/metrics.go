package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges and timings.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric series.
type Tag struct {
	Key   string
	Value string
}

func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)         {}
func (NoopMetrics) Gauge(string, float64, ...Tag)         {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// TimingSummary aggregates the timings recorded for one series.
type TimingSummary struct {
	Count   int64         `json:"count"`
	Total   time.Duration `json:"total_ns"`
	Max     time.Duration `json:"max_ns"`
	Average time.Duration `json:"avg_ns"`
}

// Snapshot is a point-in-time copy of every series, keyed by name and tags.
type Snapshot struct {
	Counters map[string]int64         `json:"counters"`
	Gauges   map[string]float64       `json:"gauges"`
	Timings  map[string]TimingSummary `json:"timings"`
}

// InMemoryMetrics keeps series in process. The worker serves its snapshot
// on the metrics endpoint.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]TimingSummary
}

func NewInMemoryMetrics() *InMemoryMetrics {
	m := &InMemoryMetrics{}
	m.Reset()
	return m
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[seriesKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[seriesKey(name, tags)] = value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seriesKey(name, tags)
	s := m.timings[key]
	s.Count++
	s.Total += duration
	if duration > s.Max {
		s.Max = duration
	}
	s.Average = s.Total / time.Duration(s.Count)
	m.timings[key] = s
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetTiming(name string, tags ...Tag) TimingSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timings[seriesKey(name, tags)]
}

// Snapshot copies every series.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingSummary, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, v := range m.timings {
		snap.Timings[k] = v
	}
	return snap
}

func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.timings = make(map[string]TimingSummary)
}

// seriesKey renders name{k=v,...} with tags sorted by key so the order
// callers pass them in does not split a series.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names.
const (
	MetricOperationTotal    = "recruitkit.operation.total"
	MetricOperationDuration = "recruitkit.operation.duration"
	MetricOperationErrors   = "recruitkit.operation.errors"

	MetricTaskStatusUpdated = "recruitkit.tasks.status_updated"
	MetricTaskLocked        = "recruitkit.tasks.locked"
	MetricProgressRecorded  = "recruitkit.progress.recorded"
	MetricProgressChanged   = "recruitkit.progress.label_changed"

	MetricOutboxPublished = "recruitkit.outbox.published"
	MetricOutboxFailed    = "recruitkit.outbox.failed"
	MetricOutboxDead      = "recruitkit.outbox.dead"
	MetricOutboxPending   = "recruitkit.outbox.pending"

	MetricEventsConsumed = "recruitkit.events.consumed"
	MetricMCPToolCalls   = "recruitkit.mcp.tool_calls"
)
