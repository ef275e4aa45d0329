// Package metrics keeps in-memory timing counters for the hot paths of
// edgerecord: fixture loading, view rendering and diagram export.
//
// Collection is on by default and can be disabled with EDGEREC_METRICS=0.
//
//	func render() string {
//	    defer metrics.Timer(metrics.UIRender)()
//	    ...
//	}
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("EDGEREC_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks count, total and max duration of a named operation.
// Safe for concurrent use.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled.Load() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
}

// Timer returns a function that records the elapsed time when called.
func Timer(m *TimingMetric) func() {
	if !enabled.Load() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

var (
	FixtureLoad   = newTimingMetric("fixture_load")
	FixtureReload = newTimingMetric("fixture_reload")
	UIRender      = newTimingMetric("ui_render")
	DiagramExport = newTimingMetric("diagram_export")
	HeadlessRun   = newTimingMetric("headless_run")
)

// All returns every registered timing metric.
func All() []*TimingMetric {
	return []*TimingMetric{FixtureLoad, FixtureReload, UIRender, DiagramExport, HeadlessRun}
}

// ResetAll resets every registered metric.
func ResetAll() {
	for _, m := range All() {
		m.Reset()
	}
}

// Snapshot returns stats for every metric that has data.
func Snapshot() []TimingStats {
	var out []TimingStats
	for _, m := range All() {
		if m.Count() > 0 {
			out = append(out, m.Stats())
		}
	}
	return out
}
