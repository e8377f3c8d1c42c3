package performance

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Profiler tracks timing statistics for named operations. The frame loop is
// the only writer; the mutex exists so the telemetry server can snapshot the
// metrics from its own goroutine.
type Profiler struct {
	mu        sync.RWMutex
	metrics   map[string]*Metric
	enabled   bool
	startTime time.Time
}

// Metric tracks statistics for a specific operation
type Metric struct {
	Name      string
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	LastTime  time.Duration
}

// Operation represents a single timed operation
type Operation struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// MetricSnapshot is an immutable copy of one metric for reporting.
type MetricSnapshot struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total_ns"`
	Avg   time.Duration `json:"avg_ns"`
	Min   time.Duration `json:"min_ns"`
	Max   time.Duration `json:"max_ns"`
	Last  time.Duration `json:"last_ns"`
}

// Snapshot is a consistent copy of all metrics at one instant.
type Snapshot struct {
	StartTime time.Time                 `json:"start_time"`
	Runtime   time.Duration             `json:"runtime_ns"`
	Metrics   map[string]MetricSnapshot `json:"metrics"`
}

// NewProfiler creates a new performance profiler
func NewProfiler(enabled bool) *Profiler {
	return &Profiler{
		metrics:   make(map[string]*Metric),
		enabled:   enabled,
		startTime: time.Now(),
	}
}

// Start begins timing an operation. On a disabled profiler it returns nil,
// which End treats as a no-op, so call sites never need an enabled check.
func (p *Profiler) Start(name string) *Operation {
	if !p.IsEnabled() {
		return nil
	}
	return &Operation{
		profiler: p,
		name:     name,
		start:    time.Now(),
	}
}

// End completes timing an operation and records the metric
func (o *Operation) End() {
	if o == nil {
		return
	}
	o.profiler.Record(o.name, time.Since(o.start))
}

// Record directly records a duration for an operation
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}

	metric, exists := p.metrics[name]
	if !exists {
		metric = &Metric{
			Name:    name,
			MinTime: duration,
			MaxTime: duration,
		}
		p.metrics[name] = metric
	}

	metric.Count++
	metric.TotalTime += duration
	metric.LastTime = duration
	if duration < metric.MinTime {
		metric.MinTime = duration
	}
	if duration > metric.MaxTime {
		metric.MaxTime = duration
	}
}

// GetMetric returns a copy of the statistics for one operation, or nil if it
// was never recorded.
func (p *Profiler) GetMetric(name string) *Metric {
	p.mu.RLock()
	defer p.mu.RUnlock()

	metric, ok := p.metrics[name]
	if !ok {
		return nil
	}
	copied := *metric
	return &copied
}

// AverageTime returns the average time for a metric
func (m *Metric) AverageTime() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// TakeSnapshot copies every metric for reporting or serialization.
func (p *Profiler) TakeSnapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snapshot := Snapshot{
		StartTime: p.startTime,
		Runtime:   time.Since(p.startTime),
		Metrics:   make(map[string]MetricSnapshot, len(p.metrics)),
	}
	for name, metric := range p.metrics {
		snapshot.Metrics[name] = MetricSnapshot{
			Name:  metric.Name,
			Count: metric.Count,
			Total: metric.TotalTime,
			Avg:   metric.AverageTime(),
			Min:   metric.MinTime,
			Max:   metric.MaxTime,
			Last:  metric.LastTime,
		}
	}
	return snapshot
}

// Reset clears all metrics
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = make(map[string]*Metric)
	p.startTime = time.Now()
}

// Report generates a human-readable performance report. Frame operations run
// well under a millisecond, so durations are rounded to the microsecond.
func (p *Profiler) Report() string {
	snapshot := p.TakeSnapshot()

	if len(snapshot.Metrics) == 0 {
		return "No performance metrics recorded"
	}

	names := make([]string, 0, len(snapshot.Metrics))
	for name := range snapshot.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	report := fmt.Sprintf("\n=== Performance Report (since %s) ===\n", snapshot.StartTime.Format(time.RFC3339))
	report += fmt.Sprintf("%-24s %10s %12s %12s %12s %12s\n", "Operation", "Count", "Avg", "Min", "Max", "Last")
	report += fmt.Sprintf("%s\n", "--------------------------------------------------------------------------------------")

	for _, name := range names {
		m := snapshot.Metrics[name]
		report += fmt.Sprintf("%-24s %10d %12s %12s %12s %12s\n",
			name,
			m.Count,
			m.Avg.Round(time.Microsecond),
			m.Min.Round(time.Microsecond),
			m.Max.Round(time.Microsecond),
			m.Last.Round(time.Microsecond),
		)
	}

	report += fmt.Sprintf("\nTotal runtime: %s\n", snapshot.Runtime.Round(time.Second))
	return report
}

// LogReport logs the performance report
func (p *Profiler) LogReport() {
	log.Print(p.Report())
}

// Enable enables profiling
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
}

// Disable disables profiling
func (p *Profiler) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// IsEnabled returns whether profiling is enabled
func (p *Profiler) IsEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}
