package hostinfo

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics provides operational metrics for hostinfo probes. It uses Go's
// expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := hostinfo.NewMetrics()
//	metrics.RegisterExpvar()
//
//	opts := hostinfo.DefaultOptions()
//	opts.Metrics = metrics
type Metrics struct {
	// Counters
	queries  atomic.Int64
	failures atomic.Int64
	collects atomic.Int64

	// Latency tracking (stored as nanoseconds)
	collectLatencyNs    atomic.Int64
	collectLatencyCount atomic.Int64

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// expvarRegistration keeps the exported names bound to a single Metrics
// instance; expvar.Publish panics when a name is reused.
var expvarRegistration sync.Once

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is running.
// Safe to call multiple times; the exported names are process-wide, so the
// first instance to register is the one exposed.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	expvarRegistration.Do(func() {
		expvar.Publish("hostinfo_queries_total", expvar.Func(func() any { return m.queries.Load() }))
		expvar.Publish("hostinfo_failures_total", expvar.Func(func() any { return m.failures.Load() }))
		expvar.Publish("hostinfo_collects_total", expvar.Func(func() any { return m.collects.Load() }))

		expvar.Publish("hostinfo_collect_latency_avg_ms", expvar.Func(func() any {
			count := m.collectLatencyCount.Load()
			if count == 0 {
				return float64(0)
			}
			return float64(m.collectLatencyNs.Load()) / float64(count) / 1e6
		}))
	})
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Queries:  m.queries.Load(),
		Failures: m.failures.Load(),
		Collects: m.collects.Load(),

		CollectLatencyAvg: safeDivide(m.collectLatencyNs.Load(), m.collectLatencyCount.Load()),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Queries counts every answered query, sentinel results included.
	Queries int64
	// Failures counts the queries that degraded to a sentinel value.
	Failures int64
	// Collects counts completed report snapshots.
	Collects int64

	// CollectLatencyAvg is the mean duration of a report snapshot.
	CollectLatencyAvg time.Duration
}

// IncrementQueries records an answered query.
func (m *Metrics) IncrementQueries() {
	m.queries.Add(1)
}

// IncrementFailures records a query that degraded to a sentinel value.
func (m *Metrics) IncrementFailures() {
	m.failures.Add(1)
}

// IncrementCollects records a completed report snapshot.
func (m *Metrics) IncrementCollects() {
	m.collects.Add(1)
}

// RecordCollectLatency records the duration of a report snapshot.
func (m *Metrics) RecordCollectLatency(d time.Duration) {
	m.collectLatencyNs.Add(d.Nanoseconds())
	m.collectLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.queries.Store(0)
	m.failures.Store(0)
	m.collects.Store(0)

	m.collectLatencyNs.Store(0)
	m.collectLatencyCount.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
