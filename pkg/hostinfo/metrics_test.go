package hostinfo

import (
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	// Verify initial state is zero
	snap := m.Snapshot()
	if snap.Queries != 0 || snap.Failures != 0 || snap.Collects != 0 {
		t.Error("New metrics should have zero values")
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementQueries()
	m.IncrementQueries()
	m.IncrementQueries()
	m.IncrementFailures()
	m.IncrementCollects()
	m.IncrementCollects()

	snap := m.Snapshot()

	tests := []struct {
		name     string
		got      int64
		expected int64
	}{
		{"Queries", snap.Queries, 3},
		{"Failures", snap.Failures, 1},
		{"Collects", snap.Collects, 2},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: got %d, expected %d", tt.name, tt.got, tt.expected)
		}
	}
}

func TestMetricsLatency(t *testing.T) {
	m := NewMetrics()

	m.RecordCollectLatency(10 * time.Millisecond)
	m.RecordCollectLatency(20 * time.Millisecond)
	m.RecordCollectLatency(30 * time.Millisecond)

	snap := m.Snapshot()

	// Average of 10, 20, 30 = 20ms
	expectedAvg := 20 * time.Millisecond
	if snap.CollectLatencyAvg != expectedAvg {
		t.Errorf("CollectLatencyAvg: got %v, expected %v", snap.CollectLatencyAvg, expectedAvg)
	}
}

func TestMetricsLatencyZeroCount(t *testing.T) {
	m := NewMetrics()

	// Snapshot with no latency recordings should not panic
	snap := m.Snapshot()

	if snap.CollectLatencyAvg != 0 {
		t.Errorf("CollectLatencyAvg should be 0 with no recordings, got %v", snap.CollectLatencyAvg)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.IncrementQueries()
	m.IncrementFailures()
	m.IncrementCollects()
	m.RecordCollectLatency(100 * time.Millisecond)

	snap := m.Snapshot()
	if snap.Queries == 0 || snap.Failures == 0 {
		t.Error("Metrics should have values before reset")
	}

	m.Reset()

	snap = m.Snapshot()
	if snap.Queries != 0 {
		t.Errorf("Queries should be 0 after reset, got %d", snap.Queries)
	}
	if snap.Failures != 0 {
		t.Errorf("Failures should be 0 after reset, got %d", snap.Failures)
	}
	if snap.Collects != 0 {
		t.Errorf("Collects should be 0 after reset, got %d", snap.Collects)
	}
	if snap.CollectLatencyAvg != 0 {
		t.Errorf("CollectLatencyAvg should be 0 after reset, got %v", snap.CollectLatencyAvg)
	}
}

func TestDefaultMetrics(t *testing.T) {
	m1 := DefaultMetrics()
	m2 := DefaultMetrics()

	if m1 != m2 {
		t.Error("DefaultMetrics should return the same instance")
	}

	if m1 == nil {
		t.Error("DefaultMetrics should not return nil")
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewMetrics()
	done := make(chan bool)

	// Concurrent increments
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				m.IncrementQueries()
				m.IncrementFailures()
				m.RecordCollectLatency(time.Millisecond)
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	snap := m.Snapshot()
	if snap.Queries != 1000 {
		t.Errorf("Expected 1000 queries, got %d", snap.Queries)
	}
	if snap.Failures != 1000 {
		t.Errorf("Expected 1000 failures, got %d", snap.Failures)
	}
}

func TestMetricsSnapshotIsIsolated(t *testing.T) {
	m := NewMetrics()
	m.IncrementQueries()

	snap1 := m.Snapshot()

	// Modify metrics after snapshot
	m.IncrementQueries()
	m.IncrementQueries()

	// Original snapshot should be unchanged
	if snap1.Queries != 1 {
		t.Errorf("Snapshot should be isolated, got Queries=%d", snap1.Queries)
	}

	// New snapshot should have updated values
	snap2 := m.Snapshot()
	if snap2.Queries != 3 {
		t.Errorf("New snapshot should have Queries=3, got %d", snap2.Queries)
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		total    int64
		count    int64
		expected time.Duration
	}{
		{100, 10, 10 * time.Nanosecond},
		{0, 0, 0},
		{100, 0, 0}, // Divide by zero returns 0
		{0, 10, 0},
	}

	for _, tt := range tests {
		result := safeDivide(tt.total, tt.count)
		if result != tt.expected {
			t.Errorf("safeDivide(%d, %d) = %v, expected %v",
				tt.total, tt.count, result, tt.expected)
		}
	}
}

func TestRegisterExpvarIdempotent(t *testing.T) {
	m := NewMetrics()

	// Should not panic when called multiple times
	m.RegisterExpvar()
	m.RegisterExpvar()
	m.RegisterExpvar()

	// Verify the registered flag is set
	if !m.registered.Load() {
		t.Error("registered should be true after RegisterExpvar")
	}
}
