package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test that our interfaces can be implemented correctly

// mockMetricsCollector implements MetricsCollector interface
type mockMetricsCollector struct {
	latencies  []time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

// newMockMetricsCollector creates a new mock metrics collector for testing.
func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		latencies:  []time.Duration{},
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *mockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.latencies = append(m.latencies, duration)
}

func (m *mockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.counters[metric] += value
}

func (m *mockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.gauges[metric] = value
}

func (m *mockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.histograms[metric] = append(m.histograms[metric], value)
}

func TestMetricsCollector_Recording(t *testing.T) {
	// Verify the mock implements the interface.
	var _ MetricsCollector = (*mockMetricsCollector)(nil)

	metrics := newMockMetricsCollector()
	labels := map[string]string{"stage": "test"}

	// Test RecordLatency
	metrics.RecordLatency("load", 100*time.Millisecond, labels)
	assert.Len(t, metrics.latencies, 1, "RecordLatency() should record one duration")
	assert.Equal(t, 100*time.Millisecond, metrics.latencies[0], "RecordLatency() duration mismatch")

	// Test RecordCounter
	metrics.RecordCounter("audit_areas_loaded", 1, labels)
	metrics.RecordCounter("audit_areas_loaded", 2, labels)
	assert.Equal(t, float64(3), metrics.counters["audit_areas_loaded"], "RecordCounter() sum mismatch")

	// Test RecordGauge
	metrics.RecordGauge("audit_last_run_flagged", 10, labels)
	metrics.RecordGauge("audit_last_run_flagged", 5, labels)
	assert.Equal(t, float64(5), metrics.gauges["audit_last_run_flagged"], "RecordGauge() value mismatch")

	// Test RecordHistogram
	metrics.RecordHistogram("audit_anomaly_score", 4000, labels)
	metrics.RecordHistogram("audit_anomaly_score", 500, labels)
	assert.Len(t, metrics.histograms["audit_anomaly_score"], 2, "RecordHistogram() should record two values")
}
