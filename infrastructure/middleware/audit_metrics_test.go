package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-scrutineer/internal/ports"
)

// testAuditMetrics provides a global instance to avoid duplicate metric
// registration issues across tests in the same package.
var testAuditMetrics *AuditMetrics

func init() {
	// Create a single AuditMetrics instance to be shared across all tests
	// in this package. This prevents Prometheus from panicking due to
	// duplicate metric registration.
	testAuditMetrics = NewAuditMetrics()
}

// TestNewAuditMetrics verifies that a new AuditMetrics instance is created
// with all its internal metrics properly initialized.
func TestNewAuditMetrics(t *testing.T) {
	am := testAuditMetrics

	assert.NotNil(t, am, "AuditMetrics instance should not be nil")

	assert.NotNil(t, am.areasProcessed, "areasProcessed should be initialized")
	assert.NotNil(t, am.areasSkipped, "areasSkipped should be initialized")
	assert.NotNil(t, am.anomalyScore, "anomalyScore should be initialized")
	assert.NotNil(t, am.stageLatency, "stageLatency should be initialized")
	assert.NotNil(t, am.operationTotal, "operationTotal should be initialized")
	assert.NotNil(t, am.systemGauges, "systemGauges should be initialized")

	// Verify that AuditMetrics correctly implements the MetricsCollector interface.
	var _ ports.MetricsCollector = am
}

// TestAuditMetrics_RecordCounter exercises the counter routing, including
// the skip-reason path and the fallback operation counter.
func TestAuditMetrics_RecordCounter(t *testing.T) {
	am := testAuditMetrics

	tests := []struct {
		name   string
		metric string
		value  float64
		labels map[string]string
	}{
		{
			name:   "areas loaded",
			metric: "audit_areas_loaded",
			value:  400,
			labels: map[string]string{"stage": "fs-source"},
		},
		{
			name:   "areas flagged",
			metric: "audit_areas_flagged",
			value:  13,
			labels: map[string]string{"stage": "twin-detector"},
		},
		{
			name:   "areas skipped with reason",
			metric: "audit_areas_skipped",
			value:  2,
			labels: map[string]string{"stage": "fs-source", "reason": "missing_pl"},
		},
		{
			name:   "areas skipped without reason",
			metric: "audit_areas_skipped",
			value:  1,
			labels: map[string]string{"stage": "fs-source"},
		},
		{
			name:   "unrouted metric falls back to operation counter",
			metric: "report_written",
			value:  1,
			labels: map[string]string{"stage": "engine"},
		},
		{
			name:   "missing stage label",
			metric: "audit_areas_loaded",
			value:  1,
			labels: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Routing must not panic regardless of label completeness.
			assert.NotPanics(t, func() {
				am.RecordCounter(tt.metric, tt.value, tt.labels)
			})
		})
	}
}

// TestAuditMetrics_RecordLatencyGaugeHistogram covers the remaining
// MetricsCollector methods.
func TestAuditMetrics_RecordLatencyGaugeHistogram(t *testing.T) {
	am := testAuditMetrics

	assert.NotPanics(t, func() {
		am.RecordLatency("load", 120*time.Millisecond, map[string]string{"stage": "fs-source"})
		am.RecordLatency("detect", 3*time.Millisecond, nil)
		am.RecordGauge("audit_last_run_flagged", 13, map[string]string{"stage": "engine"})
		am.RecordHistogram("audit_anomaly_score", 4000, map[string]string{"stage": "twin-detector"})
		am.RecordHistogram("fold_duration_seconds", 0.002, map[string]string{"stage": "rollup-aggregator"})
	})
}
