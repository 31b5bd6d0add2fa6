// Package middleware provides cross-cutting concerns for the audit engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-scrutineer/internal/ports"
)

// AuditMetrics implements the MetricsCollector interface using Prometheus.
// It provides real-time monitoring of area throughput, skip causes, and
// stage performance for the audit engine.
type AuditMetrics struct {
	areasProcessed *prometheus.CounterVec
	areasSkipped   *prometheus.CounterVec
	anomalyScore   *prometheus.HistogramVec
	stageLatency   *prometheus.HistogramVec
	operationTotal *prometheus.CounterVec
	systemGauges   *prometheus.GaugeVec
}

// NewAuditMetrics creates a new AuditMetrics instance and registers all
// required metrics in the global Prometheus registry.
func NewAuditMetrics() *AuditMetrics {
	return &AuditMetrics{
		// Area-level throughput metrics.
		areasProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_areas_total",
				Help: "Number of areas per terminal outcome of the audit pipeline.",
			},
			[]string{"outcome", "stage"},
		),
		areasSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_areas_skipped_total",
				Help: "Number of areas dropped before detection, by reason.",
			},
			[]string{"reason", "stage"},
		),
		anomalyScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "audit_anomaly_score",
				Help: "Distribution of anomaly scores across flagged areas.",
				// Scores default to raw twin-party votes, so the buckets
				// span village-sized to province-sized vote counts.
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			},
			[]string{"stage"},
		),

		// General execution metrics for comprehensive observability.
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "audit_stage_duration_seconds",
				Help:    "Execution time of audit pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "stage"},
		),
		operationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_operations_total",
				Help: "Total number of operations performed by the audit engine.",
			},
			[]string{"operation", "status", "stage"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "audit_system_state",
				Help: "Current system state values for the audit engine.",
			},
			[]string{"metric", "stage"},
		),
	}
}

// stageLabel pulls the stage label all metrics are partitioned by.
func stageLabel(labels map[string]string) string {
	stage, ok := labels["stage"]
	if !ok {
		return "unknown"
	}
	return stage
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (am *AuditMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	am.stageLatency.WithLabelValues(operation, stageLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (am *AuditMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	stage := stageLabel(labels)

	switch metric {
	case "audit_areas_loaded":
		am.areasProcessed.WithLabelValues("loaded", stage).Add(value)
	case "audit_areas_flagged":
		am.areasProcessed.WithLabelValues("flagged", stage).Add(value)
	case "audit_areas_cleared":
		am.areasProcessed.WithLabelValues("cleared", stage).Add(value)
	case "audit_areas_skipped":
		reason, ok := labels["reason"]
		if !ok {
			reason = "unknown"
		}
		am.areasSkipped.WithLabelValues(reason, stage).Add(value)
	default:
		am.operationTotal.WithLabelValues(metric, "success", stage).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (am *AuditMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	am.systemGauges.WithLabelValues(metric, stageLabel(labels)).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (am *AuditMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	stage := stageLabel(labels)

	switch metric {
	case "audit_anomaly_score":
		am.anomalyScore.WithLabelValues(stage).Observe(value)
	default:
		am.stageLatency.WithLabelValues(metric, stage).Observe(value)
	}
}

// Compile-time verification that AuditMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*AuditMetrics)(nil)
