package detect

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

var _ ports.ReportAssembler = (*ReportAssembler)(nil)

// DefaultReportDescription is the description line embedded in report
// metadata when no override is configured.
const DefaultReportDescription = "Anomaly detection report based on Twin Number Hypothesis (Buy 1 Get 2)"

// ReportAssembler packages a run's detection output into the final
// audit report: anomaly records sorted by score, the two rollups, and
// run metadata.
//
// Concurrency: ReportAssembler is stateless between calls and safe for
// concurrent use. Assemble copies the record slice before sorting, so
// callers keep their scan-ordered view.
type ReportAssembler struct {
	// name is the unique identifier for this assembler instance.
	name string
	// config contains the validated configuration parameters.
	config ReportAssemblerConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// ReportAssemblerConfig carries the free-form strings written into
// report metadata.
type ReportAssemblerConfig struct {
	// Description summarizes what the report holds.
	Description string `yaml:"description" validate:"required"`

	// Criteria spells out the matching rule applied by the detector.
	// Keep it in sync with the detector configuration; the assembler
	// records it verbatim.
	Criteria string `yaml:"criteria" validate:"required"`
}

// DefaultReportAssemblerConfig returns metadata strings matching the
// default detector configuration.
func DefaultReportAssemblerConfig() ReportAssemblerConfig {
	return ReportAssemblerConfig{
		Description: DefaultReportDescription,
		Criteria:    DefaultTwinDetectorConfig().Criteria(),
	}
}

// NewReportAssembler creates a ReportAssembler with validated
// configuration.
//
// The name parameter serves as a unique identifier for logging and
// observability spans. It must be non-empty.
//
// Returns ErrEmptyStageName if name is empty, or a configuration
// validation error if the config struct fails validation constraints.
func NewReportAssembler(name string, config ReportAssemblerConfig) (*ReportAssembler, error) {
	if name == "" {
		return nil, ErrEmptyStageName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &ReportAssembler{
		name:   name,
		config: config,
		tracer: otel.Tracer("report-assembler"),
	}, nil
}

// Name returns the unique identifier for this assembler instance.
func (rasm *ReportAssembler) Name() string { return rasm.name }

// Assemble builds the audit report. Records are sorted descending by
// anomaly score with a stable sort, so equal scores keep their scan
// order. The rollups are attached as-is; they arrive pre-sorted from
// the aggregator.
//
// A report is produced even when no area was flagged, with empty
// collections rather than nulls, so downstream consumers can always
// decode the same shape.
func (rasm *ReportAssembler) Assemble(
	ctx context.Context,
	records []domain.AnomalyRecord,
	rollups domain.Rollups,
	stats domain.RunStats,
) (*domain.AuditReport, error) {
	_, span := rasm.tracer.Start(ctx, "ReportAssembler.Assemble",
		trace.WithAttributes(
			attribute.String("stage.type", "report_assembler"),
			attribute.String("stage.id", rasm.name),
			attribute.Int("eval.records", len(records)),
		),
	)
	defer span.End()

	sorted := make([]domain.AnomalyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnomalyScore > sorted[j].AnomalyScore
	})

	runID := stats.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	report := &domain.AuditReport{
		Metadata: domain.ReportMetadata{
			Description:       rasm.config.Description,
			Criteria:          rasm.config.Criteria,
			TotalAreasFlagged: len(sorted),
			RunID:             runID,
			GeneratedAt:       time.Now().UTC(),
			AreasScanned:      stats.Load.Loaded,
			AreasSkipped:      stats.Load.Skipped(),
		},
		Anomalies:     sorted,
		ProvinceStats: rollups.Provinces,
		MPPartyStats:  rollups.Parties,
	}
	if report.ProvinceStats == nil {
		report.ProvinceStats = []domain.ProvinceStat{}
	}
	if report.MPPartyStats == nil {
		report.MPPartyStats = []domain.PartyStat{}
	}

	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.Int("eval.flagged", len(sorted)),
	)

	return report, nil
}

// Validate verifies the assembler is properly configured.
func (rasm *ReportAssembler) Validate() error {
	if err := validate.Struct(rasm.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
