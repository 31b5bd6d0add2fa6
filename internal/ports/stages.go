// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-scrutineer/internal/domain"
)

// AnomalyDetector examines a single loaded area and decides whether it
// exhibits the twin-number pattern. Implementations must be stateless
// and safe for concurrent use; the engine fans areas out across workers.
type AnomalyDetector interface {
	// Name returns a unique identifier for this detector.
	// The name is used for logging, tracing, and metric labels.
	Name() string

	// Detect inspects one area against the province reference.
	// It returns a record when the area is flagged, or a nil record and
	// the reason the area was cleared. A non-empty reason with a nil
	// record is the normal outcome for clean areas; errors are reserved
	// for failures that should abort the run.
	Detect(ctx context.Context, area domain.AreaResult, provinces domain.ProvinceReference) (*domain.AnomalyRecord, domain.SkipReason, error)

	// Validate checks if the detector is properly configured.
	// Return nil if validation passes, or an error describing what is
	// invalid.
	Validate() error
}

// StatsAggregator folds a run's anomaly records into per-province and
// per-party rollups.
type StatsAggregator interface {
	// Name returns a unique identifier for this aggregator.
	Name() string

	// Aggregate consumes records in area-scan order and returns the
	// sorted rollups. The input slice is not modified.
	Aggregate(ctx context.Context, records []domain.AnomalyRecord) (domain.Rollups, error)

	// Validate checks if the aggregator is properly configured.
	Validate() error
}

// ReportAssembler turns detection output into the final audit report.
type ReportAssembler interface {
	// Name returns a unique identifier for this assembler.
	Name() string

	// Assemble sorts the records for presentation, attaches the rollups,
	// and fills in run metadata. The input slice is not modified.
	Assemble(ctx context.Context, records []domain.AnomalyRecord, rollups domain.Rollups, stats domain.RunStats) (*domain.AuditReport, error)

	// Validate checks if the assembler is properly configured.
	Validate() error
}
