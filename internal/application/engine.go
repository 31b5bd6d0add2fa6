package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-scrutineer/infrastructure/detect"
	"github.com/ahrav/go-scrutineer/infrastructure/results"
	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

// Engine orchestrates one audit run end to end: load the tallies and
// the province reference, fan the areas out to the detector, fold the
// flagged records into rollups, and assemble the report document.
//
// An Engine is immutable after construction and safe for concurrent
// runs, though the batch nature of the pipeline makes one run at a
// time the expected usage.
type Engine struct {
	source     ports.ResultSource
	reference  ports.ReferenceSource
	detector   ports.AnomalyDetector
	aggregator ports.StatsAggregator
	assembler  ports.ReportAssembler

	metrics    ports.MetricsCollector
	logger     *zap.Logger
	tracer     trace.Tracer
	workers    int
	reportPath string
}

// NewEngine builds an engine from the given configuration, constructing
// the filesystem sources and the three pipeline stages it will run.
// A nil logger disables logging and a nil metrics collector disables
// metric recording.
//
// Returns an error when the configuration or any stage configuration
// fails validation.
func NewEngine(config AuditConfig, logger *zap.Logger, metrics ports.MetricsCollector) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	source, err := results.NewFSResultSource(config.Source, logger.Named("source"))
	if err != nil {
		return nil, fmt.Errorf("building result source: %w", err)
	}
	reference := results.NewFSReferenceSource(config.ReferencePath, logger.Named("reference"))

	detector, err := detect.NewTwinDetector("twin-detector", config.Detector)
	if err != nil {
		return nil, fmt.Errorf("building detector: %w", err)
	}
	aggregator, err := detect.NewRollupAggregator("rollup-aggregator")
	if err != nil {
		return nil, fmt.Errorf("building aggregator: %w", err)
	}
	assembler, err := detect.NewReportAssembler("report-assembler", detect.ReportAssemblerConfig{
		Description: config.Report.Description,
		// The criteria line always reflects the detector actually run.
		Criteria: config.Detector.Criteria(),
	})
	if err != nil {
		return nil, fmt.Errorf("building assembler: %w", err)
	}

	workers := config.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Engine{
		source:     source,
		reference:  reference,
		detector:   detector,
		aggregator: aggregator,
		assembler:  assembler,
		metrics:    metrics,
		logger:     logger,
		tracer:     otel.Tracer("audit-engine"),
		workers:    workers,
		reportPath: config.Report.Path,
	}, nil
}

// ReportPath returns the output path the engine writes reports to.
func (e *Engine) ReportPath() string { return e.reportPath }

// Validate checks every constructed stage, surfacing configuration
// drift before a run starts.
func (e *Engine) Validate() error {
	if err := e.detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if err := e.aggregator.Validate(); err != nil {
		return fmt.Errorf("aggregator: %w", err)
	}
	if err := e.assembler.Validate(); err != nil {
		return fmt.Errorf("assembler: %w", err)
	}
	return nil
}

// Run executes one complete audit and returns the report document plus
// the run statistics behind it.
//
// The detection phase examines areas concurrently, bounded by the
// configured worker count, and writes each outcome into an
// index-addressed slot so the flagged records keep area-scan order
// regardless of goroutine scheduling. A detector failure on any area
// cancels the remaining workers and fails the run; unusable areas are
// not failures and surface through the statistics instead.
func (e *Engine) Run(ctx context.Context) (*domain.AuditReport, domain.RunStats, error) {
	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID))
	stats := domain.RunStats{RunID: runID}

	ctx, span := e.tracer.Start(ctx, "Engine.Run",
		trace.WithAttributes(attribute.String("run.id", runID)),
	)
	defer span.End()

	start := time.Now()
	log.Info("audit run starting",
		zap.String("detector", e.detector.Name()),
		zap.Int("workers", e.workers),
	)

	provinces, err := e.reference.Provinces(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, stats, fmt.Errorf("loading province reference: %w", err)
	}

	loadStart := time.Now()
	areas, loadStats, err := e.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, stats, fmt.Errorf("loading results: %w", err)
	}
	stats.Load = loadStats
	e.metrics.RecordLatency("load", time.Since(loadStart), map[string]string{"stage": "fs-source"})
	e.metrics.RecordCounter("audit_areas_loaded", float64(loadStats.Loaded), map[string]string{"stage": "fs-source"})
	for reason, count := range loadStats.Skips {
		e.metrics.RecordCounter("audit_areas_skipped", float64(count), map[string]string{
			"stage":  "fs-source",
			"reason": string(reason),
		})
	}

	detectStart := time.Now()
	records := make([]*domain.AnomalyRecord, len(areas))
	reasons := make([]domain.SkipReason, len(areas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, area := range areas {
		g.Go(func() error {
			record, reason, err := e.detector.Detect(gctx, area, provinces)
			if err != nil {
				return fmt.Errorf("detecting area %s: %w", area.AreaCode, err)
			}
			records[i] = record
			reasons[i] = reason
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, stats, err
	}

	// Fold in input order so downstream tie-breaking sees areas the way
	// the loader discovered them.
	flagged := make([]domain.AnomalyRecord, 0, len(areas))
	for i := range records {
		if records[i] == nil {
			stats.CountCleared(reasons[i])
			continue
		}
		flagged = append(flagged, *records[i])
		e.metrics.RecordHistogram("audit_anomaly_score", records[i].AnomalyScore, map[string]string{
			"stage": e.detector.Name(),
		})
	}
	stats.Flagged = len(flagged)

	detectorLabels := map[string]string{"stage": e.detector.Name()}
	e.metrics.RecordLatency("detect", time.Since(detectStart), detectorLabels)
	e.metrics.RecordCounter("audit_areas_flagged", float64(stats.Flagged), detectorLabels)
	e.metrics.RecordCounter("audit_areas_cleared", float64(len(areas)-stats.Flagged), detectorLabels)

	aggregateStart := time.Now()
	rollups, err := e.aggregator.Aggregate(ctx, flagged)
	if err != nil {
		span.RecordError(err)
		return nil, stats, fmt.Errorf("aggregating records: %w", err)
	}
	e.metrics.RecordLatency("aggregate", time.Since(aggregateStart), map[string]string{"stage": e.aggregator.Name()})

	stats.Elapsed = time.Since(start)

	report, err := e.assembler.Assemble(ctx, flagged, rollups, stats)
	if err != nil {
		span.RecordError(err)
		return nil, stats, fmt.Errorf("assembling report: %w", err)
	}

	e.metrics.RecordLatency("run", stats.Elapsed, map[string]string{"stage": "engine"})
	e.metrics.RecordGauge("audit_last_run_flagged", float64(stats.Flagged), map[string]string{"stage": "engine"})

	span.SetAttributes(
		attribute.Int("run.areas_loaded", loadStats.Loaded),
		attribute.Int("run.areas_skipped", loadStats.Skipped()),
		attribute.Int("run.flagged", stats.Flagged),
	)
	log.Info("audit run complete",
		zap.Int("areas_loaded", loadStats.Loaded),
		zap.Int("areas_skipped", loadStats.Skipped()),
		zap.Int("flagged", stats.Flagged),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return report, stats, nil
}

// WriteReport serializes the report document to the configured output
// path, creating parent directories as needed. The document is written
// with two-space indentation and without HTML escaping so non-ASCII
// province names stay readable.
func (e *Engine) WriteReport(report *domain.AuditReport) error {
	if err := os.MkdirAll(filepath.Dir(e.reportPath), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	f, err := os.Create(e.reportPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		f.Close()
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	e.logger.Info("report written", zap.String("path", e.reportPath))
	e.metrics.RecordCounter("report_written", 1, map[string]string{"stage": "engine"})

	return nil
}

// noopMetrics discards all measurements. It stands in when no metrics
// collector is supplied.
type noopMetrics struct{}

func (noopMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (noopMetrics) RecordCounter(string, float64, map[string]string)       {}
func (noopMetrics) RecordGauge(string, float64, map[string]string)         {}
func (noopMetrics) RecordHistogram(string, float64, map[string]string)     {}

var _ ports.MetricsCollector = noopMetrics{}
