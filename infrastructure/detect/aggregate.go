package detect

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

var _ ports.StatsAggregator = (*RollupAggregator)(nil)

// RollupAccumulator folds anomaly records into per-province and
// per-party tallies. It records the order in which each province and
// party first appears, so the final sorts can break ties by scan order
// instead of map iteration order.
//
// The accumulator is not safe for concurrent use. The engine folds all
// records on a single goroutine after the parallel detection phase.
type RollupAccumulator struct {
	provinces     map[string]*domain.ProvinceStat
	provinceOrder []string

	parties    map[string]*domain.PartyStat
	partyOrder []string
}

// NewRollupAccumulator returns an empty accumulator ready for folding.
func NewRollupAccumulator() *RollupAccumulator {
	return &RollupAccumulator{
		provinces: make(map[string]*domain.ProvinceStat),
		parties:   make(map[string]*domain.PartyStat),
	}
}

// Add folds one anomaly record into both rollups.
func (acc *RollupAccumulator) Add(record domain.AnomalyRecord) {
	prov, ok := acc.provinces[record.ProvinceID]
	if !ok {
		prov = &domain.ProvinceStat{ID: record.ProvinceID, Name: record.ProvinceName}
		acc.provinces[record.ProvinceID] = prov
		acc.provinceOrder = append(acc.provinceOrder, record.ProvinceID)
	}
	prov.Count++
	prov.TotalGhostVotes += record.PLTwinVotes
	prov.Areas = append(prov.Areas, record.AreaCode)

	party, ok := acc.parties[record.MPWinnerParty]
	if !ok {
		party = &domain.PartyStat{
			PartyCode: record.MPWinnerParty,
			Provinces: make(map[string]int),
		}
		acc.parties[record.MPWinnerParty] = party
		acc.partyOrder = append(acc.partyOrder, record.MPWinnerParty)
	}
	party.Count++
	party.TotalGhostVotes += record.PLTwinVotes
	party.Provinces[record.ProvinceName]++
}

// Rollups returns the accumulated statistics sorted for presentation:
// provinces descending by total ghost votes and parties descending by
// flagged-area count. Ties keep first-seen order, which is why both
// sorts must be stable.
func (acc *RollupAccumulator) Rollups() domain.Rollups {
	provinces := make([]domain.ProvinceStat, 0, len(acc.provinceOrder))
	for _, id := range acc.provinceOrder {
		provinces = append(provinces, *acc.provinces[id])
	}
	sort.SliceStable(provinces, func(i, j int) bool {
		return provinces[i].TotalGhostVotes > provinces[j].TotalGhostVotes
	})

	parties := make([]domain.PartyStat, 0, len(acc.partyOrder))
	for _, code := range acc.partyOrder {
		parties = append(parties, *acc.parties[code])
	}
	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].Count > parties[j].Count
	})

	return domain.Rollups{Provinces: provinces, Parties: parties}
}

// RollupAggregator implements the reduce phase of the audit pipeline,
// turning the flat list of anomaly records into the province and party
// views shown in reports.
//
// Concurrency: RollupAggregator is stateless between calls and safe for
// concurrent use; each Aggregate call builds its own accumulator.
type RollupAggregator struct {
	// name is the unique identifier for this aggregator instance.
	name string
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// NewRollupAggregator creates a RollupAggregator.
//
// The name parameter serves as a unique identifier for logging and
// observability spans. It must be non-empty.
//
// Returns ErrEmptyStageName if name is empty.
func NewRollupAggregator(name string) (*RollupAggregator, error) {
	if name == "" {
		return nil, ErrEmptyStageName
	}

	return &RollupAggregator{
		name:   name,
		tracer: otel.Tracer("rollup-aggregator"),
	}, nil
}

// Name returns the unique identifier for this aggregator instance.
func (ra *RollupAggregator) Name() string { return ra.name }

// Aggregate folds the records, which must arrive in area-scan order,
// into sorted province and party rollups. The input slice is read only.
// An empty input yields empty rollups, not an error.
func (ra *RollupAggregator) Aggregate(
	ctx context.Context, records []domain.AnomalyRecord,
) (domain.Rollups, error) {
	_, span := ra.tracer.Start(ctx, "RollupAggregator.Aggregate",
		trace.WithAttributes(
			attribute.String("stage.type", "rollup_aggregator"),
			attribute.String("stage.id", ra.name),
			attribute.Int("eval.records", len(records)),
		),
	)
	defer span.End()

	start := time.Now()

	acc := NewRollupAccumulator()
	for _, record := range records {
		acc.Add(record)
	}
	rollups := acc.Rollups()

	span.SetAttributes(
		attribute.Int("eval.provinces", len(rollups.Provinces)),
		attribute.Int("eval.parties", len(rollups.Parties)),
		attribute.Int64("eval.latency_ms", time.Since(start).Milliseconds()),
	)

	return rollups, nil
}

// Validate reports whether the aggregator is ready for execution.
// The aggregator carries no configuration, so a constructed instance
// is always valid.
func (ra *RollupAggregator) Validate() error { return nil }
