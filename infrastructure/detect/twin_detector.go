package detect

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

var _ ports.AnomalyDetector = (*TwinDetector)(nil)

// TwinDetector flags areas exhibiting the twin-number pattern: the
// constituency winner's ballot number doubles as the number of a
// party-list party, that party is not the winner's own, and it still
// ranks near the top of the area's list vote. Each flagged area yields
// one anomaly record carrying the vote figures behind the match.
//
// The detector is deliberately conservative. Areas whose winner cannot
// be parsed, whose ballot number is ineligible, or whose twin party is
// absent or low-ranked are cleared with a reason rather than treated as
// failures, so a noisy tally never aborts a run.
//
// Concurrency: TwinDetector is stateless and safe for concurrent
// execution. Multiple goroutines can call Detect simultaneously without
// synchronization.
//
// Observability: Emits OpenTelemetry spans with the match outcome,
// twin-party vote figures, and latency for monitoring and analysis.
type TwinDetector struct {
	// name is the unique identifier for this detector instance.
	name string
	// config contains the validated configuration parameters.
	config TwinDetectorConfig
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// TwinDetectorConfig controls which ballot numbers are eligible for
// twin matching and how flagged areas are scored.
//
// Configuration is immutable after detector creation and thread-safe
// for concurrent access. Changes require creating a new detector.
type TwinDetectorConfig struct {
	// MinNumber is the lowest ballot number eligible for matching.
	// Default: 1.
	MinNumber int `yaml:"min_number" validate:"min=1"`

	// MaxNumber is the highest ballot number eligible for matching.
	// Numbers above it are too long to collide with the short codes
	// voters confuse. Default: 9.
	MaxNumber int `yaml:"max_number" validate:"gtefield=MinNumber"`

	// ExcludedNumbers lists ballot numbers inside the range that are
	// still ineligible, typically because the same number belongs to a
	// nationally dominant list party and would flood the report.
	// Default: 6 and 9.
	ExcludedNumbers []int `yaml:"excluded_numbers" validate:"dive,min=1"`

	// MaxTwinRank is the worst (numerically highest) published list
	// rank at which a twin party still counts as anomalously strong.
	// Default: 7.
	MaxTwinRank int `yaml:"max_twin_rank" validate:"min=1"`

	// Score selects the policy used to fill AnomalyScore.
	// Default: ScoreTwinVotes.
	Score ScorePolicy `yaml:"score_policy" validate:"required,oneof=twin_votes ratio"`
}

// Criteria renders the configured matching rule as the one-line
// description embedded in report metadata.
func (c TwinDetectorConfig) Criteria() string {
	rangePart := fmt.Sprintf("%d-%d", c.MinNumber, c.MaxNumber)
	if len(c.ExcludedNumbers) > 0 {
		excl := make([]string, len(c.ExcludedNumbers))
		for i, n := range c.ExcludedNumbers {
			excl[i] = strconv.Itoa(n)
		}
		rangePart = fmt.Sprintf("%s, excl %s", rangePart, strings.Join(excl, ","))
	}
	return fmt.Sprintf(
		"Winner MP Number (%s) matches Top %d Party List Number (Different Party)",
		rangePart, c.MaxTwinRank,
	)
}

// DefaultTwinDetectorConfig returns the configuration behind the
// published reports: ballot numbers 1 through 9 with 6 and 9 excluded,
// a rank cutoff of 7, and raw twin votes as the score.
func DefaultTwinDetectorConfig() TwinDetectorConfig {
	return TwinDetectorConfig{
		MinNumber:       1,
		MaxNumber:       9,
		ExcludedNumbers: []int{6, 9},
		MaxTwinRank:     7,
		Score:           ScoreTwinVotes,
	}
}

// NewTwinDetector creates a TwinDetector with validated configuration.
// The detector is immediately ready for concurrent use after successful
// creation.
//
// The name parameter serves as a unique identifier for logging and
// observability spans. It must be non-empty.
//
// Returns ErrEmptyStageName if name is empty, or a configuration
// validation error if the config struct fails validation constraints.
func NewTwinDetector(name string, config TwinDetectorConfig) (*TwinDetector, error) {
	if name == "" {
		return nil, ErrEmptyStageName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &TwinDetector{
		name:   name,
		config: config,
		tracer: otel.Tracer("twin-detector"),
	}, nil
}

// Name returns the unique identifier for this detector instance.
// The returned value is immutable and safe for concurrent access.
func (td *TwinDetector) Name() string { return td.name }

// Config returns a copy of the detector's configuration.
func (td *TwinDetector) Config() TwinDetectorConfig { return td.config }

// Detect applies the twin-number rule to one area.
//
// The decision proceeds winner-first: extract the winner's ballot
// number, gate it on the eligible range and exclusion list, then look
// the twin party up in the area's list tally and require a different
// party inside the rank cutoff. The first failed gate clears the area
// with the matching reason; only a flagged area produces a record.
//
// The ratio in the record divides the twin party's list votes by the
// winner's constituency votes with a floor of one vote, so unopposed
// or zero-vote winners cannot divide by zero.
//
// Detect never modifies the area and is safe for concurrent execution.
func (td *TwinDetector) Detect(
	ctx context.Context,
	area domain.AreaResult,
	provinces domain.ProvinceReference,
) (*domain.AnomalyRecord, domain.SkipReason, error) {
	_, span := td.tracer.Start(ctx, "TwinDetector.Detect",
		trace.WithAttributes(
			attribute.String("stage.type", "twin_detector"),
			attribute.String("stage.id", td.name),
			attribute.String("area.code", area.AreaCode),
		),
	)
	defer span.End()

	start := time.Now()

	winner, ok := area.Winner()
	if !ok {
		return td.cleared(span, domain.SkipEmptyMP)
	}

	number, err := domain.ParseBallotNumber(winner.CandidateCode, area.AreaCode)
	if err != nil {
		// Unparsable codes mean the area cannot participate in the
		// hypothesis, not that the run is broken.
		return td.cleared(span, domain.SkipMalformedCandidate)
	}

	if number < td.config.MinNumber || number > td.config.MaxNumber {
		return td.cleared(span, domain.SkipNumberOutOfRange)
	}
	if slices.Contains(td.config.ExcludedNumbers, number) {
		return td.cleared(span, domain.SkipNumberExcluded)
	}

	twinParty := domain.TwinPartyCode(number)

	twin, ok := findPartyList(area.PL, twinParty)
	if !ok {
		return td.cleared(span, domain.SkipTwinNotListed)
	}
	if winner.PartyCode == twinParty {
		return td.cleared(span, domain.SkipTwinIsWinnerParty)
	}
	if twin.Rank > td.config.MaxTwinRank {
		return td.cleared(span, domain.SkipTwinRankAboveCutoff)
	}

	mpTwinVotes := 0
	if entry, ok := findPartyMP(area.MP, twinParty); ok {
		mpTwinVotes = entry.VoteTotal
	}

	ratio := round4(float64(twin.VoteTotal) / float64(max(winner.VoteTotal, 1)))

	provinceID := area.ProvinceID()
	record := &domain.AnomalyRecord{
		AreaCode:             area.AreaCode,
		MPWinnerNumber:       strconv.Itoa(number),
		MPWinnerParty:        winner.PartyCode,
		MPVotes:              winner.VoteTotal,
		PLTwinParty:          twinParty,
		PLTwinRank:           twin.Rank,
		PLTwinVotes:          twin.VoteTotal,
		MPTwinCandidateVotes: mpTwinVotes,
		RatioPLToMP:          ratio,
		AnomalyScore:         td.score(twin.VoteTotal, ratio),
		ProvinceID:           provinceID,
		ProvinceName:         provinces.DisplayName(provinceID),
	}

	span.SetAttributes(
		attribute.Bool("eval.flagged", true),
		attribute.String("eval.twin_party", twinParty),
		attribute.Int("eval.twin_votes", twin.VoteTotal),
		attribute.Int64("eval.latency_ms", time.Since(start).Milliseconds()),
	)

	return record, "", nil
}

// Validate verifies the detector is properly configured and ready for
// execution. It is safe for concurrent use.
func (td *TwinDetector) Validate() error {
	if err := validate.Struct(td.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// cleared finishes the span for an area that produced no record.
func (td *TwinDetector) cleared(
	span trace.Span, reason domain.SkipReason,
) (*domain.AnomalyRecord, domain.SkipReason, error) {
	span.SetAttributes(
		attribute.Bool("eval.flagged", false),
		attribute.String("eval.cleared_reason", string(reason)),
	)
	return nil, reason, nil
}

// score applies the configured scoring policy to a flagged area.
func (td *TwinDetector) score(twinVotes int, ratio float64) float64 {
	if td.config.Score == ScoreRatio {
		return ratio
	}
	return float64(twinVotes)
}

// findPartyList returns the first list entry for the given party code.
// Tallies list each party at most once, but the first match also
// mirrors upstream behavior if one ever repeats.
func findPartyList(entries []domain.PLResultEntry, partyCode string) (domain.PLResultEntry, bool) {
	for _, e := range entries {
		if e.PartyCode == partyCode {
			return e, true
		}
	}
	return domain.PLResultEntry{}, false
}

// findPartyMP returns the first MP entry fielded by the given party.
func findPartyMP(entries []domain.MPResultEntry, partyCode string) (domain.MPResultEntry, bool) {
	for _, e := range entries {
		if e.PartyCode == partyCode {
			return e, true
		}
	}
	return domain.MPResultEntry{}, false
}

// round4 rounds to four decimal places, matching the precision of the
// published ratio figures.
func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
