package domain

import "time"

// SkipReason labels why an area produced no anomaly record. Loader
// reasons mark files that never became an AreaResult; detector reasons
// mark areas that were examined and cleared.
type SkipReason string

// Skip reasons reported while loading tally files.
const (
	// SkipMissingPL marks an MP file with no matching PL file.
	SkipMissingPL SkipReason = "missing_pl"

	// SkipMalformedMP marks an MP file that failed decoding or validation.
	SkipMalformedMP SkipReason = "malformed_mp"

	// SkipMalformedPL marks a PL file that failed decoding or validation.
	SkipMalformedPL SkipReason = "malformed_pl"

	// SkipEmptyMP marks an area whose MP tally holds no entries.
	SkipEmptyMP SkipReason = "empty_mp"

	// SkipBadAreaCode marks a file whose name is not a usable area code.
	SkipBadAreaCode SkipReason = "bad_area_code"

	// SkipPrecondition marks an area whose tallies broke an ordering or
	// consistency precondition.
	SkipPrecondition SkipReason = "precondition"
)

// Skip reasons reported by the detector for areas that were examined
// and cleared.
const (
	// SkipMalformedCandidate marks a winner whose candidate code could
	// not be parsed into a ballot number.
	SkipMalformedCandidate SkipReason = "malformed_candidate"

	// SkipNumberOutOfRange marks a winner whose ballot number falls
	// outside the eligible range.
	SkipNumberOutOfRange SkipReason = "number_out_of_range"

	// SkipNumberExcluded marks a winner whose ballot number is on the
	// exclusion list.
	SkipNumberExcluded SkipReason = "number_excluded"

	// SkipTwinNotListed marks an area where the twin party drew no
	// party-list entry.
	SkipTwinNotListed SkipReason = "twin_not_listed"

	// SkipTwinIsWinnerParty marks an area where the twin party is the
	// winner's own party.
	SkipTwinIsWinnerParty SkipReason = "twin_is_winner_party"

	// SkipTwinRankAboveCutoff marks an area where the twin party ranked
	// below the relevance cutoff.
	SkipTwinRankAboveCutoff SkipReason = "twin_rank_above_cutoff"
)

// LoadStats summarizes one pass over the tally directories.
type LoadStats struct {
	// Discovered is the number of MP tally files seen.
	Discovered int

	// Loaded is the number of areas that produced a usable AreaResult.
	Loaded int

	// Skips counts dropped areas by reason.
	Skips map[SkipReason]int
}

// CountSkip records one skipped area, allocating the reason map on
// first use.
func (s *LoadStats) CountSkip(reason SkipReason) {
	if s.Skips == nil {
		s.Skips = make(map[SkipReason]int)
	}
	s.Skips[reason]++
}

// Skipped returns the total number of areas dropped while loading.
func (s LoadStats) Skipped() int {
	var n int
	for _, c := range s.Skips {
		n += c
	}
	return n
}

// RunStats summarizes a complete audit run for report metadata and
// operator logs.
type RunStats struct {
	// RunID identifies the run across logs, traces, and the report.
	RunID string

	// Load carries the loader's view of the tally directories.
	Load LoadStats

	// Cleared counts examined areas that produced no record, by reason.
	Cleared map[SkipReason]int

	// Flagged is the number of anomaly records produced.
	Flagged int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// CountCleared records one examined-but-clean area.
func (s *RunStats) CountCleared(reason SkipReason) {
	if s.Cleared == nil {
		s.Cleared = make(map[SkipReason]int)
	}
	s.Cleared[reason]++
}
