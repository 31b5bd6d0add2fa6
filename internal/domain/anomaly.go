package domain

import "time"

// AnomalyRecord captures one flagged area: a constituency winner whose
// ballot number doubles as the number of a party-list party that drew a
// suspiciously strong list vote in the same area.
type AnomalyRecord struct {
	// AreaCode identifies the flagged area.
	AreaCode string `json:"area_code"`

	// MPWinnerNumber is the winner's ballot number rendered without
	// leading zeros, exactly as it was matched against the twin party.
	MPWinnerNumber string `json:"mp_winner_number"`

	// MPWinnerParty is the party code of the constituency winner.
	MPWinnerParty string `json:"mp_winner_party"`

	// MPVotes is the winner's constituency vote total.
	MPVotes int `json:"mp_votes"`

	// PLTwinParty is the party-list party sharing the winner's number.
	PLTwinParty string `json:"pl_twin_party"`

	// PLTwinRank is the twin party's published rank within the area.
	PLTwinRank int `json:"pl_twin_rank"`

	// PLTwinVotes is the twin party's list vote total in the area.
	PLTwinVotes int `json:"pl_twin_votes"`

	// MPTwinCandidateVotes is the constituency vote total of the twin
	// party's own MP candidate in the area, or zero if it fielded none.
	MPTwinCandidateVotes int `json:"mp_twin_candidate_votes"`

	// RatioPLToMP is PLTwinVotes divided by the winner's votes (with a
	// floor of one vote), rounded to four decimal places.
	RatioPLToMP float64 `json:"ratio_pl_to_mp"`

	// AnomalyScore orders records in the report. The default policy
	// scores an anomaly by the twin party's raw list votes.
	AnomalyScore float64 `json:"anomaly_score"`

	// ProvinceID is the two-character province identifier of the area.
	ProvinceID string `json:"province_id"`

	// ProvinceName is the resolved display name of the province.
	ProvinceName string `json:"province_name"`
}

// ProvinceStat aggregates the anomalies observed inside one province.
type ProvinceStat struct {
	// ID is the two-character province identifier.
	ID string `json:"id"`

	// Name is the resolved province display name.
	Name string `json:"name"`

	// Count is the number of flagged areas in the province.
	Count int `json:"count"`

	// TotalGhostVotes sums the twin-party list votes across those areas.
	TotalGhostVotes int `json:"total_ghost_votes"`

	// Areas lists the flagged area codes in first-flagged order.
	Areas []string `json:"areas"`
}

// PartyStat aggregates the anomalies attributed to one winning MP party.
type PartyStat struct {
	// PartyCode is the MP winner's party code.
	PartyCode string `json:"party_code"`

	// Count is the number of flagged areas won by the party.
	Count int `json:"count"`

	// TotalGhostVotes sums the twin-party list votes across those areas.
	TotalGhostVotes int `json:"total_ghost_votes"`

	// Provinces counts flagged areas per province display name. Names
	// key this map because it feeds the breakdown display directly.
	Provinces map[string]int `json:"provinces"`
}

// Rollups carries the two aggregate views computed from a run's anomaly
// records, each already sorted for presentation.
type Rollups struct {
	// Provinces is sorted by total ghost votes, highest first.
	Provinces []ProvinceStat

	// Parties is sorted by flagged-area count, highest first.
	Parties []PartyStat
}

// ReportMetadata describes a finished audit run.
type ReportMetadata struct {
	// Description is a human-readable summary of what the report holds.
	Description string `json:"description"`

	// Criteria spells out the matching rule the detector applied.
	Criteria string `json:"criteria"`

	// TotalAreasFlagged is the number of anomaly records in the report.
	TotalAreasFlagged int `json:"total_areas_flagged"`

	// RunID uniquely identifies the audit run that produced the report.
	RunID string `json:"run_id"`

	// GeneratedAt is the UTC completion time of the run.
	GeneratedAt time.Time `json:"generated_at"`

	// AreasScanned counts the areas that reached the detector.
	AreasScanned int `json:"areas_scanned"`

	// AreasSkipped counts the areas dropped while loading.
	AreasSkipped int `json:"areas_skipped"`
}

// AuditReport is the complete output of an audit run, ready for JSON
// serialization.
type AuditReport struct {
	Metadata      ReportMetadata  `json:"metadata"`
	Anomalies     []AnomalyRecord `json:"anomalies"`
	ProvinceStats []ProvinceStat  `json:"province_stats"`
	MPPartyStats  []PartyStat     `json:"mp_party_stats"`
}
