// Package domain contains pure, dependency-free domain models and types
// for the election audit engine.
package domain

// MPResultEntry is one candidate row in a constituency (MP) tally.
// Documents carry entries sorted by vote total in descending order,
// so the first entry of a well-formed tally is the constituency winner.
type MPResultEntry struct {
	// CandidateCode is the canonical candidate identifier, built from a
	// fixed prefix, the owning area code, and the ballot number.
	CandidateCode string `json:"candidateCode" validate:"required"`

	// PartyCode identifies the party that fielded the candidate.
	PartyCode string `json:"partyCode" validate:"required"`

	// VoteTotal is the number of votes counted for the candidate.
	VoteTotal int `json:"voteTotal" validate:"min=0"`
}

// PLResultEntry is one party row in an area's party-list (PL) tally.
type PLResultEntry struct {
	// PartyCode identifies the party receiving list votes.
	PartyCode string `json:"partyCode" validate:"required"`

	// VoteTotal is the number of list votes counted for the party.
	VoteTotal int `json:"voteTotal" validate:"min=0"`

	// Rank is the party's 1-based position within the area, as published
	// by the upstream tally. It is carried verbatim, not recomputed.
	Rank int `json:"rank" validate:"min=1"`
}

// MPResultDocument is the on-disk shape of a constituency tally file.
type MPResultDocument struct {
	Entries []MPResultEntry `json:"entries" validate:"dive"`
}

// PLResultDocument is the on-disk shape of a party-list tally file.
type PLResultDocument struct {
	Entries []PLResultEntry `json:"entries" validate:"dive"`
}

// AreaResult pairs the two tallies of a single electoral area after
// loading. Both slices preserve the document order of their source files.
type AreaResult struct {
	// AreaCode is the area identifier taken from the tally file names.
	// Its first two characters name the province the area belongs to.
	AreaCode string

	// MP holds the constituency tally, winner first.
	MP []MPResultEntry

	// PL holds the party-list tally in document order.
	PL []PLResultEntry
}

// Winner returns the constituency winner, which is the first MP entry.
// The second return is false when the tally is empty.
func (a AreaResult) Winner() (MPResultEntry, bool) {
	if len(a.MP) == 0 {
		return MPResultEntry{}, false
	}
	return a.MP[0], true
}

// ProvinceID returns the two-character province identifier encoded in
// the area code. Area codes shorter than two characters are returned
// unchanged; loaders reject them before detection runs.
func (a AreaResult) ProvinceID() string {
	if len(a.AreaCode) < provinceIDLen {
		return a.AreaCode
	}
	return a.AreaCode[:provinceIDLen]
}

// provinceIDLen is the number of leading area-code characters that
// identify the province.
const provinceIDLen = 2
