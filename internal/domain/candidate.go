package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Code prefixes used by the upstream election data set. Candidate codes
// embed the area code between the prefix and the ballot number, party
// codes zero-pad the ballot number to four digits, and province codes
// wrap the two-character province identifier.
const (
	CandidateCodePrefix = "CANDIDATE-MP-"
	PartyCodePrefix     = "PARTY-"
	ProvinceCodePrefix  = "PROVINCE-"
)

// twinPartyNumberWidth is the zero-padded width of the numeric part of
// a party code.
const twinPartyNumberWidth = 4

// ParseBallotNumber extracts the candidate's ballot number from a
// candidate code of the form CANDIDATE-MP-<areaCode><number>.
// The code must carry the exact prefix for the given area and the
// remainder must be one or more decimal digits; anything else yields a
// *CandidateCodeError wrapping ErrCandidatePrefix or ErrCandidateNumber.
// Leading zeros are tolerated and do not survive parsing, so codes
// ending in "05" and "5" both parse to 5.
func ParseBallotNumber(candidateCode, areaCode string) (int, error) {
	prefix := CandidateCodePrefix + areaCode
	rest, ok := strings.CutPrefix(candidateCode, prefix)
	if !ok {
		return 0, &CandidateCodeError{
			Code:     candidateCode,
			AreaCode: areaCode,
			Err:      ErrCandidatePrefix,
		}
	}
	if rest == "" {
		return 0, &CandidateCodeError{
			Code:     candidateCode,
			AreaCode: areaCode,
			Err:      ErrCandidateNumber,
		}
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, &CandidateCodeError{
				Code:     candidateCode,
				AreaCode: areaCode,
				Err:      ErrCandidateNumber,
			}
		}
	}

	// The digit check above rules out signs and whitespace, so Atoi can
	// only fail on overflow.
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &CandidateCodeError{
			Code:     candidateCode,
			AreaCode: areaCode,
			Err:      ErrCandidateNumber,
		}
	}
	return n, nil
}

// TwinPartyCode returns the party code that shares a ballot number with
// a candidate, e.g. 5 becomes "PARTY-0005".
func TwinPartyCode(ballotNumber int) string {
	return fmt.Sprintf("%s%0*d", PartyCodePrefix, twinPartyNumberWidth, ballotNumber)
}
