package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by loaders and pipeline stages.
var (
	// ErrResultRootMissing indicates that the constituency tally
	// directory does not exist. Without it there is nothing to audit,
	// so runs treat this as fatal.
	ErrResultRootMissing = errors.New("result root missing")

	// ErrCandidatePrefix indicates that a candidate code does not start
	// with the canonical prefix for its area.
	ErrCandidatePrefix = errors.New("candidate code missing area prefix")

	// ErrCandidateNumber indicates that the remainder of a candidate
	// code is not a plain decimal ballot number.
	ErrCandidateNumber = errors.New("candidate code has no ballot number")

	// ErrEmptyTally indicates that a tally document holds no entries.
	ErrEmptyTally = errors.New("empty tally")

	// ErrTallyOrder indicates that MP entries are not sorted by vote
	// total in descending order, so the first entry cannot be trusted
	// to be the winner.
	ErrTallyOrder = errors.New("tally not in descending vote order")
)

// CandidateCodeError reports a candidate code that could not be parsed
// against its area. It wraps ErrCandidatePrefix or ErrCandidateNumber
// so callers can branch on the failure mode with errors.Is.
type CandidateCodeError struct {
	// Code is the candidate code that failed to parse.
	Code string

	// AreaCode is the area the code was parsed against.
	AreaCode string

	// Err is the underlying failure mode.
	Err error
}

// Error implements the error interface for CandidateCodeError.
func (e *CandidateCodeError) Error() string {
	return fmt.Sprintf("candidate code %q in area %s: %v", e.Code, e.AreaCode, e.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *CandidateCodeError) Unwrap() error { return e.Err }
