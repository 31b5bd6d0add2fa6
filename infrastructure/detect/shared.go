// Package detect provides the audit stages that implement the twin-number
// analysis: flagging areas, rolling up statistics, and assembling reports.
package detect

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ScorePolicy selects how an anomaly record's ordering score is derived
// from the votes observed in the flagged area.
type ScorePolicy string

// Supported scoring policies for the twin detector.
const (
	// ScoreTwinVotes scores an anomaly by the twin party's raw list
	// votes. This is the default and matches the published reports.
	ScoreTwinVotes ScorePolicy = "twin_votes"

	// ScoreRatio scores an anomaly by the list-to-constituency vote
	// ratio, surfacing small areas with outsized twin support.
	ScoreRatio ScorePolicy = "ratio"
)

// ErrEmptyStageName is returned when attempting to create a stage with
// an empty name. All stages share it for consistent construction errors.
var ErrEmptyStageName = errors.New("stage name cannot be empty")

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
