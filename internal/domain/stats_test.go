package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadStatsCountSkip(t *testing.T) {
	var stats LoadStats
	assert.Equal(t, 0, stats.Skipped(), "fresh stats should report zero skips")

	stats.CountSkip(SkipMissingPL)
	stats.CountSkip(SkipMissingPL)
	stats.CountSkip(SkipMalformedMP)

	assert.Equal(t, 3, stats.Skipped())
	assert.Equal(t, 2, stats.Skips[SkipMissingPL])
	assert.Equal(t, 1, stats.Skips[SkipMalformedMP])
}

func TestRunStatsCountCleared(t *testing.T) {
	var stats RunStats

	stats.CountCleared(SkipTwinNotListed)
	stats.CountCleared(SkipTwinNotListed)
	stats.CountCleared(SkipNumberExcluded)

	assert.Equal(t, 2, stats.Cleared[SkipTwinNotListed])
	assert.Equal(t, 1, stats.Cleared[SkipNumberExcluded])
}
