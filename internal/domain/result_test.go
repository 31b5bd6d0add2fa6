package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreaResultWinner(t *testing.T) {
	t.Run("empty tally has no winner", func(t *testing.T) {
		_, ok := AreaResult{AreaCode: "100105"}.Winner()
		assert.False(t, ok)
	})

	t.Run("first entry wins", func(t *testing.T) {
		area := AreaResult{
			AreaCode: "100105",
			MP: []MPResultEntry{
				{CandidateCode: "CANDIDATE-MP-1001055", PartyCode: "PARTY-0002", VoteTotal: 8000},
				{CandidateCode: "CANDIDATE-MP-1001051", PartyCode: "PARTY-0001", VoteTotal: 6500},
			},
		}

		winner, ok := area.Winner()
		assert.True(t, ok)
		assert.Equal(t, "CANDIDATE-MP-1001055", winner.CandidateCode)
		assert.Equal(t, 8000, winner.VoteTotal)
	})
}

func TestAreaResultProvinceID(t *testing.T) {
	tests := []struct {
		areaCode string
		want     string
	}{
		{"100105", "10"},
		{"73", "73"},
		{"9", "9"},
		{"", ""},
	}

	for _, tt := range tests {
		got := AreaResult{AreaCode: tt.areaCode}.ProvinceID()
		assert.Equal(t, tt.want, got, "area code %q", tt.areaCode)
	}
}
