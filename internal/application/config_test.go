package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scrutineer/infrastructure/detect"
)

// TestDefaultAuditConfig verifies the conventional layout and the
// published matching rule come back as validated defaults.
func TestDefaultAuditConfig(t *testing.T) {
	config := DefaultAuditConfig()

	require.NoError(t, config.Validate())

	assert.Equal(t, filepath.Join("data", "mp"), config.Source.MPDir)
	assert.Equal(t, filepath.Join("data", "pl"), config.Source.PLDir)
	assert.True(t, config.Source.ValidateOrdering)
	assert.Equal(t, filepath.Join("docs", "data", "common-data.json"), config.ReferencePath)
	assert.Equal(t, filepath.Join("data", "anomaly_report.json"), config.Report.Path)
	assert.Equal(t, DefaultWorkers, config.Workers)

	assert.Equal(t, 1, config.Detector.MinNumber)
	assert.Equal(t, 9, config.Detector.MaxNumber)
	assert.Equal(t, []int{6, 9}, config.Detector.ExcludedNumbers)
	assert.Equal(t, 7, config.Detector.MaxTwinRank)
	assert.Equal(t, detect.ScoreTwinVotes, config.Detector.Score)
}

// TestLoadConfig verifies YAML layering over the defaults and the
// strict-decoding and validation failure modes.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
		verify  func(t *testing.T, config AuditConfig)
	}{
		{
			name: "partial document keeps defaults",
			yaml: `
detector:
  max_twin_rank: 5
workers: 4
`,
			verify: func(t *testing.T, config AuditConfig) {
				assert.Equal(t, 5, config.Detector.MaxTwinRank)
				assert.Equal(t, 4, config.Workers)
				// Untouched fields keep their defaults.
				assert.Equal(t, 1, config.Detector.MinNumber)
				assert.Equal(t, filepath.Join("data", "mp"), config.Source.MPDir)
			},
		},
		{
			name: "full override",
			yaml: `
source:
  mp_dir: tallies/constituency
  pl_dir: tallies/list
  validate_ordering: false
reference_path: ref/common.json
detector:
  min_number: 1
  max_number: 9
  excluded_numbers: [6]
  max_twin_rank: 7
  score_policy: ratio
report:
  path: out/report.json
  description: Ratio-scored audit
workers: 2
`,
			verify: func(t *testing.T, config AuditConfig) {
				assert.Equal(t, "tallies/constituency", config.Source.MPDir)
				assert.False(t, config.Source.ValidateOrdering)
				assert.Equal(t, detect.ScoreRatio, config.Detector.Score)
				assert.Equal(t, []int{6}, config.Detector.ExcludedNumbers)
				assert.Equal(t, "out/report.json", config.Report.Path)
			},
		},
		{
			name:    "empty document yields pure defaults",
			yaml:    "",
			verify:  func(t *testing.T, config AuditConfig) { assert.Equal(t, DefaultAuditConfig(), config) },
			wantErr: false,
		},
		{
			name: "unknown field rejected",
			yaml: `
detektor:
  max_twin_rank: 5
`,
			wantErr: true,
			errMsg:  "YAML decode failed",
		},
		{
			name: "invalid score policy rejected",
			yaml: `
detector:
  score_policy: sentiment
`,
			wantErr: true,
			errMsg:  "struct validation failed",
		},
		{
			name: "worker count above cap rejected",
			yaml: `
workers: 500
`,
			wantErr: true,
			errMsg:  "struct validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(strings.NewReader(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			tt.verify(t, config)
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o644))

	config, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Workers)

	_, err = LoadConfigFromFile(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestAuditConfig_Validate(t *testing.T) {
	config := DefaultAuditConfig()
	config.Report.Path = ""

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "struct validation failed")
}
