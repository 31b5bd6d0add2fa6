// Package results loads election tally and reference files from the
// local filesystem into domain models for the audit pipeline.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

var _ ports.ResultSource = (*FSResultSource)(nil)

// tallyExt is the file extension tally documents are stored under.
// The file stem doubles as the area code.
const tallyExt = ".json"

// minAreaCodeLen is the shortest usable area code: a two-character
// province prefix plus at least one constituency digit.
const minAreaCodeLen = 3

// Package-level validator instance for tally document validation.
var validate = validator.New()

// SourceConfig locates the tally directories and controls how strictly
// documents are checked while loading.
type SourceConfig struct {
	// MPDir is the directory of constituency tally files, one JSON file
	// per area named <areaCode>.json. The directory must exist.
	MPDir string `yaml:"mp_dir" validate:"required"`

	// PLDir is the directory of party-list tally files using the same
	// naming scheme. Areas without a counterpart here are skipped.
	PLDir string `yaml:"pl_dir" validate:"required"`

	// ValidateOrdering enables the winner-first precondition check on
	// constituency tallies. Areas whose entries are not in descending
	// vote order are skipped instead of misread. Default: true.
	ValidateOrdering bool `yaml:"validate_ordering"`
}

// DefaultSourceConfig returns the conventional tally layout used by the
// published data set.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		MPDir:            filepath.Join("data", "mp"),
		PLDir:            filepath.Join("data", "pl"),
		ValidateOrdering: true,
	}
}

// FSResultSource loads per-area tally pairs from two directories of
// JSON files. Discovery is driven by the constituency directory: every
// MP file defines an area, and the matching PL file is looked up by
// name. Unusable areas are skipped and counted, never fatal; only a
// missing constituency directory aborts the load.
//
// FSResultSource is safe for concurrent use, though a single Load call
// per run is the expected pattern.
type FSResultSource struct {
	config   SourceConfig
	logger   *zap.Logger
	progress rate.Sometimes
}

// NewFSResultSource creates a loader for the given directory layout.
// A nil logger disables logging.
//
// Returns a configuration validation error if either directory is
// unset.
func NewFSResultSource(config SourceConfig, logger *zap.Logger) (*FSResultSource, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FSResultSource{
		config: config,
		logger: logger,
		// Progress lines are throttled so large tally sets do not flood
		// the log at one line per area.
		progress: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}, nil
}

// Load walks the constituency directory in lexicographic order and
// returns one AreaResult per usable area, preserving directory order.
// Skips are recorded in LoadStats by reason and logged; Load fails only
// when the constituency directory itself is missing or unreadable, or
// when ctx is canceled.
func (s *FSResultSource) Load(ctx context.Context) ([]domain.AreaResult, domain.LoadStats, error) {
	var stats domain.LoadStats

	dirEntries, err := os.ReadDir(s.config.MPDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stats, fmt.Errorf("%w: %s", domain.ErrResultRootMissing, s.config.MPDir)
		}
		return nil, stats, fmt.Errorf("reading tally directory %s: %w", s.config.MPDir, err)
	}

	areas := make([]domain.AreaResult, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tallyExt) {
			continue
		}
		stats.Discovered++

		s.progress.Do(func() {
			s.logger.Info("scanning constituency tallies",
				zap.String("dir", s.config.MPDir),
				zap.Int("discovered", stats.Discovered),
			)
		})

		area, reason, err := s.loadArea(strings.TrimSuffix(entry.Name(), tallyExt))
		if reason != "" {
			stats.CountSkip(reason)
			s.logger.Warn("skipping area",
				zap.String("file", entry.Name()),
				zap.String("reason", string(reason)),
				zap.Error(err),
			)
			continue
		}

		areas = append(areas, area)
		stats.Loaded++
	}

	s.logger.Info("tally load complete",
		zap.Int("discovered", stats.Discovered),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped()),
	)

	return areas, stats, nil
}

// loadArea assembles one area from its MP/PL file pair. A non-empty
// skip reason means the area is unusable; err then carries the detail
// for logging and is never returned to callers of Load.
func (s *FSResultSource) loadArea(areaCode string) (domain.AreaResult, domain.SkipReason, error) {
	if !isAreaCode(areaCode) {
		return domain.AreaResult{}, domain.SkipBadAreaCode,
			fmt.Errorf("file stem %q is not an area code", areaCode)
	}

	plPath := filepath.Join(s.config.PLDir, areaCode+tallyExt)
	if _, err := os.Stat(plPath); err != nil {
		if os.IsNotExist(err) {
			return domain.AreaResult{}, domain.SkipMissingPL, err
		}
		return domain.AreaResult{}, domain.SkipMalformedPL, err
	}

	var mpDoc domain.MPResultDocument
	if err := decodeTally(filepath.Join(s.config.MPDir, areaCode+tallyExt), &mpDoc); err != nil {
		return domain.AreaResult{}, domain.SkipMalformedMP, err
	}
	if len(mpDoc.Entries) == 0 {
		return domain.AreaResult{}, domain.SkipEmptyMP, domain.ErrEmptyTally
	}

	var plDoc domain.PLResultDocument
	if err := decodeTally(plPath, &plDoc); err != nil {
		return domain.AreaResult{}, domain.SkipMalformedPL, err
	}

	if s.config.ValidateOrdering {
		if err := checkDescending(mpDoc.Entries); err != nil {
			return domain.AreaResult{}, domain.SkipPrecondition, err
		}
	}

	return domain.AreaResult{
		AreaCode: areaCode,
		MP:       mpDoc.Entries,
		PL:       plDoc.Entries,
	}, "", nil
}

// decodeTally reads and validates one tally document. Unknown JSON
// fields are tolerated; missing required fields and negative totals are
// not.
func decodeTally(path string, doc any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
	}
	return nil
}

// checkDescending verifies the winner-first invariant.
func checkDescending(entries []domain.MPResultEntry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].VoteTotal > entries[i-1].VoteTotal {
			return fmt.Errorf("%w: entry %d outranks entry %d",
				domain.ErrTallyOrder, i, i-1)
		}
	}
	return nil
}

// isAreaCode reports whether a file stem is a usable area code: all
// decimal digits with at least a province prefix and one constituency
// digit.
func isAreaCode(s string) bool {
	if len(s) < minAreaCodeLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
