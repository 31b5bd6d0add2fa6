package results

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ahrav/go-scrutineer/internal/domain"
	"github.com/ahrav/go-scrutineer/internal/ports"
)

var _ ports.ReferenceSource = (*FSReferenceSource)(nil)

// referenceDocument is the on-disk shape of the shared reference file.
// Only the province list is consumed here.
type referenceDocument struct {
	Provinces []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"provinces"`
}

// FSReferenceSource reads the static province-name lookup from a JSON
// reference file. The reference is decorative: a missing or unreadable
// file degrades to an empty mapping so reports fall back to placeholder
// names instead of failing the run.
type FSReferenceSource struct {
	path   string
	logger *zap.Logger
}

// NewFSReferenceSource creates a reference source for the given file.
// A nil logger disables logging.
func NewFSReferenceSource(path string, logger *zap.Logger) *FSReferenceSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSReferenceSource{path: path, logger: logger}
}

// Provinces loads the province reference. Entries are keyed by the
// two-character code obtained by stripping the PROVINCE- prefix; rows
// without a code are dropped. Any read or decode failure yields an
// empty reference and a warning, never an error.
func (s *FSReferenceSource) Provinces(ctx context.Context) (domain.ProvinceReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref := make(domain.ProvinceReference)

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("province reference unavailable, names will degrade",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return ref, nil
	}

	var doc referenceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("province reference unreadable, names will degrade",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return ref, nil
	}

	for _, p := range doc.Provinces {
		code := strings.TrimPrefix(p.Code, domain.ProvinceCodePrefix)
		if code == "" {
			continue
		}
		ref[code] = p.Name
	}

	s.logger.Debug("province reference loaded",
		zap.String("path", s.path),
		zap.Int("provinces", len(ref)),
	)

	return ref, nil
}
