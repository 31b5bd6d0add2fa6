package ports

import (
	"context"

	"github.com/ahrav/go-scrutineer/internal/domain"
)

// ResultSource loads every auditable area from an election tally store.
// Implementations decide how areas are discovered and which ones are
// dropped, reporting drops through LoadStats rather than errors so one
// bad file cannot sink a run.
type ResultSource interface {
	// Load discovers and decodes all areas, returning them in discovery
	// order together with the load statistics.
	// Load fails only when the store itself is unusable, for example
	// when the constituency tally root is missing.
	Load(ctx context.Context) ([]domain.AreaResult, domain.LoadStats, error)
}

// ReferenceSource resolves shared election reference data.
type ReferenceSource interface {
	// Provinces returns the province naming reference. Implementations
	// should degrade to an empty reference when the backing data is
	// missing, since reports can fall back to placeholder names.
	Provinces(ctx context.Context) (domain.ProvinceReference, error)
}
