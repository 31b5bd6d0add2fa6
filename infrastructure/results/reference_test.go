package results

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scrutineer/internal/domain"
)

func TestFSReferenceSource_Provinces(t *testing.T) {
	t.Run("loads and strips prefixes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "common-data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"provinces": [
				{"code": "PROVINCE-10", "name": "Bangkok"},
				{"code": "PROVINCE-50", "name": "Chiang Mai"},
				{"code": "", "name": "orphan row"}
			],
			"parties": [{"code": "PARTY-0001"}]
		}`), 0o644))

		ref, err := NewFSReferenceSource(path, nil).Provinces(context.Background())
		require.NoError(t, err)

		assert.Equal(t, domain.ProvinceReference{
			"10": "Bangkok",
			"50": "Chiang Mai",
		}, ref)
	})

	t.Run("missing file degrades to empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.json")

		ref, err := NewFSReferenceSource(path, nil).Provinces(context.Background())
		require.NoError(t, err, "a missing reference must not fail the run")
		assert.Empty(t, ref)
		assert.Equal(t, "Unknown (10)", ref.DisplayName("10"))
	})

	t.Run("malformed file degrades to empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "common-data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"provinces": "nope"`), 0o644))

		ref, err := NewFSReferenceSource(path, nil).Provinces(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ref)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFSReferenceSource("ignored.json", nil).Provinces(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
