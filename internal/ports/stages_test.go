package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-scrutineer/internal/domain"
)

// mockDetector is a test implementation of the AnomalyDetector interface
type mockDetector struct {
	name        string
	detectFunc  func(context.Context, domain.AreaResult, domain.ProvinceReference) (*domain.AnomalyRecord, domain.SkipReason, error)
	validateErr error
}

func (m *mockDetector) Name() string { return m.name }

func (m *mockDetector) Detect(
	ctx context.Context, area domain.AreaResult, provinces domain.ProvinceReference,
) (*domain.AnomalyRecord, domain.SkipReason, error) {
	if m.detectFunc != nil {
		return m.detectFunc(ctx, area, provinces)
	}
	return nil, domain.SkipTwinNotListed, nil
}

func (m *mockDetector) Validate() error { return m.validateErr }

func TestAnomalyDetector_Interface(t *testing.T) {
	// Verify mockDetector implements AnomalyDetector interface
	var _ AnomalyDetector = (*mockDetector)(nil)

	detector := &mockDetector{
		name: "test-detector",
		detectFunc: func(ctx context.Context, area domain.AreaResult, provinces domain.ProvinceReference) (*domain.AnomalyRecord, domain.SkipReason, error) {
			return &domain.AnomalyRecord{AreaCode: area.AreaCode}, "", nil
		},
	}

	assert.Equal(t, "test-detector", detector.Name(), "Name() mismatch")
	assert.NoError(t, detector.Validate(), "Validate() should not return error")

	ctx := context.Background()
	record, reason, err := detector.Detect(ctx, domain.AreaResult{AreaCode: "100105"}, nil)
	require.NoError(t, err, "Detect() should not return error")
	assert.Empty(t, reason, "flagged areas carry no skip reason")
	require.NotNil(t, record)
	assert.Equal(t, "100105", record.AreaCode, "record should carry the area code")
}

func TestAnomalyDetector_ClearedArea(t *testing.T) {
	detector := &mockDetector{name: "clearing-detector"}

	record, reason, err := detector.Detect(context.Background(), domain.AreaResult{}, nil)
	require.NoError(t, err, "a cleared area is not an error")
	assert.Nil(t, record, "cleared areas produce no record")
	assert.Equal(t, domain.SkipTwinNotListed, reason, "cleared areas carry a reason")
}

func TestAnomalyDetector_ContextCancellation(t *testing.T) {
	detector := &mockDetector{
		name: "context-aware-detector",
		detectFunc: func(ctx context.Context, area domain.AreaResult, provinces domain.ProvinceReference) (*domain.AnomalyRecord, domain.SkipReason, error) {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			default:
				return nil, domain.SkipNumberOutOfRange, nil
			}
		},
	}

	// Test with cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, _, err := detector.Detect(ctx, domain.AreaResult{}, nil)
	assert.Equal(t, context.Canceled, err, "Detect() with cancelled context should return context.Canceled")
}

func TestAnomalyDetector_ValidationFailure(t *testing.T) {
	validationErr := errors.New("invalid configuration")
	detector := &mockDetector{
		name:        "failing-detector",
		validateErr: validationErr,
	}

	err := detector.Validate()
	assert.Equal(t, validationErr, err, "Validate() error mismatch")
}
