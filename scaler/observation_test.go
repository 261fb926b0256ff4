package scaler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservation_ParseValid(t *testing.T) {
	got, err := NewObservation(SizeLarge, BucketXLPlus, 0.25).parse(0)
	require.NoError(t, err)
	assert.Equal(t, parsed{size: SizeLarge, bucket: BucketXLPlus, cost: 0.25}, got)
}

func TestObservation_ParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		obs       Observation
		malformed bool
		field     string
		cause     error
	}{
		{"unknown size", Observation{ResourceSize: "Unknown", RuntimeBucket: "XS", Cost: "1"}, false, "", ErrUnknownSizeLabel},
		{"unknown bucket", Observation{ResourceSize: "Small", RuntimeBucket: "XXS", Cost: "1"}, true, "runtime_bucket", ErrUnknownBucketLabel},
		{"non-numeric cost", Observation{ResourceSize: "Small", RuntimeBucket: "XS", Cost: "abc"}, true, "cost", nil},
		{"negative cost", Observation{ResourceSize: "Small", RuntimeBucket: "XS", Cost: "-1"}, true, "cost", errInvalidCost},
		{"NaN cost", Observation{ResourceSize: "Small", RuntimeBucket: "XS", Cost: "NaN"}, true, "cost", errInvalidCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.obs.parse(3)
			require.Error(t, err)
			assert.Equal(t, tt.malformed, errors.Is(err, ErrMalformedObservation))
			if tt.cause != nil {
				assert.True(t, errors.Is(err, tt.cause), "got %v", err)
			}
			var oe *ObservationError
			if tt.malformed {
				require.True(t, errors.As(err, &oe))
				assert.Equal(t, 3, oe.Row)
				assert.Equal(t, tt.field, oe.Field)
			} else {
				assert.False(t, errors.As(err, &oe))
			}
		})
	}
}
