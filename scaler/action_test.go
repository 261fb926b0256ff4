package scaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeBounds_Next(t *testing.T) {
	tests := []struct {
		name    string
		bounds  SizeBounds
		action  Action
		current Size
		want    Size
	}{
		{"up one", FullRange(), ScaleUp, SizeSmall, SizeMedium},
		{"down one", FullRange(), ScaleDown, SizeSmall, SizeXSmall},
		{"hold", FullRange(), Hold, SizeLarge, SizeLarge},
		{"up at largest is a no-op", FullRange(), ScaleUp, Largest, Largest},
		{"down at smallest is a no-op", FullRange(), ScaleDown, Smallest, Smallest},
		{"up at configured max is a no-op", SizeBounds{Min: Smallest, Max: SizeLarge}, ScaleUp, SizeLarge, SizeLarge},
		{"down at configured min is a no-op", SizeBounds{Min: SizeMedium, Max: Largest}, ScaleDown, SizeMedium, SizeMedium},
		{"hold above max is clamped", SizeBounds{Min: Smallest, Max: SizeMedium}, Hold, SizeXLarge, SizeMedium},
		{"down below min is clamped", SizeBounds{Min: SizeLarge, Max: Largest}, ScaleDown, SizeSmall, SizeLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bounds.Next(tt.action, tt.current))
		})
	}
}

func TestAction_OutputValues(t *testing.T) {
	// The integer encoding is part of the output format.
	assert.Equal(t, 0, int(ScaleUp))
	assert.Equal(t, 1, int(ScaleDown))
	assert.Equal(t, 2, int(Hold))
	assert.Equal(t, "hold", Hold.String())
}
