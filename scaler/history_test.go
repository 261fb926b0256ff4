package scaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostHistory_RecordAndAverage(t *testing.T) {
	h := NewCostHistory()
	s := StateOf(SizeMedium, BucketL)

	_, ok := h.Average(s)
	assert.False(t, ok)

	h.Record(s, 1)
	h.Record(s, 4)
	avg, ok := h.Average(s)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, avg, 1e-12)
	assert.Equal(t, 2, h.Count(s))

	// other states are untouched
	assert.Equal(t, 0, h.Count(StateOf(SizeMedium, BucketM)))
}

func TestCostHistory_BestBucketForPicksMaximumAverage(t *testing.T) {
	// GIVEN three observed buckets at Medium and one at Large
	h := NewCostHistory()
	h.Record(StateOf(SizeMedium, BucketXS), 1)
	h.Record(StateOf(SizeMedium, BucketM), 5)
	h.Record(StateOf(SizeMedium, BucketM), 3)
	h.Record(StateOf(SizeMedium, BucketXL), 2)
	h.Record(StateOf(SizeLarge, BucketXS), 100)

	// WHEN asked for Medium's reference bucket
	avg, bucket, ok := h.BestBucketFor(SizeMedium)

	// THEN the most expensive bucket at that size wins
	assert.True(t, ok)
	assert.Equal(t, BucketM, bucket)
	assert.InDelta(t, 4.0, avg, 1e-12)
}

func TestCostHistory_BestBucketForTieGoesToFasterBucket(t *testing.T) {
	h := NewCostHistory()
	h.Record(StateOf(SizeSmall, BucketL), 2)
	h.Record(StateOf(SizeSmall, BucketS), 2)

	_, bucket, ok := h.BestBucketFor(SizeSmall)
	assert.True(t, ok)
	assert.Equal(t, BucketS, bucket)
}

func TestCostHistory_BestBucketForIgnoresUnobservedBuckets(t *testing.T) {
	// GIVEN only zero-cost observations in a slow bucket
	h := NewCostHistory()
	h.Record(StateOf(SizeSmall, BucketXLPlus), 0)

	avg, bucket, ok := h.BestBucketFor(SizeSmall)
	assert.True(t, ok)
	assert.Equal(t, BucketXLPlus, bucket)
	assert.Equal(t, 0.0, avg)
}

func TestCostHistory_BestBucketForNoData(t *testing.T) {
	h := NewCostHistory()
	h.Record(StateOf(SizeSmall, BucketXS), 1)

	_, _, ok := h.BestBucketFor(SizeLarge)
	assert.False(t, ok)
}
