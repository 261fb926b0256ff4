package scaler

// CostHistory accumulates observed costs per state for one controller.
// It is never reset while the controller lives.
type CostHistory struct {
	sum   [NumStates]float64
	count [NumStates]float64
}

// NewCostHistory creates an empty history.
func NewCostHistory() *CostHistory {
	return &CostHistory{}
}

// Record adds one cost observation for s.
func (h *CostHistory) Record(s State, cost float64) {
	h.sum[s] += cost
	h.count[s]++
}

// Count returns how many costs were recorded for s.
func (h *CostHistory) Count(s State) int {
	return int(h.count[s])
}

// Average returns the mean recorded cost for s, or false if s was never seen.
func (h *CostHistory) Average(s State) (float64, bool) {
	if h.count[s] == 0 {
		return 0, false
	}
	return h.sum[s] / h.count[s], true
}

// BestBucketFor returns, among the buckets observed at size, the one with the
// MAXIMUM average cost, together with that average. Ties go to the faster
// bucket. ok is false when size has no observations at all.
//
// The maximum (not the minimum) is what the restart procedure has always used
// as its reference trajectory; it is kept as-is pending product review.
func (h *CostHistory) BestBucketFor(size Size) (avgCost float64, bucket RuntimeBucket, ok bool) {
	for b := RuntimeBucket(0); int(b) < NumBuckets; b++ {
		avg, seen := h.Average(StateOf(size, b))
		if !seen {
			continue
		}
		if !ok || avg > avgCost {
			avgCost, bucket, ok = avg, b, true
		}
	}
	return avgCost, bucket, ok
}
