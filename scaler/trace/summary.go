package trace

// TraceSummary aggregates statistics from a PartitionTrace.
type TraceSummary struct {
	TotalRecords        int
	PhaseCounts         map[Phase]int
	Restarts            int // entries into the restart phase
	Flaps               int
	TotalReward         float64
	MeanReward          float64
	FinalRecommendation *string
	Termination         Termination
}

// Summarize computes aggregate statistics from a PartitionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *PartitionTrace) *TraceSummary {
	summary := &TraceSummary{
		PhaseCounts: make(map[Phase]int),
	}
	if t == nil {
		return summary
	}

	summary.TotalRecords = len(t.records)
	summary.Termination = t.Termination
	prev := Phase("")
	for _, r := range t.records {
		summary.PhaseCounts[r.Phase]++
		summary.TotalReward += r.Reward
		if r.Flapping {
			summary.Flaps++
		}
		if r.Phase == PhaseRestart && prev != PhaseRestart {
			summary.Restarts++
		}
		prev = r.Phase
	}
	if summary.TotalRecords > 0 {
		summary.MeanReward = summary.TotalReward / float64(summary.TotalRecords)
		summary.FinalRecommendation = t.records[len(t.records)-1].RecommendedSize
	}
	return summary
}
