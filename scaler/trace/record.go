// Package trace provides the per-partition recommendation trace.
// This package has no dependencies on scaler/; it stores pure data types.
package trace

// Phase is the controller phase that produced a record.
type Phase string

const (
	// PhaseBootstrap is the first row of a partition; no learning update, zero reward.
	PhaseBootstrap Phase = "bootstrap"
	// PhaseStep is a regular row with a learning update.
	PhaseStep Phase = "step"
	// PhaseRestart is a synthetic step of the recovery procedure.
	PhaseRestart Phase = "restart"
	// PhaseTerminal ends the partition with a null recommendation.
	PhaseTerminal Phase = "terminal"
)

// Passthrough carries the identifying fields of an observation, reproduced
// verbatim on every record derived from it.
type Passthrough struct {
	QueryText    string
	SchemaName   string
	DatabaseName string
}

// Record is one recommendation row.
type Record struct {
	RecommendedSize *string // canonical size label; nil on terminal records
	CurrentSize     *string // size the row was observed at; nil when unknown
	Reward          float64
	State           int
	Action          int
	Phase           Phase
	Flapping        bool // the reward carried a flapping penalty
	Passthrough
}
