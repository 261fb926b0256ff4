package scaler

import (
	"fmt"

	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// Restart procedure limits.
const (
	DefaultMaxRestartSteps     = 1000
	DefaultMaxConsecutiveHolds = 10
)

// RestartOutcome reports how a restart ended.
type RestartOutcome struct {
	Steps       int               // synthetic steps executed
	Resume      bool              // true: return to Stepping; false: terminate the partition
	Termination trace.Termination // set when Resume is false
}

// RestartPolicy recovers a controller after a reward collapse. It runs while
// the controller is in the Restarting phase and may append records to its trace.
type RestartPolicy interface {
	Restart(c *Controller, cause trace.Passthrough) RestartOutcome
}

// HistoricalReplay replays synthetic observations built from the cost
// history, starting from the partition's first size. A synthetic step that
// collapses again sends the trajectory back to the first size. The replay runs
// at most MaxSteps steps; executing MaxConsecutiveHolds Hold actions in a row
// trips the circuit breaker and terminates the partition, as does reaching a
// size with no history.
type HistoricalReplay struct {
	MaxSteps            int
	MaxConsecutiveHolds int
}

// NewHistoricalReplay returns a replay with the default limits.
func NewHistoricalReplay() *HistoricalReplay {
	return &HistoricalReplay{
		MaxSteps:            DefaultMaxRestartSteps,
		MaxConsecutiveHolds: DefaultMaxConsecutiveHolds,
	}
}

func (r *HistoricalReplay) Restart(c *Controller, cause trace.Passthrough) RestartOutcome {
	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxRestartSteps
	}
	maxHolds := r.MaxConsecutiveHolds
	if maxHolds <= 0 {
		maxHolds = DefaultMaxConsecutiveHolds
	}

	cost, bucket, ok := c.history.BestBucketFor(c.firstSize)
	if !ok {
		return RestartOutcome{Termination: trace.TerminationNoRecovery}
	}
	next := c.firstSize
	holds := 0
	for step := 1; step <= maxSteps; step++ {
		current := next
		var reward float64
		var flapped bool
		next, reward, flapped = c.iterate(current, bucket, cost)
		c.emit(trace.PhaseRestart, current, next, reward, flapped, cause)

		if reward < CollapseThreshold {
			next = c.firstSize
		}
		cost, bucket, ok = c.history.BestBucketFor(next)

		if c.lastAction == Hold {
			holds++
		} else {
			holds = 0
		}
		if holds >= maxHolds {
			return RestartOutcome{Steps: step, Termination: trace.TerminationCircuitBreaker}
		}
		if !ok {
			return RestartOutcome{Steps: step, Termination: trace.TerminationNoRecovery}
		}
	}
	return RestartOutcome{Steps: maxSteps, Resume: true}
}

// NoRestart ignores collapses and keeps stepping through the partition.
type NoRestart struct{}

func (NoRestart) Restart(_ *Controller, _ trace.Passthrough) RestartOutcome {
	return RestartOutcome{Resume: true}
}

// ValidRestartPolicies is the set of recognized restart policy names.
// An empty name selects the default, historical-replay.
var ValidRestartPolicies = map[string]bool{"": true, "historical-replay": true, "none": true}

// IsValidRestartPolicy returns true if name is a recognized restart policy.
func IsValidRestartPolicy(name string) bool {
	return ValidRestartPolicies[name]
}

// NewRestartPolicy creates a restart policy by name.
// Panics on unrecognized names; validate with IsValidRestartPolicy first.
func NewRestartPolicy(name string) RestartPolicy {
	switch name {
	case "", "historical-replay":
		return NewHistoricalReplay()
	case "none":
		return NoRestart{}
	default:
		panic(fmt.Sprintf("unknown restart policy %q; valid policies: [historical-replay, none]", name))
	}
}
