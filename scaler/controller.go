package scaler

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/ptr"

	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// CollapseThreshold is the reward below which a step counts as a collapse
// and the restart procedure takes over.
const CollapseThreshold = -1.0

// ControllerPhase is the controller's position in its state machine:
// Bootstrapping -> Stepping -> {Restarting -> Stepping | Terminated}.
type ControllerPhase int

const (
	Bootstrapping ControllerPhase = iota
	Stepping
	Restarting
	Terminated
)

func (p ControllerPhase) String() string {
	switch p {
	case Bootstrapping:
		return "bootstrapping"
	case Stepping:
		return "stepping"
	case Restarting:
		return "restarting"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("ControllerPhase(%d)", int(p))
	}
}

// MalformedPolicy selects how a malformed observation is handled.
type MalformedPolicy string

const (
	// MalformedTerminate ends the partition with a null-recommendation record,
	// the same way an unknown size does. This is the default.
	MalformedTerminate MalformedPolicy = "terminate"
	// MalformedFail aborts the partition and returns the *ObservationError.
	MalformedFail MalformedPolicy = "fail"
)

// ValidMalformedPolicies is the set of recognized malformed-row policies.
var ValidMalformedPolicies = map[MalformedPolicy]bool{"": true, MalformedTerminate: true, MalformedFail: true}

// Config groups everything a Controller is constructed from.
type Config struct {
	Partition       string          // name carried on the trace
	Hyperparameters Hyperparameters // zero value selects DefaultHyperparameters
	Prior           Prior           // zero value selects DefaultPrior
	Reward          RewardModel     // nil selects anti-flapping; must not be shared
	Restart         RestartPolicy   // nil selects historical replay
	OnMalformed     MalformedPolicy // "" selects MalformedTerminate
	Source          Source          // exploration randomness; required
}

// Controller runs the learner over one partition. It is created fresh per
// partition and discarded after producing its trace.
//
// Thread-safety: NOT safe for concurrent use.
type Controller struct {
	hp          Hyperparameters
	learner     *QLearner
	history     *CostHistory
	reward      RewardModel
	restart     RestartPolicy
	onMalformed MalformedPolicy

	phase      ControllerPhase
	rows       int // input rows consumed
	firstSize  Size
	lastState  State
	lastAction Action
	lastCost   float64

	trace *trace.PartitionTrace
}

// NewController creates a controller in the Bootstrapping phase.
// Panics if cfg.Source is nil or cfg.OnMalformed is unrecognized.
func NewController(cfg Config) *Controller {
	if cfg.Source == nil {
		panic("scaler: Controller requires a non-nil Source")
	}
	if !ValidMalformedPolicies[cfg.OnMalformed] {
		panic(fmt.Sprintf("unknown malformed policy %q; valid policies: [terminate, fail]", cfg.OnMalformed))
	}
	hp := cfg.Hyperparameters
	if hp == (Hyperparameters{}) {
		hp = DefaultHyperparameters()
	}
	prior := cfg.Prior
	if prior.Name == "" {
		prior = DefaultPrior()
	}
	reward := cfg.Reward
	if reward == nil {
		reward = NewRewardModel("")
	}
	restart := cfg.Restart
	if restart == nil {
		restart = NewRestartPolicy("")
	}
	onMalformed := cfg.OnMalformed
	if onMalformed == "" {
		onMalformed = MalformedTerminate
	}
	return &Controller{
		hp:          hp,
		learner:     NewQLearner(prior, hp, cfg.Source),
		history:     NewCostHistory(),
		reward:      reward,
		restart:     restart,
		onMalformed: onMalformed,
		phase:       Bootstrapping,
		trace:       trace.NewPartitionTrace(cfg.Partition),
	}
}

// Run feeds rows to the controller in order until they are exhausted or the
// partition terminates. The returned trace is always non-nil; err is non-nil
// only for a malformed row under MalformedFail.
func (c *Controller) Run(rows []Observation) (*trace.PartitionTrace, error) {
	for _, row := range rows {
		if c.phase == Terminated {
			break
		}
		if err := c.Observe(row); err != nil {
			return c.trace, err
		}
	}
	return c.trace, nil
}

// Observe processes the next row of the partition.
func (c *Controller) Observe(row Observation) error {
	if c.phase == Terminated {
		return ErrPartitionTerminated
	}
	index := c.rows
	c.rows++

	obs, err := row.parse(index)
	switch {
	case errors.Is(err, ErrUnknownSizeLabel):
		logrus.Debugf("partition %q: %v, ending partition", c.trace.Partition, err)
		c.trace.Append(trace.Record{
			CurrentSize: ptr.To(row.ResourceSize),
			State:       int(c.lastState),
			Action:      int(c.lastAction),
			Phase:       trace.PhaseTerminal,
			Passthrough: row.Passthrough,
		})
		c.terminate(trace.TerminationUnknownSize)
		return nil
	case err != nil:
		c.terminate(trace.TerminationMalformed)
		if c.onMalformed == MalformedFail {
			return fmt.Errorf("partition %q: %w", c.trace.Partition, err)
		}
		logrus.Debugf("partition %q: %v, ending partition", c.trace.Partition, err)
		c.trace.Append(trace.Record{Phase: trace.PhaseTerminal, Passthrough: row.Passthrough})
		return nil
	}

	if c.phase == Bootstrapping {
		c.firstSize = obs.size
		next := c.advance(obs.size, obs.bucket, obs.cost)
		c.emit(trace.PhaseBootstrap, obs.size, next, 0, false, row.Passthrough)
		c.phase = Stepping
		return nil
	}

	next, reward, flapped := c.iterate(obs.size, obs.bucket, obs.cost)
	c.emit(trace.PhaseStep, obs.size, next, reward, flapped, row.Passthrough)
	if reward < CollapseThreshold {
		c.runRestart(row.Passthrough)
	}
	return nil
}

// runRestart hands control to the restart policy after a reward collapse.
func (c *Controller) runRestart(cause trace.Passthrough) {
	c.phase = Restarting
	logrus.Debugf("partition %q: reward collapse, restarting from %s", c.trace.Partition, c.firstSize)
	outcome := c.restart.Restart(c, cause)
	logrus.Debugf("partition %q: restart ran %d steps (resume=%v, termination=%q)",
		c.trace.Partition, outcome.Steps, outcome.Resume, outcome.Termination)
	if outcome.Resume {
		c.phase = Stepping
		return
	}
	c.terminate(outcome.Termination)
}

// iterate learns from the transition into (size, bucket, cost) and picks the
// next action. It returns the recommended size, the reward and whether the
// reward carried a flapping penalty.
func (c *Controller) iterate(size Size, bucket RuntimeBucket, cost float64) (Size, float64, bool) {
	next := StateOf(size, bucket)
	r := c.reward.Reward(Transition{
		PrevBucket: c.lastState.Bucket(),
		Bucket:     bucket,
		PrevCost:   c.lastCost,
		Cost:       cost,
		Action:     c.lastAction,
	})
	c.learner.Percept(c.lastState, c.lastAction, next, r)
	c.learner.DecayEpsilon()

	flapped := false
	if fr, ok := c.reward.(FlapReporter); ok {
		flapped = fr.Flapping()
	}
	return c.advance(size, bucket, cost), r, flapped
}

// advance moves the controller into (size, bucket, cost), selects the next
// action and records the cost.
func (c *Controller) advance(size Size, bucket RuntimeBucket, cost float64) Size {
	c.lastCost = cost
	c.lastState = StateOf(size, bucket)
	c.lastAction = c.learner.Actuate(c.lastState)
	c.history.Record(c.lastState, cost)
	return c.hp.Bounds.Next(c.lastAction, size)
}

func (c *Controller) emit(phase trace.Phase, current, next Size, reward float64, flapped bool, pass trace.Passthrough) {
	c.trace.Append(trace.Record{
		RecommendedSize: ptr.To(next.String()),
		CurrentSize:     ptr.To(current.String()),
		Reward:          reward,
		State:           int(c.lastState),
		Action:          int(c.lastAction),
		Phase:           phase,
		Flapping:        flapped,
		Passthrough:     pass,
	})
}

func (c *Controller) terminate(reason trace.Termination) {
	c.phase = Terminated
	c.trace.Termination = reason
}

// NextSize returns the size currently recommended, or false before the first
// row has been processed and after the partition has terminated.
func (c *Controller) NextSize() (Size, bool) {
	if c.phase == Bootstrapping || c.phase == Terminated {
		return 0, false
	}
	return c.hp.Bounds.Next(c.lastAction, c.lastState.Size()), true
}

// Phase returns the current phase.
func (c *Controller) Phase() ControllerPhase {
	return c.phase
}

// Trace returns the trace recorded so far.
func (c *Controller) Trace() *trace.PartitionTrace {
	return c.trace
}

// Learner exposes the controller's learner for inspection.
func (c *Controller) Learner() *QLearner {
	return c.learner
}

// History exposes the controller's cost history for inspection.
func (c *Controller) History() *CostHistory {
	return c.history
}
