package scaler

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// runtimeImprovementBonus is added whenever the runtime bucket gets faster.
const runtimeImprovementBonus = 0.1

// Transition is the input to a RewardModel: the move from the previous
// observation to the current one, and the action that caused it.
type Transition struct {
	PrevBucket RuntimeBucket
	Bucket     RuntimeBucket
	PrevCost   float64
	Cost       float64
	Action     Action
}

// RewardModel computes the scalar reward for a transition.
// Implementations may be stateful; a model belongs to a single Controller.
type RewardModel interface {
	Reward(t Transition) float64
}

// FlapReporter is implemented by reward models that detect oscillation.
// Flapping reports whether the most recent Reward call applied a flap penalty.
type FlapReporter interface {
	Flapping() bool
}

// BaseReward is the differential-cost reward.
// The cost delta is doubled when the runtime bucket did not change, so the
// scaling decision itself is rewarded or punished. A faster bucket earns a
// fixed bonus regardless of cost.
func BaseReward(prevBucket, bucket RuntimeBucket, prevCost, cost float64) float64 {
	r := prevCost - cost
	if bucket == prevBucket {
		r *= 2.0
	}
	if bucket < prevBucket {
		r += runtimeImprovementBonus
	}
	return r
}

// DifferentialReward is the stateless BaseReward model.
type DifferentialReward struct{}

func (DifferentialReward) Reward(t Transition) float64 {
	return BaseReward(t.PrevBucket, t.Bucket, t.PrevCost, t.Cost)
}

// flapWindow is the number of recent actions inspected for flapping.
const flapWindow = 4

// AntiFlappingReward decorates another model with a flapping penalty.
// When the last four actions alternate between exactly two values, the sum
// of the previous and current inner rewards is subtracted from the current
// reward, which leaves the negated previous reward.
type AntiFlappingReward struct {
	inner    RewardModel
	actions  [flapWindow]Action
	count    int // actions seen, saturates at flapWindow
	next     int // ring index of the next write
	lastBase float64
	flapping bool
}

// NewAntiFlappingReward wraps inner. A nil inner uses DifferentialReward.
func NewAntiFlappingReward(inner RewardModel) *AntiFlappingReward {
	if inner == nil {
		inner = DifferentialReward{}
	}
	return &AntiFlappingReward{inner: inner}
}

func (m *AntiFlappingReward) Reward(t Transition) float64 {
	m.actions[m.next] = t.Action
	m.next = (m.next + 1) % flapWindow
	if m.count < flapWindow {
		m.count++
	}

	base := m.inner.Reward(t)
	total := base
	m.flapping = m.isFlapping()
	if m.flapping {
		total = base - (m.lastBase + base)
		logrus.Debugf("flapping detected over %v: reward %.4f -> %.4f", m.window(), base, total)
	}
	m.lastBase = base
	return total
}

// Flapping reports whether the last Reward call was penalised.
func (m *AntiFlappingReward) Flapping() bool {
	return m.flapping
}

// window returns the remembered actions, oldest first.
func (m *AntiFlappingReward) window() []Action {
	out := make([]Action, 0, m.count)
	start := (m.next - m.count + flapWindow) % flapWindow
	for i := 0; i < m.count; i++ {
		out = append(out, m.actions[(start+i)%flapWindow])
	}
	return out
}

func (m *AntiFlappingReward) isFlapping() bool {
	if m.count < flapWindow {
		return false
	}
	return IsFlapping(m.window())
}

// IsFlapping reports whether actions strictly alternate between exactly two
// distinct values, e.g. [up, down, up, down].
func IsFlapping(actions []Action) bool {
	if len(actions) < 2 {
		return false
	}
	for i := 0; i+1 < len(actions); i++ {
		if actions[i] == actions[i+1] {
			return false
		}
	}
	distinct := make(map[Action]struct{}, 2)
	for _, a := range actions {
		distinct[a] = struct{}{}
	}
	return len(distinct) == 2
}

// ValidRewardModels is the set of recognized reward model names.
// An empty name selects the default, anti-flapping.
var ValidRewardModels = map[string]bool{"": true, "differential": true, "anti-flapping": true}

// IsValidRewardModel returns true if name is a recognized reward model.
func IsValidRewardModel(name string) bool {
	return ValidRewardModels[name]
}

// NewRewardModel creates a fresh reward model by name.
// Panics on unrecognized names; validate with IsValidRewardModel first.
func NewRewardModel(name string) RewardModel {
	switch name {
	case "differential":
		return DifferentialReward{}
	case "", "anti-flapping":
		return NewAntiFlappingReward(DifferentialReward{})
	default:
		panic(fmt.Sprintf("unknown reward model %q; valid models: [differential, anti-flapping]", name))
	}
}
