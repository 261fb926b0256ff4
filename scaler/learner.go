package scaler

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// QLearner holds the action-value table and the greedy policy derived from it.
// The policy is recomputed for a state whenever that state's row changes, so
// Policy(s) == argmax(Q(s)) always holds.
//
// Thread-safety: NOT safe for concurrent use. A learner belongs to one Controller.
type QLearner struct {
	alpha   float64
	gamma   float64
	epsilon float64
	xi      float64

	q      *mat.Dense // NumStates x NumActions
	policy [NumStates]Action
	rng    Source
}

// NewQLearner creates a learner seeded from prior. rng drives exploration and
// must not be nil.
func NewQLearner(prior Prior, hp Hyperparameters, rng Source) *QLearner {
	data := make([]float64, 0, NumStates*NumActions)
	for s := range prior.Values {
		data = append(data, prior.Values[s][:]...)
	}
	l := &QLearner{
		alpha:   hp.Alpha,
		gamma:   hp.Gamma,
		epsilon: hp.Epsilon,
		xi:      hp.Xi,
		q:       mat.NewDense(NumStates, NumActions, data),
		rng:     rng,
	}
	for s := 0; s < NumStates; s++ {
		l.refreshPolicy(State(s))
	}
	return l
}

// Actuate picks the action for s: a uniformly random action with probability
// epsilon (a draw u <= epsilon explores), otherwise the greedy policy action.
func (l *QLearner) Actuate(s State) Action {
	if l.rng.Float64() <= l.epsilon {
		return Action(l.rng.Intn(NumActions))
	}
	return l.policy[s]
}

// Percept applies one off-policy TD(0) update for taking a in s, observing
// reward r and landing in next.
func (l *QLearner) Percept(s State, a Action, next State, r float64) {
	qNext := floats.Max(l.q.RawRowView(int(next)))
	old := l.q.At(int(s), int(a))
	target := r + l.gamma*qNext
	l.q.Set(int(s), int(a), old+l.alpha*(target-old))
	l.refreshPolicy(s)
}

// DecayEpsilon multiplies epsilon by xi. Called once per processed row.
func (l *QLearner) DecayEpsilon() {
	l.epsilon *= l.xi
}

// Epsilon returns the current exploration probability.
func (l *QLearner) Epsilon() float64 {
	return l.epsilon
}

// Policy returns the greedy action for s.
func (l *QLearner) Policy(s State) Action {
	return l.policy[s]
}

// Q returns a copy of the action values for s.
func (l *QLearner) Q(s State) []float64 {
	return append([]float64(nil), l.q.RawRowView(int(s))...)
}

// refreshPolicy sets the policy for s to the first action with the highest value.
func (l *QLearner) refreshPolicy(s State) {
	l.policy[s] = Action(floats.MaxIdx(l.q.RawRowView(int(s))))
}
