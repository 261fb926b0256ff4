package scaler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"github.com/joshelser/opscenter-autoscaler/scaler/internal/testutil"
)

func newTestLearner(src Source) *QLearner {
	return NewQLearner(DefaultPrior(), DefaultHyperparameters(), src)
}

func TestNewQLearner_PolicyFollowsPrior(t *testing.T) {
	l := newTestLearner(testutil.ExploitSource)

	// X-Small/XS prefers Hold, Small/XS prefers ScaleDown (first of a tie), Small/M prefers ScaleUp
	assert.Equal(t, Hold, l.Policy(StateOf(SizeXSmall, BucketXS)))
	assert.Equal(t, ScaleDown, l.Policy(StateOf(SizeSmall, BucketXS)))
	assert.Equal(t, ScaleUp, l.Policy(StateOf(SizeSmall, BucketM)))
	assert.Equal(t, Hold, l.Policy(StateOf(Size6XLarge, BucketM)))
}

func TestNewQLearner_CopiesPrior(t *testing.T) {
	prior := DefaultPrior()
	l := NewQLearner(prior, DefaultHyperparameters(), testutil.ExploitSource)
	s := StateOf(SizeSmall, BucketXS)
	l.Percept(s, ScaleDown, s, 10)
	assert.Equal(t, []float64{-1, 1, 1}, DefaultPrior().Row(s))
}

func TestPercept_TemporalDifferenceUpdate(t *testing.T) {
	// GIVEN alpha=0.9, gamma=0.5 and Small/XS valued [-1, 1, 1]
	l := newTestLearner(testutil.ExploitSource)
	s := StateOf(SizeSmall, BucketXS)

	// WHEN ScaleDown earns reward 2 and lands back in the same state
	l.Percept(s, ScaleDown, s, 2)

	// THEN Q += 0.9 * (2 + 0.5*1 - 1)
	q := l.Q(s)
	assert.InDelta(t, -1.0, q[ScaleUp], 1e-12)
	assert.InDelta(t, 2.35, q[ScaleDown], 1e-12)
	assert.InDelta(t, 1.0, q[Hold], 1e-12)
	assert.Equal(t, ScaleDown, l.Policy(s))
}

func TestPercept_PolicyIsArgmaxAfterEveryUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := newTestLearner(rng)
	for i := 0; i < 5000; i++ {
		s := State(rng.Intn(NumStates))
		next := State(rng.Intn(NumStates))
		a := Action(rng.Intn(NumActions))
		l.Percept(s, a, next, rng.NormFloat64()*3)

		q := l.Q(s)
		if got, want := l.Policy(s), Action(floats.MaxIdx(q)); got != want {
			t.Fatalf("step %d: policy[%d]=%v, argmax(%v)=%v", i, s, got, q, want)
		}
	}
}

func TestActuate_ExploresWhenDrawAtOrBelowEpsilon(t *testing.T) {
	s := StateOf(SizeXSmall, BucketXS) // greedy action is Hold

	tests := []struct {
		name string
		src  testutil.FixedSource
		want Action
	}{
		{"draw above epsilon exploits", testutil.FixedSource{U: 0.5, N: 0}, Hold},
		{"draw below epsilon explores", testutil.FixedSource{U: 0.001, N: 1}, ScaleDown},
		{"draw equal to epsilon explores", testutil.FixedSource{U: DefaultEpsilon, N: 0}, ScaleUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLearner(tt.src)
			assert.Equal(t, tt.want, l.Actuate(s))
		})
	}
}

func TestDecayEpsilon_MonotonicallyNonIncreasing(t *testing.T) {
	for _, xi := range []float64{1.0, 0.99, 0.9, 0.5, 0.01} {
		hp := DefaultHyperparameters()
		hp.Epsilon = 0.9
		hp.Xi = xi
		l := NewQLearner(DefaultPrior(), hp, testutil.ExploitSource)
		prev := l.Epsilon()
		for i := 0; i < 200; i++ {
			l.DecayEpsilon()
			if l.Epsilon() > prev {
				t.Fatalf("xi=%v step %d: epsilon rose from %v to %v", xi, i, prev, l.Epsilon())
			}
			prev = l.Epsilon()
		}
	}
}

func TestDecayEpsilon_MultipliesByXi(t *testing.T) {
	l := newTestLearner(testutil.ExploitSource)
	l.DecayEpsilon()
	l.DecayEpsilon()
	testutil.AssertFloat64Equal(t, "epsilon", DefaultEpsilon*DefaultXi*DefaultXi, l.Epsilon(), 1e-12)
}
