// Package testutil provides shared test infrastructure for the autoscaler:
// reproducible random sources, the sample warehouses used across test
// packages and float assertion helpers. It does not import scaler/, so
// internal tests of every package can use it.
package testutil

import (
	"math"
	"testing"
)

// FixedSource always draws U from Float64 and N (mod n) from Intn.
// U above the learner's epsilon means "always exploit".
type FixedSource struct {
	U float64
	N int
}

func (f FixedSource) Float64() float64 { return f.U }

func (f FixedSource) Intn(n int) int { return f.N % n }

// ExploitSource never explores for any epsilon below 0.99.
var ExploitSource = FixedSource{U: 0.99}

// ScriptedSource always explores (Float64 returns 0) and returns the scripted
// actions from Intn in order, cycling when exhausted.
type ScriptedSource struct {
	Actions []int
	next    int
}

func (s *ScriptedSource) Float64() float64 { return 0 }

func (s *ScriptedSource) Intn(n int) int {
	v := s.Actions[s.next%len(s.Actions)]
	s.next++
	return v % n
}

// Sample is the bucket and cost a simulated warehouse reports at one size.
type Sample struct {
	Size   string
	Bucket string
	Cost   float64
}

// Warehouse maps size labels to the sample reported at that size.
type Warehouse map[string]Sample

func warehouse(samples ...Sample) Warehouse {
	w := make(Warehouse, len(samples))
	for _, s := range samples {
		w[s.Size] = s
	}
	return w
}

const (
	baseCost1 = 2.36789652
	baseCost3 = 5.724800448
	tinyCost  = 0.000335
	stepCost  = 0.000676
)

// SampleWarehouseScaling gets faster with every size until S, then only more expensive.
func SampleWarehouseScaling() Warehouse {
	return warehouse(
		Sample{"X-Small", "XL+", 0.2 * baseCost1},
		Sample{"Small", "XL", 0.2 * baseCost1},
		Sample{"Medium", "L", 0.45 * baseCost1},
		Sample{"Large", "M", baseCost1},
		Sample{"X-Large", "S", 2.557024272},
		Sample{"2X-Large", "S", 3.212057928},
		Sample{"3X-Large", "S", baseCost3},
		Sample{"4X-Large", "S", 2 * baseCost3},
		Sample{"5X-Large", "S", 4.5 * baseCost3},
		Sample{"6X-Large", "S", 9 * baseCost3},
	)
}

// SampleWarehouseFlat is always in the fastest bucket; cost grows with size.
func SampleWarehouseFlat() Warehouse {
	return warehouse(
		Sample{"X-Small", "XS", tinyCost},
		Sample{"Small", "XS", 0.000384},
		Sample{"Medium", "XS", 0.000453},
		Sample{"Large", "XS", stepCost},
		Sample{"X-Large", "XS", 2 * stepCost},
		Sample{"2X-Large", "XS", 4 * stepCost},
		Sample{"3X-Large", "XS", 8 * stepCost},
		Sample{"4X-Large", "XS", 16 * stepCost},
		Sample{"5X-Large", "XS", 32 * stepCost},
		Sample{"6X-Large", "XS", 64 * stepCost},
	)
}

// SampleWarehouseKnee reaches the fastest bucket at Medium.
func SampleWarehouseKnee() Warehouse {
	w := SampleWarehouseFlat()
	w["X-Small"] = Sample{"X-Small", "M", tinyCost}
	w["Small"] = Sample{"Small", "S", 0.000384}
	return w
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
