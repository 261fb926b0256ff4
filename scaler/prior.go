package scaler

import (
	"fmt"
	"sort"
)

// Prior is a named, versioned initial Q-table. An untrained learner seeded
// from a prior already prefers growing small warehouses that run slowly and
// holding mid-size warehouses that run fast.
type Prior struct {
	Name   string
	Values [NumStates][NumActions]float64
}

// DefaultPriorName names the prior used when none is configured.
const DefaultPriorName = "warehouse-v1"

// Row returns a copy of the action values for s.
func (p Prior) Row(s State) []float64 {
	row := p.Values[s]
	return row[:]
}

// Rows returns a copy of the table as a slice of rows, in state order.
func (p Prior) Rows() [][]float64 {
	rows := make([][]float64, NumStates)
	for s := range p.Values {
		rows[s] = p.Row(State(s))
	}
	return rows
}

// warehouseV1 is the current hand-tuned table. Rows are ordered by size, then
// runtime bucket; columns are ScaleUp, ScaleDown, Hold.
var warehouseV1 = Prior{
	Name: "warehouse-v1",
	Values: [NumStates][NumActions]float64{
		// X-Small: XS, S, M, L, XL, XL+
		{-1.0, -1.0, 1.0},
		{0.5, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// Small: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// Medium: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// 2X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// 3X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// 4X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// 5X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.1, 0.5},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		{1.0, -1.0, 0.01},
		// 6X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{-1.0, 0.1, 0.5},
		{-1.0, -1.0, 0.01},
		{-1.0, -1.0, 0.01},
		{-1.0, -1.0, 0.01},
		{-1.0, -1.0, 0.01},
	},
}

// warehouseV0 is the first table. It differs from v1 only in using exact
// zeros where v1 breaks ties toward Hold with 0.01 and toward ScaleDown with 0.1.
var warehouseV0 = Prior{
	Name: "warehouse-v0",
	Values: [NumStates][NumActions]float64{
		// X-Small: XS, S, M, L, XL, XL+
		{-1.0, -1.0, 1.0},
		{0.5, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// Small: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// Medium: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// 2X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// 3X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// 4X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// 5X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{0.5, 0.0, 0.5},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		{1.0, -1.0, 0.0},
		// 6X-Large: XS, S, M, L, XL, XL+
		{-1.0, 1.0, 1.0},
		{-1.0, 0.0, 0.5},
		{-1.0, -1.0, 0.0},
		{-1.0, -1.0, 0.0},
		{-1.0, -1.0, 0.0},
		{-1.0, -1.0, 0.0},
	},
}

var priors = map[string]Prior{
	warehouseV0.Name: warehouseV0,
	warehouseV1.Name: warehouseV1,
}

// DefaultPrior returns the prior named by DefaultPriorName.
func DefaultPrior() Prior {
	return warehouseV1
}

// LookupPrior returns a prior by name. An empty name selects the default.
func LookupPrior(name string) (Prior, error) {
	if name == "" {
		return DefaultPrior(), nil
	}
	p, ok := priors[name]
	if !ok {
		return Prior{}, fmt.Errorf("unknown prior %q; valid priors: %v", name, PriorNames())
	}
	return p, nil
}

// PriorNames lists the registered priors in sorted order.
func PriorNames() []string {
	names := make([]string, 0, len(priors))
	for name := range priors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
