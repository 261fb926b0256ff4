package scaler

import "fmt"

// Action is a scaling decision. The integer values are part of the output format.
type Action int

const (
	ScaleUp Action = iota
	ScaleDown
	Hold
)

// NumActions is the fixed action arity.
const NumActions = 3

func (a Action) String() string {
	switch a {
	case ScaleUp:
		return "scale-up"
	case ScaleDown:
		return "scale-down"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// SizeBounds is the inclusive range of sizes a controller may recommend.
type SizeBounds struct {
	Min Size
	Max Size
}

// FullRange allows every size.
func FullRange() SizeBounds {
	return SizeBounds{Min: Smallest, Max: Largest}
}

// Next returns the size reached by applying a to current.
// The directional move is taken first and the result clamped to [Min, Max]
// afterwards, so ScaleUp at Max (or ScaleDown at Min) is a no-op.
func (b SizeBounds) Next(a Action, current Size) Size {
	next := current
	switch a {
	case ScaleUp:
		next = min(b.Max, current+1)
	case ScaleDown:
		next = max(Smallest, current-1)
	}
	next = min(next, b.Max)
	next = max(next, b.Min)
	return next
}
