package scaler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joshelser/opscenter-autoscaler/scaler/trace"
)

// Observation is one input row. Labels and cost are kept raw so that
// validation happens in one place, when the controller consumes the row.
type Observation struct {
	ResourceSize  string // canonical size label, e.g. "Medium"
	RuntimeBucket string // runtime bucket label, e.g. "XL+"
	Cost          string // non-negative decimal
	trace.Passthrough
}

// NewObservation builds an observation from typed values.
func NewObservation(size Size, bucket RuntimeBucket, cost float64) Observation {
	return Observation{
		ResourceSize:  size.String(),
		RuntimeBucket: bucket.String(),
		Cost:          strconv.FormatFloat(cost, 'g', -1, 64),
	}
}

// parsed is a validated observation.
type parsed struct {
	size   Size
	bucket RuntimeBucket
	cost   float64
}

// parse validates o, the row-th row of its partition. An unknown size is
// reported as ErrUnknownSizeLabel; every other defect is an *ObservationError.
func (o Observation) parse(row int) (parsed, error) {
	size, err := ParseSize(o.ResourceSize)
	if err != nil {
		return parsed{}, fmt.Errorf("row %d: %w", row, err)
	}
	bucket, err := ParseBucket(o.RuntimeBucket)
	if err != nil {
		return parsed{}, &ObservationError{Row: row, Field: "runtime_bucket", Value: o.RuntimeBucket, Err: err}
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(o.Cost), 64)
	if err != nil {
		return parsed{}, &ObservationError{Row: row, Field: "cost", Value: o.Cost, Err: err}
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return parsed{}, &ObservationError{Row: row, Field: "cost", Value: o.Cost, Err: errInvalidCost}
	}
	return parsed{size: size, bucket: bucket, cost: cost}, nil
}
