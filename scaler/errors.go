package scaler

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSizeLabel is returned when a warehouse size label is not one of the fixed sizes.
	ErrUnknownSizeLabel = errors.New("unknown warehouse size label")

	// ErrUnknownBucketLabel is returned when a runtime bucket label is not one of the fixed buckets.
	ErrUnknownBucketLabel = errors.New("unknown runtime bucket label")

	// ErrMalformedObservation marks an observation row that cannot be processed.
	// An *ObservationError always matches it under errors.Is.
	ErrMalformedObservation = errors.New("malformed observation")

	// ErrPartitionTerminated is returned when a row is offered to a terminated controller.
	ErrPartitionTerminated = errors.New("partition already terminated")

	errInvalidCost = errors.New("cost must be a finite, non-negative number")
)

// ObservationError describes why a single observation row was rejected.
type ObservationError struct {
	Row   int    // zero-based row index within the partition
	Field string // "runtime_bucket" or "cost"
	Value string // the raw value that failed
	Err   error
}

func (e *ObservationError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ObservationError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedObservation as a match in addition to the wrapped cause.
func (e *ObservationError) Is(target error) bool {
	return target == ErrMalformedObservation
}
