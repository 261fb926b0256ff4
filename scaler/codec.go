package scaler

import "fmt"

// Size is a warehouse size. Sizes are totally ordered; index 0 is the smallest.
type Size int

const (
	SizeXSmall Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeXLarge
	Size2XLarge
	Size3XLarge
	Size4XLarge
	Size5XLarge
	Size6XLarge
)

var sizeLabels = [...]string{
	"X-Small", "Small", "Medium", "Large", "X-Large",
	"2X-Large", "3X-Large", "4X-Large", "5X-Large", "6X-Large",
}

var sizeAliases = [...]string{
	"XS", "S", "M", "L", "XL",
	"2XL", "3XL", "4XL", "5XL", "6XL",
}

// NumSizes is the number of warehouse sizes.
const NumSizes = len(sizeLabels)

// Smallest and Largest are the ends of the size range.
const (
	Smallest = SizeXSmall
	Largest  = Size6XLarge
)

// ParseSize maps a canonical size label ("X-Small" ... "6X-Large") to a Size.
// Short aliases are not accepted here; the label set is the single validation point.
func ParseSize(label string) (Size, error) {
	for i, l := range sizeLabels {
		if l == label {
			return Size(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSizeLabel, label)
}

// Valid reports whether s is inside the fixed size range.
func (s Size) Valid() bool {
	return s >= 0 && int(s) < NumSizes
}

// String returns the canonical label.
func (s Size) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Size(%d)", int(s))
	}
	return sizeLabels[s]
}

// Alias returns the short label used in recommendation output ("XS", "2XL", ...).
func (s Size) Alias() string {
	if !s.Valid() {
		return fmt.Sprintf("Size(%d)", int(s))
	}
	return sizeAliases[s]
}

// RuntimeBucket classifies how long the workload took to run. Smaller is faster.
type RuntimeBucket int

const (
	BucketXS RuntimeBucket = iota
	BucketS
	BucketM
	BucketL
	BucketXL
	BucketXLPlus
)

var bucketLabels = [...]string{"XS", "S", "M", "L", "XL", "XL+"}

// NumBuckets is the number of runtime buckets.
const NumBuckets = len(bucketLabels)

// ParseBucket maps a runtime bucket label to a RuntimeBucket.
func ParseBucket(label string) (RuntimeBucket, error) {
	for i, l := range bucketLabels {
		if l == label {
			return RuntimeBucket(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBucketLabel, label)
}

func (b RuntimeBucket) Valid() bool {
	return b >= 0 && int(b) < NumBuckets
}

func (b RuntimeBucket) String() string {
	if !b.Valid() {
		return fmt.Sprintf("RuntimeBucket(%d)", int(b))
	}
	return bucketLabels[b]
}

// State is the discrete learner state: size * NumBuckets + bucket.
// Valid states satisfy 0 <= s < NumStates.
type State int

// NumStates is the number of learner states.
const NumStates = NumSizes * NumBuckets

// StateOf encodes a (size, bucket) pair. Both arguments must be valid.
func StateOf(size Size, bucket RuntimeBucket) State {
	return State(int(size)*NumBuckets + int(bucket))
}

// Encode validates both labels and returns the state they name.
func Encode(sizeLabel, bucketLabel string) (State, error) {
	size, err := ParseSize(sizeLabel)
	if err != nil {
		return 0, err
	}
	bucket, err := ParseBucket(bucketLabel)
	if err != nil {
		return 0, err
	}
	return StateOf(size, bucket), nil
}

// Decode is the inverse of StateOf.
func Decode(s State) (Size, RuntimeBucket) {
	return Size(int(s) / NumBuckets), RuntimeBucket(int(s) % NumBuckets)
}

func (s State) Valid() bool {
	return s >= 0 && int(s) < NumStates
}

// Size returns the size component of s.
func (s State) Size() Size {
	size, _ := Decode(s)
	return size
}

// Bucket returns the runtime bucket component of s.
func (s State) Bucket() RuntimeBucket {
	_, bucket := Decode(s)
	return bucket
}
