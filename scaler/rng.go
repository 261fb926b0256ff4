package scaler

import (
	"hash/fnv"
	"math/rand"
)

// Source is the random source used for exploration. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// RunKey identifies a reproducible run. Two runs with the same RunKey over
// identical partitions MUST produce identical traces.
type RunKey int64

// NewRunKey creates a RunKey from a seed value.
func NewRunKey(seed int64) RunKey {
	return RunKey(seed)
}

// PartitionedRNG hands out an isolated, deterministically seeded generator
// per partition: masterSeed XOR fnv1a64(partitionKey). The derived stream
// depends only on the key and the partition name, never on processing order.
//
// Thread-safety: NOT thread-safe. Derive every partition's generator from one
// goroutine before fanning out.
type PartitionedRNG struct {
	key        RunKey
	partitions map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a RunKey.
func NewPartitionedRNG(key RunKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		partitions: make(map[string]*rand.Rand),
	}
}

// ForPartition returns the generator for the named partition.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForPartition(name string) *rand.Rand {
	if rng, ok := p.partitions[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(DeriveSeed(p.key, name)))
	p.partitions[name] = rng
	return rng
}

// Key returns the RunKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() RunKey {
	return p.key
}

// DeriveSeed returns the seed of the named partition's stream.
func DeriveSeed(key RunKey, name string) int64 {
	return int64(key) ^ fnv1a64(name)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
