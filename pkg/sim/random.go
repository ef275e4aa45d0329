package sim

import (
	"math/rand/v2"
	"time"
)

// RandSource yields uniform integers in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewRandSource returns a deterministic source for seed.
func NewRandSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultRandSource returns a source seeded from the wall clock.
// Every mount of a view gets a fresh one.
func DefaultRandSource() *rand.Rand {
	return NewRandSource(uint64(time.Now().UnixNano()))
}
