// Package randutil centralises how the game derives random sources so that
// shuffles are reproducible from a single int64 seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the seed so every call site gets the same
// sequence for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeed returns a seed derived from the wall clock, for callers that were
// not given one explicitly.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// Shuffle permutes items in place with the Fisher-Yates algorithm. Index i
// walks from the last element down to 1 and is swapped with a uniformly
// chosen index in [0, i], so each of the n! orderings is equally likely.
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
