// Package random provides the seedable random source shared by the iterative
// estimators. All randomness in gomlcore flows through a Source so that a
// fixed seed reproduces weights, shuffles and cluster seeds exactly.
package random

import (
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the estimators use.
type Source interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
	Shuffle(n int, swap func(i, j int))
}

// New returns a Source seeded with seed. A negative seed selects a
// time-based seed.
func New(seed int64) *rand.Rand {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Scalar draws a value uniformly from [low, high).
func Scalar(src Source, low, high float64) float64 {
	return low + (high-low)*src.Float64()
}

// Vector draws n values uniformly from [low, high).
func Vector(src Source, n int, low, high float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = Scalar(src, low, high)
	}
	return v
}

// Permutation returns 0..n-1 in an order drawn from src.
func Permutation(src Source, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	Shuffle(src, p)
	return p
}

// Shuffle permutes idx in place with a Fisher-Yates pass.
func Shuffle(src Source, idx []int) {
	for i := len(idx) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
}

// Split derives n independent sources from src. The seeds are drawn up front,
// so the derived sources do not depend on the order in which they are used.
func Split(src Source, n int) []*rand.Rand {
	out := make([]*rand.Rand, n)
	for i := range out {
		out[i] = rand.New(rand.NewSource(src.Int63()))
	}
	return out
}
