package optimize

import (
	"github.com/YuminosukeSato/gomlcore/core/random"
)

// IndexSampler holds the row order used by one optimization step. When
// shuffling, every Update draws a fresh full permutation; consumers read only
// the first batch-size entries.
type IndexSampler struct {
	indices []int
	shuffle bool
	src     random.Source
}

// NewIndexSampler creates a sampler over rows 0..n-1 in identity order.
func NewIndexSampler(n int, shuffle bool, src random.Source) *IndexSampler {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return &IndexSampler{indices: indices, shuffle: shuffle, src: src}
}

// Update reshuffles all indices. It is a no-op for a non-shuffling sampler.
func (s *IndexSampler) Update() {
	if !s.shuffle {
		return
	}
	random.Shuffle(s.src, s.indices)
}

// Index returns the row at position i of the current order.
func (s *IndexSampler) Index(i int) int {
	return s.indices[i]
}

// Len returns the number of rows.
func (s *IndexSampler) Len() int {
	return len(s.indices)
}

// Shuffling reports whether Update reorders the indices.
func (s *IndexSampler) Shuffling() bool {
	return s.shuffle
}
