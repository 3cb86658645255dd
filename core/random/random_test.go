package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	assert.Equal(t, Vector(a, 10, -1, 1), Vector(b, 10, -1, 1))
}

func TestScalarRange(t *testing.T) {
	src := New(1)
	for i := 0; i < 1000; i++ {
		v := Scalar(src, -1, 1)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
}

func TestPermutationIsPermutation(t *testing.T) {
	p := Permutation(New(7), 50)
	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, p, Permutation(New(7), 50))
}

func TestShuffleSmall(t *testing.T) {
	idx := []int{3}
	Shuffle(New(1), idx)
	assert.Equal(t, []int{3}, idx)

	Shuffle(New(1), nil)
}

func TestSplitDeterministic(t *testing.T) {
	first := Split(New(9), 3)
	second := Split(New(9), 3)
	for i := range first {
		assert.Equal(t, first[i].Int63(), second[i].Int63())
	}
	assert.NotEqual(t, Split(New(9), 2)[0].Int63(), Split(New(9), 2)[1].Int63())
}
