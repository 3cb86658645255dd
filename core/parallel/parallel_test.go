package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		hits := make([]int32, n)
		Range(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "n=%d index %d", n, i)
		}
	}
}

func TestRangeWithThresholdRunsInline(t *testing.T) {
	calls := 0
	RangeWithThreshold(10, 100, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)

	RangeWithThreshold(0, 100, func(start, end int) {
		t.Fatal("fn must not be called for zero items")
	})
}

func TestEachReturnsLowestIndexError(t *testing.T) {
	errLow := errors.New("low")
	errHigh := errors.New("high")
	err := Each(50, func(i int) error {
		switch i {
		case 12:
			return errLow
		case 40:
			return errHigh
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, errLow, err)

	var sum atomic.Int64
	require.NoError(t, Each(100, func(i int) error {
		sum.Add(int64(i))
		return nil
	}))
	assert.Equal(t, int64(4950), sum.Load())
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 1, Workers(0))
	assert.Equal(t, 1, Workers(1))
	assert.LessOrEqual(t, Workers(3), 3)
}
