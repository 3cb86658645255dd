// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns the number of goroutines used for n items.
func Workers(n int) int {
	w := runtime.GOMAXPROCS(0)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Range divides [0, n) into contiguous chunks, one per worker, calls fn on
// each chunk concurrently and waits for all of them.
func Range(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := Workers(n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// RangeWithThreshold behaves like Range but calls fn(0, n) on the calling
// goroutine when n does not exceed threshold.
func RangeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n <= threshold {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	Range(n, fn)
}

// Each calls fn(i) for every i in [0, n) with at most Workers(n) calls in
// flight. It waits for all calls and returns the error of the lowest failing
// index, so the result does not depend on scheduling.
func Each(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)
	Range(n, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(i)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
