package cluster

import (
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
)

// Default settings.
const (
	DefaultNumTrials = 10
	DefaultMaxIter   = 300
	DefaultTol       = 1e-8
)

// KMeansOption configures KMeans.
type KMeansOption func(*KMeans)

// WithNumCentroids sets k.
func WithNumCentroids(k int) KMeansOption {
	return func(km *KMeans) {
		km.numCentroids = k
	}
}

// WithNumTrials sets the number of random restarts.
func WithNumTrials(n int) KMeansOption {
	return func(km *KMeans) {
		km.numTrials = n
	}
}

// WithKMeansTol sets the centroid movement below which a trial stops. The
// test compares squared distances against tol².
func WithKMeansTol(tol float64) KMeansOption {
	return func(km *KMeans) {
		km.tol = tol
	}
}

// WithKMeansMaxIter bounds the Lloyd iterations of each trial.
func WithKMeansMaxIter(n int) KMeansOption {
	return func(km *KMeans) {
		km.maxIter = n
	}
}

// WithParallelTrials runs the trials concurrently. Each trial draws from its
// own source seeded before any trial starts, so the result equals the
// sequential one.
func WithParallelTrials(enabled bool) KMeansOption {
	return func(km *KMeans) {
		km.parallelTrials = enabled
	}
}

// WithRandomState seeds the trials; every Fit restarts from the seed. A
// negative seed uses the clock.
func WithRandomState(seed int64) KMeansOption {
	return func(km *KMeans) {
		km.randomState = seed
	}
}

// WithSource sets an explicit random source, taking precedence over
// WithRandomState.
func WithSource(src random.Source) KMeansOption {
	return func(km *KMeans) {
		km.src = src
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) KMeansOption {
	return func(km *KMeans) {
		km.logger = logger
	}
}
