package linear

import (
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/optimize"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
)

// Default hyper-parameters of the gradient-descent models.
const (
	DefaultLearningRate         = 1e-4
	DefaultNumStochasticSamples = 0
)

// config holds the hyper-parameters shared by the gradient-descent models.
type config struct {
	learningRate         float64
	numStochasticSamples int
	maxIterations        int
	tolerance            float64
	initLow              float64
	initHigh             float64
	randomState          int64
	src                  random.Source
	stabilityCheck       bool
	logger               log.Logger
}

func defaultConfig() config {
	return config{
		learningRate:         DefaultLearningRate,
		numStochasticSamples: DefaultNumStochasticSamples,
		maxIterations:        optimize.DefaultMaxIterations,
		tolerance:            optimize.DefaultTolerance,
		initLow:              optimize.DefaultInitLow,
		initHigh:             optimize.DefaultInitHigh,
		randomState:          -1,
	}
}

// Option configures GDLinearRegression and LogisticRegression.
type Option func(*config)

// WithLearningRate sets the step size.
func WithLearningRate(lr float64) Option {
	return func(c *config) {
		c.learningRate = lr
	}
}

// WithStochasticSamples sets the number of rows per step. 0 uses every row
// (batch gradient descent); a positive value must be below the row count.
func WithStochasticSamples(n int) Option {
	return func(c *config) {
		c.numStochasticSamples = n
	}
}

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIterations = n
	}
}

// WithTolerance sets the largest absolute increment at which fitting stops.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		c.tolerance = tol
	}
}

// WithInitRange sets the uniform range of the initial weights and bias.
func WithInitRange(low, high float64) Option {
	return func(c *config) {
		c.initLow = low
		c.initHigh = high
	}
}

// WithRandomState seeds initialisation and sampling. Every Fit restarts from
// the seed, so repeated fits are identical. A negative seed uses the clock.
func WithRandomState(seed int64) Option {
	return func(c *config) {
		c.randomState = seed
	}
}

// WithSource sets an explicit random source. It takes precedence over
// WithRandomState and is consumed across fits.
func WithSource(src random.Source) Option {
	return func(c *config) {
		c.src = src
	}
}

// WithStabilityCheck makes Fit fail when an increment becomes NaN or Inf.
func WithStabilityCheck(enabled bool) Option {
	return func(c *config) {
		c.stabilityCheck = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
