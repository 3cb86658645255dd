package optimize

import (
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
)

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithTolerance sets the largest absolute increment at which the loop stops.
func WithTolerance(tol float64) Option {
	return func(o *Optimizer) {
		o.tolerance = tol
	}
}

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) Option {
	return func(o *Optimizer) {
		o.maxIterations = n
	}
}

// WithInitRange sets the uniform range [low, high) of the initial weights and bias.
func WithInitRange(low, high float64) Option {
	return func(o *Optimizer) {
		o.initLow = low
		o.initHigh = high
	}
}

// WithSource sets the random source used for initialisation.
func WithSource(src random.Source) Option {
	return func(o *Optimizer) {
		o.src = src
	}
}

// WithStabilityCheck aborts runs whose increments become NaN or Inf.
func WithStabilityCheck(enabled bool) Option {
	return func(o *Optimizer) {
		o.stabilityCheck = enabled
	}
}

// WithAlgorithmName sets the name reported in warnings and errors.
func WithAlgorithmName(name string) Option {
	return func(o *Optimizer) {
		o.algorithm = name
	}
}

// WithLogger sets the logger for iteration diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}
