// Package optimize implements the convergence loop shared by the
// gradient-descent estimators, together with the row sampling and data
// binding they evaluate their increments against.
package optimize

import (
	"context"
	"math"
	"time"

	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"gonum.org/v1/gonum/floats"
)

// IncrementEvaluator computes one optimization step. It writes the weight
// increments into dw (len(dw) == len(weights)) and returns the bias increment.
// Implementations must not retain weights or dw.
type IncrementEvaluator interface {
	Increments(weights []float64, bias float64, dw []float64) (db float64)
}

// EvaluatorFunc adapts a function to IncrementEvaluator.
type EvaluatorFunc func(weights []float64, bias float64, dw []float64) float64

// Increments implements IncrementEvaluator.
func (f EvaluatorFunc) Increments(weights []float64, bias float64, dw []float64) float64 {
	return f(weights, bias, dw)
}

// Result holds the parameters at the end of a run.
type Result struct {
	Weights []float64
	Bias    float64

	// Iterations is the number of evaluator calls.
	Iterations int

	// MaxIncrement is the convergence measure of the last step.
	MaxIncrement float64

	// Converged is false when the loop stopped on the iteration limit.
	Converged bool
}

// Optimizer repeatedly applies evaluator increments to randomly initialised
// parameters until the largest absolute increment is at or below the
// tolerance or the iteration limit is reached.
type Optimizer struct {
	tolerance      float64
	maxIterations  int
	initLow        float64
	initHigh       float64
	stabilityCheck bool
	algorithm      string
	src            random.Source
	logger         log.Logger
}

// Default settings.
const (
	DefaultTolerance     = 1e-8
	DefaultMaxIterations = 100000
	DefaultInitLow       = -1.0
	DefaultInitHigh      = 1.0
)

// NewOptimizer creates an Optimizer with a time-seeded source unless
// WithSource is given.
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		tolerance:     DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		initLow:       DefaultInitLow,
		initHigh:      DefaultInitHigh,
		algorithm:     "GradientDescent",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.src == nil {
		o.src = random.New(-1)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("optimize").With(log.ComponentKey, "optimize")
	}
	return o
}

// Validate checks the settings.
func (o *Optimizer) Validate() error {
	if o.maxIterations < 1 {
		return errors.NewValidationError("max_iterations", "must be at least 1", o.maxIterations)
	}
	if o.tolerance < 0 || math.IsNaN(o.tolerance) {
		return errors.NewValidationError("tolerance", "must be non-negative", o.tolerance)
	}
	if !(o.initLow < o.initHigh) {
		return errors.NewValidationError("init_range", "low must be below high", [2]float64{o.initLow, o.initHigh})
	}
	return nil
}

// Run optimizes numWeights weights and a bias with ev.
//
// With the stability check enabled, a NaN or Inf increment aborts the run with
// a NumericalInstabilityError; otherwise it propagates into the parameters.
// Hitting the iteration limit is not an error: the result reports
// Converged=false and a ConvergenceWarning is raised.
func (o *Optimizer) Run(ev IncrementEvaluator, numWeights int) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if numWeights < 1 {
		return nil, errors.NewValidationError("num_weights", "must be at least 1", numWeights)
	}

	start := time.Now()
	weights := random.Vector(o.src, numWeights, o.initLow, o.initHigh)
	bias := random.Scalar(o.src, o.initLow, o.initHigh)
	dw := make([]float64, numWeights)
	debug := o.logger.Enabled(context.Background(), log.LevelDebug)

	res := &Result{}
	for {
		db := ev.Increments(weights, bias, dw)
		if o.stabilityCheck {
			if err := errors.CheckNumericalStability(o.algorithm+".increments", dw, res.Iterations); err != nil {
				return nil, err
			}
			if err := errors.CheckScalar(o.algorithm+".bias_increment", db, res.Iterations); err != nil {
				return nil, err
			}
		}
		floats.Add(weights, dw)
		bias += db
		res.Iterations++
		res.MaxIncrement = MaxIncrement(dw, db)

		if debug {
			o.logger.Debug("Iteration finished",
				log.IterationKey, res.Iterations,
				log.MaxIncrementKey, res.MaxIncrement,
			)
		}
		if res.MaxIncrement <= o.tolerance {
			res.Converged = true
			break
		}
		if res.Iterations >= o.maxIterations {
			break
		}
	}

	res.Weights = weights
	res.Bias = bias
	o.logger.Debug("Optimization finished",
		log.IterationKey, res.Iterations,
		log.MaxIncrementKey, res.MaxIncrement,
		log.ConvergedKey, res.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning(o.algorithm, res.Iterations, res.MaxIncrement, ""))
	}
	return res, nil
}

// MaxIncrement returns max(|min(dw)|, |max(dw)|, |db|). Since the largest
// absolute component of dw is attained at its minimum or its maximum, this is
// exactly the largest absolute increment.
func MaxIncrement(dw []float64, db float64) float64 {
	m := math.Abs(db)
	if len(dw) == 0 {
		return m
	}
	return math.Max(m, math.Max(math.Abs(floats.Min(dw)), math.Abs(floats.Max(dw))))
}
