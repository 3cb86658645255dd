package linear

import (
	"time"

	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/optimize"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// gradientDescent is the fitting machinery shared by GDLinearRegression and
// LogisticRegression. The models differ only in the evaluator they build on
// top of the data binding.
type gradientDescent struct {
	name   string
	cfg    config
	state  *model.StateManager
	logger log.Logger

	weights []float64
	bias    float64
	result  *optimize.Result
}

func newGradientDescent(name string, opts []Option) gradientDescent {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("linear")
	}
	return gradientDescent{
		name:   name,
		cfg:    cfg,
		state:  model.NewStateManager(name),
		logger: logger.With(log.ModelNameKey, name, log.ComponentKey, "linear"),
	}
}

func (g *gradientDescent) source() random.Source {
	if g.cfg.src != nil {
		return g.cfg.src
	}
	return random.New(g.cfg.randomState)
}

// reset drops any previous fit.
func (g *gradientDescent) reset() {
	g.state.Reset()
	g.weights, g.bias, g.result = nil, 0, nil
}

// solve binds X and y, runs the optimizer with the evaluator built by
// newEvaluator and stores the resulting parameters.
func (g *gradientDescent) solve(X mat.Matrix, y []float64, newEvaluator func(*optimize.Binding) optimize.IncrementEvaluator) error {
	rows, cols := X.Dims()
	src := g.source()

	binding, err := optimize.NewBinding(X, y, g.cfg.learningRate, g.cfg.numStochasticSamples, src)
	if err != nil {
		return err
	}
	opt := optimize.NewOptimizer(
		optimize.WithTolerance(g.cfg.tolerance),
		optimize.WithMaxIterations(g.cfg.maxIterations),
		optimize.WithInitRange(g.cfg.initLow, g.cfg.initHigh),
		optimize.WithSource(src),
		optimize.WithStabilityCheck(g.cfg.stabilityCheck),
		optimize.WithAlgorithmName(g.name),
		optimize.WithLogger(g.logger),
	)

	start := time.Now()
	g.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.BatchSizeKey, binding.BatchSize(),
		log.LearningRateKey, g.cfg.learningRate,
	)
	res, err := opt.Run(newEvaluator(binding), cols)
	if err != nil {
		g.logger.Error("Training failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	g.weights = res.Weights
	g.bias = res.Bias
	g.result = res
	g.state.SetFitted(cols, rows)
	g.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.IterationKey, res.Iterations,
		log.MaxIncrementKey, res.MaxIncrement,
		log.ConvergedKey, res.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// GetWeights returns a copy of the fitted weights, or nil before Fit.
func (g *gradientDescent) GetWeights() []float64 {
	if !g.state.IsFitted() {
		return nil
	}
	return append([]float64(nil), g.weights...)
}

// GetBias returns the fitted bias, or 0 before Fit.
func (g *gradientDescent) GetBias() float64 {
	if !g.state.IsFitted() {
		return 0
	}
	return g.bias
}

// NIterations returns the number of optimizer steps of the last fit.
func (g *gradientDescent) NIterations() int {
	if g.result == nil {
		return 0
	}
	return g.result.Iterations
}

// Converged reports whether the last fit stopped on the tolerance rather
// than the iteration limit.
func (g *gradientDescent) Converged() bool {
	return g.result != nil && g.result.Converged
}

// IsFitted reports whether Fit completed.
func (g *gradientDescent) IsFitted() bool {
	return g.state.IsFitted()
}

// GetParams returns the hyper-parameters.
func (g *gradientDescent) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate":          g.cfg.learningRate,
		"num_stochastic_samples": g.cfg.numStochasticSamples,
		"max_iterations":         g.cfg.maxIterations,
		"tolerance":              g.cfg.tolerance,
		"init_range":             [2]float64{g.cfg.initLow, g.cfg.initHigh},
		"random_state":           g.cfg.randomState,
		"stability_check":        g.cfg.stabilityCheck,
	}
}

// MaxIncrement returns the convergence measure of the last optimizer step.
func (g *gradientDescent) MaxIncrement() float64 {
	if g.result == nil {
		return 0
	}
	return g.result.MaxIncrement
}
