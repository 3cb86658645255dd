package linear

import (
	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/optimize"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GDLinearRegression fits a linear model by batch or stochastic gradient
// descent on the squared error.
type GDLinearRegression struct {
	gradientDescent
}

// NewGDLinearRegression creates an unfitted model. Without
// WithStochasticSamples every step uses all rows.
func NewGDLinearRegression(opts ...Option) *GDLinearRegression {
	return &GDLinearRegression{gradientDescent: newGradientDescent("GDLinearRegression", opts)}
}

// Fit trains on X and the column vector y.
func (m *GDLinearRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "GDLinearRegression.Fit"
	defer errors.Recover(&err, op)

	m.reset()
	rows, _, err := dataset.CheckMatrix(op, X)
	if err != nil {
		return err
	}
	yv, err := dataset.TargetVector(op, y, rows)
	if err != nil {
		return err
	}
	return m.solve(X, yv, squaredError)
}

// squaredError yields dw = multiplier·Σ e·x and db = multiplier·Σ e with
// e = b + x·w - y over the sampled rows.
func squaredError(b *optimize.Binding) optimize.IncrementEvaluator {
	return optimize.EvaluatorFunc(func(weights []float64, bias float64, dw []float64) float64 {
		return b.Gradient(func(x []float64, y float64) float64 {
			return bias + floats.Dot(x, weights) - y
		}, b.Multiplier(), dw)
	})
}

// Predict returns X·w + b as an n×1 matrix.
func (m *GDLinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := checkInput(m.state, "Predict", X); err != nil {
		return nil, err
	}
	return linearPredict(X, m.weights, m.bias), nil
}

// PredictOne returns x·w + b.
func (m *GDLinearRegression) PredictOne(x []float64) (float64, error) {
	return dotRow(m.state, "PredictOne", x, m.weights, m.bias)
}

// Score returns the coefficient of determination R².
func (m *GDLinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if err := checkInput(m.state, "Score", X); err != nil {
		return 0, err
	}
	return r2("GDLinearRegression.Score", linearPredict(X, m.weights, m.bias), y)
}

var (
	_ model.LinearModel     = (*GDLinearRegression)(nil)
	_ model.ParameterGetter = (*GDLinearRegression)(nil)
)
