package linear

import (
	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/metrics"
	"github.com/YuminosukeSato/gomlcore/optimize"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sigmoid returns 1 / (1 + e^-z). The exponent is clipped to ±700.
func Sigmoid(z float64) float64 {
	return 1 / (1 + errors.StabilizeExp(-z))
}

// SigmoidDerivative returns σ(z)(1 - σ(z)).
func SigmoidDerivative(z float64) float64 {
	s := Sigmoid(z)
	return s * (1 - s)
}

// LogisticRegression is a binary classifier trained by gradient descent on
// the log-loss. Labels are 0 and 1; a row is positive when its probability
// exceeds 0.5.
type LogisticRegression struct {
	gradientDescent
}

// NewLogisticRegression creates an unfitted classifier.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	return &LogisticRegression{gradientDescent: newGradientDescent("LogisticRegression", opts)}
}

// Fit trains on X and the column vector y, whose entries must be 0 or 1.
func (m *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "LogisticRegression.Fit"
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
	for i, v := range yv {
		if v != 0 && v != 1 {
			return errors.NewValidationError("y", "labels must be 0 or 1", map[string]float64{"row": float64(i), "value": v})
		}
	}
	return m.solve(X, yv, logLoss)
}

// FitLabels trains on boolean labels.
func (m *LogisticRegression) FitLabels(X mat.Matrix, labels []bool) error {
	if len(labels) == 0 {
		m.reset()
		return errors.NewModelError("LogisticRegression.FitLabels", "empty data", errors.ErrEmptyData)
	}
	y := dataset.BoolsToFloats(labels)
	return m.Fit(X, mat.NewVecDense(len(y), y))
}

// logLoss yields increments (lr/batch)·Σ e·x with e = y - σ(b + x·w), which
// move the parameters down the log-loss gradient.
func logLoss(b *optimize.Binding) optimize.IncrementEvaluator {
	return optimize.EvaluatorFunc(func(weights []float64, bias float64, dw []float64) float64 {
		return b.Gradient(func(x []float64, y float64) float64 {
			return y - Sigmoid(bias+floats.Dot(x, weights))
		}, -b.Multiplier(), dw)
	})
}

// Probability returns σ(X·w + b) as an n×1 matrix.
func (m *LogisticRegression) Probability(X mat.Matrix) (mat.Matrix, error) {
	if err := checkInput(m.state, "Probability", X); err != nil {
		return nil, err
	}
	return m.probability(X), nil
}

func (m *LogisticRegression) probability(X mat.Matrix) *mat.VecDense {
	p := linearPredict(X, m.weights, m.bias)
	for i := 0; i < p.Len(); i++ {
		p.SetVec(i, Sigmoid(p.AtVec(i)))
	}
	return p
}

// ProbabilityOne returns the positive-class probability of x.
func (m *LogisticRegression) ProbabilityOne(x []float64) (float64, error) {
	z, err := dotRow(m.state, "ProbabilityOne", x, m.weights, m.bias)
	if err != nil {
		return 0, err
	}
	return Sigmoid(z), nil
}

// Predict returns 1 for positive rows and 0 otherwise as an n×1 matrix.
func (m *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := checkInput(m.state, "Predict", X); err != nil {
		return nil, err
	}
	return threshold(m.probability(X)), nil
}

func threshold(p *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(p.Len(), nil)
	for i := 0; i < p.Len(); i++ {
		if p.AtVec(i) > 0.5 {
			out.SetVec(i, 1)
		}
	}
	return out
}

// PredictOne returns 1 if x is positive and 0 otherwise.
func (m *LogisticRegression) PredictOne(x []float64) (float64, error) {
	positive, err := m.PredictClassOne(x)
	if err != nil || !positive {
		return 0, err
	}
	return 1, nil
}

// PredictClass returns the class of every row.
func (m *LogisticRegression) PredictClass(X mat.Matrix) ([]bool, error) {
	if err := checkInput(m.state, "PredictClass", X); err != nil {
		return nil, err
	}
	p := m.probability(X)
	out := make([]bool, p.Len())
	for i := range out {
		out[i] = p.AtVec(i) > 0.5
	}
	return out, nil
}

// PredictClassOne returns the class of x.
func (m *LogisticRegression) PredictClassOne(x []float64) (bool, error) {
	p, err := m.ProbabilityOne(x)
	if err != nil {
		return false, err
	}
	return p > 0.5, nil
}

// Score returns the accuracy on X and y.
func (m *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	const op = "LogisticRegression.Score"
	if err := checkInput(m.state, "Score", X); err != nil {
		return 0, err
	}
	pred := threshold(m.probability(X))
	yv, err := dataset.TargetVector(op, y, pred.Len())
	if err != nil {
		return 0, err
	}
	acc, err := metrics.Accuracy(mat.NewVecDense(len(yv), yv), pred)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return acc, nil
}

// LogLoss returns the mean binary cross-entropy on X and y.
func (m *LogisticRegression) LogLoss(X, y mat.Matrix) (float64, error) {
	const op = "LogisticRegression.LogLoss"
	if err := checkInput(m.state, "LogLoss", X); err != nil {
		return 0, err
	}
	p := m.probability(X)
	yv, err := dataset.TargetVector(op, y, p.Len())
	if err != nil {
		return 0, err
	}
	loss, err := metrics.BinaryLogLoss(mat.NewVecDense(len(yv), yv), p)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return loss, nil
}

var (
	_ model.Classifier      = (*LogisticRegression)(nil)
	_ model.ParameterGetter = (*LogisticRegression)(nil)
)
