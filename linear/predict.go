package linear

import (
	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/metrics"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// linearPredict returns X·w + b as a column vector.
func linearPredict(X mat.Matrix, w []float64, b float64) *mat.VecDense {
	rows, _ := X.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(X, mat.NewVecDense(len(w), w))
	for i := 0; i < rows; i++ {
		out.SetVec(i, out.AtVec(i)+b)
	}
	return out
}

// checkInput validates X against a fitted model.
func checkInput(state *model.StateManager, method string, X mat.Matrix) error {
	if err := state.RequireFitted(method); err != nil {
		return err
	}
	if _, _, err := dataset.CheckMatrix(state.ModelName()+"."+method, X); err != nil {
		return err
	}
	_, cols := X.Dims()
	return state.CheckFeatures(method, cols)
}

// dotRow returns x·w + b after checking len(x).
func dotRow(state *model.StateManager, method string, x []float64, w []float64, b float64) (float64, error) {
	if err := state.CheckFeatures(method, len(x)); err != nil {
		return 0, err
	}
	return floats.Dot(x, w) + b, nil
}

// r2 scores predictions of a fitted regressor against y.
func r2(op string, pred *mat.VecDense, y mat.Matrix) (float64, error) {
	yTrue, err := dataset.TargetVector(op, y, pred.Len())
	if err != nil {
		return 0, err
	}
	score, err := metrics.R2Score(mat.NewVecDense(len(yTrue), yTrue), pred)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return score, nil
}
