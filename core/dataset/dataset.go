// Package dataset validates estimator inputs and provides synthetic data
// generators and CSV export.
package dataset

import (
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a feature matrix with one target per row.
type Dataset struct {
	X *mat.Dense
	Y []float64
}

// New validates X and y and wraps them. X is copied unless it already is a
// *mat.Dense.
func New(X mat.Matrix, y []float64) (*Dataset, error) {
	rows, _, err := CheckMatrix("dataset.New", X)
	if err != nil {
		return nil, err
	}
	if len(y) != rows {
		return nil, errors.NewDimensionError("dataset.New", rows, len(y), 0)
	}
	return &Dataset{X: AsDense(X), Y: y}, nil
}

// FromRows builds a Dataset from row slices. Every row must have the same
// length.
func FromRows(rows [][]float64, y []float64) (*Dataset, error) {
	X, err := DenseFromRows("dataset.FromRows", rows)
	if err != nil {
		return nil, err
	}
	return New(X, y)
}

// FromLabels builds a classification Dataset; true maps to 1.
func FromLabels(X mat.Matrix, labels []bool) (*Dataset, error) {
	return New(X, BoolsToFloats(labels))
}

// Rows returns the number of samples.
func (d *Dataset) Rows() int {
	r, _ := d.X.Dims()
	return r
}

// Cols returns the number of features.
func (d *Dataset) Cols() int {
	_, c := d.X.Dims()
	return c
}

// Target returns y as an n×1 matrix sharing the backing slice.
func (d *Dataset) Target() *mat.Dense {
	return mat.NewDense(len(d.Y), 1, d.Y)
}

// Labels returns y > 0.5 for each row.
func (d *Dataset) Labels() []bool {
	out := make([]bool, len(d.Y))
	for i, v := range d.Y {
		out[i] = v > 0.5
	}
	return out
}

// Split returns the first n rows and the remaining rows as two datasets
// sharing storage with d.
func (d *Dataset) Split(n int) (*Dataset, *Dataset, error) {
	rows, cols := d.X.Dims()
	if n <= 0 || n >= rows {
		return nil, nil, errors.NewValidationError("n", "must be between 1 and rows-1", n)
	}
	head := d.X.Slice(0, n, 0, cols).(*mat.Dense)
	tail := d.X.Slice(n, rows, 0, cols).(*mat.Dense)
	return &Dataset{X: head, Y: d.Y[:n]}, &Dataset{X: tail, Y: d.Y[n:]}, nil
}

// CheckMatrix returns the dimensions of X or an empty-data error when it has
// no rows or no columns.
func CheckMatrix(op string, X mat.Matrix) (rows, cols int, err error) {
	if X == nil {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if dense, ok := X.(*mat.Dense); ok && dense.IsEmpty() {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return rows, cols, nil
}

// TargetVector extracts a column vector y with the given number of rows.
func TargetVector(op string, y mat.Matrix, rows int) ([]float64, error) {
	if y == nil {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if dense, ok := y.(*mat.Dense); ok && dense.IsEmpty() {
		return nil, errors.NewDimensionError(op, rows, 0, 0)
	}
	ry, cy := y.Dims()
	if ry != rows {
		return nil, errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	out := make([]float64, ry)
	if v, ok := y.(mat.Vector); ok {
		for i := range out {
			out[i] = v.AtVec(i)
		}
		return out, nil
	}
	for i := range out {
		out[i] = y.At(i, 0)
	}
	return out, nil
}

// AsDense returns X itself when it is a *mat.Dense and a copy otherwise.
func AsDense(X mat.Matrix) *mat.Dense {
	if d, ok := X.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(X)
}

// DenseFromRows copies row slices into a *mat.Dense.
func DenseFromRows(op string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, errors.NewDimensionError(op, cols, len(row), 1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// BoolsToFloats maps true to 1 and false to 0.
func BoolsToFloats(labels []bool) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		if l {
			out[i] = 1
		}
	}
	return out
}
