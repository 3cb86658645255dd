package dataset

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MakeLinear samples rows points with features uniform in [-1, 1) and
// targets bias + x·weights + noise, noise uniform in [-noise, noise).
func MakeLinear(src random.Source, rows int, weights []float64, bias, noise float64) (*Dataset, error) {
	if rows <= 0 || len(weights) == 0 {
		return nil, errors.NewModelError("dataset.MakeLinear", "empty data", errors.ErrEmptyData)
	}
	cols := len(weights)
	X := mat.NewDense(rows, cols, nil)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := X.RawRowView(i)
		for j := range row {
			row[j] = random.Scalar(src, -1, 1)
		}
		y[i] = bias + floats.Dot(row, weights)
		if noise > 0 {
			y[i] += random.Scalar(src, -noise, noise)
		}
	}
	return &Dataset{X: X, Y: y}, nil
}

// maxSeparableAttempts bounds the draws spent on a single MakeSeparable row.
const maxSeparableAttempts = 10000

// MakeSeparable samples points uniform in [-1, 1) and labels each one by the
// side of the hyperplane normal·x + offset = 0 it lies on. Points closer than
// margin to the plane are resampled. A margin the cube cannot reach is a
// ValidationError.
func MakeSeparable(src random.Source, rows int, normal []float64, offset, margin float64) (*Dataset, error) {
	if rows <= 0 || len(normal) == 0 {
		return nil, errors.NewModelError("dataset.MakeSeparable", "empty data", errors.ErrEmptyData)
	}
	norm := floats.Norm(normal, 2)
	if norm == 0 {
		return nil, errors.NewValidationError("normal", "must be non-zero", normal)
	}
	// |normal·x + offset| / norm stays below this bound on the cube.
	if reach := (floats.Norm(normal, 1) + math.Abs(offset)) / norm; !(margin < reach) {
		return nil, errors.NewValidationError("margin", fmt.Sprintf("must be below %g", reach), margin)
	}
	cols := len(normal)
	X := mat.NewDense(rows, cols, nil)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := X.RawRowView(i)
		for attempt := 0; ; attempt++ {
			if attempt == maxSeparableAttempts {
				return nil, errors.NewValueError("dataset.MakeSeparable",
					fmt.Sprintf("no point outside margin %g after %d draws", margin, attempt))
			}
			for j := range row {
				row[j] = random.Scalar(src, -1, 1)
			}
			dist := (floats.Dot(row, normal) + offset) / norm
			if dist >= margin {
				y[i] = 1
				break
			}
			if dist <= -margin {
				y[i] = 0
				break
			}
		}
	}
	return &Dataset{X: X, Y: y}, nil
}

// MakeBlobs samples perCenter points around each center, each coordinate
// offset uniformly in [-spread, spread). Y holds the index of the generating
// center.
func MakeBlobs(src random.Source, centers [][]float64, perCenter int, spread float64) (*Dataset, error) {
	if len(centers) == 0 || perCenter <= 0 {
		return nil, errors.NewModelError("dataset.MakeBlobs", "empty data", errors.ErrEmptyData)
	}
	cols := len(centers[0])
	X := mat.NewDense(len(centers)*perCenter, cols, nil)
	y := make([]float64, len(centers)*perCenter)
	for c, center := range centers {
		if len(center) != cols {
			return nil, errors.NewDimensionError("dataset.MakeBlobs", cols, len(center), 1)
		}
		for k := 0; k < perCenter; k++ {
			i := c*perCenter + k
			row := X.RawRowView(i)
			for j := range row {
				row[j] = center[j] + random.Scalar(src, -spread, spread)
			}
			y[i] = float64(c)
		}
	}
	return &Dataset{X: X, Y: y}, nil
}
