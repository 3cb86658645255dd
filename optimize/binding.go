package optimize

import (
	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Binding ties a gradient-descent model to its training data for one fit.
// X and y are held by reference and must not be modified until the fit
// returns.
type Binding struct {
	x            *mat.Dense
	y            []float64
	sampler      *IndexSampler
	batchSize    int
	learningRate float64
	multiplier   float64
}

// NewBinding binds X and y. numStochasticSamples == 0 selects batch mode
// (every row, every step); a positive value selects stochastic mode with that
// many freshly shuffled rows per step and must be below the row count.
func NewBinding(X mat.Matrix, y []float64, learningRate float64, numStochasticSamples int, src random.Source) (*Binding, error) {
	const op = "optimize.NewBinding"
	rows, _, err := dataset.CheckMatrix(op, X)
	if err != nil {
		return nil, err
	}
	if len(y) != rows {
		return nil, errors.NewDimensionError(op, rows, len(y), 0)
	}
	if !(learningRate > 0) {
		return nil, errors.NewValidationError("learning_rate", "must be positive", learningRate)
	}
	if numStochasticSamples < 0 {
		return nil, errors.NewValidationError("num_stochastic_samples", "must be non-negative", numStochasticSamples)
	}
	if numStochasticSamples >= rows {
		return nil, errors.NewValidationError("num_stochastic_samples", "must be less than the number of rows", numStochasticSamples)
	}

	batchSize := rows
	stochastic := numStochasticSamples > 0
	if stochastic {
		batchSize = numStochasticSamples
		if src == nil {
			return nil, errors.NewValidationError("source", "required in stochastic mode", nil)
		}
	}
	return &Binding{
		x:            dataset.AsDense(X),
		y:            y,
		sampler:      NewIndexSampler(rows, stochastic, src),
		batchSize:    batchSize,
		learningRate: learningRate,
		multiplier:   -learningRate / float64(batchSize),
	}, nil
}

// Multiplier returns -learningRate / batchSize.
func (b *Binding) Multiplier() float64 {
	return b.multiplier
}

// BatchSize returns the number of rows used per step.
func (b *Binding) BatchSize() int {
	return b.batchSize
}

// Stochastic reports whether rows are resampled every step.
func (b *Binding) Stochastic() bool {
	return b.sampler.Shuffling()
}

// NumRows returns the number of bound rows.
func (b *Binding) NumRows() int {
	r, _ := b.x.Dims()
	return r
}

// NumColumns returns the number of features.
func (b *Binding) NumColumns() int {
	_, c := b.x.Dims()
	return c
}

// Next advances the sampler to the order used by the following step.
func (b *Binding) Next() {
	b.sampler.Update()
}

// Row returns the data row index at batch position k of the current step.
func (b *Binding) Row(k int) int {
	return b.sampler.Index(k)
}

// Features returns row r of X without copying.
func (b *Binding) Features(r int) []float64 {
	return b.x.RawRowView(r)
}

// Target returns y[r].
func (b *Binding) Target(r int) float64 {
	return b.y[r]
}

// Gradient advances the sampler, evaluates residual on every row of the new
// batch and writes scale·Σ residual·x into dw. It returns scale·Σ residual.
func (b *Binding) Gradient(residual func(x []float64, y float64) float64, scale float64, dw []float64) float64 {
	b.Next()
	for j := range dw {
		dw[j] = 0
	}
	var db float64
	for k := 0; k < b.batchSize; k++ {
		r := b.sampler.Index(k)
		x := b.x.RawRowView(r)
		e := residual(x, b.y[r])
		floats.AddScaled(dw, e, x)
		db += e
	}
	floats.Scale(scale, dw)
	return db * scale
}
