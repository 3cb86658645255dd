package linear

import (
	"testing"

	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	trueWeights = []float64{1.5, -2, 0.75}
	trueBias    = 0.5
)

func linearData(t *testing.T, seed int64, rows int, noise float64) *dataset.Dataset {
	t.Helper()
	d, err := dataset.MakeLinear(random.New(seed), rows, trueWeights, trueBias, noise)
	require.NoError(t, err)
	return d
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(log.RegisterWarnings)
	return &got
}

func TestLinearRegressionRecoversExactWeights(t *testing.T) {
	d := linearData(t, 1, 200, 0)

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(d.X, d.Target()))

	assert.True(t, lr.IsFitted())
	assert.InDeltaSlice(t, trueWeights, lr.GetWeights(), 1e-9)
	assert.InDelta(t, trueBias, lr.GetBias(), 1e-9)

	score, err := lr.Score(d.X, d.Target())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestLinearRegressionPredict(t *testing.T) {
	d := linearData(t, 2, 100, 0)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(d.X, d.Target()))

	first, err := lr.Predict(d.X)
	require.NoError(t, err)
	second, err := lr.Predict(d.X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second))

	rows, cols := first.Dims()
	assert.Equal(t, 100, rows)
	assert.Equal(t, 1, cols)

	one, err := lr.PredictOne([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.5-2+0.75+0.5, one, 1e-9)
}

func TestLinearRegressionSingular(t *testing.T) {
	t.Run("fewer rows than columns", func(t *testing.T) {
		X := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 10})
		y := mat.NewVecDense(3, []float64{1, 2, 3})
		err := NewLinearRegression().Fit(X, y)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	})

	t.Run("duplicated column", func(t *testing.T) {
		d := linearData(t, 3, 50, 0)
		X := mat.NewDense(50, 2, nil)
		for i := 0; i < 50; i++ {
			X.Set(i, 0, d.X.At(i, 0))
			X.Set(i, 1, d.X.At(i, 0))
		}
		err := NewLinearRegression().Fit(X, d.Target())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	})
}

func TestLinearRegressionInputErrors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 3, nil))
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	err = lr.Fit(&mat.Dense{}, mat.NewVecDense(1, nil))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	d := linearData(t, 4, 20, 0)
	err = lr.Fit(d.X, mat.NewVecDense(19, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	require.NoError(t, lr.Fit(d.X, d.Target()))
	_, err = lr.Predict(mat.NewDense(2, 2, nil))
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)

	_, err = lr.PredictOne([]float64{1})
	assert.True(t, errors.As(err, &dimErr))
}

func TestLinearRegressionLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	d := linearData(t, 5, 30, 0)

	lr := NewLinearRegression(WithLogger(logger))
	require.NoError(t, lr.Fit(d.X, d.Target()))

	assert.True(t, logger.ContainsMessage("Training started"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "LinearRegression"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(30)))
}

func TestLinearRegressionFailedRefitClearsModel(t *testing.T) {
	d := linearData(t, 4, 50, 0)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(d.X, d.Target()))
	require.True(t, lr.IsFitted())

	var dimErr *errors.DimensionError
	err := lr.Fit(d.X, mat.NewVecDense(3, []float64{1, 2, 3}))
	require.True(t, errors.As(err, &dimErr))
	assert.False(t, lr.IsFitted())
	assert.Nil(t, lr.GetWeights())
	assert.Zero(t, lr.GetBias())

	var notFitted *errors.NotFittedError
	_, err = lr.Predict(d.X)
	assert.True(t, errors.As(err, &notFitted))
}
