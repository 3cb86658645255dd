package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	regTrue = []float64{3, -0.5, 2, 7}
	regPred = []float64{2.5, 0, 2, 8}
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func TestRegressionMetrics(t *testing.T) {
	yTrue, yPred := vec(regTrue...), vec(regPred...)

	mse, err := MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.375, mse, 1e-12)

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.375), rmse, 1e-12)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-12)

	// mean 2.875, TSS 29.1875, RSS 1.5
	r2, err := R2Score(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1-1.5/29.1875, r2, 1e-12)
}

func TestRegressionMetricsPerfectFit(t *testing.T) {
	y := vec(1, 2, 3, 4)
	for name, fn := range map[string]func(a, b *mat.VecDense) (float64, error){
		"MSE": MSE, "RMSE": RMSE, "MAE": MAE,
	} {
		got, err := fn(y, y)
		require.NoError(t, err, name)
		assert.Zero(t, got, name)
	}
	r2, err := R2Score(y, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)
}

func TestMSEMatrix(t *testing.T) {
	got, err := MSEMatrix(mat.NewDense(4, 1, regTrue), mat.NewDense(4, 1, regPred))
	require.NoError(t, err)
	assert.InDelta(t, 0.375, got, 1e-12)

	_, err = MSEMatrix(mat.NewDense(4, 1, regTrue), mat.NewDense(3, 1, regPred[:3]))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)

	_, err = MSEMatrix(mat.NewDense(2, 2, regTrue), mat.NewDense(2, 2, regPred))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestR2ScoreZeroVariance(t *testing.T) {
	_, err := R2Score(vec(2, 2, 2), vec(1, 2, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total sum of squares is zero")
}

func TestRegressionMetricsInputErrors(t *testing.T) {
	metrics := map[string]func(a, b *mat.VecDense) (float64, error){
		"MSE": MSE, "RMSE": RMSE, "MAE": MAE, "R2Score": R2Score,
	}
	for name, fn := range metrics {
		t.Run(name, func(t *testing.T) {
			var dimErr *errors.DimensionError
			_, err := fn(vec(1, 2, 3), nil)
			require.True(t, errors.As(err, &dimErr))
			assert.Equal(t, 3, dimErr.Expected)
			assert.Equal(t, 0, dimErr.Got)

			_, err = fn(vec(1, 2, 3), vec(1, 2))
			assert.True(t, errors.As(err, &dimErr))

			var valueErr *errors.ValueError
			_, err = fn(nil, vec(1))
			assert.True(t, errors.As(err, &valueErr))
			_, err = fn(&mat.VecDense{}, vec(1))
			assert.True(t, errors.As(err, &valueErr))
		})
	}
}

func BenchmarkMSE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.5)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
