package linear

import (
	"testing"

	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGDLinearRegressionBatch(t *testing.T) {
	warnings := captureWarnings(t)
	d := linearData(t, 11, 200, 0.01)

	m := NewGDLinearRegression(WithLearningRate(0.1), WithRandomState(7))
	require.NoError(t, m.Fit(d.X, d.Target()))

	assert.True(t, m.Converged())
	assert.Greater(t, m.NIterations(), 1)
	assert.LessOrEqual(t, m.MaxIncrement(), optimizeTolerance)
	assert.InDeltaSlice(t, trueWeights, m.GetWeights(), 1e-2)
	assert.InDelta(t, trueBias, m.GetBias(), 1e-2)
	assert.Empty(t, *warnings)

	score, err := m.Score(d.X, d.Target())
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)
}

// optimizeTolerance mirrors the default stopping tolerance.
const optimizeTolerance = 1e-8

func TestGDLinearRegressionMatchesAnalytical(t *testing.T) {
	d := linearData(t, 12, 150, 0.05)

	exact := NewLinearRegression()
	require.NoError(t, exact.Fit(d.X, d.Target()))

	gd := NewGDLinearRegression(WithLearningRate(0.2), WithRandomState(1), WithTolerance(1e-12))
	require.NoError(t, gd.Fit(d.X, d.Target()))

	assert.InDeltaSlice(t, exact.GetWeights(), gd.GetWeights(), 1e-6)
	assert.InDelta(t, exact.GetBias(), gd.GetBias(), 1e-6)
}

func TestGDLinearRegressionDeterministic(t *testing.T) {
	d := linearData(t, 13, 100, 0.1)

	m := NewGDLinearRegression(WithLearningRate(0.1), WithRandomState(99), WithMaxIterations(50))
	captureWarnings(t)
	require.NoError(t, m.Fit(d.X, d.Target()))
	firstW, firstB := m.GetWeights(), m.GetBias()

	require.NoError(t, m.Fit(d.X, d.Target()))
	assert.Equal(t, firstW, m.GetWeights())
	assert.Equal(t, firstB, m.GetBias())

	other := NewGDLinearRegression(WithLearningRate(0.1), WithRandomState(99), WithMaxIterations(50))
	require.NoError(t, other.Fit(d.X, d.Target()))
	assert.Equal(t, firstW, other.GetWeights())
}

func TestGDLinearRegressionStochastic(t *testing.T) {
	d := linearData(t, 14, 200, 0)

	m := NewGDLinearRegression(
		WithLearningRate(0.1),
		WithStochasticSamples(20),
		WithSource(random.New(3)),
	)
	require.NoError(t, m.Fit(d.X, d.Target()))
	assert.InDeltaSlice(t, trueWeights, m.GetWeights(), 1e-2)
	assert.InDelta(t, trueBias, m.GetBias(), 1e-2)
}

func TestGDLinearRegressionRejectsTooManySamples(t *testing.T) {
	d := linearData(t, 15, 50, 0)

	for _, n := range []int{50, 51, -1} {
		m := NewGDLinearRegression(WithStochasticSamples(n), WithRandomState(1))
		err := m.Fit(d.X, d.Target())
		require.Error(t, err, "samples=%d", n)
		var vErr *errors.ValidationError
		assert.True(t, errors.As(err, &vErr))
		assert.False(t, m.IsFitted())
	}
}

func TestGDLinearRegressionNonConvergence(t *testing.T) {
	warnings := captureWarnings(t)
	d := linearData(t, 16, 50, 0.1)

	m := NewGDLinearRegression(WithMaxIterations(3), WithRandomState(1))
	require.NoError(t, m.Fit(d.X, d.Target()))

	assert.False(t, m.Converged())
	assert.Equal(t, 3, m.NIterations())
	require.Len(t, *warnings, 1)
	var cw *errors.ConvergenceWarning
	require.True(t, errors.As((*warnings)[0], &cw))
	assert.Equal(t, "GDLinearRegression", cw.Algorithm)
}

func TestGDLinearRegressionStabilityCheck(t *testing.T) {
	d := linearData(t, 17, 50, 0)

	m := NewGDLinearRegression(WithLearningRate(1e6), WithStabilityCheck(true), WithRandomState(1))
	err := m.Fit(d.X, d.Target())
	require.Error(t, err)
	var nErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &nErr))
}

func TestGDLinearRegressionBeforeFit(t *testing.T) {
	m := NewGDLinearRegression()
	assert.Nil(t, m.GetWeights())
	assert.Equal(t, 0.0, m.GetBias())
	assert.Equal(t, 0, m.NIterations())
	assert.False(t, m.Converged())

	_, err := m.Predict(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	params := m.GetParams()
	assert.Equal(t, DefaultLearningRate, params["learning_rate"])
	assert.Equal(t, 0, params["num_stochastic_samples"])
}

func TestGDLinearRegressionLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	d := linearData(t, 18, 40, 0)

	m := NewGDLinearRegression(WithLearningRate(0.1), WithRandomState(1), WithLogger(logger), WithMaxIterations(5))
	captureWarnings(t)
	require.NoError(t, m.Fit(d.X, d.Target()))

	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.Equal(t, 5, logger.CountField("message", "Iteration finished"))
	assert.True(t, logger.ContainsField(log.BatchSizeKey, float64(40)))
}

func TestGDLinearRegressionPredictIsRepeatable(t *testing.T) {
	d := linearData(t, 17, 80, 0.05)
	m := NewGDLinearRegression(WithLearningRate(0.1), WithRandomState(5))
	require.NoError(t, m.Fit(d.X, d.Target()))

	first, err := m.Predict(d.X)
	require.NoError(t, err)
	second, err := m.Predict(d.X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second))
}

func TestGDLinearRegressionFailedRefitClearsModel(t *testing.T) {
	captureWarnings(t)
	m := NewGDLinearRegression(
		WithLearningRate(0.1),
		WithStochasticSamples(20),
		WithRandomState(3),
		WithMaxIterations(200),
	)
	big := linearData(t, 18, 100, 0)
	require.NoError(t, m.Fit(big.X, big.Target()))
	require.True(t, m.IsFitted())

	small := linearData(t, 19, 15, 0)
	var vErr *errors.ValidationError
	require.True(t, errors.As(m.Fit(small.X, small.Target()), &vErr))
	assert.False(t, m.IsFitted())
	assert.Nil(t, m.GetWeights())
	assert.Zero(t, m.NIterations())

	var dimErr *errors.DimensionError
	require.NoError(t, m.Fit(big.X, big.Target()))
	require.True(t, errors.As(m.Fit(small.X, mat.NewVecDense(2, nil)), &dimErr))
	assert.False(t, m.IsFitted())

	var notFitted *errors.NotFittedError
	_, err := m.PredictOne([]float64{1, 2, 3})
	assert.True(t, errors.As(err, &notFitted))
}
