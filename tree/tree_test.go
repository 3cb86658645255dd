package tree

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// waveData samples two distinct-valued features with a non-zero target.
func waveData(seed int64, rows int) (*mat.Dense, *mat.VecDense) {
	src := random.New(seed)
	X := mat.NewDense(rows, 2, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		a, b := random.Scalar(src, 0, 4), random.Scalar(src, -1, 1)
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		y.SetVec(i, 2+math.Sin(a)+0.5*b)
	}
	return X, y
}

func TestSingleLeafWhenMaxLeafSizeCoversData(t *testing.T) {
	X, y := waveData(1, 40)
	tr := NewDecisionTreeRegressor(WithMaxLeafSize(40))
	require.NoError(t, tr.Fit(X, y))

	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, 1, tr.LeafCount())
	assert.Equal(t, 0, tr.Depth())
	root := tr.Node(tr.Root())
	assert.True(t, root.Leaf)
	assert.Equal(t, 40, root.Samples)
	assert.InDelta(t, stat.Mean(y.RawVector().Data, nil), root.Value, 1e-12)
}

func TestLeafSizeOne(t *testing.T) {
	X, y := waveData(2, 30)
	tr := NewDecisionTreeRegressor(WithMaxLeafSize(1))
	require.NoError(t, tr.Fit(X, y))

	assert.Equal(t, 30, tr.LeafCount())
	assert.Equal(t, 2*30-1, tr.NodeCount())
	for id := 0; id < tr.NodeCount(); id++ {
		n := tr.Node(id)
		if n.Leaf {
			assert.Equal(t, 1, n.Samples)
		} else {
			assert.Equal(t, n.Samples, tr.Node(n.Left).Samples+tr.Node(n.Right).Samples)
		}
	}

	// Every training row is reproduced exactly.
	score, err := tr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestRoundTrip(t *testing.T) {
	X, y := waveData(3, 200)
	tr := NewDecisionTreeRegressor()
	require.NoError(t, tr.Fit(X, y))

	leaves, err := tr.Apply(X)
	require.NoError(t, err)
	pred, err := tr.Predict(X)
	require.NoError(t, err)

	routed := map[int][]float64{}
	for i := 0; i < 200; i++ {
		row := X.RawRowView(i)

		id := tr.Root()
		for !tr.Node(id).Leaf {
			n := tr.Node(id)
			if row[n.Column] < n.Threshold {
				id = n.Left
			} else {
				id = n.Right
			}
		}
		assert.Equal(t, id, leaves[i])
		assert.Equal(t, tr.Node(id).Value, pred.At(i, 0))

		one, err := tr.PredictOne(row)
		require.NoError(t, err)
		assert.Equal(t, pred.At(i, 0), one)

		routed[id] = append(routed[id], y.AtVec(i))
	}

	for id, targets := range routed {
		n := tr.Node(id)
		assert.Equal(t, len(targets), n.Samples)
		assert.LessOrEqual(t, n.Samples, DefaultMaxLeafSize)
		assert.InDelta(t, stat.Mean(targets, nil), n.Value, 1e-12)
	}
	assert.Len(t, routed, tr.LeafCount())
}

func TestStepFunction(t *testing.T) {
	rows := 20
	X := mat.NewDense(rows, 1, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, float64(i))
		if i < 8 {
			y.SetVec(i, 1)
		} else {
			y.SetVec(i, 3)
		}
	}
	tr := NewDecisionTreeRegressor(WithMaxLeafSize(10))
	require.NoError(t, tr.Fit(X, y))

	root := tr.Node(tr.Root())
	require.False(t, root.Leaf)
	assert.Equal(t, 0, root.Column)
	assert.Equal(t, 8.0, root.Threshold)
	assert.True(t, tr.Node(root.Left).Leaf)
	assert.Equal(t, 1.0, tr.Node(root.Left).Value)

	v, err := tr.PredictOne([]float64{7.5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = tr.PredictOne([]float64{8})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestNoImprovingSplitBecomesLeaf(t *testing.T) {
	t.Run("zero targets", func(t *testing.T) {
		X, _ := waveData(4, 20)
		tr := NewDecisionTreeRegressor(WithMaxLeafSize(1))
		require.NoError(t, tr.Fit(X, mat.NewVecDense(20, nil)))
		assert.Equal(t, 1, tr.NodeCount())
		assert.Equal(t, 0.0, tr.Node(0).Value)
	})

	t.Run("identical features", func(t *testing.T) {
		X := mat.NewDense(10, 1, nil)
		y := mat.NewVecDense(10, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
		tr := NewDecisionTreeRegressor(WithMaxLeafSize(1))
		require.NoError(t, tr.Fit(X, y))
		assert.Equal(t, 1, tr.NodeCount())
		assert.Equal(t, 5.5, tr.Node(0).Value)
	})
}

func TestTreeErrors(t *testing.T) {
	tr := NewDecisionTreeRegressor()
	var notFitted *errors.NotFittedError
	_, err := tr.Predict(mat.NewDense(1, 2, nil))
	assert.True(t, errors.As(err, &notFitted))
	assert.True(t, errors.As(tr.Describe(&bytes.Buffer{}), &notFitted))
	assert.Equal(t, "DecisionTreeRegressor(unfitted)", tr.String())

	var vErr *errors.ValidationError
	err = NewDecisionTreeRegressor(WithMaxLeafSize(0)).Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewVecDense(2, nil))
	assert.True(t, errors.As(err, &vErr))

	X, y := waveData(5, 20)
	require.NoError(t, tr.Fit(X, y))
	var dimErr *errors.DimensionError
	_, err = tr.Apply(mat.NewDense(1, 3, nil))
	assert.True(t, errors.As(err, &dimErr))
	_, err = tr.PredictOne([]float64{1})
	assert.True(t, errors.As(err, &dimErr))
}

func TestDescribe(t *testing.T) {
	X, y := waveData(6, 50)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	tr := NewDecisionTreeRegressor(WithMaxLeafSize(10), WithVerbose(true), WithLogger(logger))
	require.NoError(t, tr.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, tr.Describe(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, tr.NodeCount())
	assert.True(t, strings.HasPrefix(lines[0], "node 0: x["))
	assert.Equal(t, tr.LeafCount(), strings.Count(buf.String(), "leaf "))
	assert.Equal(t, buf.String(), tr.String())

	assert.True(t, logger.ContainsMessage("Tree structure"))
	assert.True(t, logger.ContainsField(log.NodesKey, float64(tr.NodeCount())))
	assert.Equal(t, 10, tr.GetParams()["max_leaf_size"])
}

func BenchmarkTreeFit(b *testing.B) {
	X, y := waveData(1, 2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := NewDecisionTreeRegressor()
		if err := tr.Fit(X, y); err != nil {
			b.Fatal(err)
		}
	}
}

func TestPredictIsRepeatable(t *testing.T) {
	X, y := waveData(8, 120)
	tr := NewDecisionTreeRegressor(WithMaxLeafSize(3))
	require.NoError(t, tr.Fit(X, y))

	first, err := tr.Predict(X)
	require.NoError(t, err)
	second, err := tr.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(first, second))
}

func TestFailedRefitClearsTree(t *testing.T) {
	X, y := waveData(9, 20)
	tr := NewDecisionTreeRegressor()
	require.NoError(t, tr.Fit(X, y))
	require.True(t, tr.IsFitted())

	var dimErr *errors.DimensionError
	require.True(t, errors.As(tr.Fit(X, mat.NewVecDense(3, nil)), &dimErr))
	assert.False(t, tr.IsFitted())
	assert.Zero(t, tr.NodeCount())

	var notFitted *errors.NotFittedError
	_, err := tr.Predict(X)
	assert.True(t, errors.As(err, &notFitted))
}
