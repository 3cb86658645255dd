// Package cluster implements k-means clustering with random restarts.
package cluster

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/core/parallel"
	"github.com/YuminosukeSato/gomlcore/core/random"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans runs Lloyd's algorithm from several random starts and keeps the
// centroids with the lowest mean squared distance.
type KMeans struct {
	numCentroids   int
	numTrials      int
	maxIter        int
	tol            float64
	parallelTrials bool
	randomState    int64
	src            random.Source
	logger         log.Logger
	state          *model.StateManager

	centroids   [][]float64
	score       float64
	trialScores []float64
	labels      []int
	nIter       int
}

// NewKMeans creates an unfitted model. WithNumCentroids is required.
func NewKMeans(opts ...KMeansOption) *KMeans {
	km := &KMeans{
		numTrials:   DefaultNumTrials,
		maxIter:     DefaultMaxIter,
		tol:         DefaultTol,
		randomState: -1,
		state:       model.NewStateManager("KMeans"),
	}
	for _, opt := range opts {
		opt(km)
	}
	if km.logger == nil {
		km.logger = log.GetLoggerWithName("cluster")
	}
	km.logger = km.logger.With(log.ModelNameKey, "KMeans", log.ComponentKey, "cluster")
	return km
}

func (km *KMeans) validate(rows int) error {
	switch {
	case km.numCentroids < 1:
		return errors.NewValidationError("num_centroids", "must be at least 1", km.numCentroids)
	case km.numCentroids > rows:
		return errors.NewValidationError("num_centroids", fmt.Sprintf("must not exceed the %d rows", rows), km.numCentroids)
	case km.numTrials < 1:
		return errors.NewValidationError("num_trials", "must be at least 1", km.numTrials)
	case km.maxIter < 1:
		return errors.NewValidationError("max_iter", "must be at least 1", km.maxIter)
	case km.tol < 0 || math.IsNaN(km.tol):
		return errors.NewValidationError("tol", "must be non-negative", km.tol)
	}
	return nil
}

// trial is the outcome of one restart.
type trial struct {
	centroids  [][]float64
	labels     []int
	score      float64
	iterations int
}

// Fit clusters the rows of X.
func (km *KMeans) Fit(X mat.Matrix) (err error) {
	const op = "KMeans.Fit"
	defer errors.Recover(&err, op)

	km.state.Reset()
	km.centroids, km.labels, km.trialScores = nil, nil, nil
	km.score, km.nIter = 0, 0
	rows, cols, err := dataset.CheckMatrix(op, X)
	if err != nil {
		return err
	}
	if err := km.validate(rows); err != nil {
		return err
	}

	start := time.Now()
	km.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClustersKey, km.numCentroids,
	)

	src := km.src
	if src == nil {
		src = random.New(km.randomState)
	}
	sources := random.Split(src, km.numTrials)
	d := dataset.AsDense(X)
	trials := make([]trial, km.numTrials)
	run := func(i int) error {
		return errors.SafeExecute(fmt.Sprintf("KMeans.trial[%d]", i), func() error {
			trials[i] = km.runTrial(d, i, sources[i])
			return nil
		})
	}
	if km.parallelTrials {
		err = parallel.Each(km.numTrials, run)
	} else {
		for i := range trials {
			if err = run(i); err != nil {
				break
			}
		}
	}
	if err != nil {
		km.logger.Error("Training failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	best := 0
	km.trialScores = make([]float64, km.numTrials)
	for i, tr := range trials {
		km.trialScores[i] = tr.score
		if tr.score < trials[best].score {
			best = i
		}
	}
	km.centroids = trials[best].centroids
	km.labels = trials[best].labels
	km.score = trials[best].score
	km.nIter = trials[best].iterations
	km.state.SetFitted(cols, rows)

	km.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.TrialKey, best,
		log.ScoreKey, km.score,
		log.IterationKey, km.nIter,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// runTrial seeds the centroids with the first k rows of a random permutation
// and iterates assignment and update until no centroid moves by more than
// tol or maxIter is reached.
func (km *KMeans) runTrial(X *mat.Dense, index int, src random.Source) trial {
	rows, cols := X.Dims()
	k := km.numCentroids

	perm := random.Permutation(src, rows)
	centroids := make([][]float64, k)
	for c := range centroids {
		centroids[c] = append([]float64(nil), X.RawRowView(perm[c])...)
	}

	labels := make([]int, rows)
	dist := make([]float64, rows)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, cols)
	}
	counts := make([]int, k)
	tol2 := km.tol * km.tol

	iter, moved := 0, math.Inf(1)
	for iter < km.maxIter {
		iter++
		assign(X, centroids, labels, dist)

		for c := range sums {
			floats.Scale(0, sums[c])
			counts[c] = 0
		}
		for i := 0; i < rows; i++ {
			floats.Add(sums[labels[i]], X.RawRowView(i))
			counts[labels[i]]++
		}

		used := make(map[int]bool)
		moved = 0
		for c := range centroids {
			next := sums[c]
			if counts[c] == 0 {
				r := farthest(dist, used)
				used[r] = true
				next = X.RawRowView(r)
				errors.Warn(errors.NewDegenerateClusterWarning(c, iter, index, r))
			} else {
				floats.Scale(1/float64(counts[c]), next)
			}
			moved = math.Max(moved, sqDist(centroids[c], next))
			copy(centroids[c], next)
		}
		if moved <= tol2 {
			break
		}
	}
	if moved > tol2 {
		errors.Warn(errors.NewConvergenceWarning("KMeans", iter, math.Sqrt(moved),
			fmt.Sprintf("trial %d did not converge", index)))
	}

	assign(X, centroids, labels, dist)
	tr := trial{
		centroids:  centroids,
		labels:     labels,
		score:      floats.Sum(dist) / float64(rows),
		iterations: iter,
	}
	if km.logger.Enabled(context.Background(), log.LevelDebug) {
		km.logger.Debug("Trial finished",
			log.TrialKey, index,
			log.IterationKey, iter,
			log.ScoreKey, tr.score,
		)
	}
	return tr
}

// assign labels every row with its nearest centroid, the first one on ties,
// and records the squared distance.
func assign(X *mat.Dense, centroids [][]float64, labels []int, dist []float64) {
	for i := range labels {
		labels[i], dist[i] = nearest(X.RawRowView(i), centroids)
	}
}

func nearest(x []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(x, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// farthest returns the row with the largest distance to its centroid that
// is not in used.
func farthest(dist []float64, used map[int]bool) int {
	best, bestDist := -1, -1.0
	for i, d := range dist {
		if !used[i] && d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for j := range a {
		d := a[j] - b[j]
		s += d * d
	}
	return s
}

// Predict returns the index of the nearest centroid for every row of X.
func (km *KMeans) Predict(X mat.Matrix) ([]int, error) {
	if err := km.state.RequireFitted("Predict"); err != nil {
		return nil, err
	}
	rows, cols, err := dataset.CheckMatrix("KMeans.Predict", X)
	if err != nil {
		return nil, err
	}
	if err := km.state.CheckFeatures("Predict", cols); err != nil {
		return nil, err
	}
	d := dataset.AsDense(X)
	out := make([]int, rows)
	for i := range out {
		out[i], _ = nearest(d.RawRowView(i), km.centroids)
	}
	return out, nil
}

// PredictOne returns the index of the centroid nearest to x.
func (km *KMeans) PredictOne(x []float64) (int, error) {
	if err := km.state.CheckFeatures("PredictOne", len(x)); err != nil {
		return 0, err
	}
	c, _ := nearest(x, km.centroids)
	return c, nil
}

// Centroids returns a copy of the best trial's centroids.
func (km *KMeans) Centroids() [][]float64 {
	if !km.state.IsFitted() {
		return nil
	}
	out := make([][]float64, len(km.centroids))
	for c, centroid := range km.centroids {
		out[c] = append([]float64(nil), centroid...)
	}
	return out
}

// Score returns the mean squared distance of the training rows to their
// nearest centroid for the best trial.
func (km *KMeans) Score() float64 {
	return km.score
}

// TrialScores returns the score of every trial in trial order.
func (km *KMeans) TrialScores() []float64 {
	return append([]float64(nil), km.trialScores...)
}

// Labels returns the cluster of every training row.
func (km *KMeans) Labels() []int {
	return append([]int(nil), km.labels...)
}

// NIterations returns the Lloyd iterations of the best trial.
func (km *KMeans) NIterations() int {
	return km.nIter
}

// IsFitted reports whether Fit completed.
func (km *KMeans) IsFitted() bool {
	return km.state.IsFitted()
}

// GetParams returns the hyper-parameters.
func (km *KMeans) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"num_centroids":   km.numCentroids,
		"num_trials":      km.numTrials,
		"max_iter":        km.maxIter,
		"tol":             km.tol,
		"parallel_trials": km.parallelTrials,
		"random_state":    km.randomState,
	}
}

var (
	_ model.Clusterer       = (*KMeans)(nil)
	_ model.ParameterGetter = (*KMeans)(nil)
)
