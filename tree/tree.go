// Package tree implements a greedy regression tree that splits on the
// threshold minimising the residual sum of squares.
package tree

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/metrics"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Node is one entry of the tree arena. Children are referenced by their
// index in the arena; the root is node 0.
type Node struct {
	Leaf bool

	// Value is the mean training target of a leaf.
	Value float64

	// Column and Threshold describe the split of an internal node: a row
	// goes left when row[Column] < Threshold.
	Column    int
	Threshold float64
	Left      int
	Right     int

	// Samples is the number of training rows that reached the node.
	Samples int
	Depth   int
}

// DecisionTreeRegressor predicts the mean target of the leaf a row falls in.
type DecisionTreeRegressor struct {
	maxLeafSize int
	verbose     bool
	logger      log.Logger
	state       *model.StateManager

	nodes []Node
}

// NewDecisionTreeRegressor creates an unfitted tree.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		maxLeafSize: DefaultMaxLeafSize,
		state:       model.NewStateManager("DecisionTreeRegressor"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.GetLoggerWithName("tree")
	}
	t.logger = t.logger.With(log.ModelNameKey, "DecisionTreeRegressor", log.ComponentKey, "tree")
	return t
}

// Fit grows the tree on X and the column vector y. A node becomes a leaf when
// it holds at most maxLeafSize rows or when no threshold strictly improves on
// leaving it unsplit.
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	const op = "DecisionTreeRegressor.Fit"
	defer errors.Recover(&err, op)

	t.state.Reset()
	t.nodes = nil
	if t.maxLeafSize < 1 {
		return errors.NewValidationError("max_leaf_size", "must be at least 1", t.maxLeafSize)
	}
	rows, cols, err := dataset.CheckMatrix(op, X)
	if err != nil {
		return err
	}
	yv, err := dataset.TargetVector(op, y, rows)
	if err != nil {
		return err
	}

	start := time.Now()
	t.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)

	b := builder{x: dataset.AsDense(X), y: yv, maxLeafSize: t.maxLeafSize}
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	b.build(idx, 0)
	t.nodes = b.nodes
	t.state.SetFitted(cols, rows)

	t.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.NodesKey, t.NodeCount(),
		log.LeavesKey, t.LeafCount(),
		log.DepthKey, t.Depth(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	if t.verbose {
		t.logger.Info("Tree structure", "tree", t.String())
	}
	return nil
}

type builder struct {
	x           *mat.Dense
	y           []float64
	maxLeafSize int
	nodes       []Node
}

// build appends the subtree over rows and returns its handle.
func (b *builder) build(rows []int, depth int) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Samples: len(rows), Depth: depth})

	if len(rows) > b.maxLeafSize {
		if col, at, sorted, ok := b.bestSplit(rows); ok {
			threshold := b.x.At(sorted[at], col)
			left := b.build(sorted[:at], depth+1)
			right := b.build(sorted[at:], depth+1)
			n := &b.nodes[id]
			n.Column, n.Threshold, n.Left, n.Right = col, threshold, left, right
			return id
		}
	}

	values := make([]float64, len(rows))
	for k, r := range rows {
		values[k] = b.y[r]
	}
	b.nodes[id].Leaf = true
	b.nodes[id].Value = stat.Mean(values, nil)
	return id
}

// bestSplit scans every column for the boundary with the most negative
// score -(i·a² + (n-i)·b²), where a and b are the left and right target
// means. Only scores below zero are accepted and the first best wins.
// Boundaries between equal feature values are skipped so the threshold
// separates the partitions exactly. It returns the column, the boundary
// position and the rows sorted by that column.
func (b *builder) bestSplit(rows []int) (col, at int, sorted []int, ok bool) {
	n := len(rows)
	var total float64
	for _, r := range rows {
		total += b.y[r]
	}

	_, cols := b.x.Dims()
	values := make([]float64, n)
	var bestPerm []int
	best := 0.0
	for j := 0; j < cols; j++ {
		for k, r := range rows {
			values[k] = b.x.At(r, j)
		}
		perm := make([]int, n)
		floats.ArgsortStable(values, perm)

		var leftSum float64
		for i := 1; i < n; i++ {
			leftSum += b.y[rows[perm[i-1]]]
			if values[i] == values[i-1] {
				continue
			}
			a := leftSum / float64(i)
			c := (total - leftSum) / float64(n-i)
			if score := -(float64(i)*a*a + float64(n-i)*c*c); score < best {
				best = score
				col, at, bestPerm = j, i, perm
			}
		}
	}
	if bestPerm == nil {
		return 0, 0, nil, false
	}
	sorted = make([]int, n)
	for k, p := range bestPerm {
		sorted[k] = rows[p]
	}
	return col, at, sorted, true
}

// leaf walks the tree for x and returns the handle of the leaf it reaches.
func (t *DecisionTreeRegressor) leaf(x []float64) int {
	id := 0
	for !t.nodes[id].Leaf {
		n := &t.nodes[id]
		if x[n.Column] < n.Threshold {
			id = n.Left
		} else {
			id = n.Right
		}
	}
	return id
}

func (t *DecisionTreeRegressor) check(method string, X mat.Matrix) (*mat.Dense, error) {
	if err := t.state.RequireFitted(method); err != nil {
		return nil, err
	}
	if _, _, err := dataset.CheckMatrix("DecisionTreeRegressor."+method, X); err != nil {
		return nil, err
	}
	_, cols := X.Dims()
	if err := t.state.CheckFeatures(method, cols); err != nil {
		return nil, err
	}
	return dataset.AsDense(X), nil
}

// Apply returns the leaf handle each row of X reaches.
func (t *DecisionTreeRegressor) Apply(X mat.Matrix) ([]int, error) {
	d, err := t.check("Apply", X)
	if err != nil {
		return nil, err
	}
	rows, _ := d.Dims()
	out := make([]int, rows)
	for i := range out {
		out[i] = t.leaf(d.RawRowView(i))
	}
	return out, nil
}

// Predict returns the leaf value of every row as an n×1 matrix.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	return t.predict("Predict", X)
}

func (t *DecisionTreeRegressor) predict(method string, X mat.Matrix) (*mat.VecDense, error) {
	d, err := t.check(method, X)
	if err != nil {
		return nil, err
	}
	rows, _ := d.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, t.nodes[t.leaf(d.RawRowView(i))].Value)
	}
	return out, nil
}

// PredictOne returns the leaf value for x.
func (t *DecisionTreeRegressor) PredictOne(x []float64) (float64, error) {
	if err := t.state.CheckFeatures("PredictOne", len(x)); err != nil {
		return 0, err
	}
	return t.nodes[t.leaf(x)].Value, nil
}

// Score returns the coefficient of determination R².
func (t *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	const op = "DecisionTreeRegressor.Score"
	pred, err := t.predict("Score", X)
	if err != nil {
		return 0, err
	}
	yv, err := dataset.TargetVector(op, y, pred.Len())
	if err != nil {
		return 0, err
	}
	score, err := metrics.R2Score(mat.NewVecDense(len(yv), yv), pred)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return score, nil
}

// Root returns the handle of the root node.
func (t *DecisionTreeRegressor) Root() int {
	return 0
}

// Node returns the node with handle id. It panics if id is out of range.
func (t *DecisionTreeRegressor) Node(id int) Node {
	return t.nodes[id]
}

// NodeCount returns the number of nodes, or 0 before Fit.
func (t *DecisionTreeRegressor) NodeCount() int {
	return len(t.nodes)
}

// LeafCount returns the number of leaves.
func (t *DecisionTreeRegressor) LeafCount() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].Leaf {
			n++
		}
	}
	return n
}

// Depth returns the depth of the deepest node; a single leaf has depth 0.
func (t *DecisionTreeRegressor) Depth() int {
	d := 0
	for i := range t.nodes {
		d = max(d, t.nodes[i].Depth)
	}
	return d
}

// IsFitted reports whether Fit completed.
func (t *DecisionTreeRegressor) IsFitted() bool {
	return t.state.IsFitted()
}

// GetParams returns the hyper-parameters.
func (t *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_leaf_size": t.maxLeafSize,
		"verbose":       t.verbose,
	}
}

// Describe writes an indented dump of the tree, one node per line.
func (t *DecisionTreeRegressor) Describe(w io.Writer) error {
	if err := t.state.RequireFitted("Describe"); err != nil {
		return err
	}
	return t.describe(w, 0)
}

func (t *DecisionTreeRegressor) describe(w io.Writer, id int) error {
	n := &t.nodes[id]
	indent := strings.Repeat("  ", n.Depth)
	if n.Leaf {
		_, err := fmt.Fprintf(w, "%sleaf %d: value=%g samples=%d\n", indent, id, n.Value, n.Samples)
		return err
	}
	if _, err := fmt.Fprintf(w, "%snode %d: x[%d] < %g samples=%d\n", indent, id, n.Column, n.Threshold, n.Samples); err != nil {
		return err
	}
	if err := t.describe(w, n.Left); err != nil {
		return err
	}
	return t.describe(w, n.Right)
}

// String returns the Describe output, or a placeholder before Fit.
func (t *DecisionTreeRegressor) String() string {
	if !t.state.IsFitted() {
		return "DecisionTreeRegressor(unfitted)"
	}
	var sb strings.Builder
	_ = t.describe(&sb, 0)
	return sb.String()
}

var (
	_ model.Regressor       = (*DecisionTreeRegressor)(nil)
	_ model.ParameterGetter = (*DecisionTreeRegressor)(nil)
)
