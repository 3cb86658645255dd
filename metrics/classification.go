package metrics

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// logLossEpsilon bounds predicted probabilities away from 0 and 1.
const logLossEpsilon = 1e-15

// Accuracy returns the fraction of positions where yPred equals yTrue.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := vectors("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range t {
		if t[i] == p[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(t)), nil
}

// ClassificationError returns 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "ClassificationError")
	}
	return 1 - acc, nil
}

// BinaryLogLoss returns the mean cross-entropy of probabilities yPred against
// labels yTrue in {0, 1}. Probabilities are clipped to [ε, 1-ε].
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := vectors("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range t {
		if t[i] != 0 && t[i] != 1 {
			return 0, errors.NewValidationError("yTrue", "labels must be 0 or 1", t[i])
		}
		q := errors.ClipValue(p[i], logLossEpsilon, 1-logLossEpsilon)
		sum -= t[i]*errors.StabilizeLog(q) + (1-t[i])*errors.StabilizeLog(1-q)
	}
	return sum / float64(len(t)), nil
}

// ConfusionMatrix counts binary outcomes.
type ConfusionMatrix struct {
	TruePositives  int
	FalseNegatives int
	FalsePositives int
	TrueNegatives  int
}

// NewConfusionMatrix tallies predicted against actual labels.
func NewConfusionMatrix(actual, predicted []bool) (*ConfusionMatrix, error) {
	if len(actual) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty labels")
	}
	if len(predicted) != len(actual) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(actual), len(predicted), 0)
	}
	cm := &ConfusionMatrix{}
	for i, a := range actual {
		switch {
		case a && predicted[i]:
			cm.TruePositives++
		case a:
			cm.FalseNegatives++
		case predicted[i]:
			cm.FalsePositives++
		default:
			cm.TrueNegatives++
		}
	}
	return cm, nil
}

// Total returns the number of samples.
func (cm *ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.FalseNegatives + cm.FalsePositives + cm.TrueNegatives
}

// Accuracy returns (TP + TN) / total.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return errors.SafeDivide(float64(cm.TruePositives+cm.TrueNegatives), float64(cm.Total()))
}

// Precision returns TP / (TP + FP). With no positive predictions it returns 0
// and raises an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Precision() float64 {
	d := cm.TruePositives + cm.FalsePositives
	if d == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(cm.TruePositives) / float64(d)
}

// Recall returns TP / (TP + FN). With no actual positives it returns 0 and
// raises an UndefinedMetricWarning.
func (cm *ConfusionMatrix) Recall() float64 {
	d := cm.TruePositives + cm.FalseNegatives
	if d == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no actual positives", 0))
		return 0
	}
	return float64(cm.TruePositives) / float64(d)
}

// WriteTo renders the matrix as an aligned table.
func (cm *ConfusionMatrix) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tpredicted true\tpredicted false\t\n")
	fmt.Fprintf(tw, "actual true\t%d\t%d\t\n", cm.TruePositives, cm.FalseNegatives)
	fmt.Fprintf(tw, "actual false\t%d\t%d\t\n", cm.FalsePositives, cm.TrueNegatives)
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
