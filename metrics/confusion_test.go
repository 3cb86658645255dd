package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfusionMatrix(t *testing.T) {
	actual := []bool{true, true, true, false, false, false, false}
	predicted := []bool{true, true, false, true, false, false, false}

	cm, err := NewConfusionMatrix(actual, predicted)
	require.NoError(t, err)
	assert.Equal(t, ConfusionMatrix{TruePositives: 2, FalseNegatives: 1, FalsePositives: 1, TrueNegatives: 3}, *cm)
	assert.Equal(t, 7, cm.Total())
	assert.InDelta(t, 5.0/7.0, cm.Accuracy(), 1e-12)
	assert.InDelta(t, 2.0/3.0, cm.Precision(), 1e-12)
	assert.InDelta(t, 2.0/3.0, cm.Recall(), 1e-12)

	var buf bytes.Buffer
	n, err := cm.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "predicted true")
	assert.Contains(t, lines[1], "actual true")
	assert.Contains(t, lines[2], "actual false")
}

func TestConfusionMatrixErrors(t *testing.T) {
	_, err := NewConfusionMatrix(nil, nil)
	require.Error(t, err)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	_, err = NewConfusionMatrix([]bool{true, false}, []bool{true})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	assert.Zero(t, (&ConfusionMatrix{}).Accuracy())
}

func TestConfusionMatrixUndefinedMetrics(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(log.RegisterWarnings)

	cm, err := NewConfusionMatrix([]bool{false, false}, []bool{false, false})
	require.NoError(t, err)
	assert.Equal(t, 0.0, cm.Precision())
	assert.Equal(t, 0.0, cm.Recall())

	require.Len(t, warnings, 2)
	var undefined *errors.UndefinedMetricWarning
	assert.True(t, errors.As(warnings[0], &undefined))
	assert.Equal(t, "precision", undefined.Metric)
}
