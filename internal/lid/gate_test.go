package lid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClassifier returns a preset target probability per text.
type fixedClassifier struct {
	classes []string
	probs   map[string]float64
	calls   int
	err     error
}

func (f *fixedClassifier) Classes() []string { return f.classes }

func (f *fixedClassifier) PredictProba(texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		p := f.probs[text]
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

func newFixed(probs map[string]float64) *fixedClassifier {
	return &fixedClassifier{classes: []string{"eng", "tet"}, probs: probs}
}

func TestGate_ThresholdIsInclusive(t *testing.T) {
	clf := newFixed(map[string]float64{
		"exact":   0.95,
		"rounded": 0.949,
		"below":   0.94,
		"high":    0.99,
	})
	gate, err := NewGate(clf, "tet", 0.95)
	require.NoError(t, err)

	admitted, err := gate.ClassifyBatch([]string{"below", "exact", "high", "rounded"})
	require.NoError(t, err)

	assert.Equal(t, []string{"exact", "high", "rounded"}, admitted)
}

func TestGate_OneClassifierCallPerBatch(t *testing.T) {
	clf := newFixed(map[string]float64{"a": 1, "b": 1, "c": 0})
	gate, err := NewGate(clf, "tet", 0.95)
	require.NoError(t, err)

	_, err = gate.ClassifyBatch([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, clf.calls)
}

func TestGate_EmptyBatch(t *testing.T) {
	clf := newFixed(nil)
	gate, err := NewGate(clf, "tet", 0.95)
	require.NoError(t, err)

	admitted, err := gate.ClassifyBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, admitted)
	assert.Zero(t, clf.calls)
}

func TestGate_UnknownTargetLabel(t *testing.T) {
	_, err := NewGate(newFixed(nil), "por", 0.95)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "por")
}

func TestGate_InvalidThreshold(t *testing.T) {
	_, err := NewGate(newFixed(nil), "tet", 1.5)
	assert.Error(t, err)
}

func TestGate_ClassifierErrorPropagates(t *testing.T) {
	clf := newFixed(nil)
	clf.err = errors.New("boom")
	gate, err := NewGate(clf, "tet", 0.95)
	require.NoError(t, err)

	_, err = gate.ClassifyBatch([]string{"x"})
	assert.ErrorContains(t, err, "boom")
}

func TestGate_Predict(t *testing.T) {
	gate, err := NewGate(newFixed(map[string]float64{"x": 0.42}), "tet", 0.95)
	require.NoError(t, err)

	results, err := gate.Predict([]string{"x"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tet", results[0].Label)
	assert.InDelta(t, 0.42, results[0].Probability, 1e-9)
}

func TestLoadGate_MissingModelIsFatal(t *testing.T) {
	_, err := LoadGate("/nonexistent/model.json", "tet", 0.95)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrModelNotFound)
	var modelErr *ModelError
	assert.ErrorAs(t, err, &modelErr)
}
