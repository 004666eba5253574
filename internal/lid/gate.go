package lid

import (
	"fmt"
	"math"
	"slices"

	"github.com/jonathan/tetun-corpus/internal/types"
)

// DefaultThreshold is the minimum rounded target-label probability.
const DefaultThreshold = 0.95

// Gate admits text whose target-label probability, rounded to two decimals,
// is at least the threshold.
type Gate struct {
	clf       Classifier
	target    string
	targetIdx int
	threshold float64
}

// NewGate binds a classifier to a target label. The label must be one of the classifier's classes.
func NewGate(clf Classifier, target string, threshold float64) (*Gate, error) {
	if clf == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	idx := slices.Index(clf.Classes(), target)
	if idx < 0 {
		return nil, fmt.Errorf("target label %q is not one of the model classes %v", target, clf.Classes())
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be within [0, 1], got %v", threshold)
	}
	return &Gate{clf: clf, target: target, targetIdx: idx, threshold: threshold}, nil
}

// LoadGate loads the model at path and binds it to target.
func LoadGate(path, target string, threshold float64) (*Gate, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewGate(model, target, threshold)
}

// Target returns the bound label.
func (g *Gate) Target() string {
	return g.target
}

// Predict returns the target-label probability for every text, with one classifier call per batch.
func (g *Gate) Predict(texts []string) ([]types.ClassificationResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	probs, err := g.clf.PredictProba(texts)
	if err != nil {
		return nil, fmt.Errorf("language prediction failed: %w", err)
	}
	if len(probs) != len(texts) {
		return nil, fmt.Errorf("classifier returned %d predictions for %d texts", len(probs), len(texts))
	}

	results := make([]types.ClassificationResult, len(texts))
	for i, p := range probs {
		if g.targetIdx >= len(p) {
			return nil, fmt.Errorf("prediction %d has %d probabilities, want at least %d", i, len(p), g.targetIdx+1)
		}
		results[i] = types.ClassificationResult{Label: g.target, Probability: p[g.targetIdx]}
	}
	return results, nil
}

// Admit reports, per text, whether it passes the gate.
func (g *Gate) Admit(texts []string) ([]bool, error) {
	results, err := g.Predict(texts)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(results))
	for i, r := range results {
		mask[i] = g.passes(r.Probability)
	}
	return mask, nil
}

// ClassifyBatch returns the texts that pass the gate, in input order.
func (g *Gate) ClassifyBatch(texts []string) ([]string, error) {
	mask, err := g.Admit(texts)
	if err != nil {
		return nil, err
	}
	admitted := make([]string, 0, len(texts))
	for i, ok := range mask {
		if ok {
			admitted = append(admitted, texts[i])
		}
	}
	return admitted, nil
}

func (g *Gate) passes(p float64) bool {
	return roundTo2(p) >= g.threshold
}

func roundTo2(p float64) float64 {
	return math.Round(p*100) / 100
}
