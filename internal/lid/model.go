package lid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/navossoc/bayesian"

	"github.com/jonathan/tetun-corpus/internal/schemas"
)

// Default training parameters.
const (
	DefaultNgramMin = 1
	DefaultNgramMax = 3
)

// Classifier predicts a probability per known label for each input text.
// Probabilities for one text are ordered like Classes().
type Classifier interface {
	Classes() []string
	PredictProba(texts []string) ([][]float64, error)
}

// modelFile is the on-disk JSON representation of a Model.
type modelFile struct {
	Classes        []string                  `json:"classes"`
	NgramMin       int                       `json:"ngram_min"`
	NgramMax       int                       `json:"ngram_max"`
	ClassDocCounts map[string]int            `json:"class_doc_counts"`
	FeatureCounts  map[string]map[string]int `json:"feature_counts"`
}

// Model is a multinomial Naive Bayes classifier over word-bounded character n-grams.
type Model struct {
	file modelFile
	nb   *bayesian.Classifier
}

var _ Classifier = (*Model)(nil)

// LabeledText is one training example.
type LabeledText struct {
	Label string
	Text  string
}

// TrainOptions configures Train. Zero values use the defaults.
type TrainOptions struct {
	NgramMin int
	NgramMax int
}

// LoadModel reads and validates a model file.
// A missing file is a fatal configuration error, never an empty model.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ModelError{Path: path, Message: "model file is missing", Cause: ErrModelNotFound}
		}
		return nil, &ModelError{Path: path, Message: "failed to read model file", Cause: err}
	}

	if err := schemas.ValidateModelJSON(data); err != nil {
		return nil, &ModelError{Path: path, Message: "model file does not match schema", Cause: err}
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, &ModelError{Path: path, Message: "failed to parse model file", Cause: err}
	}

	m, err := newModel(mf)
	if err != nil {
		return nil, &ModelError{Path: path, Message: "invalid model", Cause: err}
	}
	for label, counts := range mf.FeatureCounts {
		for gram, n := range counts {
			m.nb.Observe(gram, n, bayesian.Class(label))
		}
	}
	return m, nil
}

// Train fits a model on the labeled samples. At least two labels are required.
func Train(samples []LabeledText, opts TrainOptions) (*Model, error) {
	if opts.NgramMin <= 0 {
		opts.NgramMin = DefaultNgramMin
	}
	if opts.NgramMax <= 0 {
		opts.NgramMax = DefaultNgramMax
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}

	mf := modelFile{
		NgramMin:       opts.NgramMin,
		NgramMax:       opts.NgramMax,
		ClassDocCounts: make(map[string]int),
		FeatureCounts:  make(map[string]map[string]int),
	}
	for _, s := range samples {
		if s.Label == "" {
			return nil, fmt.Errorf("training sample with empty label")
		}
		if _, ok := mf.ClassDocCounts[s.Label]; !ok {
			mf.Classes = append(mf.Classes, s.Label)
			mf.FeatureCounts[s.Label] = make(map[string]int)
		}
		mf.ClassDocCounts[s.Label]++
	}
	sort.Strings(mf.Classes)

	m, err := newModel(mf)
	if err != nil {
		return nil, err
	}
	for _, s := range samples {
		grams := extractNgrams(s.Text, opts.NgramMin, opts.NgramMax)
		m.nb.Learn(grams, bayesian.Class(s.Label))
		for _, g := range grams {
			mf.FeatureCounts[s.Label][g]++
		}
	}
	return m, nil
}

func newModel(mf modelFile) (*Model, error) {
	if len(mf.Classes) < 2 {
		return nil, fmt.Errorf("model needs at least two classes, got %d", len(mf.Classes))
	}
	if mf.NgramMin < 1 || mf.NgramMax < mf.NgramMin {
		return nil, fmt.Errorf("invalid n-gram range [%d, %d]", mf.NgramMin, mf.NgramMax)
	}
	for label := range mf.ClassDocCounts {
		if !slices.Contains(mf.Classes, label) {
			return nil, fmt.Errorf("document count for unknown class %q", label)
		}
	}
	for label := range mf.FeatureCounts {
		if !slices.Contains(mf.Classes, label) {
			return nil, fmt.Errorf("feature counts for unknown class %q", label)
		}
	}

	classes := make([]bayesian.Class, len(mf.Classes))
	for i, label := range mf.Classes {
		classes[i] = bayesian.Class(label)
	}
	return &Model{file: mf, nb: bayesian.NewClassifier(classes...)}, nil
}

// Classes returns the model's labels in probability-vector order.
func (m *Model) Classes() []string {
	return slices.Clone(m.file.Classes)
}

// PredictProba returns, for every text, a probability per class.
// N-grams never seen during training weigh every class equally.
func (m *Model) PredictProba(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		grams := extractNgrams(text, m.file.NgramMin, m.file.NgramMax)
		logScores, _, _ := m.nb.LogScores(grams)
		out[i] = softmax(logScores)
	}
	return out, nil
}

// Save writes the model as JSON, creating parent directories as needed.
func (m *Model) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	data, err := json.Marshal(m.file)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file %s: %w", path, err)
	}
	return nil
}

// softmax turns log scores into probabilities. All -Inf scores give a uniform result.
func softmax(logits []float64) []float64 {
	probs := make([]float64, len(logits))
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l)
	}
	if math.IsInf(maxLogit, -1) || math.IsNaN(maxLogit) {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs
	}
	sum := 0.0
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// extractNgrams returns the character n-grams of every space-padded, lower-cased word.
func extractNgrams(text string, minN, maxN int) []string {
	var grams []string
	for _, word := range strings.FieldsFunc(strings.ToLower(text), unicode.IsSpace) {
		padded := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			if n > len(padded) {
				break
			}
			for i := 0; i+n <= len(padded); i++ {
				grams = append(grams, string(padded[i:i+n]))
			}
		}
	}
	return grams
}
