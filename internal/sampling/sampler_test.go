package sampling

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stopwordGate rejects English function words.
type stopwordGate struct {
	batches int
}

func (g *stopwordGate) ClassifyBatch(texts []string) ([]string, error) {
	g.batches++
	var out []string
	for _, text := range texts {
		switch text {
		case "the", "and", "of":
			continue
		}
		out = append(out, text)
	}
	return out, nil
}

func TestSampler_Sample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_words.txt")
	gate := &stopwordGate{}
	s := NewSampler(gate, nil, Options{SampleRatio: 1, NumWords: 3, SeedWordsPath: path}, seeded(7), nil)

	lines := []string{"Uma the Eskola", "", "Rai AND tasi", "of"}
	words, err := s.Sample(lines)
	require.NoError(t, err)

	require.Len(t, words, 3)
	for _, w := range words {
		assert.Contains(t, []string{"uma", "eskola", "rai", "tasi"}, w)
	}
	assert.Equal(t, 1, gate.batches, "tokens are gated in a single batch")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(words, " ")+"\n", string(content))
}

func TestSampler_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_words.txt")
	s := NewSampler(&stopwordGate{}, nil, Options{SampleRatio: 1, NumWords: 1, SeedWordsPath: path}, seeded(1), nil)

	_, err := s.Sample([]string{"uma"})
	require.NoError(t, err)
	_, err = s.Sample([]string{"uma"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uma\numa\n", string(content))
}

func TestSampler_SampleSizeIsFloorOfRatio(t *testing.T) {
	s := NewSampler(&stopwordGate{}, nil, Options{SampleRatio: 0.1, NumWords: 1}, seeded(1), nil)

	_, err := s.Sample([]string{"ida", "rua", "tolu", "haat", "lima"})
	assert.ErrorIs(t, err, ErrInsufficientCandidates)

	dist, err := s.Distribution(make([]string, 10))
	require.NoError(t, err)
	assert.Zero(t, dist.Len())
}

func TestSampler_InsufficientAfterGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_words.txt")
	s := NewSampler(&stopwordGate{}, nil, Options{SampleRatio: 1, NumWords: 3, SeedWordsPath: path}, seeded(1), nil)

	_, err := s.Sample([]string{"the uma and of rai"})
	require.ErrorIs(t, err, ErrInsufficientCandidates)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is appended on failure")
}

func TestSampler_SampleFileMissingCorpus(t *testing.T) {
	s := NewSampler(&stopwordGate{}, nil, Options{}, seeded(1), nil)

	words, err := s.SampleFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestSampler_SampleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("uma eskola\n\nrai tasi\n"), 0644))
	s := NewSampler(&stopwordGate{}, nil, Options{SampleRatio: 1, NumWords: 4}, seeded(1), nil)

	words, err := s.SampleFile(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uma", "eskola", "rai", "tasi"}, words)
}
