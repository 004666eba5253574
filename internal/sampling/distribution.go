package sampling

import (
	"math/rand/v2"
	"sort"
)

// Distribution maps each word to count(word) / total token count.
// Words are kept sorted so draws are reproducible for a seeded source.
type Distribution struct {
	Words   []string
	Weights []float64
	Total   int
}

// NewDistribution builds the relative frequency of every token.
func NewDistribution(tokens []string) Distribution {
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)

	weights := make([]float64, len(words))
	for i, w := range words {
		weights[i] = float64(counts[w]) / float64(len(tokens))
	}
	return Distribution{Words: words, Weights: weights, Total: len(tokens)}
}

// Len returns the number of distinct words.
func (d Distribution) Len() int {
	return len(d.Words)
}

// Probability returns the relative frequency of word, or 0.
func (d Distribution) Probability(word string) float64 {
	i := sort.SearchStrings(d.Words, word)
	if i < len(d.Words) && d.Words[i] == word {
		return d.Weights[i]
	}
	return 0
}

// Draw picks k distinct words. Each draw is weighted by the remaining words'
// frequencies, and the drawn word leaves the pool.
func (d Distribution) Draw(k int, rng *rand.Rand) ([]string, error) {
	if k > d.Len() {
		return nil, &InsufficientCandidatesError{Required: k, Available: d.Len()}
	}

	words := append([]string(nil), d.Words...)
	weights := append([]float64(nil), d.Weights...)

	chosen := make([]string, 0, k)
	for len(chosen) < k {
		total := 0.0
		for _, w := range weights {
			total += w
		}

		idx := len(words) - 1
		r := rng.Float64() * total
		for i, w := range weights {
			if r < w {
				idx = i
				break
			}
			r -= w
		}

		chosen = append(chosen, words[idx])
		words = append(words[:idx], words[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return chosen, nil
}
