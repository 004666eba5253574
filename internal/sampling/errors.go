// Package sampling draws seed words from the corpus: a random line sample is
// tokenized, language-gated per token and turned into a frequency
// distribution, from which distinct words are drawn by weight.
package sampling

import (
	"errors"
	"fmt"
)

// ErrInsufficientCandidates is matched by every InsufficientCandidatesError.
var ErrInsufficientCandidates = errors.New("insufficient candidates")

// InsufficientCandidatesError is returned when fewer distinct words qualify than requested.
type InsufficientCandidatesError struct {
	Required  int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("insufficient candidates: need %d distinct words, have %d", e.Required, e.Available)
}

func (e *InsufficientCandidatesError) Unwrap() error {
	return ErrInsufficientCandidates
}
