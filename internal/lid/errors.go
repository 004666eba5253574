// Package lid implements language identification: a character n-gram Naive Bayes model
// and the gate that keeps only text confidently predicted as the target language.
package lid

import (
	"errors"
	"fmt"
)

// ErrModelNotFound is returned when the model file does not exist.
var ErrModelNotFound = errors.New("LID model file not found")

// ModelError represents a failure to load, parse or use a LID model.
type ModelError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lid model error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("lid model error (%s): %s", e.Path, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}
