// Package corpus assembles the final monolingual corpus from a document
// source: lines are language-gated, noise-filtered, deduplicated across the
// whole run and separated per document by collapsed blank lines.
package corpus

import "fmt"

// AssembleError represents a failure that aborts a corpus-assembly run.
type AssembleError struct {
	Message string
	Cause   error
}

func (e *AssembleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assemble error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("assemble error: %s", e.Message)
}

func (e *AssembleError) Unwrap() error {
	return e.Cause
}
