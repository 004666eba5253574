package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IsValidRunStatus reports whether status is a known run status
func IsValidRunStatus(status string) bool {
	switch status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}

// Artifact step constants for the outputs each command records
const (
	StepAssemblyReport = "assembly_report"
	StepCorpusMetadata = "corpus_metadata"
	StepSeedWords      = "seed_words"
	StepDiscovery      = "discovery"
	StepStatsReport    = "stats_report"
	StepEvalSamples    = "eval_samples"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID      `json:"id"`
	Command      string         `json:"command"`
	Status       string         `json:"status"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// Artifact represents an artifact record
type Artifact struct {
	ID          uuid.UUID       `json:"id"`
	RunID       uuid.UUID       `json:"run_id"`
	Step        string          `json:"step"`
	Content     json.RawMessage `json:"content,omitempty"`
	TextContent string          `json:"text_content,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DiscoveredURL is one seed URL found for a search query
type DiscoveredURL struct {
	RunID  uuid.UUID `json:"run_id"`
	Query  string    `json:"query"`
	URL    string    `json:"url"`
	Domain string    `json:"domain,omitempty"`
}

func marshalParameters(params map[string]any) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters: %w", err)
	}
	return data, nil
}

func unmarshalParameters(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return params, nil
}
