package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata describes a produced text file, recorded alongside each run.
type Metadata struct {
	Path      string `json:"path,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest
	Lines     int    `json:"lines"`
	Bytes     int    `json:"bytes"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, path string) *Metadata {
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n") + 1
	}
	return &Metadata{
		Path:      path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Lines:     lines,
		Bytes:     len(content),
	}
}

// FileMetadata reads path and describes its content.
func FileMetadata(path string) (*Metadata, error) {
	content, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	return NewMetadata(content, path), nil
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
