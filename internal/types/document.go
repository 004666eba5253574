// Package types provides type definitions for structured data shared by the corpus pipeline stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Document is a single record returned by the document index.
// Title and URL may be empty when the index has no value for them.
type Document struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content"`
}

// Lines splits the document content into whitespace-trimmed lines.
func (d Document) Lines() []string {
	if d.Content == "" {
		return nil
	}
	content := strings.ReplaceAll(d.Content, "\r\n", "\n")
	raw := strings.Split(content, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// ClassificationResult is the probability assigned to one label for one text unit.
type ClassificationResult struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// AssemblyReport summarises a corpus-assembly run. Written counts non-blank
// lines in the corpus and Separators the blank lines between them.
type AssemblyReport struct {
	Documents      int `json:"documents"`
	CandidateLines int `json:"candidate_lines"`
	LanguageReject int `json:"language_rejected"`
	TooShort       int `json:"too_short"`
	Skipped        int `json:"skipped"`
	Duplicates     int `json:"duplicates"`
	BlankDropped   int `json:"blank_dropped"`
	Written        int `json:"written"`
	Separators     int `json:"separators"`
}

// DiscoveryResult lists what one seed-discovery iteration added.
type DiscoveryResult struct {
	Query      string   `json:"query"`
	SeedURLs   []string `json:"seed_urls"`
	NewDomains []string `json:"new_domains"`
}
