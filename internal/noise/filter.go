// Package noise detects boilerplate lines such as navigation labels, markup
// fragments and copyright notices.
package noise

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Patterns holds the three pattern sets checked by a Filter.
type Patterns struct {
	Start []string `mapstructure:"start" json:"start"`
	In    []string `mapstructure:"in" json:"in"`
	End   []string `mapstructure:"end" json:"end"`
}

// Filter rejects a line when it starts with a start pattern, ends with an
// end pattern, or contains an in pattern. Matching is case-insensitive.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	start []string
	end   []string
	in    []string

	matcher *ahocorasick.Matcher
}

// NewFilter builds a Filter from p. Empty patterns are ignored so they
// cannot match every line.
func NewFilter(p Patterns) *Filter {
	f := &Filter{
		start: normalizePatterns(p.Start),
		end:   normalizePatterns(p.End),
		in:    normalizePatterns(p.In),
	}
	if len(f.in) > 0 {
		f.matcher = ahocorasick.NewStringMatcher(f.in)
	}
	return f
}

// ShouldFilter reports whether line is noise.
func (f *Filter) ShouldFilter(line string) bool {
	return f.Match(line) != ""
}

// Match returns the first pattern that rejects line, or "" when the line is clean.
func (f *Filter) Match(line string) string {
	lower := strings.ToLower(line)

	for _, p := range f.start {
		if strings.HasPrefix(lower, p) {
			return p
		}
	}
	for _, p := range f.end {
		if strings.HasSuffix(lower, p) {
			return p
		}
	}
	if f.matcher != nil {
		if hits := f.matcher.Match([]byte(lower)); len(hits) > 0 {
			return f.in[hits[0]]
		}
	}
	return ""
}

// Empty reports whether the filter has no patterns at all.
func (f *Filter) Empty() bool {
	return len(f.start) == 0 && len(f.end) == 0 && len(f.in) == 0
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
