// Package tokenize splits text into word tokens.
package tokenize

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits text into tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// wordPattern matches runs of letters and digits, keeping the apostrophes and
// hyphens that occur inside Tetun words such as "ne'e" and "Timor-Leste".
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`)

// WordTokenizer normalizes text to NFC and returns its words. Punctuation is dropped.
type WordTokenizer struct {
	lower bool
}

var _ Tokenizer = WordTokenizer{}

// NewWordTokenizer returns a tokenizer. With lower set, tokens are lower-cased.
func NewWordTokenizer(lower bool) WordTokenizer {
	return WordTokenizer{lower: lower}
}

// Tokenize returns the words of text in order.
func (w WordTokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(text)
	if w.lower {
		text = Lower(text)
	}
	return wordPattern.FindAllString(text, -1)
}

// Lower lower-cases text using language-independent Unicode case mapping.
func Lower(text string) string {
	return cases.Lower(language.Und).String(text)
}
