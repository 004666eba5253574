package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/tetun-corpus/internal/stats"
	"github.com/jonathan/tetun-corpus/internal/types"
)

func TestPrintAssemblyReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssemblyReport("data/final_corpus.txt", &types.AssemblyReport{
		Documents:      4,
		CandidateLines: 40,
		LanguageReject: 10,
		TooShort:       5,
		Skipped:        3,
		Duplicates:     2,
		Written:        20,
		Separators:     4,
	}, 1500*time.Millisecond)
	output := buf.String()

	assert.Contains(t, output, "CORPUS ASSEMBLY")
	assert.Contains(t, output, "data/final_corpus.txt")
	assert.Contains(t, output, "Lines written:   20 (4 separators)")
	assert.Contains(t, output, "1.5s")
}

func TestPrintAssemblyReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAssemblyReport("x", nil, 0)
	assert.Empty(t, buf.String())
}

func TestPrintSeedWords(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSeedWords([]string{"ita", "nia", "lian"})
	output := buf.String()

	assert.Contains(t, output, "SEED WORDS")
	assert.Contains(t, output, "Query: ita nia lian")
}

func TestPrintSeedWords_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSeedWords(nil)
	assert.Empty(t, buf.String())
}

func TestPrintDiscoveryResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	urls := make([]string, 0, 7)
	for i := range 7 {
		urls = append(urls, "https://tatoli.tl/"+strings.Repeat("a", i+1))
	}
	p.PrintDiscoveryResult(&types.DiscoveryResult{
		Query:      "ita nia lian",
		SeedURLs:   urls,
		NewDomains: []string{"tatoli.tl"},
	})
	output := buf.String()

	assert.Contains(t, output, "SEED DISCOVERY")
	assert.Contains(t, output, "Seed URLs found: 7")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "New domains: 1")
}

func TestPrintStatsReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStatsReport(&stats.Report{
		Documents:         10,
		AdmittedDocuments: 8,
		Pages:             8,
		FetchFailures:     1,
		Domains:           []stats.Count{{Key: "tatoli.tl", Count: 5}},
		Extensions:        []stats.Count{{Key: "html", Count: 6}},
		Outlinks:          stats.Summary{Max: 30, Min: 2, Mean: 12.5},
	})
	output := buf.String()

	assert.Contains(t, output, "COLLECTION STATISTICS")
	assert.Contains(t, output, "tatoli.tl")
	assert.Contains(t, output, "Top extensions")
	assert.Contains(t, output, "30 / 2 / 12.50")
}

func TestPrintSamples(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSamples([]string{"eval/sample_1.txt", "eval/sample_2.txt"})
	output := buf.String()

	assert.Contains(t, output, "Generated 2 samples in eval")
	assert.Contains(t, output, "sample_2.txt")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("ñ", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
