// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/tetun-corpus/internal/stats"
	"github.com/jonathan/tetun-corpus/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAssemblyReport outputs the line accounting of a corpus assembly run.
func (p *Printer) PrintAssemblyReport(corpusPath string, report *types.AssemblyReport, elapsed time.Duration) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Corpus:          %s\n", corpusPath))
	sb.WriteString(fmt.Sprintf("Documents:       %d\n", report.Documents))
	sb.WriteString(fmt.Sprintf("Candidate lines: %d\n", report.CandidateLines))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Too short:       %d\n", report.TooShort))
	sb.WriteString(fmt.Sprintf("  Not target lang: %d\n", report.LanguageReject))
	sb.WriteString(fmt.Sprintf("  Noise:           %d\n", report.Skipped))
	sb.WriteString(fmt.Sprintf("  Duplicates:      %d\n", report.Duplicates))
	sb.WriteString(fmt.Sprintf("  Extra blanks:    %d\n", report.BlankDropped))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Lines written:   %d (%d separators)\n", report.Written, report.Separators))
	sb.WriteString(fmt.Sprintf("Elapsed:         %s", elapsed.Round(time.Millisecond)))

	p.printBox("CORPUS ASSEMBLY", sb.String())
}

// PrintSeedWords outputs the sampled seed words and the resulting query.
func (p *Printer) PrintSeedWords(words []string) {
	if len(words) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(fmt.Sprintf("• %s\n", w))
	}
	sb.WriteString(fmt.Sprintf("\nQuery: %s", strings.Join(words, " ")))

	p.printBox("SEED WORDS", sb.String())
}

// PrintDiscoveryResult outputs the seed URLs and new domains found for a query.
func (p *Printer) PrintDiscoveryResult(result *types.DiscoveryResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n", result.Query))
	sb.WriteString(fmt.Sprintf("Seed URLs found: %d\n", len(result.SeedURLs)))

	count := min(len(result.SeedURLs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", result.SeedURLs[i]))
	}
	if len(result.SeedURLs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.SeedURLs)-maxItemsToShow))
	}

	if len(result.NewDomains) > 0 {
		sb.WriteString(fmt.Sprintf("\nNew domains: %d\n", len(result.NewDomains)))
		for _, d := range result.NewDomains {
			sb.WriteString(fmt.Sprintf("  • %s\n", d))
		}
	}

	p.printBox("SEED DISCOVERY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatsReport outputs collection statistics.
func (p *Printer) PrintStatsReport(report *stats.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents:          %d\n", report.Documents))
	sb.WriteString(fmt.Sprintf("Target-language:    %d\n", report.AdmittedDocuments))
	sb.WriteString(fmt.Sprintf("Pages inspected:    %d (%d failed)\n", report.Pages, report.FetchFailures))

	writeCounts(&sb, "Top domains", report.Domains)
	writeCounts(&sb, "Top extensions", report.Extensions)

	sb.WriteString("\nLinks per page (max / min / mean):\n")
	sb.WriteString(fmt.Sprintf("  Outlinks: %d / %d / %.2f\n", report.Outlinks.Max, report.Outlinks.Min, report.Outlinks.Mean))
	sb.WriteString(fmt.Sprintf("  Inlinks:  %d / %d / %.2f", report.Inlinks.Max, report.Inlinks.Min, report.Inlinks.Mean))

	p.printBox("COLLECTION STATISTICS", sb.String())
}

func writeCounts(sb *strings.Builder, title string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("  %-30s %d\n", c.Key, c.Count))
	}
}

// PrintSamples outputs the evaluation sample files that were written.
func (p *Printer) PrintSamples(paths []string) {
	if len(paths) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d samples in %s\n\n", len(paths), filepath.Dir(paths[0])))
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf("• %s\n", filepath.Base(path)))
	}

	p.printBox("EVALUATION SAMPLES", strings.TrimSuffix(sb.String(), "\n"))
}
