package corpus

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/noise"
	"github.com/jonathan/tetun-corpus/internal/source"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// LanguageGate decides, per text, whether it is in the target language.
type LanguageGate interface {
	Admit(texts []string) ([]bool, error)
}

// Options configures an Assembler.
type Options struct {
	CorpusPath string
	// SkippedPath receives noise-filtered lines. Empty disables it.
	SkippedPath string

	MaxConsecutiveBlanks int
	// MinLineLength drops non-blank lines of at most this many runes. Zero disables it.
	MinLineLength int

	Walk source.WalkOptions
}

// Result describes a completed run.
type Result struct {
	CorpusPath string
	Report     types.AssemblyReport
	Duration   time.Duration
}

// Assembler builds the corpus file from a document source.
type Assembler struct {
	src    source.DocumentSource
	gate   LanguageGate
	filter *noise.Filter
	opts   Options
	log    logging.Logger
}

// NewAssembler wires the components of one run. A nil filter admits every line.
func NewAssembler(src source.DocumentSource, gate LanguageGate, filter *noise.Filter, opts Options, log logging.Logger) *Assembler {
	if filter == nil {
		filter = noise.NewFilter(noise.Patterns{})
	}
	return &Assembler{
		src:    src,
		gate:   gate,
		filter: filter,
		opts:   opts,
		log:    logging.OrNop(log),
	}
}

// Run walks every document, then overwrites the corpus file with the admitted lines.
func (a *Assembler) Run(ctx context.Context) (*Result, error) {
	if a.opts.CorpusPath == "" {
		return nil, &AssembleError{Message: "corpus path is required"}
	}
	started := time.Now()

	session := NewSession(a.opts.MaxConsecutiveBlanks)
	var report types.AssemblyReport

	_, err := source.Walk(ctx, a.src, a.opts.Walk, func(doc types.Document) error {
		report.Documents++
		return a.addDocument(session, doc, &report)
	})
	if err != nil {
		var assembleErr *AssembleError
		if errors.As(err, &assembleErr) {
			return nil, err
		}
		return nil, &AssembleError{Message: "failed to read documents", Cause: err}
	}

	report.Duplicates = session.duplicates
	report.BlankDropped = session.blankDropped
	report.Separators = session.separators
	report.Written = session.Unique()

	if err := ingestion.WriteLines(a.opts.CorpusPath, session.Lines()); err != nil {
		return nil, &AssembleError{Message: "failed to write corpus", Cause: err}
	}

	a.log.Info("corpus assembled",
		logging.String("path", a.opts.CorpusPath),
		logging.Int("documents", report.Documents),
		logging.Int("written", report.Written),
		logging.Int("skipped", report.Skipped),
		logging.Int("duplicates", report.Duplicates))

	return &Result{
		CorpusPath: a.opts.CorpusPath,
		Report:     report,
		Duration:   time.Since(started),
	}, nil
}

// addDocument runs one document's lines through the length check, the
// language gate (one batch per document), the noise filter and the session,
// then appends the document boundary blank.
func (a *Assembler) addDocument(session *Session, doc types.Document, report *types.AssemblyReport) error {
	lines := doc.Lines()

	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" && !a.tooShort(line) {
			candidates = append(candidates, line)
		}
	}
	report.CandidateLines += len(candidates)

	admitted := make(map[string]bool, len(candidates))
	if len(candidates) > 0 {
		verdicts, err := a.gate.Admit(candidates)
		if err != nil {
			return &AssembleError{Message: "language identification failed", Cause: err}
		}
		for i, ok := range verdicts {
			if ok {
				admitted[candidates[i]] = true
			}
		}
	}

	var skipped []string
	for _, line := range lines {
		if line == "" {
			session.Add(line)
			continue
		}
		if a.tooShort(line) {
			report.TooShort++
			continue
		}
		if !admitted[line] {
			report.LanguageReject++
			continue
		}
		if pattern := a.filter.Match(line); pattern != "" {
			report.Skipped++
			skipped = append(skipped, line)
			a.log.Debug("noise line skipped", logging.String("pattern", pattern), logging.String("url", doc.URL))
			continue
		}
		session.Add(line)
	}
	session.Add("")

	if a.opts.SkippedPath != "" && len(skipped) > 0 {
		if err := ingestion.AppendLines(a.opts.SkippedPath, skipped...); err != nil {
			return &AssembleError{Message: "failed to append skipped lines", Cause: err}
		}
	}
	return nil
}

func (a *Assembler) tooShort(line string) bool {
	return a.opts.MinLineLength > 0 && utf8.RuneCountInString(line) <= a.opts.MinLineLength
}
