// Package pipeline provides the high-level orchestration of the corpus commands.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/jonathan/tetun-corpus/internal/config"
	"github.com/jonathan/tetun-corpus/internal/corpus"
	"github.com/jonathan/tetun-corpus/internal/db"
	"github.com/jonathan/tetun-corpus/internal/evaluation"
	"github.com/jonathan/tetun-corpus/internal/fetch"
	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/lid"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/noise"
	"github.com/jonathan/tetun-corpus/internal/observability"
	"github.com/jonathan/tetun-corpus/internal/registry"
	"github.com/jonathan/tetun-corpus/internal/research"
	"github.com/jonathan/tetun-corpus/internal/sampling"
	"github.com/jonathan/tetun-corpus/internal/source"
	"github.com/jonathan/tetun-corpus/internal/stats"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// ProgressEvent represents a progress update during a command
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds everything a command needs. Source, Gate, Searcher and Rand
// replace the components otherwise built from Config.
type Options struct {
	Config     *config.Config
	Verbose    bool
	Out        io.Writer
	Logger     logging.Logger
	OnProgress ProgressCallback

	Source   source.DocumentSource
	Gate     *lid.Gate
	Searcher research.Searcher
	Rand     *rand.Rand
}

// SeedResult holds the outcome of one seed round.
type SeedResult struct {
	Words     []string
	Discovery *types.DiscoveryResult
}

func (o *Options) validate() error {
	if o.Config == nil {
		return fmt.Errorf("pipeline: config is required")
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	o.Logger = logging.OrNop(o.Logger)
	return nil
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

func (o *Options) loadGate() (*lid.Gate, error) {
	if o.Gate != nil {
		return o.Gate, nil
	}
	cfg := o.Config
	return lid.LoadGate(cfg.Paths.LIDModel, cfg.LID.Language, cfg.LID.Threshold)
}

func (o *Options) documentSource(log logging.Logger) (source.DocumentSource, error) {
	if o.Source != nil {
		return o.Source, nil
	}
	return source.New(o.Config.Source, log)
}

func (o *Options) newRand() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return NewRand(o.Config.Seed.RandomSeed)
}

// NewRand returns a sampling generator for seed, or a clock-seeded one when seed is 0.
// Share one generator across repeated runs so each run draws a fresh sample.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1))
}

func closeSource(src source.DocumentSource, log logging.Logger) {
	if err := source.Close(src); err != nil {
		log.Warn("failed to close document source", logging.Error(err))
	}
}

func (o *Options) walk() source.WalkOptions {
	return source.WalkOptions{
		Start:    o.Config.Source.Start,
		PageSize: o.Config.Source.PageSize,
		MaxDocs:  o.Config.Source.MaxDocs,
	}
}

// RunAssemble builds the corpus file from the configured document source.
func RunAssemble(ctx context.Context, opts Options) (*corpus.Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	log := opts.Logger.With(logging.String("command", CommandAssemble))

	gate, err := opts.loadGate()
	if err != nil {
		return nil, err
	}
	src, err := opts.documentSource(log)
	if err != nil {
		return nil, err
	}
	defer closeSource(src, log)

	hist := openHistory(ctx, cfg.Database.URL, log)
	defer hist.close()
	hist.start(ctx, CommandAssemble, map[string]any{
		"source":          cfg.Source.Kind,
		"corpus":          cfg.Paths.Corpus,
		"threshold":       cfg.LID.Threshold,
		"min_line_length": cfg.Assemble.MinLineLength,
	})

	emitProgress(&opts, CommandAssemble, "assembling corpus", nil)
	asm := corpus.NewAssembler(src, gate, noise.NewFilter(cfg.Noise), corpus.Options{
		CorpusPath:           cfg.Paths.Corpus,
		SkippedPath:          cfg.Paths.Skipped,
		MaxConsecutiveBlanks: cfg.Assemble.MaxConsecutiveBlanks,
		MinLineLength:        cfg.Assemble.MinLineLength,
		Walk:                 opts.walk(),
	}, log)

	res, err := asm.Run(ctx)
	if err != nil {
		hist.fail(ctx, err)
		return nil, err
	}

	hist.artifact(ctx, db.StepAssemblyReport, res.Report)
	if meta, err := ingestion.FileMetadata(res.CorpusPath); err != nil {
		log.Warn("failed to describe corpus file", logging.Error(err))
	} else {
		log.Info("corpus file written",
			logging.String("path", meta.Path),
			logging.String("sha256", meta.Hash),
			logging.Int("lines", meta.Lines),
			logging.Int("bytes", meta.Bytes))
		hist.artifact(ctx, db.StepCorpusMetadata, meta)
	}
	hist.complete(ctx)
	emitProgress(&opts, CommandAssemble, "corpus written", res.Report)

	if opts.Verbose {
		observability.NewPrinter(opts.Out).PrintAssemblyReport(res.CorpusPath, &res.Report, res.Duration)
	}
	return res, nil
}

// RunSeed samples seed words from the corpus and searches them for new seed URLs.
// A missing corpus yields an empty result and no search.
func RunSeed(ctx context.Context, opts Options) (*SeedResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	log := opts.Logger.With(logging.String("command", CommandSeed))

	gate, err := opts.loadGate()
	if err != nil {
		return nil, err
	}

	sampler := sampling.NewSampler(gate, nil, sampling.Options{
		SampleRatio:   cfg.Seed.SampleRatio,
		NumWords:      cfg.Seed.NumWords,
		SeedWordsPath: cfg.Paths.SeedWords,
	}, opts.newRand(), log)

	emitProgress(&opts, CommandSeed, "sampling seed words", nil)
	words, err := sampler.SampleFile(cfg.Paths.Corpus)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return &SeedResult{}, nil
	}
	if opts.Verbose {
		observability.NewPrinter(opts.Out).PrintSeedWords(words)
	}

	searcher := opts.Searcher
	if searcher == nil {
		if err := cfg.RequireSearch(); err != nil {
			return nil, err
		}
		searcher, err = research.NewGoogleSearcher(ctx, cfg.Search.APIKey, cfg.Search.EngineID)
		if err != nil {
			return nil, err
		}
	}

	rules, err := research.NewRules(cfg.Seed.ExcludedExtensions, cfg.Seed.ExcludedDomains)
	if err != nil {
		return nil, err
	}
	seeds, err := registry.Open(cfg.Paths.SeedURLs)
	if err != nil {
		return nil, err
	}
	domains, err := registry.Open(cfg.Paths.Domains)
	if err != nil {
		return nil, err
	}

	query := strings.Join(words, " ")
	hist := openHistory(ctx, cfg.Database.URL, log)
	defer hist.close()
	hist.start(ctx, CommandSeed, map[string]any{"query": query, "num_results": cfg.Seed.NumResults})
	hist.text(ctx, db.StepSeedWords, query)

	emitProgress(&opts, CommandSeed, "searching seed urls", query)
	discoverer := research.NewDiscoverer(searcher, rules, seeds, domains, research.DiscoverOptions{
		NumResults:   cfg.Seed.NumResults,
		MaxURLLength: cfg.Seed.MaxURLLength,
	}, log)
	result, err := discoverer.Discover(ctx, query)
	if err != nil {
		hist.fail(ctx, err)
		return nil, err
	}

	hist.artifact(ctx, db.StepDiscovery, result)
	hist.discovered(ctx, result)
	hist.complete(ctx)
	emitProgress(&opts, CommandSeed, "seed urls registered", result)

	if opts.Verbose {
		observability.NewPrinter(opts.Out).PrintDiscoveryResult(result)
	}
	return &SeedResult{Words: words, Discovery: result}, nil
}

// RunStats collects domain, extension and link statistics over the collection.
func RunStats(ctx context.Context, opts Options) (*stats.Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	log := opts.Logger.With(logging.String("command", CommandStats))

	gate, err := opts.loadGate()
	if err != nil {
		return nil, err
	}
	src, err := opts.documentSource(log)
	if err != nil {
		return nil, err
	}
	defer closeSource(src, log)

	hist := openHistory(ctx, cfg.Database.URL, log)
	defer hist.close()
	hist.start(ctx, CommandStats, map[string]any{"source": cfg.Source.Kind, "use_browser": cfg.Stats.UseBrowser})

	emitProgress(&opts, CommandStats, "collecting statistics", nil)
	fetchOpts := fetch.DefaultOptions()
	if cfg.Stats.Timeout > 0 {
		fetchOpts.Timeout = cfg.Stats.Timeout
	}
	collector := stats.NewCollector(src, gate, stats.Options{
		Concurrency: cfg.Stats.Concurrency,
		UseBrowser:  cfg.Stats.UseBrowser,
		TopN:        cfg.Stats.TopN,
		Walk:        opts.walk(),
		Fetch:       fetchOpts,
	}, log)

	report, err := collector.Collect(ctx)
	if err != nil {
		hist.fail(ctx, err)
		return nil, err
	}

	hist.artifact(ctx, db.StepStatsReport, report)
	hist.complete(ctx)
	emitProgress(&opts, CommandStats, "statistics collected", report)

	if opts.Verbose {
		observability.NewPrinter(opts.Out).PrintStatsReport(report)
	}
	return report, nil
}

// RunSamples writes evaluation samples drawn from the corpus.
func RunSamples(ctx context.Context, opts Options) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	log := opts.Logger.With(logging.String("command", CommandSamples))

	hist := openHistory(ctx, cfg.Database.URL, log)
	defer hist.close()
	hist.start(ctx, CommandSamples, map[string]any{
		"samples":             cfg.Eval.Samples,
		"segments_per_sample": cfg.Eval.SegmentsPerSample,
	})

	emitProgress(&opts, CommandSamples, "generating evaluation samples", nil)
	paths, err := evaluation.Generate(cfg.Paths.Corpus, evaluation.Options{
		OutputDir:         cfg.Paths.EvalDir,
		Samples:           cfg.Eval.Samples,
		SegmentsPerSample: cfg.Eval.SegmentsPerSample,
	}, opts.newRand(), log)
	if err != nil {
		hist.fail(ctx, err)
		return nil, err
	}

	hist.artifact(ctx, db.StepEvalSamples, paths)
	hist.complete(ctx)

	if opts.Verbose {
		observability.NewPrinter(opts.Out).PrintSamples(paths)
	}
	return paths, nil
}
