// Package stats describes a crawled collection: documents per domain and per
// file extension, and the in/out link counts of each page.
package stats

import (
	"context"
	"math"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/tetun-corpus/internal/fetch"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/research"
	"github.com/jonathan/tetun-corpus/internal/source"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// Defaults for a Collector.
const (
	DefaultConcurrency = 4
	DefaultTopN        = 5
	titleBatchSize     = 1000
)

// TitleGate keeps the titles identified as the target language.
type TitleGate interface {
	ClassifyBatch(texts []string) ([]string, error)
}

// Options configures a Collector.
type Options struct {
	Concurrency int
	UseBrowser  bool
	TopN        int
	Walk        source.WalkOptions
	Fetch       *fetch.Options
}

// Count is one row of a frequency table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary holds the spread of a per-page count.
type Summary struct {
	Max  int     `json:"max"`
	Min  int     `json:"min"`
	Mean float64 `json:"mean"`
}

// Report is the collection statistics.
type Report struct {
	Documents         int     `json:"documents"`
	AdmittedDocuments int     `json:"admitted_documents"`
	Pages             int     `json:"pages"`
	FetchFailures     int     `json:"fetch_failures"`
	Domains           []Count `json:"domains"`
	Extensions        []Count `json:"extensions"`
	Outlinks          Summary `json:"outlinks"`
	Inlinks           Summary `json:"inlinks"`
}

// Collector computes a Report over a document source.
type Collector struct {
	src  source.DocumentSource
	gate TitleGate
	opts Options
	log  logging.Logger
}

// NewCollector returns a Collector.
func NewCollector(src source.DocumentSource, gate TitleGate, opts Options, log logging.Logger) *Collector {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Collector{src: src, gate: gate, opts: opts, log: logging.OrNop(log)}
}

// pageRef is the part of a document the statistics need.
type pageRef struct {
	Title string
	URL   string
}

// Collect keeps the documents whose title the gate admits, counts their
// domains and extensions, then fetches every page to count its links.
// Pages that fail to load are skipped.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	n, refs, err := c.listPages(ctx)
	if err != nil {
		return nil, err
	}

	admitted, err := c.admittedTitles(refs)
	if err != nil {
		return nil, err
	}

	report := &Report{Documents: n}
	domains := make(map[string]int)
	extensions := make(map[string]int)
	var urls []string
	for _, ref := range refs {
		if _, ok := admitted[ref.Title]; !ok {
			continue
		}
		report.AdmittedDocuments++
		domains[research.ExtractDomain(ref.URL)]++
		extensions[Extension(ref.URL)]++
		urls = append(urls, ref.URL)
	}
	report.Domains = topN(domains, c.opts.TopN)
	report.Extensions = topN(extensions, c.opts.TopN)

	outlinks, inlinks, failures := c.countLinks(ctx, urls)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Pages = len(outlinks)
	report.FetchFailures = failures
	report.Outlinks = summarize(outlinks)
	report.Inlinks = summarize(inlinks)

	c.log.Info("collection statistics computed",
		logging.Int("documents", report.Documents),
		logging.Int("admitted", report.AdmittedDocuments),
		logging.Int("pages", report.Pages),
		logging.Int("fetch_failures", report.FetchFailures))
	return report, nil
}

// listPages walks the source and keeps the title and URL of every document that has both.
func (c *Collector) listPages(ctx context.Context) (int, []pageRef, error) {
	var refs []pageRef
	n, err := source.Walk(ctx, c.src, c.opts.Walk, func(doc types.Document) error {
		if doc.Title != "" && doc.URL != "" {
			refs = append(refs, pageRef{Title: doc.Title, URL: doc.URL})
		}
		return nil
	})
	return n, refs, err
}

func (c *Collector) admittedTitles(refs []pageRef) (map[string]struct{}, error) {
	titles := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Title]; !ok {
			seen[ref.Title] = struct{}{}
			titles = append(titles, ref.Title)
		}
	}

	admitted := make(map[string]struct{})
	for start := 0; start < len(titles); start += titleBatchSize {
		kept, err := c.gate.ClassifyBatch(titles[start:min(start+titleBatchSize, len(titles))])
		if err != nil {
			return nil, err
		}
		for _, t := range kept {
			admitted[t] = struct{}{}
		}
	}
	return admitted, nil
}

func (c *Collector) countLinks(ctx context.Context, urls []string) (outlinks, inlinks []int, failures int) {
	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for _, pageURL := range urls {
		g.Go(func() error {
			counts, err := c.pageLinks(gCtx, pageURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				c.log.Debug("page fetch failed", logging.String("url", pageURL), logging.Error(err))
				return nil
			}
			outlinks = append(outlinks, counts.Outlinks)
			inlinks = append(inlinks, counts.Inlinks)
			return nil
		})
	}
	_ = g.Wait()
	return outlinks, inlinks, failures
}

func (c *Collector) pageLinks(ctx context.Context, pageURL string) (fetch.LinkCounts, error) {
	result, err := fetch.Page(ctx, pageURL, c.opts.Fetch, c.opts.UseBrowser, c.log)
	if err != nil {
		return fetch.LinkCounts{}, err
	}
	return fetch.CountLinks(result.HTML, research.ExtractDomain(pageURL))
}

// Extension returns the lower-cased file extension of the URL path without
// the dot, folding legacy Office extensions into their current form.
func Extension(rawURL string) string {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(path.Base(p))), ".")
	switch ext {
	case "doc":
		return "docx"
	case "ppt":
		return "pptx"
	case "xls":
		return "xlsx"
	}
	return ext
}

func topN(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Max: math.MinInt, Min: math.MaxInt}
	total := 0
	for _, v := range values {
		s.Max = max(s.Max, v)
		s.Min = min(s.Min, v)
		total += v
	}
	s.Mean = float64(total) / float64(len(values))
	return s
}
