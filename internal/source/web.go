package source

import (
	"context"
	"strings"

	"github.com/jonathan/tetun-corpus/internal/fetch"
	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// Web fetches a fixed list of URLs directly, one page per document.
// Pages that fail to load are logged and skipped.
type Web struct {
	urls       []string
	opts       *fetch.Options
	useBrowser bool
	log        logging.Logger
}

var _ DocumentSource = (*Web)(nil)

// NewWeb returns a source over urls.
func NewWeb(urls []string, opts *fetch.Options, useBrowser bool, log logging.Logger) *Web {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	return &Web{urls: clean, opts: opts, useBrowser: useBrowser, log: logging.OrNop(log)}
}

// NewWebFromFile reads one URL per line from path.
func NewWebFromFile(path string, useBrowser bool, log logging.Logger) (*Web, error) {
	lines, err := ingestion.LoadLines(path)
	if err != nil {
		return nil, &Error{Backend: KindWeb, Message: "failed to read seed file", Cause: err}
	}
	return NewWeb(lines, nil, useBrowser, log), nil
}

// Count returns the number of URLs.
func (w *Web) Count(context.Context) (int, error) {
	return len(w.urls), nil
}

// Fetch loads the pages for urls[start:start+rows].
func (w *Web) Fetch(ctx context.Context, start, rows int) ([]types.Document, error) {
	if start >= len(w.urls) {
		return nil, nil
	}
	end := min(start+rows, len(w.urls))

	docs := make([]types.Document, 0, end-start)
	for _, u := range w.urls[start:end] {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		doc, err := ingestion.DocumentFromURL(ctx, u, w.opts, w.useBrowser, w.log)
		if err != nil {
			w.log.Warn("skipping page", logging.String("url", u), logging.Error(err))
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
