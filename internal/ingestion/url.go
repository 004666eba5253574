package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/tetun-corpus/internal/fetch"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/types"
)

var (
	// ErrHTTPRequestFailed is returned when the page could not be fetched.
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when the page could not be parsed.
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// DocumentFromURL fetches a page and returns its title and main text as a Document.
// With useBrowser set, client-rendered pages are re-fetched in a headless browser.
func DocumentFromURL(ctx context.Context, urlStr string, opts *fetch.Options, useBrowser bool, log logging.Logger) (*types.Document, error) {
	log = logging.OrNop(log)

	result, err := fetch.Page(ctx, urlStr, opts, useBrowser, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	text, err := fetch.ExtractMainText(result.HTML, fetch.DefaultTextSelectors())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	doc := &types.Document{
		Title:   pageTitle(result.HTML),
		URL:     urlStr,
		Content: CleanText(text),
	}
	log.Debug("ingested page",
		logging.String("url", urlStr),
		logging.Int("bytes", len(result.HTML)),
		logging.Int("chars", len(doc.Content)))
	return doc, nil
}

func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
