package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/tetun-corpus/internal/logging"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch complete.
// Shorter pages are likely rendered client-side.
const MinContentLength = 500

// BrowserTimeout bounds a single headless render.
const BrowserTimeout = 30 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in headless Chrome and returns the rendered HTML.
// Requires Chrome/Chromium to be installed.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, log logging.Logger) (string, error) {
	log = logging.OrNop(log)
	log.Debug("starting headless browser", logging.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Debug("rendered page", logging.String("url", url), logging.Int("bytes", len(html)))
	return html, nil
}

// Page fetches url over HTTP and, when useBrowser is set and the page looks
// client-rendered, re-fetches it with a headless browser. A failed browser
// render falls back to the HTTP result.
func Page(ctx context.Context, url string, opts *Options, useBrowser bool, log logging.Logger) (*Result, error) {
	log = logging.OrNop(log)

	result, err := URL(ctx, url, opts)
	if err != nil {
		return result, err
	}
	if !useBrowser {
		return result, nil
	}

	text, err := ExtractMainText(result.HTML, DefaultTextSelectors())
	if err != nil || !ShouldUseBrowser(text) {
		return result, nil
	}

	html, err := WithBrowser(ctx, url, BrowserTimeout, log)
	if err != nil {
		log.Warn("browser fallback failed, using HTTP content", logging.String("url", url), logging.Error(err))
		return result, nil
	}
	result.HTML = html
	return result, nil
}
