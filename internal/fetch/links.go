package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkCounts is the number of anchors on a page pointing inside and outside its domain.
type LinkCounts struct {
	Inlinks  int `json:"inlinks"`
	Outlinks int `json:"outlinks"`
}

// CountLinks classifies every anchor href in html relative to domain.
// Absolute links that do not mention domain are outlinks. Other absolute
// links and relative links are inlinks. Fragment-only links are ignored.
func CountLinks(html, domain string) (LinkCounts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return LinkCounts{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var counts LinkCounts
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		switch {
		case href == "" || strings.HasPrefix(href, "#"):
		case strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://"):
			if domain != "" && strings.Contains(href, domain) {
				counts.Inlinks++
			} else {
				counts.Outlinks++
			}
		default:
			counts.Inlinks++
		}
	})
	return counts, nil
}
