package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/tetun-corpus/internal/types"
)

// Solr reads documents from a Solr select handler such as the one a Nutch
// crawl indexes into.
type Solr struct {
	endpoint string
	client   *http.Client
}

var _ DocumentSource = (*Solr)(nil)

// NewSolr returns a Solr source for the select endpoint, e.g.
// http://localhost:8983/solr/nutch/select.
func NewSolr(endpoint string, client *http.Client) *Solr {
	if client == nil {
		client = http.DefaultClient
	}
	return &Solr{endpoint: endpoint, client: client}
}

type solrResponse struct {
	Response struct {
		NumFound int          `json:"numFound"`
		Docs     []solrFields `json:"docs"`
	} `json:"response"`
}

type solrFields struct {
	Title   flexString `json:"title"`
	URL     flexString `json:"url"`
	Content flexString `json:"content"`
}

// flexString accepts a JSON string or an array of strings (multi-valued field).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*f = flexString(strings.Join(parts, "\n"))
	return nil
}

// Count returns response.numFound for a match-all query.
func (s *Solr) Count(ctx context.Context) (int, error) {
	resp, err := s.query(ctx, 0, 0)
	if err != nil {
		return 0, err
	}
	return resp.Response.NumFound, nil
}

// Fetch returns the documents in [start, start+rows).
func (s *Solr) Fetch(ctx context.Context, start, rows int) ([]types.Document, error) {
	resp, err := s.query(ctx, start, rows)
	if err != nil {
		return nil, err
	}
	docs := make([]types.Document, 0, len(resp.Response.Docs))
	for _, d := range resp.Response.Docs {
		docs = append(docs, types.Document{
			Title:   string(d.Title),
			URL:     string(d.URL),
			Content: string(d.Content),
		})
	}
	return docs, nil
}

func (s *Solr) query(ctx context.Context, start, rows int) (*solrResponse, error) {
	params := url.Values{}
	params.Set("q", "*:*")
	params.Set("wt", "json")
	params.Set("start", strconv.Itoa(start))
	params.Set("rows", strconv.Itoa(rows))

	reqURL := s.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Backend: KindSolr, Message: "failed to create request", Cause: err}
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Backend: KindSolr, Message: "request failed", Cause: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &Error{Backend: KindSolr, Message: fmt.Sprintf("HTTP status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))}
	}

	var out solrResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &Error{Backend: KindSolr, Message: "failed to decode response", Cause: err}
	}
	return &out, nil
}
