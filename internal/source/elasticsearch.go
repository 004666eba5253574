package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonathan/tetun-corpus/internal/types"
)

// Searches never ask for more hits than the default index.max_result_window.
const (
	maxResultWindow = 10000
	pitKeepAlive    = "5m"
)

// Elasticsearch reads documents from an index written by an Elasticsearch-backed crawler.
// Pages are read through a point in time with search_after, so offsets past the
// result window stay reachable. Fetch calls must not run concurrently.
type Elasticsearch struct {
	client *es.Client
	index  string

	pitID string
	next  int
	after []any
}

var _ DocumentSource = (*Elasticsearch)(nil)

// NewElasticsearch creates a client for cfg.URL and reads from cfg.Index.
func NewElasticsearch(cfg Config) (*Elasticsearch, error) {
	esCfg := es.Config{
		Addresses: []string{normalizeURL(cfg.URL)},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	client, err := es.NewClient(esCfg)
	if err != nil {
		return nil, &Error{Backend: KindElasticsearch, Message: "failed to create client", Cause: err}
	}
	return NewElasticsearchWithClient(client, cfg.Index), nil
}

// NewElasticsearchWithClient wraps an existing client.
func NewElasticsearchWithClient(client *es.Client, index string) *Elasticsearch {
	return &Elasticsearch{client: client, index: index}
}

func normalizeURL(u string) string {
	if u == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return "http://" + u
	}
	return u
}

type esCountResponse struct {
	Count int `json:"count"`
}

type esPITResponse struct {
	ID string `json:"id"`
}

type esHit struct {
	Source esDocument `json:"_source"`
	Sort   []any      `json:"sort"`
}

type esSearchResponse struct {
	PitID string `json:"pit_id"`
	Hits  struct {
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

type esDocument struct {
	Title   flexString `json:"title"`
	URL     flexString `json:"url"`
	Content flexString `json:"content"`
	RawText flexString `json:"raw_text"`
}

// Count returns the number of documents in the index.
func (e *Elasticsearch) Count(ctx context.Context) (int, error) {
	res, err := e.client.Count(
		e.client.Count.WithContext(ctx),
		e.client.Count.WithIndex(e.index),
	)
	if err != nil {
		return 0, &Error{Backend: KindElasticsearch, Message: "count request failed", Cause: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return 0, &Error{Backend: KindElasticsearch, Message: fmt.Sprintf("count error: %s", res.String())}
	}

	var out esCountResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, &Error{Backend: KindElasticsearch, Message: "failed to decode count response", Cause: err}
	}
	return out.Count, nil
}

// Fetch returns the documents in [start, start+rows) in index order.
// Sequential calls continue from the previous cursor; a backwards start reopens
// the point in time and skips forward.
func (e *Elasticsearch) Fetch(ctx context.Context, start, rows int) ([]types.Document, error) {
	if e.pitID == "" || start < e.next {
		if err := e.openPIT(ctx); err != nil {
			return nil, err
		}
	}

	for e.next < start {
		hits, err := e.search(ctx, min(start-e.next, maxResultWindow), false)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			return nil, nil
		}
	}

	docs := make([]types.Document, 0, rows)
	for len(docs) < rows {
		size := min(rows-len(docs), maxResultWindow)
		hits, err := e.search(ctx, size, true)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			content := string(hit.Source.Content)
			if content == "" {
				content = string(hit.Source.RawText)
			}
			docs = append(docs, types.Document{
				Title:   string(hit.Source.Title),
				URL:     string(hit.Source.URL),
				Content: content,
			})
		}
		if len(hits) < size {
			break
		}
	}
	return docs, nil
}

// Close releases the point in time, if one is open.
func (e *Elasticsearch) Close() error {
	if e.pitID == "" {
		return nil
	}
	id := e.pitID
	e.pitID, e.next, e.after = "", 0, nil

	body, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return &Error{Backend: KindElasticsearch, Message: "failed to encode point in time", Cause: err}
	}
	res, err := e.client.ClosePointInTime(
		e.client.ClosePointInTime.WithContext(context.Background()),
		e.client.ClosePointInTime.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return &Error{Backend: KindElasticsearch, Message: "close point in time failed", Cause: err}
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return &Error{Backend: KindElasticsearch, Message: fmt.Sprintf("close point in time error: %s", res.String())}
	}
	return nil
}

func (e *Elasticsearch) openPIT(ctx context.Context) error {
	if err := e.Close(); err != nil {
		return err
	}

	res, err := e.client.OpenPointInTime([]string{e.index}, pitKeepAlive,
		e.client.OpenPointInTime.WithContext(ctx),
	)
	if err != nil {
		return &Error{Backend: KindElasticsearch, Message: "open point in time failed", Cause: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return &Error{Backend: KindElasticsearch, Message: fmt.Sprintf("index %s not found", e.index)}
		}
		return &Error{Backend: KindElasticsearch, Message: fmt.Sprintf("open point in time error: %s", res.String())}
	}

	var out esPITResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return &Error{Backend: KindElasticsearch, Message: "failed to decode point in time response", Cause: err}
	}
	if out.ID == "" {
		return &Error{Backend: KindElasticsearch, Message: "empty point in time id"}
	}
	e.pitID = out.ID
	return nil
}

// search reads the next size hits after the cursor and advances it.
func (e *Elasticsearch) search(ctx context.Context, size int, withSource bool) ([]esHit, error) {
	query := map[string]any{
		"size":             size,
		"query":            map[string]any{"match_all": map[string]any{}},
		"pit":              map[string]any{"id": e.pitID, "keep_alive": pitKeepAlive},
		"sort":             []any{map[string]any{"_shard_doc": "asc"}},
		"track_total_hits": false,
	}
	if e.after != nil {
		query["search_after"] = e.after
	}
	if !withSource {
		query["_source"] = false
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, &Error{Backend: KindElasticsearch, Message: "failed to encode query", Cause: err}
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, &Error{Backend: KindElasticsearch, Message: "search request failed", Cause: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, &Error{Backend: KindElasticsearch, Message: fmt.Sprintf("search error: %s", res.String())}
	}

	var out esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &Error{Backend: KindElasticsearch, Message: "failed to decode search response", Cause: err}
	}

	hits := out.Hits.Hits
	if out.PitID != "" {
		e.pitID = out.PitID
	}
	if len(hits) > 0 {
		e.after = hits[len(hits)-1].Sort
		e.next += len(hits)
	}
	return hits, nil
}
