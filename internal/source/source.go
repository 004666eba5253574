// Package source retrieves crawled documents from the search index the
// crawler writes to. Solr and Elasticsearch indexes are supported, as well as
// fetching a plain list of URLs directly.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// Backend kinds.
const (
	KindSolr          = "solr"
	KindElasticsearch = "elasticsearch"
	KindWeb           = "web"
)

// DefaultPageSize is the number of documents requested per page.
const DefaultPageSize = 100

// DocumentSource is a paginated document index.
type DocumentSource interface {
	// Count returns the total number of documents in the index.
	Count(ctx context.Context) (int, error)
	// Fetch returns up to rows documents starting at offset start.
	Fetch(ctx context.Context, start, rows int) ([]types.Document, error)
}

// Config selects and configures a backend.
type Config struct {
	Kind     string        `mapstructure:"kind" validate:"required,oneof=solr elasticsearch web"`
	URL      string        `mapstructure:"url" validate:"required_unless=Kind web"`
	Index    string        `mapstructure:"index" validate:"required_if=Kind elasticsearch"`
	PageSize int           `mapstructure:"page_size" validate:"gte=0"`
	Start    int           `mapstructure:"start" validate:"gte=0"`
	MaxDocs  int           `mapstructure:"max_docs" validate:"gte=0"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	// SeedFile lists the URLs read by the web backend.
	SeedFile   string `mapstructure:"seed_file" validate:"required_if=Kind web"`
	UseBrowser bool   `mapstructure:"use_browser"`
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.Kind == "" {
		c.Kind = KindSolr
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// New builds the backend named by cfg.Kind.
func New(cfg Config, log logging.Logger) (DocumentSource, error) {
	cfg.SetDefaults()
	switch cfg.Kind {
	case KindSolr:
		return NewSolr(cfg.URL, &http.Client{Timeout: cfg.Timeout}), nil
	case KindElasticsearch:
		return NewElasticsearch(cfg)
	case KindWeb:
		return NewWebFromFile(cfg.SeedFile, cfg.UseBrowser, log)
	default:
		return nil, &Error{Backend: cfg.Kind, Message: "unknown source kind"}
	}
}

// Error represents a failed request against a document source.
type Error struct {
	Backend string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s source error: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s source error: %s", e.Backend, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Close releases resources held by src, if it holds any.
func Close(src DocumentSource) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WalkOptions bounds a Walk.
type WalkOptions struct {
	Start    int
	PageSize int
	// MaxDocs caps the number of documents visited. Zero means all.
	MaxDocs int
}

// Walk pages through src from opts.Start, calling fn for every document in
// index order. It stops at the first error returned by src or fn.
func Walk(ctx context.Context, src DocumentSource, opts WalkOptions, fn func(types.Document) error) (int, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	total, err := src.Count(ctx)
	if err != nil {
		return 0, err
	}
	end := total
	if opts.MaxDocs > 0 && opts.Start+opts.MaxDocs < end {
		end = opts.Start + opts.MaxDocs
	}

	visited := 0
	for start := opts.Start; start < end; start += opts.PageSize {
		if err := ctx.Err(); err != nil {
			return visited, err
		}
		rows := min(opts.PageSize, end-start)
		docs, err := src.Fetch(ctx, start, rows)
		if err != nil {
			return visited, err
		}
		for _, doc := range docs {
			if err := fn(doc); err != nil {
				return visited, err
			}
			visited++
		}
	}
	return visited, nil
}
