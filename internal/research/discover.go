package research

import (
	"context"

	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/registry"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// Defaults for seed discovery.
const (
	DefaultNumResults   = 10
	DefaultMaxURLLength = 300
)

// DiscoverOptions configures a Discoverer.
type DiscoverOptions struct {
	NumResults int
	// URLs of at least this length are returned but not persisted.
	MaxURLLength int
}

// Discoverer turns a query into new seed URLs and domains.
type Discoverer struct {
	searcher Searcher
	rules    *Rules
	seeds    *registry.Registry
	domains  *registry.Registry
	opts     DiscoverOptions
	log      logging.Logger
}

// NewDiscoverer wires a search provider to the seed and domain registries.
func NewDiscoverer(searcher Searcher, rules *Rules, seeds, domains *registry.Registry, opts DiscoverOptions, log logging.Logger) *Discoverer {
	if opts.NumResults <= 0 {
		opts.NumResults = DefaultNumResults
	}
	if opts.MaxURLLength <= 0 {
		opts.MaxURLLength = DefaultMaxURLLength
	}
	if rules == nil {
		rules = &Rules{}
	}
	return &Discoverer{
		searcher: searcher,
		rules:    rules,
		seeds:    seeds,
		domains:  domains,
		opts:     opts,
		log:      logging.OrNop(log),
	}
}

// Discover runs one search and registers what it finds. A URL is admitted
// when it passes the exclusion rules and is not yet a registered seed.
// Admitted URLs shorter than the length cap are persisted. The domain of
// every admitted URL is persisted when new.
func (d *Discoverer) Discover(ctx context.Context, query string) (*types.DiscoveryResult, error) {
	links, err := d.searcher.Search(ctx, query, d.opts.NumResults)
	if err != nil {
		return nil, err
	}

	result := &types.DiscoveryResult{Query: query, SeedURLs: []string{}, NewDomains: []string{}}
	admitted := make(map[string]struct{})

	for _, link := range links {
		if reason := d.rules.Reason(link); reason != "" {
			d.log.Debug("search result excluded", logging.String("url", link), logging.String("reason", reason))
			continue
		}
		if d.seeds.Contains(link) {
			continue
		}
		if _, dup := admitted[link]; dup {
			continue
		}
		admitted[link] = struct{}{}
		result.SeedURLs = append(result.SeedURLs, link)

		if len(link) < d.opts.MaxURLLength {
			if _, err := d.seeds.Add(link); err != nil {
				return nil, err
			}
		} else {
			d.log.Info("seed URL too long to persist", logging.Int("length", len(link)), logging.String("url", link))
		}

		domain := ExtractDomain(link)
		if domain == "" {
			continue
		}
		added, err := d.domains.Add(domain)
		if err != nil {
			return nil, err
		}
		if added {
			result.NewDomains = append(result.NewDomains, domain)
		}
	}

	d.log.Info("seed discovery finished",
		logging.String("query", query),
		logging.Int("results", len(links)),
		logging.Int("seed_urls", len(result.SeedURLs)),
		logging.Int("new_domains", len(result.NewDomains)))
	return result, nil
}
