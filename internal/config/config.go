// Package config loads the pipeline configuration from a YAML or JSON file,
// CORPUS_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/noise"
	"github.com/jonathan/tetun-corpus/internal/source"
)

// EnvPrefix prefixes every environment override, e.g. CORPUS_LID_THRESHOLD.
const EnvPrefix = "CORPUS"

// Config is the complete pipeline configuration.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	LID      LIDConfig      `mapstructure:"lid"`
	Source   source.Config  `mapstructure:"source"`
	Noise    noise.Patterns `mapstructure:"noise"`
	Assemble AssembleConfig `mapstructure:"assemble"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Search   SearchConfig   `mapstructure:"search"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Eval     EvalConfig     `mapstructure:"eval"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  logging.Config `mapstructure:"logging"`
}

// PathsConfig locates every file the pipeline reads or writes.
type PathsConfig struct {
	Corpus    string `mapstructure:"corpus" validate:"required"`
	Skipped   string `mapstructure:"skipped"`
	SeedWords string `mapstructure:"seed_words" validate:"required"`
	SeedURLs  string `mapstructure:"seed_urls" validate:"required"`
	Domains   string `mapstructure:"domains" validate:"required"`
	LIDModel  string `mapstructure:"lid_model" validate:"required"`
	EvalDir   string `mapstructure:"eval_dir" validate:"required"`
}

// LIDConfig configures the language gate.
type LIDConfig struct {
	Language  string  `mapstructure:"language" validate:"required"`
	Threshold float64 `mapstructure:"threshold" validate:"gte=0,lte=1"`
}

// AssembleConfig configures corpus assembly.
type AssembleConfig struct {
	MaxConsecutiveBlanks int `mapstructure:"max_consecutive_blanks" validate:"gte=1"`
	MinLineLength        int `mapstructure:"min_line_length" validate:"gte=0"`
}

// SeedConfig configures seed-word sampling and seed-URL discovery.
type SeedConfig struct {
	SampleRatio        float64  `mapstructure:"sample_ratio" validate:"gt=0,lte=1"`
	NumWords           int      `mapstructure:"num_words" validate:"gte=1"`
	NumResults         int      `mapstructure:"num_results" validate:"gte=1,lte=100"`
	MaxURLLength       int      `mapstructure:"max_url_length" validate:"gte=1"`
	ExcludedExtensions []string `mapstructure:"excluded_extensions"`
	ExcludedDomains    []string `mapstructure:"excluded_domains"`
	// RandomSeed makes sampling reproducible. Zero seeds from the clock.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// SearchConfig holds the Google Programmable Search credentials.
type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
}

// StatsConfig configures collection statistics.
type StatsConfig struct {
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1"`
	UseBrowser  bool          `mapstructure:"use_browser"`
	TopN        int           `mapstructure:"top_n" validate:"gte=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EvalConfig configures evaluation sample generation.
type EvalConfig struct {
	Samples           int `mapstructure:"samples" validate:"gte=1"`
	SegmentsPerSample int `mapstructure:"segments_per_sample" validate:"gte=1"`
}

// DatabaseConfig enables run history when URL is set.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Paths: PathsConfig{
			Corpus:    "data/final_corpus.txt",
			Skipped:   "data/skipped_lines.txt",
			SeedWords: "data/seed_words.txt",
			SeedURLs:  "nutch/urls/seed.txt",
			Domains:   "data/domains.txt",
			LIDModel:  "models/tetun_lid.json",
			EvalDir:   "evaluation/data",
		},
		LID: LIDConfig{Language: "tet", Threshold: 0.95},
		Source: source.Config{
			Kind:     source.KindSolr,
			URL:      "http://localhost:8983/solr/nutch/select",
			Index:    "tetun_pages",
			PageSize: source.DefaultPageSize,
			Timeout:  60 * time.Second,
		},
		Noise: DefaultNoisePatterns(),
		Assemble: AssembleConfig{
			MaxConsecutiveBlanks: 2,
			MinLineLength:        50,
		},
		Seed: SeedConfig{
			SampleRatio:  0.1,
			NumWords:     3,
			NumResults:   10,
			MaxURLLength: 300,
			ExcludedExtensions: []string{
				`\.(rtf)$`, `\.pptx?$`, `\.docx?$`, `\.(txt)$`, `\.(pdf)$`,
				`\.mp3`, `\.mp4`, `\.avi`,
			},
			ExcludedDomains: []string{"youtube.com", "instagram.com", "facebook.com", "linkedin.com"},
		},
		Stats:   StatsConfig{Concurrency: 4, TopN: 5, Timeout: 30 * time.Second},
		Eval:    EvalConfig{Samples: 6, SegmentsPerSample: 50},
		Logging: logging.Config{Level: "info", OutputPaths: []string{"stdout"}},
	}
}

// DefaultNoisePatterns returns the boilerplate patterns of Tetun news sites.
func DefaultNoisePatterns() noise.Patterns {
	return noise.Patterns{
		Start: []string{
			"home", "previous", "next", "comments on", "comment on", "labels",
			"etiquetas:", "address", "from", "http", "»", "«",
		},
		In: []string{
			"div>", "ul>", "ol>", "li>", "a>", "span>", "p>", "+670", "670)",
			" | ", "headline", "copyright",
		},
		End: []string{"...", "…", "download", "»", "«"},
	}
}

// LoadConfig reads path (optional) over the defaults and applies CORPUS_*
// environment overrides. GOOGLE_API_KEY, GOOGLE_CSE_ID and DATABASE_URL are
// honoured as well. The result is validated.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	for key, envs := range map[string][]string{
		"search.api_key":   {"CORPUS_SEARCH_API_KEY", "GOOGLE_API_KEY"},
		"search.engine_id": {"CORPUS_SEARCH_ENGINE_ID", "GOOGLE_CSE_ID"},
		"database.url":     {"CORPUS_DATABASE_URL", "DATABASE_URL"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("paths.corpus", d.Paths.Corpus)
	v.SetDefault("paths.skipped", d.Paths.Skipped)
	v.SetDefault("paths.seed_words", d.Paths.SeedWords)
	v.SetDefault("paths.seed_urls", d.Paths.SeedURLs)
	v.SetDefault("paths.domains", d.Paths.Domains)
	v.SetDefault("paths.lid_model", d.Paths.LIDModel)
	v.SetDefault("paths.eval_dir", d.Paths.EvalDir)

	v.SetDefault("lid.language", d.LID.Language)
	v.SetDefault("lid.threshold", d.LID.Threshold)

	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.url", d.Source.URL)
	v.SetDefault("source.index", d.Source.Index)
	v.SetDefault("source.page_size", d.Source.PageSize)
	v.SetDefault("source.start", d.Source.Start)
	v.SetDefault("source.max_docs", d.Source.MaxDocs)
	v.SetDefault("source.timeout", d.Source.Timeout)
	v.SetDefault("source.username", "")
	v.SetDefault("source.password", "")
	v.SetDefault("source.seed_file", "")
	v.SetDefault("source.use_browser", false)

	v.SetDefault("noise.start", d.Noise.Start)
	v.SetDefault("noise.in", d.Noise.In)
	v.SetDefault("noise.end", d.Noise.End)

	v.SetDefault("assemble.max_consecutive_blanks", d.Assemble.MaxConsecutiveBlanks)
	v.SetDefault("assemble.min_line_length", d.Assemble.MinLineLength)

	v.SetDefault("seed.sample_ratio", d.Seed.SampleRatio)
	v.SetDefault("seed.num_words", d.Seed.NumWords)
	v.SetDefault("seed.num_results", d.Seed.NumResults)
	v.SetDefault("seed.max_url_length", d.Seed.MaxURLLength)
	v.SetDefault("seed.excluded_extensions", d.Seed.ExcludedExtensions)
	v.SetDefault("seed.excluded_domains", d.Seed.ExcludedDomains)
	v.SetDefault("seed.random_seed", d.Seed.RandomSeed)

	v.SetDefault("search.api_key", "")
	v.SetDefault("search.engine_id", "")

	v.SetDefault("stats.concurrency", d.Stats.Concurrency)
	v.SetDefault("stats.use_browser", d.Stats.UseBrowser)
	v.SetDefault("stats.top_n", d.Stats.TopN)
	v.SetDefault("stats.timeout", d.Stats.Timeout)

	v.SetDefault("eval.samples", d.Eval.Samples)
	v.SetDefault("eval.segments_per_sample", d.Eval.SegmentsPerSample)

	v.SetDefault("database.url", "")

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.output_paths", d.Logging.OutputPaths)
}

// normalize fills values derived from other sections.
func (c *Config) normalize() {
	if c.Source.Kind == source.KindWeb && c.Source.SeedFile == "" {
		c.Source.SeedFile = c.Paths.SeedURLs
	}
	c.Source.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks struct tags and cross-field constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.Paths.Corpus == c.Paths.Skipped {
		return fmt.Errorf("config error: 'paths.corpus' and 'paths.skipped' must differ")
	}
	return nil
}

// RequireSearch reports whether search credentials are present.
func (c *Config) RequireSearch() error {
	if c.Search.APIKey == "" || c.Search.EngineID == "" {
		return fmt.Errorf("config error: search credentials missing (set GOOGLE_API_KEY and GOOGLE_CSE_ID)")
	}
	return nil
}
