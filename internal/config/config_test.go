package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tetun-corpus/internal/source"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tet", cfg.LID.Language)
	assert.Equal(t, 0.95, cfg.LID.Threshold)
	assert.Equal(t, 2, cfg.Assemble.MaxConsecutiveBlanks)
	assert.Equal(t, 50, cfg.Assemble.MinLineLength)
	assert.Equal(t, 0.1, cfg.Seed.SampleRatio)
	assert.Equal(t, 3, cfg.Seed.NumWords)
	assert.Equal(t, 300, cfg.Seed.MaxURLLength)
	assert.Equal(t, source.KindSolr, cfg.Source.Kind)
	assert.Equal(t, 60*time.Second, cfg.Source.Timeout)
	assert.Contains(t, cfg.Noise.In, "copyright")
	assert.Equal(t, 6, cfg.Eval.Samples)
	assert.Equal(t, 50, cfg.Eval.SegmentsPerSample)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := writeConfig(t, "corpus.yaml", `
paths:
  corpus: out/corpus.txt
lid:
  threshold: 0.9
source:
  kind: elasticsearch
  url: http://localhost:9200
  index: pages
  timeout: 5s
noise:
  start: ["menu"]
assemble:
  min_line_length: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "out/corpus.txt", cfg.Paths.Corpus)
	assert.Equal(t, 0.9, cfg.LID.Threshold)
	assert.Equal(t, source.KindElasticsearch, cfg.Source.Kind)
	assert.Equal(t, "pages", cfg.Source.Index)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []string{"menu"}, cfg.Noise.Start)
	assert.Equal(t, 0, cfg.Assemble.MinLineLength)
	// untouched sections keep their defaults
	assert.Equal(t, "data/seed_words.txt", cfg.Paths.SeedWords)
	assert.Equal(t, 2, cfg.Assemble.MaxConsecutiveBlanks)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeConfig(t, "corpus.json", `{"seed": {"num_words": 5, "num_results": 20}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Seed.NumWords)
	assert.Equal(t, 20, cfg.Seed.NumResults)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CORPUS_LID_THRESHOLD", "0.8")
	t.Setenv("CORPUS_ASSEMBLE_MAX_CONSECUTIVE_BLANKS", "3")
	t.Setenv("GOOGLE_API_KEY", "key-123")
	t.Setenv("GOOGLE_CSE_ID", "cx-456")
	t.Setenv("DATABASE_URL", "postgres://localhost/corpus")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.LID.Threshold)
	assert.Equal(t, 3, cfg.Assemble.MaxConsecutiveBlanks)
	assert.Equal(t, "key-123", cfg.Search.APIKey)
	assert.Equal(t, "cx-456", cfg.Search.EngineID)
	assert.Equal(t, "postgres://localhost/corpus", cfg.Database.URL)
	assert.NoError(t, cfg.RequireSearch())
}

func TestLoadConfig_WebSourceUsesSeedURLs(t *testing.T) {
	path := writeConfig(t, "corpus.yaml", `
paths:
  seed_urls: seeds/urls.txt
source:
  kind: web
  url: ""
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "seeds/urls.txt", cfg.Source.SeedFile)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "threshold above one",
			content: "lid:\n  threshold: 1.5\n",
			wantErr: "LID.Threshold",
		},
		{
			name:    "unknown source kind",
			content: "source:\n  kind: kafka\n",
			wantErr: "Source.Kind",
		},
		{
			name:    "zero blanks",
			content: "assemble:\n  max_consecutive_blanks: 0\n",
			wantErr: "MaxConsecutiveBlanks",
		},
		{
			name:    "elasticsearch without index",
			content: "source:\n  kind: elasticsearch\n  index: \"\"\n",
			wantErr: "Index",
		},
		{
			name:    "corpus and skipped collide",
			content: "paths:\n  corpus: a.txt\n  skipped: a.txt\n",
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "corpus.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireSearch_Missing(t *testing.T) {
	cfg := Default()
	err := cfg.RequireSearch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
