package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeb_FetchSkipsFailedPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Pájina</title></head><body><article>Testu Tetun</article></body></html>`))
	}))
	defer server.Close()

	src := NewWeb([]string{server.URL + "/ok", "", server.URL + "/missing"}, nil, false, nil)

	count, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	docs, err := src.Fetch(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Pájina", docs[0].Title)
	assert.Equal(t, "Testu Tetun", docs[0].Content)
}

func TestWeb_FetchPastEnd(t *testing.T) {
	src := NewWeb([]string{"https://tatoli.tl"}, nil, false, nil)

	docs, err := src.Fetch(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestNewWebFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://tatoli.tl\nhttps://www.timorpost.com\n"), 0644))

	src, err := NewWebFromFile(path, false, nil)
	require.NoError(t, err)

	count, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewWebFromFile_Missing(t *testing.T) {
	_, err := NewWebFromFile(filepath.Join(t.TempDir(), "none.txt"), false, nil)
	assert.Error(t, err)
}
