package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tetun-corpus/internal/types"
)

func TestIsValidRunStatus(t *testing.T) {
	assert.True(t, IsValidRunStatus(RunStatusRunning))
	assert.True(t, IsValidRunStatus(RunStatusCompleted))
	assert.True(t, IsValidRunStatus(RunStatusFailed))
	assert.False(t, IsValidRunStatus("paused"))
	assert.False(t, IsValidRunStatus(""))
}

func TestBuildListRunsQuery(t *testing.T) {
	t.Run("defaults limit", func(t *testing.T) {
		query, args := buildListRunsQuery(RunFilters{})
		assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $1")
		assert.Equal(t, []any{50}, args)
	})

	t.Run("numbers placeholders in order", func(t *testing.T) {
		query, args := buildListRunsQuery(RunFilters{Command: "assemble", Status: RunStatusFailed, Limit: 5})
		assert.Contains(t, query, "command = $1")
		assert.Contains(t, query, "status = $2")
		assert.Contains(t, query, "LIMIT $3")
		assert.Equal(t, []any{"assemble", RunStatusFailed, 5}, args)
	})
}

func TestParameters_RoundTrip(t *testing.T) {
	data, err := marshalParameters(map[string]any{"query": "ita nia", "num_results": 10})
	require.NoError(t, err)

	params, err := unmarshalParameters(data)
	require.NoError(t, err)
	assert.Equal(t, "ita nia", params["query"])
	assert.Equal(t, float64(10), params["num_results"])

	empty, err := marshalParameters(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	params, err = unmarshalParameters(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestDecodeArtifact(t *testing.T) {
	report, err := decodeArtifact[types.AssemblyReport]([]byte(`{"documents":3,"written":12}`), StepAssemblyReport)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 12, report.Written)

	missing, err := decodeArtifact[types.AssemblyReport](nil, StepAssemblyReport)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = decodeArtifact[types.AssemblyReport]([]byte(`{`), StepAssemblyReport)
	require.Error(t, err)
	assert.Contains(t, err.Error(), StepAssemblyReport)
}

func TestDiscoveredURLs(t *testing.T) {
	runID := uuid.New()
	urls := discoveredURLs(runID, &types.DiscoveryResult{
		Query:    "ita nia lian",
		SeedURLs: []string{"https://www.tatoli.tl/2024/01/01/", "http://192.168.0.1/page"},
	})

	require.Len(t, urls, 2)
	assert.Equal(t, runID, urls[0].RunID)
	assert.Equal(t, "ita nia lian", urls[0].Query)
	assert.Equal(t, "www.tatoli.tl", urls[0].Domain)
	assert.Empty(t, urls[1].Domain)
}
