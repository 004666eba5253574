package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/research"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// SaveArtifact stores a JSON artifact for a run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact for a run
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, text_content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET text_content = $3, created_at = NOW()`,
		runID, step, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// GetAssemblyReport loads the assembly report recorded for a run
func (db *DB) GetAssemblyReport(ctx context.Context, runID uuid.UUID) (*types.AssemblyReport, error) {
	content, err := db.GetArtifact(ctx, runID, StepAssemblyReport)
	if err != nil {
		return nil, err
	}
	return decodeArtifact[types.AssemblyReport](content, StepAssemblyReport)
}

// GetCorpusMetadata loads the corpus file description recorded for a run
func (db *DB) GetCorpusMetadata(ctx context.Context, runID uuid.UUID) (*ingestion.Metadata, error) {
	content, err := db.GetArtifact(ctx, runID, StepCorpusMetadata)
	if err != nil {
		return nil, err
	}
	return decodeArtifact[ingestion.Metadata](content, StepCorpusMetadata)
}

// GetDiscoveryResult loads the seed discovery result recorded for a run
func (db *DB) GetDiscoveryResult(ctx context.Context, runID uuid.UUID) (*types.DiscoveryResult, error) {
	content, err := db.GetArtifact(ctx, runID, StepDiscovery)
	if err != nil {
		return nil, err
	}
	return decodeArtifact[types.DiscoveryResult](content, StepDiscovery)
}

func decodeArtifact[T any](content []byte, step string) (*T, error) {
	if content == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return &v, nil
}

// SaveDiscoveredURLs records every seed URL of a discovery result
func (db *DB) SaveDiscoveredURLs(ctx context.Context, runID uuid.UUID, result *types.DiscoveryResult) error {
	if result == nil || len(result.SeedURLs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range discoveredURLs(runID, result) {
		batch.Queue(
			`INSERT INTO discovered_urls (run_id, query, url, domain)
			 VALUES ($1, $2, $3, NULLIF($4, ''))
			 ON CONFLICT (run_id, url) DO NOTHING`,
			u.RunID, u.Query, u.URL, u.Domain,
		)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save discovered url: %w", err)
		}
	}
	return nil
}

// ListDiscoveredURLs returns the seed URLs recorded for a run
func (db *DB) ListDiscoveredURLs(ctx context.Context, runID uuid.UUID) ([]DiscoveredURL, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT run_id, query, url, COALESCE(domain, '')
		 FROM discovered_urls WHERE run_id = $1 ORDER BY created_at ASC, url ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list discovered urls: %w", err)
	}
	defer rows.Close()

	var urls []DiscoveredURL
	for rows.Next() {
		var u DiscoveredURL
		if err := rows.Scan(&u.RunID, &u.Query, &u.URL, &u.Domain); err != nil {
			return nil, fmt.Errorf("failed to scan discovered url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func discoveredURLs(runID uuid.UUID, result *types.DiscoveryResult) []DiscoveredURL {
	urls := make([]DiscoveredURL, 0, len(result.SeedURLs))
	for _, u := range result.SeedURLs {
		urls = append(urls, DiscoveredURL{
			RunID:  runID,
			Query:  result.Query,
			URL:    u,
			Domain: research.ExtractDomain(u),
		})
	}
	return urls
}
