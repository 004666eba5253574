package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS corpus_runs (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    command       TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'running',
    parameters    JSONB,
    error_message TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_corpus_runs_created_at ON corpus_runs (created_at DESC);

CREATE TABLE IF NOT EXISTS run_artifacts (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    run_id       UUID NOT NULL REFERENCES corpus_runs (id) ON DELETE CASCADE,
    step         TEXT NOT NULL,
    content      JSONB,
    text_content TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (run_id, step)
);

CREATE TABLE IF NOT EXISTS discovered_urls (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    run_id     UUID NOT NULL REFERENCES corpus_runs (id) ON DELETE CASCADE,
    query      TEXT NOT NULL,
    url        TEXT NOT NULL,
    domain     TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (run_id, url)
);
`
