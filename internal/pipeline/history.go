package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/tetun-corpus/internal/db"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/types"
)

// history records runs in the database. Without a database every method is
// a no-op, and write failures are logged rather than returned.
type history struct {
	db    *db.DB
	runID uuid.UUID
	log   logging.Logger
}

func openHistory(ctx context.Context, databaseURL string, log logging.Logger) *history {
	h := &history{log: log}
	if databaseURL == "" {
		return h
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		log.Warn("failed to connect to database, continuing without run history", logging.Error(err))
		return h
	}
	if err := database.EnsureSchema(ctx); err != nil {
		log.Warn("failed to prepare database, continuing without run history", logging.Error(err))
		database.Close()
		return h
	}
	h.db = database
	return h
}

func (h *history) enabled() bool {
	return h.db != nil && h.runID != uuid.Nil
}

func (h *history) start(ctx context.Context, command string, params map[string]any) {
	if h.db == nil {
		return
	}
	id, err := h.db.CreateRun(ctx, command, params)
	if err != nil {
		h.log.Warn("failed to record run", logging.Error(err))
		return
	}
	h.runID = id
	h.log.Debug("run recorded", logging.String("run_id", id.String()))
}

func (h *history) artifact(ctx context.Context, step string, content any) {
	if !h.enabled() {
		return
	}
	if err := h.db.SaveArtifact(ctx, h.runID, step, content); err != nil {
		h.log.Warn("failed to save artifact", logging.String("step", step), logging.Error(err))
	}
}

func (h *history) text(ctx context.Context, step, text string) {
	if !h.enabled() {
		return
	}
	if err := h.db.SaveTextArtifact(ctx, h.runID, step, text); err != nil {
		h.log.Warn("failed to save artifact", logging.String("step", step), logging.Error(err))
	}
}

func (h *history) discovered(ctx context.Context, result *types.DiscoveryResult) {
	if !h.enabled() {
		return
	}
	if err := h.db.SaveDiscoveredURLs(ctx, h.runID, result); err != nil {
		h.log.Warn("failed to save discovered urls", logging.Error(err))
	}
}

func (h *history) complete(ctx context.Context) {
	if !h.enabled() {
		return
	}
	if err := h.db.CompleteRun(ctx, h.runID, db.RunStatusCompleted); err != nil {
		h.log.Warn("failed to complete run", logging.Error(err))
	}
}

func (h *history) fail(ctx context.Context, runErr error) {
	if !h.enabled() {
		return
	}
	if err := h.db.FailRun(ctx, h.runID, runErr); err != nil {
		h.log.Warn("failed to mark run failed", logging.Error(err))
	}
}

func (h *history) close() {
	if h.db != nil {
		h.db.Close()
	}
}
