package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/db"
)

// LocalStateRepository is a small key/value store for state the operator's
// device would otherwise keep in browser storage.
type LocalStateRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewLocalStateRepository(queries *db.Queries, logger zerolog.Logger) *LocalStateRepository {
	return &LocalStateRepository{queries: queries, logger: logger}
}

func (r *LocalStateRepository) Put(ctx context.Context, key string, value []byte) error {
	err := r.queries.UpsertLocalState(ctx, db.UpsertLocalStateParams{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	r.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("local state stored")
	return nil
}

func (r *LocalStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	row, err := r.queries.GetLocalState(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(row.Value), nil
}
