package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/db"
	"github.com/okaytrev/softball-lineup/internal/domain"
)

// LineupRepository is the lineup sheet. Only the newest rows are kept.
type LineupRepository struct {
	queries  *db.Queries
	db       *sql.DB
	retained int
	logger   zerolog.Logger
	now      func() time.Time
}

func NewLineupRepository(sqlDB *sql.DB, queries *db.Queries, cfg *config.Config, logger zerolog.Logger) *LineupRepository {
	return &LineupRepository{
		queries:  queries,
		db:       sqlDB,
		retained: cfg.LineupRetained,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *LineupRepository) Append(ctx context.Context, lineup domain.Lineup, savedBy string) error {
	data, err := json.Marshal(lineup)
	if err != nil {
		return fmt.Errorf("failed to encode lineup: %w", err)
	}
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertLineup(ctx, db.InsertLineupParams{
		ID:         id,
		LineupData: string(data),
		SavedBy:    savedByOrDefault(savedBy),
		CreatedAt:  r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert lineup: %w", err)
	}

	if r.retained > 0 {
		if err := qtx.TrimLineups(ctx, int64(r.retained)); err != nil {
			return fmt.Errorf("failed to trim lineups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lineup: %w", err)
	}

	r.logger.Info().Str("id", id).Int("slots", len(lineup.BattingLineup)).Msg("lineup saved")
	return nil
}

// Latest returns the most recently saved lineup or ErrNotFound.
func (r *LineupRepository) Latest(ctx context.Context) (domain.LineupRecord, error) {
	row, err := r.queries.GetLatestLineup(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LineupRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.LineupRecord{}, fmt.Errorf("failed to get latest lineup: %w", err)
	}

	var lineup domain.Lineup
	if err := json.Unmarshal([]byte(row.LineupData), &lineup); err != nil {
		return domain.LineupRecord{}, fmt.Errorf("failed to decode lineup %s: %w", row.ID, err)
	}
	return domain.LineupRecord{
		Timestamp: row.CreatedAt,
		Lineup:    lineup,
		SavedBy:   row.SavedBy,
	}, nil
}

func (r *LineupRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountLineups(ctx)
	return int(n), err
}
