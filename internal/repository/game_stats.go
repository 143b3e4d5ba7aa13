package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/db"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

// StatRowRepository is the "Game Stats" sheet: one row per player per game.
type StatRowRepository struct {
	queries    *db.Queries
	db         *sql.DB
	convention stats.Convention
	logger     zerolog.Logger
	now        func() time.Time
}

func NewStatRowRepository(sqlDB *sql.DB, queries *db.Queries, cfg *config.Config, logger zerolog.Logger) *StatRowRepository {
	return &StatRowRepository{
		queries:    queries,
		db:         sqlDB,
		convention: cfg.Convention,
		logger:     logger,
		now:        time.Now,
	}
}

// AppendGame writes a row for every player in the submission, in player id
// order, all or nothing. It returns the number of rows written.
func (r *StatRowRepository) AppendGame(ctx context.Context, sub domain.GameSubmission) (int, error) {
	if sub.Stats.GameDate.IsZero() {
		return 0, fmt.Errorf("game date is required")
	}
	gameDate := domain.CalendarDate(sub.Stats.GameDate).Format(domain.DateLayout)
	savedBy := savedByOrDefault(sub.SavedBy)
	createdAt := r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	keys := sortedPlayerKeys(sub.Stats.GameStats)
	for _, key := range keys {
		ps := sub.Stats.GameStats[key]
		id, err := gonanoid.New()
		if err != nil {
			return 0, fmt.Errorf("failed to generate nanoid: %w", err)
		}

		attempts := len(ps.AtBats)
		err = qtx.InsertGameStat(ctx, db.InsertGameStatParams{
			ID:             id,
			GameDate:       gameDate,
			PlayerName:     ps.Name,
			AtBats:         int64(attempts),
			Hits:           int64(ps.Hits),
			Singles:        int64(ps.Singles),
			Doubles:        int64(ps.Doubles),
			Triples:        int64(ps.Triples),
			HomeRuns:       int64(ps.HomeRuns),
			BattingAverage: r.convention.Average(ps.Hits, attempts, ps.SacrificeFlies),
			Outs:           int64(ps.Outs),
			SacrificeFlies: int64(ps.SacrificeFlies),
			Rbi:            int64(ps.RBI),
			Runs:           int64(ps.Runs),
			SavedBy:        savedBy,
			CreatedAt:      createdAt,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert game stat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit game stats: %w", err)
	}

	r.logger.Info().
		Str("game_date", gameDate).
		Int("rows", len(keys)).
		Str("saved_by", savedBy).
		Msg("game stats appended")
	return len(keys), nil
}

// List returns every row in insertion order.
func (r *StatRowRepository) List(ctx context.Context) ([]domain.HistoricalStatRow, error) {
	records, err := r.queries.ListGameStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game stats: %w", err)
	}

	rows := make([]domain.HistoricalStatRow, 0, len(records))
	for _, rec := range records {
		date, err := domain.ParseGameDate(rec.GameDate)
		if err != nil {
			r.logger.Warn().Err(err).Str("id", rec.ID).Msg("skipping row with unreadable game date")
			continue
		}
		rows = append(rows, domain.HistoricalStatRow{
			GameDate:       date,
			PlayerName:     rec.PlayerName,
			AtBats:         int(rec.AtBats),
			Hits:           int(rec.Hits),
			Singles:        int(rec.Singles),
			Doubles:        int(rec.Doubles),
			Triples:        int(rec.Triples),
			HomeRuns:       int(rec.HomeRuns),
			SacrificeFlies: int(rec.SacrificeFlies),
			Outs:           int(rec.Outs),
			Runs:           int(rec.Runs),
			RBI:            int(rec.Rbi),
			BattingAverage: rec.BattingAverage,
		})
	}
	return rows, nil
}

func (r *StatRowRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountGameStats(ctx)
	return int(n), err
}

// sortedPlayerKeys orders numeric ids numerically and anything else after them.
func sortedPlayerKeys(m map[string]domain.PlayerGameStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}
