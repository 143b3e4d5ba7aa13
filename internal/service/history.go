package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/history"
)

type HistoryService struct {
	source     HistorySource
	aggregator history.Aggregator
	recent     int
	logger     zerolog.Logger
}

func NewHistoryService(source HistorySource, cfg *config.Config, logger zerolog.Logger) *HistoryService {
	return &HistoryService{
		source:     source,
		aggregator: history.NewAggregator(cfg.Convention),
		recent:     cfg.RecentGames,
		logger:     logger,
	}
}

// Report is the history page. Players lists every name in the sheet so a
// filter can be widened again; everything else reflects the filter.
type Report struct {
	Rows       []domain.HistoricalStatRow `json:"rows"`
	Players    []string                   `json:"players"`
	Leaders    []history.PlayerTotals     `json:"leaders"`
	Games      []history.GameGroup        `json:"games"`
	Summary    history.Summary            `json:"summary"`
	LastLineup *domain.LineupRecord       `json:"lastLineup,omitempty"`
	Empty      bool                       `json:"empty"`
}

// Report loads the sheet and aggregates it. An empty sheet is an empty
// report, not an error.
func (s *HistoryService) Report(ctx context.Context, f history.Filter) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var rows []domain.HistoricalStatRow
	var lineup *domain.LineupRecord

	g.Go(func() error {
		var err error
		rows, err = s.source.LoadStats(gCtx)
		if errors.Is(err, api.ErrNoData) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		var err error
		lineup, err = s.source.LoadLineup(gCtx)
		if err != nil && !errors.Is(err, api.ErrNoData) {
			s.logger.Warn().Err(err).Msg("last lineup unavailable for history")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load historical stats")
		return nil, fmt.Errorf("failed to load historical stats: %w", err)
	}

	filtered := s.aggregator.Filter(rows, f)
	report := &Report{
		Rows:       filtered,
		Players:    history.Players(rows),
		Leaders:    s.aggregator.GroupByPlayer(filtered),
		Games:      s.aggregator.GroupByGame(filtered, s.recent),
		Summary:    s.aggregator.Summarize(filtered),
		LastLineup: lineup,
		Empty:      len(filtered) == 0,
	}

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("matched", len(filtered)).
		Str("player", f.PlayerName).
		Msg("history report built")
	return report, nil
}
