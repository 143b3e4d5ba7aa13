package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/hub"
	"github.com/okaytrev/softball-lineup/internal/ledger"
	"github.com/okaytrev/softball-lineup/internal/metrics"
	"github.com/okaytrev/softball-lineup/internal/roster"
)

// GameService owns the game in progress. Requests arrive concurrently, so
// every ledger access goes through mu.
type GameService struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	version int

	roster  *roster.Roster
	saver   GameSaver
	live    Publisher
	metrics *metrics.Recorder
	savedBy string
	logger  zerolog.Logger
	now     func() time.Time
	loc     *time.Location
}

func NewGameService(r *roster.Roster, saver GameSaver, live Publisher, rec *metrics.Recorder, cfg *config.Config, logger zerolog.Logger) *GameService {
	return &GameService{
		ledger:  ledger.New(r),
		roster:  r,
		saver:   saver,
		live:    live,
		metrics: rec,
		savedBy: cfg.StatsSavedBy,
		logger:  logger,
		now:     time.Now,
		loc:     gameLocation(cfg),
	}
}

func gameLocation(cfg *config.Config) *time.Location {
	if cfg.GameLocation == nil {
		return time.Local
	}
	return cfg.GameLocation
}

// RecordOutcome is what the operator sees after an entry.
type RecordOutcome struct {
	Outcome ledger.Outcome         `json:"outcome"`
	Player  domain.PlayerGameStats `json:"player"`
	Status  ledger.Status          `json:"status"`
}

// SaveReport describes a finished hand-off.
type SaveReport struct {
	GameDate time.Time `json:"gameDate"`
	Players  int       `json:"players"`
	// Reset is false when at-bats arrived while the save was in flight;
	// the ledger is then kept so nothing recorded is lost.
	Reset bool `json:"reset"`
}

func (s *GameService) SelectBatter(playerID int) (ledger.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.SelectBatter(playerID); err != nil {
		return ledger.Status{}, err
	}
	return s.ledger.Status(), nil
}

func (s *GameService) SetAtBatNumber(number int) (ledger.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.SetAtBatNumber(number); err != nil {
		return ledger.Status{}, err
	}
	return s.ledger.Status(), nil
}

func (s *GameService) Status() ledger.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Status()
}

func (s *GameService) HasRecord(playerID, number int) (domain.AtBatRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HasRecord(playerID, number)
}

// RecordAtBat records ab, or corrects it when replace is set. An existing
// entry without replace comes back as a *ledger.CorrectionConflictError.
func (s *GameService) RecordAtBat(ctx context.Context, ab ledger.AtBat, replace bool) (RecordOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(ctx, func() (ledger.Outcome, error) {
		return s.ledger.RecordResult(ab, replace)
	}, ab.PlayerID, ab.Number)
}

// RecordAtCursor records for the selected batter and at-bat number.
func (s *GameService) RecordAtCursor(ctx context.Context, result domain.AtBatResult, rbi, runs int, replace bool) (RecordOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.ledger.Cursor()
	return s.record(ctx, func() (ledger.Outcome, error) {
		return s.ledger.RecordAtCursor(result, rbi, runs, replace)
	}, cur.PlayerID, cur.AtBatNumber)
}

func (s *GameService) record(ctx context.Context, fn func() (ledger.Outcome, error), playerID, number int) (RecordOutcome, error) {
	outcome, err := fn()
	if err != nil {
		var conflict *ledger.CorrectionConflictError
		switch {
		case errors.As(err, &conflict):
			s.metrics.AtBatRejected(ctx, "conflict")
			s.logger.Debug().
				Int("player_id", playerID).
				Int("at_bat", number).
				Str("existing", string(conflict.Existing.Result)).
				Msg("at-bat already recorded, awaiting confirmation")
		case errors.Is(err, ledger.ErrInvalidInput):
			s.metrics.AtBatRejected(ctx, "invalid_input")
			s.logger.Warn().Err(err).Int("player_id", playerID).Msg("at-bat rejected")
		default:
			s.metrics.AtBatRejected(ctx, "other")
			s.logger.Error().Err(err).Int("player_id", playerID).Msg("at-bat failed")
		}
		return RecordOutcome{}, err
	}

	s.version++
	ps, _ := s.ledger.Stats(playerID)
	rec, _ := s.ledger.HasRecord(playerID, number)

	s.metrics.AtBatRecorded(ctx, string(rec.Result), string(outcome))
	s.logger.Info().
		Str("player", ps.Name).
		Int("at_bat", number).
		Str("result", string(rec.Result)).
		Int("rbi", rec.RBI).
		Int("runs", rec.Runs).
		Str("outcome", string(outcome)).
		Msg("at-bat recorded")

	evType := hub.EventAtBat
	if outcome == ledger.OutcomeCorrected {
		evType = hub.EventCorrection
	}
	s.publish(hub.Event{Type: evType, PlayerID: playerID, PlayerName: ps.Name, AtBat: &rec})

	return RecordOutcome{Outcome: outcome, Player: ps, Status: s.ledger.Status()}, nil
}

func (s *GameService) Snapshot() domain.GameSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// HighestAtBatNumber is the furthest anyone has batted this game.
func (s *GameService) HighestAtBatNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HighestAtBatNumber()
}

// EndGame hands the game to the spreadsheet and starts a new one. On failure
// the game is kept as is so the operator can retry.
func (s *GameService) EndGame(ctx context.Context) (SaveReport, error) {
	s.mu.Lock()
	sub := domain.GameSubmission{
		SavedBy: s.savedBy,
		Stats: domain.GameStatsPayload{
			GameDate:     s.now().In(s.loc),
			GameStats:    s.ledger.GameStats(),
			BattingOrder: s.roster.BattingOrder(),
		},
	}
	version := s.version
	s.mu.Unlock()

	if len(sub.Stats.GameStats) == 0 {
		s.logger.Warn().Msg("ending a game with no at-bats recorded")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	start := time.Now()
	err := s.saver.SaveGameStats(ctx, sub)
	s.metrics.Saved(ctx, "game", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Int("players", len(sub.Stats.GameStats)).Msg("failed to save game, keeping it locally")
		return SaveReport{}, fmt.Errorf("failed to save game: %w", err)
	}

	report := SaveReport{GameDate: sub.Stats.GameDate, Players: len(sub.Stats.GameStats)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		s.logger.Warn().Msg("game changed while saving, not resetting")
		return report, nil
	}
	s.ledger.Reset()
	s.version++
	report.Reset = true

	s.logger.Info().Int("players", report.Players).Msg("game saved, starting new game")
	s.publish(hub.Event{Type: hub.EventGameEnded})
	return report, nil
}

// ClearGame discards the game without saving.
func (s *GameService) ClearGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Reset()
	s.version++
	s.logger.Info().Msg("game cleared")
	s.publish(hub.Event{Type: hub.EventGameCleared})
}

// publish must be called with mu held.
func (s *GameService) publish(ev hub.Event) {
	if s.live == nil {
		return
	}
	ev.Game = s.ledger.Snapshot()
	ev.Timestamp = s.now()
	s.live.Publish(ev)
}
