package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/metrics"
	"github.com/okaytrev/softball-lineup/internal/repository"
	"github.com/okaytrev/softball-lineup/internal/roster"
)

// LineupService edits the roster and keeps its local snapshot current.
type LineupService struct {
	roster  *roster.Roster
	cloud   LineupStore
	local   SnapshotStore
	metrics *metrics.Recorder
	savedBy string
	logger  zerolog.Logger
	now     func() time.Time
}

func NewLineupService(r *roster.Roster, cloud LineupStore, local SnapshotStore, rec *metrics.Recorder, cfg *config.Config, logger zerolog.Logger) *LineupService {
	return &LineupService{
		roster:  r,
		cloud:   cloud,
		local:   local,
		metrics: rec,
		savedBy: cfg.LineupSavedBy,
		logger:  logger,
		now:     time.Now,
	}
}

// RosterState is the whole roster view.
type RosterState struct {
	Teammates      []domain.Player     `json:"teammates"`
	Available      []domain.Player     `json:"available"`
	FieldPositions map[string]int      `json:"fieldPositions"`
	BattingLineup  []domain.LineupSlot `json:"battingLineup"`
}

func (s *LineupService) State() RosterState {
	return RosterState{
		Teammates:      s.roster.Teammates(),
		Available:      s.roster.Available(),
		FieldPositions: s.roster.FieldPositions(),
		BattingLineup:  s.roster.BattingLineup(),
	}
}

// Restore loads the saved snapshot, if any. A missing or unreadable
// snapshot leaves the default roster in place.
func (s *LineupService) Restore(ctx context.Context) error {
	data, err := s.local.Get(ctx, constants.LocalSnapshotKey)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info().Msg("no saved roster, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load roster snapshot: %w", err)
	}

	var snap roster.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Msg("saved roster is unreadable, using defaults")
		return nil
	}
	s.roster.Restore(snap)
	s.logger.Info().
		Int("teammates", len(s.roster.Teammates())).
		Int("batting", len(snap.BattingLineup)).
		Msg("roster restored")
	return nil
}

func (s *LineupService) AddPlayer(ctx context.Context, name string) (domain.Player, error) {
	p, err := s.roster.AddPlayer(name)
	if err != nil {
		return domain.Player{}, err
	}
	s.persist(ctx)
	s.logger.Info().Int("player_id", p.ID).Str("name", p.Name).Msg("player added")
	return p, nil
}

func (s *LineupService) RemovePlayer(ctx context.Context, id int) error {
	return s.mutate(ctx, s.roster.RemovePlayer(id))
}

func (s *LineupService) AssignPosition(ctx context.Context, pos roster.Position, id int) error {
	return s.mutate(ctx, s.roster.AssignPosition(pos, id))
}

func (s *LineupService) RemoveFromField(ctx context.Context, id int) error {
	return s.mutate(ctx, s.roster.RemoveFromField(id))
}

func (s *LineupService) MoveInLineup(ctx context.Context, id, index int) error {
	return s.mutate(ctx, s.roster.MoveInLineup(id, index))
}

func (s *LineupService) ResetRoster(ctx context.Context) {
	s.roster.ResetRoster()
	s.persist(ctx)
}

func (s *LineupService) ResetField(ctx context.Context) {
	s.roster.ResetField()
	s.persist(ctx)
}

// SaveToCloud posts the current lineup for the rest of the team.
func (s *LineupService) SaveToCloud(ctx context.Context) (domain.Lineup, error) {
	lineup := s.roster.Lineup(s.now().UTC())

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	start := time.Now()
	err := s.cloud.SaveLineup(ctx, domain.LineupSubmission{Lineup: lineup, SavedBy: s.savedBy})
	s.metrics.Saved(ctx, "lineup", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Msg("cloud save failed, lineup kept locally")
		return domain.Lineup{}, fmt.Errorf("failed to save lineup: %w", err)
	}
	return lineup, nil
}

// LoadFromCloud replaces the local roster with the last saved lineup. On
// any failure the local roster stays as it was.
func (s *LineupService) LoadFromCloud(ctx context.Context) (*domain.LineupRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	rec, err := s.cloud.LoadLineup(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cloud lineup not loaded")
		return nil, err
	}
	s.roster.ApplyLineup(rec.Lineup)
	s.persist(ctx)
	s.logger.Info().Time("saved_at", rec.Timestamp).Str("saved_by", rec.SavedBy).Msg("lineup loaded from cloud")
	return rec, nil
}

func (s *LineupService) mutate(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// persist writes the snapshot. The in-memory roster stays authoritative if
// the write fails.
func (s *LineupService) persist(ctx context.Context) {
	data, err := json.Marshal(s.roster.Snapshot())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode roster snapshot")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.local.Put(ctx, constants.LocalSnapshotKey, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to store roster snapshot")
	}
}
