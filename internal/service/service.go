package service

import (
	"context"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/hub"
)

// GameSaver receives the end-of-game envelope.
type GameSaver interface {
	SaveGameStats(ctx context.Context, sub domain.GameSubmission) error
}

type LineupStore interface {
	SaveLineup(ctx context.Context, sub domain.LineupSubmission) error
	LoadLineup(ctx context.Context) (*domain.LineupRecord, error)
}

type HistorySource interface {
	LoadStats(ctx context.Context) ([]domain.HistoricalStatRow, error)
	LoadLineup(ctx context.Context) (*domain.LineupRecord, error)
}

// SnapshotStore keeps the roster between restarts.
type SnapshotStore interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type Publisher interface {
	Publish(ev hub.Event)
}
