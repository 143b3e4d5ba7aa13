package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/constants"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/roster"
)

func newLineup(t *testing.T) (*LineupService, *fakeSheets, *memoryStore, *roster.Roster) {
	t.Helper()
	r := roster.New()
	sheets := &fakeSheets{}
	store := newMemoryStore()
	svc := NewLineupService(r, sheets, store, nil, &config.Config{LineupSavedBy: "Coach"}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC) }
	return svc, sheets, store, r
}

func TestLineupMutationsPersistSnapshot(t *testing.T) {
	svc, _, store, _ := newLineup(t)
	ctx := context.Background()

	p, err := svc.AddPlayer(ctx, "Guest")
	require.NoError(t, err)
	require.NoError(t, svc.AssignPosition(ctx, roster.Shortstop, p.ID))
	require.NoError(t, svc.AssignPosition(ctx, roster.Pitcher, 2))
	require.NoError(t, svc.MoveInLineup(ctx, 2, 0))

	raw, err := store.Get(ctx, constants.LocalSnapshotKey)
	require.NoError(t, err)
	var snap roster.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, []int{2, 100}, snap.BattingLineup)
	assert.Equal(t, map[string]int{"shortstop": 100, "pitcher": 2}, snap.FieldPositions)
	assert.Len(t, snap.Teammates, 13)
	assert.Equal(t, 4, store.puts)
}

func TestLineupRejectedChangeDoesNotPersist(t *testing.T) {
	svc, _, store, _ := newLineup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AssignPosition(ctx, "bullpen", 1), roster.ErrInvalid)
	assert.ErrorIs(t, svc.RemovePlayer(ctx, 404), roster.ErrInvalid)
	assert.Zero(t, store.puts)
}

func TestRestoreFromSnapshot(t *testing.T) {
	svc, _, store, r := newLineup(t)
	ctx := context.Background()

	require.NoError(t, svc.Restore(ctx), "missing snapshot is fine")
	assert.Len(t, r.Teammates(), 12)

	data, err := json.Marshal(roster.Snapshot{
		FieldPositions: map[string]int{"catcher": 4},
		BattingLineup:  []int{4},
		Teammates:      []domain.Player{{ID: 4, Name: "Kyle P"}, {ID: 120, Name: "Ringer"}},
	})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, constants.LocalSnapshotKey, data))

	require.NoError(t, svc.Restore(ctx))
	state := svc.State()
	assert.Len(t, state.Teammates, 2)
	assert.Equal(t, []domain.LineupSlot{{ID: 4, Name: "Kyle P", Position: "catcher"}}, state.BattingLineup)
	assert.Equal(t, []domain.Player{{ID: 120, Name: "Ringer"}}, state.Available)
}

func TestRestoreIgnoresCorruptSnapshot(t *testing.T) {
	svc, _, store, r := newLineup(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, constants.LocalSnapshotKey, []byte("{not json")))

	require.NoError(t, svc.Restore(ctx))
	assert.Len(t, r.Teammates(), 12)
}

func TestSaveToCloud(t *testing.T) {
	svc, sheets, _, _ := newLineup(t)
	ctx := context.Background()
	require.NoError(t, svc.AssignPosition(ctx, roster.FirstBase, 3))

	lineup, err := svc.SaveToCloud(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC), lineup.SavedAt)

	require.Len(t, sheets.lineups, 1)
	assert.Equal(t, "Coach", sheets.lineups[0].SavedBy)
	assert.Equal(t, []domain.LineupSlot{{ID: 3, Name: "Jayson G", Position: "first-base"}}, sheets.lineups[0].Lineup.BattingLineup)

	sheets.saveErr = api.ErrPersistence
	_, err = svc.SaveToCloud(ctx)
	assert.ErrorIs(t, err, api.ErrPersistence)
}

func TestLoadFromCloud(t *testing.T) {
	svc, sheets, store, r := newLineup(t)
	ctx := context.Background()
	require.NoError(t, svc.AssignPosition(ctx, roster.Pitcher, 1))

	sheets.lineErr = api.ErrNoData
	_, err := svc.LoadFromCloud(ctx)
	assert.ErrorIs(t, err, api.ErrNoData)
	assert.Equal(t, map[string]int{"pitcher": 1}, r.FieldPositions(), "failed load keeps local state")

	sheets.lineErr = nil
	sheets.last = &domain.LineupRecord{
		SavedBy: "Coach",
		Lineup: domain.Lineup{
			FieldPositions: map[string]int{"catcher": 6},
			BattingLineup:  []domain.LineupSlot{{ID: 6, Name: "Andy", Position: "catcher"}},
		},
	}
	puts := store.puts
	rec, err := svc.LoadFromCloud(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Coach", rec.SavedBy)
	assert.Equal(t, map[string]int{"catcher": 6}, r.FieldPositions())
	assert.Equal(t, puts+1, store.puts)
}

func TestResets(t *testing.T) {
	svc, _, _, r := newLineup(t)
	ctx := context.Background()
	_, err := svc.AddPlayer(ctx, "Guest")
	require.NoError(t, err)
	require.NoError(t, svc.AssignPosition(ctx, roster.Pitcher, 100))
	require.NoError(t, svc.RemoveFromField(ctx, 100))
	require.NoError(t, svc.AssignPosition(ctx, roster.Catcher, 100))

	svc.ResetField(ctx)
	assert.Empty(t, r.FieldPositions())
	assert.Len(t, r.Teammates(), 13)

	svc.ResetRoster(ctx)
	assert.Len(t, r.Teammates(), 12)
}
