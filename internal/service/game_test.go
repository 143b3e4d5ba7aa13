package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/hub"
	"github.com/okaytrev/softball-lineup/internal/ledger"
	"github.com/okaytrev/softball-lineup/internal/roster"
)

func newGame(t *testing.T) (*GameService, *fakeSheets, *capturePublisher, *roster.Roster) {
	t.Helper()
	r := roster.New()
	sheets := &fakeSheets{}
	live := &capturePublisher{}
	svc := NewGameService(r, sheets, live, nil, &config.Config{StatsSavedBy: "Stats Keeper"}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 6, 3, 19, 0, 0, 0, time.UTC) }
	return svc, sheets, live, r
}

func TestRecordAtBatUpdatesStatsAndPublishes(t *testing.T) {
	svc, _, live, _ := newGame(t)
	ctx := context.Background()

	out, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultDouble, RBI: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeRecorded, out.Outcome)
	assert.Equal(t, "Trevar", out.Player.Name)
	assert.Equal(t, 1, out.Player.Doubles)

	out, err = svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultSingle}, true)
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeCorrected, out.Outcome)
	assert.Equal(t, 0, out.Player.RBI)

	assert.Equal(t, []hub.EventType{hub.EventAtBat, hub.EventCorrection}, live.types())
	last := live.events[1]
	assert.Equal(t, "Trevar", last.PlayerName)
	assert.Equal(t, 1, last.Game.Team.Singles)
}

func TestRecordAtBatConflictAndInvalid(t *testing.T) {
	svc, _, live, _ := newGame(t)
	ctx := context.Background()

	_, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultOut}, false)
	require.NoError(t, err)

	_, err = svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultHomeRun}, false)
	var conflict *ledger.CorrectionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ResultOut, conflict.Existing.Result)

	_, err = svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 2, Result: domain.ResultSingle, RBI: 5}, false)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	assert.Len(t, live.types(), 1)
	assert.Equal(t, 1, svc.Snapshot().Team.AtBats)
}

func TestRecordAtCursor(t *testing.T) {
	svc, _, _, _ := newGame(t)
	ctx := context.Background()

	_, err := svc.RecordAtCursor(ctx, domain.ResultSingle, 0, 0, false)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	st, err := svc.SelectBatter(5)
	require.NoError(t, err)
	assert.Equal(t, ledger.StateNew, st.State)

	st, err = svc.SetAtBatNumber(3)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Cursor.AtBatNumber)

	out, err := svc.RecordAtCursor(ctx, domain.ResultTriple, 2, 1, false)
	require.NoError(t, err)
	assert.Equal(t, ledger.StateRecorded, out.Status.State)

	rec, ok := svc.HasRecord(5, 3)
	require.True(t, ok)
	assert.Equal(t, domain.ResultTriple, rec.Result)
	assert.Equal(t, 3, svc.HighestAtBatNumber())
	assert.Equal(t, ledger.StateRecorded, svc.Status().State)
}

func TestEndGameSavesAndResets(t *testing.T) {
	svc, sheets, live, r := newGame(t)
	ctx := context.Background()
	require.NoError(t, r.AssignPosition(roster.Pitcher, 2))
	require.NoError(t, r.AssignPosition(roster.Catcher, 1))

	_, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultSingle}, false)
	require.NoError(t, err)
	_, err = svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 1, Number: 1, Result: domain.ResultSacrificeFly, RBI: 1}, false)
	require.NoError(t, err)

	report, err := svc.EndGame(ctx)
	require.NoError(t, err)
	assert.True(t, report.Reset)
	assert.Equal(t, 2, report.Players)

	require.Len(t, sheets.games, 1)
	sub := sheets.games[0]
	assert.Equal(t, "Stats Keeper", sub.SavedBy)
	assert.Equal(t, []domain.Player{{ID: 2, Name: "Trevar"}, {ID: 1, Name: "Kyle H"}}, sub.Stats.BattingOrder)
	assert.Equal(t, 1, sub.Stats.GameStats["1"].SacrificeFlies)
	assert.Equal(t, 1, sub.Stats.GameStats["2"].Hits)

	assert.Empty(t, svc.Snapshot().Players)
	assert.Equal(t, hub.EventGameEnded, live.types()[len(live.types())-1])
}

func TestEndGameStampsConfiguredZone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	r := roster.New()
	sheets := &fakeSheets{}
	svc := NewGameService(r, sheets, &capturePublisher{}, nil, &config.Config{GameLocation: chicago}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 1, 30, 0, 0, time.UTC) }

	_, err = svc.RecordAtBat(context.Background(), ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultSingle}, false)
	require.NoError(t, err)
	_, err = svc.EndGame(context.Background())
	require.NoError(t, err)

	require.Len(t, sheets.games, 1)
	gameDate := sheets.games[0].Stats.GameDate
	assert.Equal(t, chicago, gameDate.Location())
	assert.Equal(t, "2026-10-17", domain.CalendarDate(gameDate).Format(domain.DateLayout))
}

func TestEndGameFailureKeepsGame(t *testing.T) {
	svc, sheets, _, _ := newGame(t)
	ctx := context.Background()
	sheets.saveErr = api.ErrPersistence

	_, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultSingle}, false)
	require.NoError(t, err)

	_, err = svc.EndGame(ctx)
	assert.ErrorIs(t, err, api.ErrPersistence)
	assert.Len(t, svc.Snapshot().Players, 1)

	sheets.saveErr = nil
	report, err := svc.EndGame(ctx)
	require.NoError(t, err)
	assert.True(t, report.Reset)
}

func TestEndGameKeepsAtBatsRecordedDuringSave(t *testing.T) {
	svc, sheets, _, _ := newGame(t)
	ctx := context.Background()

	_, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 2, Number: 1, Result: domain.ResultSingle}, false)
	require.NoError(t, err)

	sheets.duringFn = func() {
		_, err := svc.RecordAtBat(ctx, ledger.AtBat{PlayerID: 3, Number: 1, Result: domain.ResultOut}, false)
		if err != nil {
			panic(errors.New("record during save failed"))
		}
	}

	report, err := svc.EndGame(ctx)
	require.NoError(t, err)
	assert.False(t, report.Reset)
	assert.Len(t, svc.Snapshot().Players, 2)
}

func TestClearGame(t *testing.T) {
	svc, sheets, live, _ := newGame(t)
	ctx := context.Background()

	_, err := svc.SelectBatter(2)
	require.NoError(t, err)
	_, err = svc.RecordAtCursor(ctx, domain.ResultSingle, 0, 0, false)
	require.NoError(t, err)

	svc.ClearGame()
	assert.Empty(t, svc.Snapshot().Players)
	assert.Equal(t, ledger.StateNoBatter, svc.Status().State)
	assert.Empty(t, sheets.games)
	assert.Equal(t, hub.EventGameCleared, live.types()[len(live.types())-1])
}
