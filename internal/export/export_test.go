package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

func TestStatsCSV(t *testing.T) {
	rows := []domain.HistoricalStatRow{
		{
			GameDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), PlayerName: "Kyle H",
			AtBats: 4, Hits: 2, Singles: 1, HomeRuns: 1, Outs: 1, SacrificeFlies: 1, RBI: 3,
			BattingAverage: "0.667",
		},
		{
			GameDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), PlayerName: "Smith, Jr",
			AtBats: 2, Hits: 1, Singles: 1, Outs: 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, StatsCSV(&buf, rows, stats.SacrificeFlyAware))

	want := "Game Date,Player Name,At Bats,Hits,Singles,Doubles,Triples,Home Runs,Batting Average,Outs,Fielders Choice,RBI\n" +
		"6/3/2025,Kyle H,4,2,1,0,0,1,0.667,1,1,3\n" +
		"6/10/2025,\"Smith, Jr\",2,1,1,0,0,0,0.500,1,0,0\n"
	assert.Equal(t, want, buf.String())
}

func TestLineupCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LineupCSV(&buf, []domain.LineupSlot{
		{ID: 2, Name: "Trevar", Position: "pitcher"},
		{ID: 6, Name: "Andy", Position: "dh1"},
		{ID: 9, Name: "Jaspen"},
	}))
	assert.Equal(t, "Order,Name,Position\n1,Trevar,P\n2,Andy,DH\n3,Jaspen,\n", buf.String())
}

func TestFilenames(t *testing.T) {
	day := time.Date(2025, 6, 3, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "softball_lineup_2025-06-03.csv", LineupFilename(day))
	assert.Equal(t, "softball_stats_2025-06-03.csv", StatsFilename(day))
}

func TestRosterText(t *testing.T) {
	got := RosterText([]domain.Player{{ID: 1, Name: "Kyle H"}, {ID: 2, Name: "Trevar"}})
	assert.Equal(t, "Team Roster:\n\n1. Kyle H\n2. Trevar\n", got)
}

func TestLineupText(t *testing.T) {
	got := LineupText([]domain.LineupSlot{
		{ID: 2, Name: "Trevar", Position: "first-base"},
		{ID: 3, Name: "Jayson G"},
	})
	assert.Equal(t, "Batting Lineup:\n\n1. Trevar (1B)\n2. Jayson G\n", got)
}

func TestBoxScoreText(t *testing.T) {
	assert.Equal(t, "No stats recorded yet\n", BoxScoreText(domain.GameSnapshot{}))

	game := domain.GameSnapshot{
		Players: []domain.PlayerGameStats{{
			PlayerID: 2, Name: "Trevar",
			AtBats: []domain.AtBatRecord{
				{Number: 1, Result: domain.ResultDouble, RBI: 2},
				{Number: 2, Result: domain.ResultSacrificeFly, RBI: 1},
				{Number: 3, Result: domain.ResultHomeRun, RBI: 1, Runs: 1},
			},
			Hits: 2, Doubles: 1, HomeRuns: 1, SacrificeFlies: 1, RBI: 4, Runs: 1,
		}},
		Team: domain.TeamStats{Average: "1.000", Hits: 2, OfficialAtBats: 2, Runs: 1, RBI: 4, ExtraBaseHits: 2},
	}

	want := "Trevar\n" +
		"AVG: 1.000 (2-2) | Runs: 1 | RBI: 4\n" +
		"1B: 0 | 2B: 1 | 3B: 0 | HR: 1 | XBH: 2\n" +
		"Outs: 0 | SF: 1\n" +
		"At-Bats: #1: 2B (2 RBI) | #2: SF (1 RBI) | #3: HR (1 RBI) ®\n" +
		"\nTeam: AVG 1.000 (2-2) | Runs: 1 | RBI: 4 | XBH: 2\n"
	assert.Equal(t, want, BoxScoreText(game))
}
