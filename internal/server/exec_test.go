package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/database"
	"github.com/okaytrev/softball-lineup/internal/db"
	"github.com/okaytrev/softball-lineup/internal/repository"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

func newSheetHandler(t *testing.T) *SheetHandler {
	t.Helper()
	sqlDB, err := database.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	cfg := &config.Config{Convention: stats.SacrificeFlyAware, LineupRetained: 100}
	return NewSheetHandler(
		repository.NewStatRowRepository(sqlDB, queries, cfg, zerolog.Nop()),
		repository.NewLineupRepository(sqlDB, queries, cfg, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func exec[T any](t *testing.T, h http.Handler, method, target, body string) T {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSheetEmpty(t *testing.T) {
	h := newSheetHandler(t)

	st := exec[api.StatsResponse](t, h, http.MethodGet, "/exec?type=stats", "")
	assert.Equal(t, "No stats data found", st.Error)

	ln := exec[api.LineupResponse](t, h, http.MethodGet, "/exec", "")
	assert.Equal(t, "No lineup data found", ln.Error)
}

func TestSheetPostStats(t *testing.T) {
	h := newSheetHandler(t)

	body := `{
		"stats": {
			"gameDate": "2025-06-03T23:15:00Z",
			"gameStats": {
				"2": {"id": 2, "name": "Trevar", "atBats": [{"number": 1, "result": "single"}, {"number": 2, "result": "sacrifice-fly"}],
				      "hits": 1, "singles": 1, "sacrificeFly": 1, "rbi": 2, "runs": 1}
			},
			"battingOrder": [{"id": 2, "name": "Trevar"}]
		},
		"savedBy": "Stats Keeper"
	}`
	resp := exec[api.PostResponse](t, h, http.MethodPost, "/exec", body)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)

	st := exec[api.StatsResponse](t, h, http.MethodGet, "/exec?type=stats", "")
	require.Len(t, st.Stats, 1)
	row := st.Stats[0]
	assert.Equal(t, "Trevar", row.PlayerName)
	assert.Equal(t, "2025-06-03", row.GameDate.Format("2006-01-02"))
	assert.Equal(t, 2, row.AtBats)
	assert.Equal(t, 1, row.SacrificeFlies)
	assert.Equal(t, 2, row.RBI)
	assert.Equal(t, "1.000", row.BattingAverage)
}

func TestSheetPostStatsKeepsOffsetDay(t *testing.T) {
	h := newSheetHandler(t)

	body := `{"stats": {"gameDate": "2026-10-17T20:30:00-05:00",
		"gameStats": {"2": {"id": 2, "name": "Trevar", "atBats": [{"number": 1, "result": "double"}], "hits": 1, "doubles": 1}}}}`
	resp := exec[api.PostResponse](t, h, http.MethodPost, "/exec", body)
	require.True(t, resp.Success)

	st := exec[api.StatsResponse](t, h, http.MethodGet, "/exec?type=stats", "")
	require.Len(t, st.Stats, 1)
	assert.Equal(t, "2026-10-17", st.Stats[0].GameDate.Format("2006-01-02"))
}

func TestSheetPostLineupDefaultsSavedBy(t *testing.T) {
	h := newSheetHandler(t)

	body := `{"lineup": {"fieldPositions": {"pitcher": 2}, "battingLineup": [{"id": 2, "name": "Trevar", "position": "pitcher"}],
		"teammates": [{"id": 2, "name": "Trevar"}], "savedAt": "2025-06-03T18:00:00Z"}}`
	resp := exec[api.PostResponse](t, h, http.MethodPost, "/exec", body)
	assert.True(t, resp.Success)

	ln := exec[api.LineupResponse](t, h, http.MethodGet, "/exec", "")
	assert.Empty(t, ln.Error)
	assert.Equal(t, repository.DefaultSavedBy, ln.SavedBy)
	assert.NotEmpty(t, ln.Timestamp)
	require.NotNil(t, ln.Lineup)
	assert.Equal(t, 2, ln.Lineup.FieldPositions["pitcher"])
}

func TestSheetPostErrors(t *testing.T) {
	h := newSheetHandler(t)

	resp := exec[api.PostResponse](t, h, http.MethodPost, "/exec", "not json")
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	// game date missing
	resp = exec[api.PostResponse](t, h, http.MethodPost, "/exec", `{"stats": {"gameStats": {}}}`)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	resp = exec[api.PostResponse](t, h, http.MethodPost, "/exec", `{"savedBy": "nobody"}`)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodDelete, "/exec", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
