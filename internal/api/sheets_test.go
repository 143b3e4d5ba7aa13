package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/domain"
)

type recorded struct {
	method      string
	query       string
	contentType string
	body        []byte
}

type fakeSheet struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		method:      r.Method,
		query:       r.URL.RawQuery,
		contentType: r.Header.Get("Content-Type"),
		body:        body,
	})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, reply)
}

func (f *fakeSheet) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newClient(t *testing.T, sheet *fakeSheet, fireAndForget bool) *SheetsClient {
	t.Helper()
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)
	return NewSheetsClient(&config.Config{
		SheetsURL:     srv.URL + "/exec",
		SheetsTimeout: 2 * time.Second,
		FireAndForget: fireAndForget,
	}, zerolog.Nop())
}

func TestSaveGameStatsPostsEnvelope(t *testing.T) {
	sheet := &fakeSheet{reply: `{"success":true}`}
	client := newClient(t, sheet, false)

	sub := domain.GameSubmission{
		SavedBy: "Stats Keeper",
		Stats: domain.GameStatsPayload{
			GameDate: time.Date(2025, 6, 3, 19, 0, 0, 0, time.UTC),
			GameStats: map[string]domain.PlayerGameStats{
				"2": {PlayerID: 2, Name: "Trevar", Hits: 1, Singles: 1, AtBats: []domain.AtBatRecord{{Number: 1, Result: domain.ResultSingle}}},
			},
			BattingOrder: []domain.Player{{ID: 2, Name: "Trevar"}},
		},
	}
	require.NoError(t, client.SaveGameStats(context.Background(), sub))

	req := sheet.last()
	assert.Equal(t, http.MethodPost, req.method)
	assert.Contains(t, req.contentType, "text/plain")

	var got map[string]any
	require.NoError(t, json.Unmarshal(req.body, &got))
	assert.Equal(t, "Stats Keeper", got["savedBy"])
	stats := got["stats"].(map[string]any)
	assert.Contains(t, stats, "gameDate")
	assert.Contains(t, stats["gameStats"].(map[string]any), "2")
}

func TestSaveReportsEndpointError(t *testing.T) {
	sheet := &fakeSheet{reply: `{"error":"Exception: sheet locked"}`}
	client := newClient(t, sheet, false)

	err := client.SaveLineup(context.Background(), domain.LineupSubmission{SavedBy: "Coach"})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "sheet locked")
}

func TestSaveReportsBadStatus(t *testing.T) {
	sheet := &fakeSheet{status: http.StatusInternalServerError}
	client := newClient(t, sheet, false)

	err := client.SaveGameStats(context.Background(), domain.GameSubmission{})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestFireAndForgetIgnoresResponse(t *testing.T) {
	sheet := &fakeSheet{status: http.StatusInternalServerError, reply: "<html>"}
	client := newClient(t, sheet, true)

	assert.NoError(t, client.SaveGameStats(context.Background(), domain.GameSubmission{}))
}

func TestUnreachableEndpointIsPersistenceFailure(t *testing.T) {
	client := NewSheetsClient(&config.Config{
		SheetsURL:     "http://127.0.0.1:1/exec",
		SheetsTimeout: time.Second,
		FireAndForget: true,
	}, zerolog.Nop())

	err := client.SaveGameStats(context.Background(), domain.GameSubmission{})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestLoadStats(t *testing.T) {
	sheet := &fakeSheet{reply: `{"stats":[
		{"gameDate":"6/3/2025","playerName":"Kyle H","atBats":4,"hits":2,"singles":2,"doubles":0,"triples":0,"homeRuns":0,"battingAverage":0.5,"outs":2,"fieldersChoice":0,"rbi":1}
	]}`}
	client := newClient(t, sheet, false)

	rows, err := client.LoadStats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kyle H", rows[0].PlayerName)
	assert.Equal(t, "0.500", rows[0].BattingAverage)
	assert.Equal(t, "type=stats", sheet.last().query)
	assert.Equal(t, http.MethodGet, sheet.last().method)
}

func TestSaveFollowsRedirectWithGet(t *testing.T) {
	sheet := &fakeSheet{reply: `{"success":true}`}
	mux := http.NewServeMux()
	mux.Handle("/echo", sheet)
	posted := make(chan []byte, 1)
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		posted <- body
		http.Redirect(w, r, "/echo?user_content_key=abc", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewSheetsClient(&config.Config{SheetsURL: srv.URL + "/exec", SheetsTimeout: 2 * time.Second}, zerolog.Nop())
	err := client.SaveLineup(context.Background(), domain.LineupSubmission{SavedBy: "Coach"})
	require.NoError(t, err)

	assert.Contains(t, string(<-posted), `"savedBy":"Coach"`)
	got := sheet.last()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "user_content_key=abc", got.query)
	assert.Empty(t, got.body)
}

func TestLoadStatsFollowsRedirect(t *testing.T) {
	sheet := &fakeSheet{reply: `{"stats":[{"gameDate":"2025-06-03","playerName":"Trevar","atBats":3,"hits":2,"battingAverage":0.667}]}`}
	mux := http.NewServeMux()
	mux.Handle("/echo", sheet)
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo?"+r.URL.RawQuery, http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewSheetsClient(&config.Config{SheetsURL: srv.URL + "/exec", SheetsTimeout: 2 * time.Second}, zerolog.Nop())
	rows, err := client.LoadStats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Trevar", rows[0].PlayerName)
	assert.Equal(t, "0.667", rows[0].BattingAverage)
	assert.Equal(t, "type=stats", sheet.last().query)
}

func TestRedirectLoopIsPersistenceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/exec", http.StatusFound)
	}))
	t.Cleanup(srv.Close)

	client := NewSheetsClient(&config.Config{SheetsURL: srv.URL + "/exec", SheetsTimeout: 2 * time.Second}, zerolog.Nop())
	_, err := client.LoadStats(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestLoadStatsNoData(t *testing.T) {
	sheet := &fakeSheet{reply: `{"error":"No stats data found"}`}
	client := newClient(t, sheet, false)

	_, err := client.LoadStats(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLoadLineup(t *testing.T) {
	sheet := &fakeSheet{reply: `{"timestamp":"6/3/2025, 7:30:00 PM","savedBy":"Coach","lineup":{"fieldPositions":{"pitcher":2},"battingLineup":[{"id":2,"name":"Trevar","position":"P"}],"teammates":[{"id":2,"name":"Trevar"}]}}`}
	client := newClient(t, sheet, false)

	rec, err := client.LoadLineup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Coach", rec.SavedBy)
	assert.Equal(t, 2, rec.Lineup.FieldPositions["pitcher"])
	assert.Equal(t, 19, rec.Timestamp.Hour())
	assert.Empty(t, sheet.last().query)

	sheet.reply = `{"error":"No lineup data found"}`
	_, err = client.LoadLineup(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}
