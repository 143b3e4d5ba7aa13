package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/repository"
)

const (
	ExecPath = "/exec"

	maxExecBody = 1 << 20
)

// SheetHandler serves the spreadsheet endpoint. Like the script it stands in
// for, it always answers 200 and reports failures in an "error" field.
type SheetHandler struct {
	stats   *repository.StatRowRepository
	lineups *repository.LineupRepository
	logger  zerolog.Logger
}

func NewSheetHandler(stats *repository.StatRowRepository, lineups *repository.LineupRepository, logger zerolog.Logger) *SheetHandler {
	return &SheetHandler{stats: stats, lineups: lineups, logger: logger}
}

type execPost struct {
	Stats   *domain.GameStatsPayload `json:"stats"`
	Lineup  *domain.Lineup           `json:"lineup"`
	SavedBy string                   `json:"savedBy"`
}

func (h *SheetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("type") == "stats" {
			h.getStats(w, r)
			return
		}
		h.getLineup(w, r)
	case http.MethodPost:
		h.post(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SheetHandler) getStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list stat rows")
		h.writeJSON(w, api.StatsResponse{Error: err.Error()})
		return
	}
	if len(rows) == 0 {
		h.writeJSON(w, api.StatsResponse{Error: "No stats data found"})
		return
	}
	h.writeJSON(w, api.StatsResponse{Stats: rows})
}

func (h *SheetHandler) getLineup(w http.ResponseWriter, r *http.Request) {
	rec, err := h.lineups.Latest(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		h.writeJSON(w, api.LineupResponse{Error: "No lineup data found"})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read latest lineup")
		h.writeJSON(w, api.LineupResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, api.LineupResponse{
		Timestamp: rec.Timestamp.Format(time.RFC3339),
		Lineup:    &rec.Lineup,
		SavedBy:   rec.SavedBy,
	})
}

func (h *SheetHandler) post(w http.ResponseWriter, r *http.Request) {
	var req execPost
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExecBody)).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("unreadable sheet submission")
		h.writeJSON(w, api.PostResponse{Error: err.Error()})
		return
	}

	ctx := r.Context()
	switch {
	case req.Stats != nil:
		n, err := h.stats.AppendGame(ctx, domain.GameSubmission{Stats: *req.Stats, SavedBy: req.SavedBy})
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to append game stats")
			h.writeJSON(w, api.PostResponse{Error: err.Error()})
			return
		}
		h.logger.Info().Int("rows", n).Str("saved_by", req.SavedBy).Msg("game stats appended")
	case req.Lineup != nil:
		if err := h.lineups.Append(ctx, *req.Lineup, req.SavedBy); err != nil {
			h.logger.Error().Err(err).Msg("failed to append lineup")
			h.writeJSON(w, api.PostResponse{Error: err.Error()})
			return
		}
		h.logger.Info().Int("slots", len(req.Lineup.BattingLineup)).Msg("lineup appended")
	default:
		h.logger.Warn().Msg("sheet submission carried neither stats nor lineup")
	}
	h.writeJSON(w, api.PostResponse{Success: true})
}

func (h *SheetHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}
