package server

import (
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/history"
	"github.com/okaytrev/softball-lineup/internal/ledger"
	"github.com/okaytrev/softball-lineup/internal/service"
)

type Empty struct{}

type SelectBatterRequest struct {
	PlayerID int `json:"playerId"`
}

type SetAtBatNumberRequest struct {
	Number int `json:"number"`
}

type StatusResponse struct {
	Status       ledger.Status `json:"status"`
	HighestAtBat int           `json:"highestAtBat"`
}

type HasRecordRequest struct {
	PlayerID int `json:"playerId"`
	Number   int `json:"number"`
}

type HasRecordResponse struct {
	Recorded bool                `json:"recorded"`
	Existing *domain.AtBatRecord `json:"existing,omitempty"`
}

// RecordAtBatRequest records for PlayerID/Number when PlayerID is set,
// otherwise for the cursor.
type RecordAtBatRequest struct {
	PlayerID int    `json:"playerId,omitempty"`
	Number   int    `json:"number,omitempty"`
	Result   string `json:"result"`
	RBI      int    `json:"rbi"`
	Runs     int    `json:"runs"`
	Replace  bool   `json:"replace"`
}

// Conflict asks the operator to confirm overwriting an at-bat.
type Conflict struct {
	PlayerID   int                `json:"playerId"`
	PlayerName string             `json:"playerName"`
	Existing   domain.AtBatRecord `json:"existing"`
	Message    string             `json:"message"`
}

type RecordAtBatResponse struct {
	Outcome  *service.RecordOutcome `json:"outcome,omitempty"`
	Conflict *Conflict              `json:"conflict,omitempty"`
}

type GameStatsResponse struct {
	Game domain.GameSnapshot `json:"game"`
}

type EndGameResponse struct {
	Report service.SaveReport `json:"report"`
}

type AddPlayerRequest struct {
	Name string `json:"name"`
}

type PlayerIDRequest struct {
	PlayerID int `json:"playerId"`
}

type AssignPositionRequest struct {
	Position string `json:"position"`
	PlayerID int    `json:"playerId"`
}

type MoveInLineupRequest struct {
	PlayerID int `json:"playerId"`
	Index    int `json:"index"`
}

type RosterResponse struct {
	Roster service.RosterState `json:"roster"`
	Added  *domain.Player      `json:"added,omitempty"`
}

type SaveLineupResponse struct {
	Lineup domain.Lineup `json:"lineup"`
}

type LoadLineupResponse struct {
	Record *domain.LineupRecord `json:"record,omitempty"`
	Roster service.RosterState  `json:"roster"`
}

// HistoryRequest dates are YYYY-MM-DD; empty fields match everything.
type HistoryRequest struct {
	PlayerName string `json:"playerName"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
}

type HistoryResponse struct {
	Report *service.Report `json:"report"`
}

type ExportKind string

const (
	ExportRoster    ExportKind = "roster"
	ExportLineup    ExportKind = "lineup"
	ExportLineupCSV ExportKind = "lineup_csv"
	ExportBoxScore  ExportKind = "box_score"
	ExportStatsCSV  ExportKind = "stats_csv"
)

type ExportRequest struct {
	Kind    ExportKind     `json:"kind"`
	History HistoryRequest `json:"history"`
}

type ExportResponse struct {
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text"`
}

func (r HistoryRequest) filter() (history.Filter, error) {
	f := history.Filter{PlayerName: r.PlayerName}
	var err error
	if r.DateFrom != "" {
		if f.DateFrom, err = domain.ParseGameDate(r.DateFrom); err != nil {
			return f, err
		}
	}
	if r.DateTo != "" {
		if f.DateTo, err = domain.ParseGameDate(r.DateTo); err != nil {
			return f, err
		}
	}
	return f, nil
}
