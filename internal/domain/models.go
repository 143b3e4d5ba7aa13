package domain

import (
	"time"

	"github.com/okaytrev/softball-lineup/internal/stats"
)

type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type AtBatRecord struct {
	Number     int         `json:"number"`
	Result     AtBatResult `json:"result"`
	RBI        int         `json:"rbi"`
	Runs       int         `json:"runs"`
	RecordedAt time.Time   `json:"time"`
}

// PlayerGameStats is derived from the player's at-bats. Only the ledger
// mutates it. JSON keys follow what the spreadsheet script reads.
type PlayerGameStats struct {
	PlayerID       int           `json:"id"`
	Name           string        `json:"name"`
	AtBats         []AtBatRecord `json:"atBats"` // sorted by Number
	Hits           int           `json:"hits"`
	Singles        int           `json:"singles"`
	Doubles        int           `json:"doubles"`
	Triples        int           `json:"triples"`
	HomeRuns       int           `json:"homeruns"`
	Outs           int           `json:"outs"`
	SacrificeFlies int           `json:"sacrificeFly"`
	RBI            int           `json:"rbi"`
	Runs           int           `json:"runs"`
}

func (s PlayerGameStats) OfficialAtBats() int {
	return stats.SacrificeFlyAware.OfficialAtBats(len(s.AtBats), s.SacrificeFlies)
}

func (s PlayerGameStats) Average() string {
	return stats.FormatAverage(s.Hits, s.OfficialAtBats())
}

// ExtraBaseHits counts doubles, triples and home runs.
func (s PlayerGameStats) ExtraBaseHits() int {
	return s.Doubles + s.Triples + s.HomeRuns
}

// Clone returns a deep copy so callers cannot reach ledger internals.
func (s PlayerGameStats) Clone() PlayerGameStats {
	out := s
	out.AtBats = append([]AtBatRecord(nil), s.AtBats...)
	return out
}

// TeamStats sums every player's counters for one game.
type TeamStats struct {
	Players        int    `json:"players"`
	AtBats         int    `json:"atBats"`
	OfficialAtBats int    `json:"officialAtBats"`
	Hits           int    `json:"hits"`
	Singles        int    `json:"singles"`
	Doubles        int    `json:"doubles"`
	Triples        int    `json:"triples"`
	HomeRuns       int    `json:"homeRuns"`
	ExtraBaseHits  int    `json:"extraBaseHits"`
	Outs           int    `json:"outs"`
	SacrificeFlies int    `json:"sacrificeFlies"`
	RBI            int    `json:"rbi"`
	Runs           int    `json:"runs"`
	Average        string `json:"average"`
}

type GameSnapshot struct {
	Players []PlayerGameStats `json:"players"`
	Team    TeamStats         `json:"team"`
}

// GameSubmission is the envelope posted to the spreadsheet endpoint when a
// game ends.
type GameSubmission struct {
	Stats   GameStatsPayload `json:"stats"`
	SavedBy string           `json:"savedBy"`
}

type GameStatsPayload struct {
	GameDate     time.Time                  `json:"gameDate"`
	GameStats    map[string]PlayerGameStats `json:"gameStats"` // keyed by player id
	BattingOrder []Player                   `json:"battingOrder"`
}

type LineupSlot struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// Lineup is the "current lineup" object saved to its own sheet.
type Lineup struct {
	FieldPositions map[string]int `json:"fieldPositions"`
	BattingLineup  []LineupSlot   `json:"battingLineup"`
	Teammates      []Player       `json:"teammates"`
	SavedAt        time.Time      `json:"savedAt"`
}

type LineupSubmission struct {
	Lineup  Lineup `json:"lineup"`
	SavedBy string `json:"savedBy"`
}

type LineupRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Lineup    Lineup    `json:"lineup"`
	SavedBy   string    `json:"savedBy"`
}
