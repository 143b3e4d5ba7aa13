// Package ledger keeps the at-bats recorded for the game in progress and
// derives box-score statistics from them.
package ledger

import (
	"sort"
	"strconv"
	"time"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

const (
	MaxRBI  = 4
	MaxRuns = 1
)

// PlayerResolver looks up roster players by id.
type PlayerResolver interface {
	ResolvePlayer(id int) (domain.Player, bool)
}

// AtBat is one operator entry: who batted, which at-bat of theirs it was and
// how it went.
type AtBat struct {
	PlayerID int
	Number   int
	Result   domain.AtBatResult
	RBI      int
	Runs     int
}

type Outcome string

const (
	OutcomeRecorded  Outcome = "recorded"
	OutcomeCorrected Outcome = "corrected"
)

// Ledger holds one game. It is not safe for concurrent use.
type Ledger struct {
	players  map[int]*domain.PlayerGameStats
	cursor   Cursor
	resolver PlayerResolver
	now      func() time.Time
}

func New(resolver PlayerResolver) *Ledger {
	return &Ledger{
		players:  make(map[int]*domain.PlayerGameStats),
		cursor:   newCursor(),
		resolver: resolver,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp records.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// HasRecord returns the result already recorded at (playerID, number).
func (l *Ledger) HasRecord(playerID, number int) (domain.AtBatRecord, bool) {
	ps, ok := l.players[playerID]
	if !ok {
		return domain.AtBatRecord{}, false
	}
	if i := indexOf(ps.AtBats, number); i >= 0 {
		return ps.AtBats[i], true
	}
	return domain.AtBatRecord{}, false
}

// Record adds a new at-bat. If the number is already taken for the player it
// returns a *CorrectionConflictError and changes nothing.
func (l *Ledger) Record(ab AtBat) error {
	player, err := l.validate(ab)
	if err != nil {
		return err
	}
	if existing, ok := l.HasRecord(ab.PlayerID, ab.Number); ok {
		return &CorrectionConflictError{PlayerID: ab.PlayerID, PlayerName: l.players[ab.PlayerID].Name, Existing: existing}
	}

	ps, ok := l.players[ab.PlayerID]
	if !ok {
		ps = &domain.PlayerGameStats{PlayerID: player.ID, Name: player.Name}
		l.players[ab.PlayerID] = ps
	}

	ps.AtBats = append(ps.AtBats, l.newRecord(ab))
	sort.SliceStable(ps.AtBats, func(i, j int) bool {
		return ps.AtBats[i].Number < ps.AtBats[j].Number
	})
	apply(ps, ab.Result, ab.RBI, ab.Runs, 1)
	return nil
}

// ApplyCorrection replaces the at-bat at (PlayerID, Number) in place,
// backing out the old result, RBI and runs first.
func (l *Ledger) ApplyCorrection(ab AtBat) error {
	if _, err := l.validate(ab); err != nil {
		return err
	}
	ps, ok := l.players[ab.PlayerID]
	if !ok {
		return ErrNoRecord
	}
	i := indexOf(ps.AtBats, ab.Number)
	if i < 0 {
		return ErrNoRecord
	}

	old := ps.AtBats[i]
	apply(ps, old.Result, old.RBI, old.Runs, -1)
	ps.AtBats[i] = l.newRecord(ab)
	apply(ps, ab.Result, ab.RBI, ab.Runs, 1)
	return nil
}

// RecordResult inserts the at-bat, or corrects it when replace is set.
// Without replace an existing record yields a *CorrectionConflictError.
func (l *Ledger) RecordResult(ab AtBat, replace bool) (Outcome, error) {
	if _, ok := l.HasRecord(ab.PlayerID, ab.Number); ok && replace {
		if err := l.ApplyCorrection(ab); err != nil {
			return "", err
		}
		return OutcomeCorrected, nil
	}
	if err := l.Record(ab); err != nil {
		return "", err
	}
	return OutcomeRecorded, nil
}

// Stats returns a copy of the player's stats for this game.
func (l *Ledger) Stats(playerID int) (domain.PlayerGameStats, bool) {
	ps, ok := l.players[playerID]
	if !ok {
		return domain.PlayerGameStats{}, false
	}
	return ps.Clone(), true
}

// OfficialAtBats is the player's recorded at-bats minus sacrifice flies.
func (l *Ledger) OfficialAtBats(playerID int) int {
	ps, ok := l.players[playerID]
	if !ok {
		return 0
	}
	return ps.OfficialAtBats()
}

func (l *Ledger) BattingAverage(playerID int) string {
	ps, ok := l.players[playerID]
	if !ok {
		return stats.NoAverage
	}
	return ps.Average()
}

// Players returns every player with at least one at-bat, ordered by id.
func (l *Ledger) Players() []domain.PlayerGameStats {
	ids := make([]int, 0, len(l.players))
	for id := range l.players {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]domain.PlayerGameStats, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.players[id].Clone())
	}
	return out
}

// TeamSnapshot sums every player's counters. The team average is summed
// hits over summed official at-bats.
func (l *Ledger) TeamSnapshot() domain.TeamStats {
	var team domain.TeamStats
	for _, ps := range l.players {
		team.Players++
		team.AtBats += len(ps.AtBats)
		team.OfficialAtBats += ps.OfficialAtBats()
		team.Hits += ps.Hits
		team.Singles += ps.Singles
		team.Doubles += ps.Doubles
		team.Triples += ps.Triples
		team.HomeRuns += ps.HomeRuns
		team.ExtraBaseHits += ps.ExtraBaseHits()
		team.Outs += ps.Outs
		team.SacrificeFlies += ps.SacrificeFlies
		team.RBI += ps.RBI
		team.Runs += ps.Runs
	}
	team.Average = stats.FormatAverage(team.Hits, team.OfficialAtBats)
	return team
}

func (l *Ledger) Snapshot() domain.GameSnapshot {
	return domain.GameSnapshot{
		Players: l.Players(),
		Team:    l.TeamSnapshot(),
	}
}

// GameStats keys each player's stats by id, the shape the spreadsheet
// endpoint expects.
func (l *Ledger) GameStats() map[string]domain.PlayerGameStats {
	out := make(map[string]domain.PlayerGameStats, len(l.players))
	for id, ps := range l.players {
		out[strconv.Itoa(id)] = ps.Clone()
	}
	return out
}

// HighestAtBatNumber is the largest at-bat number recorded for anyone.
func (l *Ledger) HighestAtBatNumber() int {
	highest := 0
	for _, ps := range l.players {
		for _, ab := range ps.AtBats {
			if ab.Number > highest {
				highest = ab.Number
			}
		}
	}
	return highest
}

func (l *Ledger) Empty() bool {
	return len(l.players) == 0
}

// Reset drops every record and the cursor.
func (l *Ledger) Reset() {
	l.players = make(map[int]*domain.PlayerGameStats)
	l.cursor = newCursor()
}

func (l *Ledger) validate(ab AtBat) (domain.Player, error) {
	if ab.PlayerID == 0 {
		return domain.Player{}, invalid("no batter selected")
	}
	player, ok := l.resolver.ResolvePlayer(ab.PlayerID)
	if !ok {
		return domain.Player{}, invalid("unknown player %d", ab.PlayerID)
	}
	if ab.Number < 1 {
		return domain.Player{}, invalid("at-bat number must be at least 1, got %d", ab.Number)
	}
	if !ab.Result.Valid() {
		return domain.Player{}, invalid("unknown result %q", ab.Result)
	}
	if ab.RBI < 0 || ab.RBI > MaxRBI {
		return domain.Player{}, invalid("rbi must be between 0 and %d, got %d", MaxRBI, ab.RBI)
	}
	if ab.Runs < 0 || ab.Runs > MaxRuns {
		return domain.Player{}, invalid("runs must be 0 or 1, got %d", ab.Runs)
	}
	return player, nil
}

func (l *Ledger) newRecord(ab AtBat) domain.AtBatRecord {
	return domain.AtBatRecord{
		Number:     ab.Number,
		Result:     ab.Result,
		RBI:        ab.RBI,
		Runs:       ab.Runs,
		RecordedAt: l.now(),
	}
}

// apply moves the counters for one result by delta (+1 to add, -1 to back out).
func apply(ps *domain.PlayerGameStats, result domain.AtBatResult, rbi, runs, delta int) {
	switch result {
	case domain.ResultSingle:
		ps.Singles += delta
	case domain.ResultDouble:
		ps.Doubles += delta
	case domain.ResultTriple:
		ps.Triples += delta
	case domain.ResultHomeRun:
		ps.HomeRuns += delta
	case domain.ResultSacrificeFly:
		ps.SacrificeFlies += delta
	case domain.ResultOut:
		ps.Outs += delta
	}
	if result.IsHit() {
		ps.Hits += delta
	}
	ps.RBI += rbi * delta
	ps.Runs += runs * delta
}

func indexOf(atBats []domain.AtBatRecord, number int) int {
	for i, ab := range atBats {
		if ab.Number == number {
			return i
		}
	}
	return -1
}
