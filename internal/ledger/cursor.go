package ledger

import "github.com/okaytrev/softball-lineup/internal/domain"

// Cursor is the operator's current selection: the batter and which of their
// at-bats is being entered.
type Cursor struct {
	PlayerID    int `json:"playerId"`
	AtBatNumber int `json:"atBatNumber"`
}

func newCursor() Cursor {
	return Cursor{AtBatNumber: 1}
}

type AtBatState string

const (
	StateNoBatter AtBatState = "none"
	StateNew      AtBatState = "new"
	StateRecorded AtBatState = "recorded"
)

// Status describes the at-bat under the cursor.
type Status struct {
	Cursor   Cursor              `json:"cursor"`
	State    AtBatState          `json:"state"`
	Existing *domain.AtBatRecord `json:"existing,omitempty"`
}

func (l *Ledger) Cursor() Cursor {
	return l.cursor
}

// SelectBatter points the cursor at a roster player. Zero clears the selection.
func (l *Ledger) SelectBatter(playerID int) error {
	if playerID != 0 {
		if _, ok := l.resolver.ResolvePlayer(playerID); !ok {
			return invalid("unknown player %d", playerID)
		}
	}
	l.cursor.PlayerID = playerID
	return nil
}

func (l *Ledger) SetAtBatNumber(number int) error {
	if number < 1 {
		return invalid("at-bat number must be at least 1, got %d", number)
	}
	l.cursor.AtBatNumber = number
	return nil
}

func (l *Ledger) Status() Status {
	st := Status{Cursor: l.cursor, State: StateNoBatter}
	if l.cursor.PlayerID == 0 {
		return st
	}
	if existing, ok := l.HasRecord(l.cursor.PlayerID, l.cursor.AtBatNumber); ok {
		st.State = StateRecorded
		st.Existing = &existing
		return st
	}
	st.State = StateNew
	return st
}

// RecordAtCursor records a result for the selected batter and at-bat number.
func (l *Ledger) RecordAtCursor(result domain.AtBatResult, rbi, runs int, replace bool) (Outcome, error) {
	if l.cursor.PlayerID == 0 {
		return "", invalid("no batter selected")
	}
	return l.RecordResult(AtBat{
		PlayerID: l.cursor.PlayerID,
		Number:   l.cursor.AtBatNumber,
		Result:   result,
		RBI:      rbi,
		Runs:     runs,
	}, replace)
}
