package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okaytrev/softball-lineup/internal/stats"
)

// DateLayout is the calendar date format used on the wire by this service.
const DateLayout = "2006-01-02"

var gameDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayout,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006, 3:04:05 PM",
}

// ParseGameDate normalizes any date the spreadsheet has produced over time
// (ISO timestamps, ISO dates, US locale dates) to the calendar date it names.
func ParseGameDate(s string) (time.Time, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// ParseTimestamp is ParseGameDate without dropping the time of day.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", s)
}

// CalendarDate drops the time of day. The date is read in t's own location,
// so an evening game stamped with a US offset keeps its local day.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HistoricalStatRow is one persisted player-game line. BattingAverage is kept
// as stored; aggregation recomputes its own averages.
type HistoricalStatRow struct {
	GameDate       time.Time
	PlayerName     string
	AtBats         int
	Hits           int
	Singles        int
	Doubles        int
	Triples        int
	HomeRuns       int
	SacrificeFlies int
	Outs           int
	Runs           int
	RBI            int
	BattingAverage string
}

type historicalStatRowJSON struct {
	GameDate       string  `json:"gameDate"`
	PlayerName     string  `json:"playerName"`
	AtBats         flexInt `json:"atBats"`
	Hits           flexInt `json:"hits"`
	Singles        flexInt `json:"singles"`
	Doubles        flexInt `json:"doubles"`
	Triples        flexInt `json:"triples"`
	HomeRuns       flexInt `json:"homeRuns"`
	BattingAverage string  `json:"battingAverage"`
	Outs           flexInt `json:"outs"`
	SacrificeFly   flexInt `json:"sacrificeFly"`
	Runs           flexInt `json:"runs"`
	RBI            flexInt `json:"rbi"`
}

func (r HistoricalStatRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(historicalStatRowJSON{
		GameDate:       r.GameDate.Format(DateLayout),
		PlayerName:     r.PlayerName,
		AtBats:         flexInt(r.AtBats),
		Hits:           flexInt(r.Hits),
		Singles:        flexInt(r.Singles),
		Doubles:        flexInt(r.Doubles),
		Triples:        flexInt(r.Triples),
		HomeRuns:       flexInt(r.HomeRuns),
		BattingAverage: r.BattingAverage,
		Outs:           flexInt(r.Outs),
		SacrificeFly:   flexInt(r.SacrificeFlies),
		Runs:           flexInt(r.Runs),
		RBI:            flexInt(r.RBI),
	})
}

// UnmarshalJSON tolerates the shapes older sheets return: the sacrifice fly
// column under "fieldersChoice" or "sacrificeFlies", numeric averages, and
// empty cells.
func (r *HistoricalStatRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		GameDate       json.RawMessage `json:"gameDate"`
		PlayerName     string          `json:"playerName"`
		AtBats         flexInt         `json:"atBats"`
		Hits           flexInt         `json:"hits"`
		Singles        flexInt         `json:"singles"`
		Doubles        flexInt         `json:"doubles"`
		Triples        flexInt         `json:"triples"`
		HomeRuns       flexInt         `json:"homeRuns"`
		BattingAverage json.RawMessage `json:"battingAverage"`
		Outs           flexInt         `json:"outs"`
		SacrificeFly   *flexInt        `json:"sacrificeFly"`
		SacrificeFlies *flexInt        `json:"sacrificeFlies"`
		FieldersChoice *flexInt        `json:"fieldersChoice"`
		Runs           flexInt         `json:"runs"`
		RBI            flexInt         `json:"rbi"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var dateStr string
	if err := json.Unmarshal(raw.GameDate, &dateStr); err != nil {
		return fmt.Errorf("gameDate: %w", err)
	}
	date, err := ParseGameDate(dateStr)
	if err != nil {
		return err
	}

	*r = HistoricalStatRow{
		GameDate:       date,
		PlayerName:     raw.PlayerName,
		AtBats:         int(raw.AtBats),
		Hits:           int(raw.Hits),
		Singles:        int(raw.Singles),
		Doubles:        int(raw.Doubles),
		Triples:        int(raw.Triples),
		HomeRuns:       int(raw.HomeRuns),
		Outs:           int(raw.Outs),
		Runs:           int(raw.Runs),
		RBI:            int(raw.RBI),
		BattingAverage: rawAverage(raw.BattingAverage),
	}
	switch {
	case raw.SacrificeFly != nil:
		r.SacrificeFlies = int(*raw.SacrificeFly)
	case raw.SacrificeFlies != nil:
		r.SacrificeFlies = int(*raw.SacrificeFlies)
	case raw.FieldersChoice != nil:
		r.SacrificeFlies = int(*raw.FieldersChoice)
	}
	return nil
}

// rawAverage keeps string averages verbatim and renders numeric cells with
// three decimals, which is how the sheet displays them.
func rawAverage(msg json.RawMessage) string {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(msg, &f); err == nil {
		return stats.Fixed3(f)
	}
	return string(msg)
}

// flexInt decodes a JSON number, a numeric string, or an empty cell.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*f = flexInt(n)
	return nil
}
