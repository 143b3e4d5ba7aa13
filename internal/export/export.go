// Package export renders stats and lineups as CSV files and clipboard text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/roster"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

// StatsHeader matches the spreadsheet's "Game Stats" sheet. Sacrifice flies
// live in the "Fielders Choice" column.
var StatsHeader = []string{
	"Game Date", "Player Name", "At Bats", "Hits", "Singles", "Doubles",
	"Triples", "Home Runs", "Batting Average", "Outs", "Fielders Choice", "RBI",
}

var LineupHeader = []string{"Order", "Name", "Position"}

// SheetDateLayout is how the sheet writes game dates.
const SheetDateLayout = "1/2/2006"

// StatsCSV writes rows under StatsHeader. A row without a stored average
// gets one computed under convention.
func StatsCSV(w io.Writer, rows []domain.HistoricalStatRow, convention stats.Convention) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StatsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		avg := r.BattingAverage
		if avg == "" {
			avg = convention.Average(r.Hits, r.AtBats, r.SacrificeFlies)
		}
		record := []string{
			r.GameDate.Format(SheetDateLayout),
			r.PlayerName,
			strconv.Itoa(r.AtBats),
			strconv.Itoa(r.Hits),
			strconv.Itoa(r.Singles),
			strconv.Itoa(r.Doubles),
			strconv.Itoa(r.Triples),
			strconv.Itoa(r.HomeRuns),
			avg,
			strconv.Itoa(r.Outs),
			strconv.Itoa(r.SacrificeFlies),
			strconv.Itoa(r.RBI),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LineupCSV writes the batting order with position abbreviations.
func LineupCSV(w io.Writer, slots []domain.LineupSlot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LineupHeader); err != nil {
		return err
	}
	for i, s := range slots {
		if err := cw.Write([]string{strconv.Itoa(i + 1), s.Name, abbreviation(s.Position)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func LineupFilename(day time.Time) string {
	return "softball_lineup_" + day.Format(domain.DateLayout) + ".csv"
}

func StatsFilename(day time.Time) string {
	return "softball_stats_" + day.Format(domain.DateLayout) + ".csv"
}

// RosterText is the roster as pasted into a group chat.
func RosterText(players []domain.Player) string {
	var b strings.Builder
	b.WriteString("Team Roster:\n\n")
	for i, p := range players {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Name)
	}
	return b.String()
}

// LineupText numbers the batting order and tags fielders with their position.
func LineupText(slots []domain.LineupSlot) string {
	var b strings.Builder
	b.WriteString("Batting Lineup:\n\n")
	for i, s := range slots {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Name)
		if s.Position != "" {
			fmt.Fprintf(&b, " (%s)", abbreviation(s.Position))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// BoxScoreText renders the game in progress, one block per player.
func BoxScoreText(game domain.GameSnapshot) string {
	if len(game.Players) == 0 {
		return "No stats recorded yet\n"
	}

	var b strings.Builder
	for i, p := range game.Players {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Name + "\n")
		fmt.Fprintf(&b, "AVG: %s (%d-%d) | Runs: %d | RBI: %d\n", p.Average(), p.Hits, p.OfficialAtBats(), p.Runs, p.RBI)
		fmt.Fprintf(&b, "1B: %d | 2B: %d | 3B: %d | HR: %d | XBH: %d\n", p.Singles, p.Doubles, p.Triples, p.HomeRuns, p.ExtraBaseHits())
		fmt.Fprintf(&b, "Outs: %d | SF: %d\n", p.Outs, p.SacrificeFlies)
		if len(p.AtBats) > 0 {
			parts := make([]string, 0, len(p.AtBats))
			for _, ab := range p.AtBats {
				parts = append(parts, atBatText(ab))
			}
			b.WriteString("At-Bats: " + strings.Join(parts, " | ") + "\n")
		}
	}

	t := game.Team
	fmt.Fprintf(&b, "\nTeam: AVG %s (%d-%d) | Runs: %d | RBI: %d | XBH: %d\n",
		t.Average, t.Hits, t.OfficialAtBats, t.Runs, t.RBI, t.ExtraBaseHits)
	return b.String()
}

func atBatText(ab domain.AtBatRecord) string {
	s := fmt.Sprintf("#%d: %s", ab.Number, ab.Result.Short())
	if ab.RBI > 0 {
		s += fmt.Sprintf(" (%d RBI)", ab.RBI)
	}
	if ab.Runs == 1 {
		s += " ®"
	}
	return s
}

func abbreviation(position string) string {
	if position == "" {
		return ""
	}
	return roster.Position(position).Abbreviation()
}
