// Package history aggregates persisted player-game rows across many games.
package history

import (
	"sort"
	"strings"
	"time"

	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

const DefaultRecentGames = 5

// Filter selects rows. Zero values match everything; date bounds are
// inclusive calendar dates.
type Filter struct {
	PlayerName string
	DateFrom   time.Time
	DateTo     time.Time
}

func (f Filter) Match(row domain.HistoricalStatRow) bool {
	if f.PlayerName != "" && row.PlayerName != f.PlayerName {
		return false
	}
	day := domain.CalendarDate(row.GameDate)
	if !f.DateFrom.IsZero() && day.Before(domain.CalendarDate(f.DateFrom)) {
		return false
	}
	if !f.DateTo.IsZero() && day.After(domain.CalendarDate(f.DateTo)) {
		return false
	}
	return true
}

type PlayerTotals struct {
	Name           string `json:"name"`
	Games          int    `json:"games"`
	AtBats         int    `json:"atBats"`
	OfficialAtBats int    `json:"officialAtBats"`
	Hits           int    `json:"hits"`
	Singles        int    `json:"singles"`
	Doubles        int    `json:"doubles"`
	Triples        int    `json:"triples"`
	HomeRuns       int    `json:"homeRuns"`
	SacrificeFlies int    `json:"sacrificeFlies"`
	Outs           int    `json:"outs"`
	Runs           int    `json:"runs"`
	RBI            int    `json:"rbi"`
	Average        string `json:"average"`
}

type GameGroup struct {
	Date        time.Time                  `json:"date"`
	Rows        []domain.HistoricalStatRow `json:"rows"`
	Hits        int                        `json:"hits"`
	AtBats      int                        `json:"atBats"`
	TeamAverage string                     `json:"teamAverage"`
}

type Summary struct {
	Games   int    `json:"games"`
	AtBats  int    `json:"atBats"`
	Hits    int    `json:"hits"`
	Runs    int    `json:"runs"`
	RBI     int    `json:"rbi"`
	Average string `json:"average"`
}

// Aggregator recomputes averages from raw counts under one convention.
type Aggregator struct {
	Convention stats.Convention
}

func NewAggregator(c stats.Convention) Aggregator {
	if c == "" {
		c = stats.SacrificeFlyAware
	}
	return Aggregator{Convention: c}
}

func (Aggregator) Filter(rows []domain.HistoricalStatRow, f Filter) []domain.HistoricalStatRow {
	out := make([]domain.HistoricalStatRow, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}

// GroupByPlayer sums each player's rows and returns a leaderboard sorted by
// average, highest first. Ties keep input order.
func (a Aggregator) GroupByPlayer(rows []domain.HistoricalStatRow) []PlayerTotals {
	index := make(map[string]int)
	games := make(map[string]map[time.Time]struct{})
	var totals []PlayerTotals

	for _, row := range rows {
		i, ok := index[row.PlayerName]
		if !ok {
			i = len(totals)
			index[row.PlayerName] = i
			totals = append(totals, PlayerTotals{Name: row.PlayerName})
			games[row.PlayerName] = make(map[time.Time]struct{})
		}
		p := &totals[i]
		games[row.PlayerName][domain.CalendarDate(row.GameDate)] = struct{}{}
		p.AtBats += row.AtBats
		p.Hits += row.Hits
		p.Singles += row.Singles
		p.Doubles += row.Doubles
		p.Triples += row.Triples
		p.HomeRuns += row.HomeRuns
		p.SacrificeFlies += row.SacrificeFlies
		p.Outs += row.Outs
		p.Runs += row.Runs
		p.RBI += row.RBI
	}

	for i := range totals {
		p := &totals[i]
		p.Games = len(games[p.Name])
		p.OfficialAtBats = a.Convention.OfficialAtBats(p.AtBats, p.SacrificeFlies)
		p.Average = stats.FormatAverage(p.Hits, p.OfficialAtBats)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return stats.AverageValue(totals[i].Hits, totals[i].OfficialAtBats) >
			stats.AverageValue(totals[j].Hits, totals[j].OfficialAtBats)
	})
	return totals
}

// GroupByGame buckets rows by game date, most recent first, keeping at most
// limit games. A limit of zero or less keeps all of them.
func (a Aggregator) GroupByGame(rows []domain.HistoricalStatRow, limit int) []GameGroup {
	index := make(map[time.Time]int)
	var groups []GameGroup

	for _, row := range rows {
		day := domain.CalendarDate(row.GameDate)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, GameGroup{Date: day})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	for i := range groups {
		g := &groups[i]
		var sf int
		for _, row := range g.Rows {
			g.Hits += row.Hits
			g.AtBats += row.AtBats
			sf += row.SacrificeFlies
		}
		g.TeamAverage = a.Convention.Average(g.Hits, g.AtBats, sf)
	}
	return groups
}

// Summarize produces the team totals shown above the leaderboard.
func (a Aggregator) Summarize(rows []domain.HistoricalStatRow) Summary {
	dates := make(map[time.Time]struct{})
	var s Summary
	var sf int
	for _, row := range rows {
		dates[domain.CalendarDate(row.GameDate)] = struct{}{}
		s.AtBats += row.AtBats
		s.Hits += row.Hits
		s.Runs += row.Runs
		s.RBI += row.RBI
		sf += row.SacrificeFlies
	}
	s.Games = len(dates)
	s.Average = a.Convention.Average(s.Hits, s.AtBats, sf)
	return s
}

// Players lists distinct player names, sorted, for filter pickers.
func Players(rows []domain.HistoricalStatRow) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range rows {
		if _, ok := seen[row.PlayerName]; ok {
			continue
		}
		seen[row.PlayerName] = struct{}{}
		names = append(names, row.PlayerName)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
