package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okaytrev/softball-lineup/internal/history"
)

func renderLeaders(w io.Writer, leaders []history.PlayerTotals, summary history.Summary) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Player", "G", "AB", "H", "1B", "2B", "3B", "HR", "SF", "R", "RBI", "AVG"})
	for i, p := range leaders {
		tbl.AppendRow(table.Row{
			i + 1, p.Name, p.Games, p.AtBats, p.Hits, p.Singles, p.Doubles,
			p.Triples, p.HomeRuns, p.SacrificeFlies, p.Runs, p.RBI, p.Average,
		})
	}
	tbl.AppendFooter(table.Row{
		"", fmt.Sprintf("Team (%d games)", summary.Games), "", summary.AtBats, summary.Hits,
		"", "", "", "", "", summary.Runs, summary.RBI, summary.Average,
	})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 13, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tbl.Render()
}

func renderGames(w io.Writer, games []history.GameGroup) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Date", "Players", "AB", "H", "Team AVG"})
	for _, g := range games {
		tbl.AppendRow(table.Row{g.Date.Format("Mon Jan 2, 2006"), len(g.Rows), g.AtBats, g.Hits, g.TeamAverage})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d games", len(games))})
	tbl.Render()
}
