package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/domain"
	"github.com/okaytrev/softball-lineup/internal/export"
	"github.com/okaytrev/softball-lineup/internal/history"
	"github.com/okaytrev/softball-lineup/internal/stats"
)

// cli holds what every subcommand shares: the endpoint and the row filter.
type cli struct {
	cfg    *config.Config
	logger zerolog.Logger
	now    func() time.Time

	url        string
	convention string
	player     string
	from       string
	to         string
}

func newRootCommand(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	c := &cli{cfg: cfg, logger: logger, now: time.Now}

	root := &cobra.Command{
		Use:   "statsctl",
		Short: "Season stats from the softball spreadsheet",
		Long: `statsctl reads every saved game from the spreadsheet endpoint.

Commands:
  leaders   Season leaderboard by batting average
  games     Most recent games with team totals
  export    Stats as CSV, same columns as the sheet`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.url, "url", cfg.SheetsURL, "spreadsheet endpoint")
	root.PersistentFlags().StringVar(&c.convention, "convention", string(cfg.Convention), "official at-bat convention (sacrifice-fly-aware or legacy)")
	root.PersistentFlags().StringVarP(&c.player, "player", "p", "", "only this player")
	root.PersistentFlags().StringVar(&c.from, "from", "", "first game date, YYYY-MM-DD")
	root.PersistentFlags().StringVar(&c.to, "to", "", "last game date, YYYY-MM-DD")

	root.AddCommand(c.leadersCommand())
	root.AddCommand(c.gamesCommand())
	root.AddCommand(c.exportCommand())
	return root
}

func (c *cli) leadersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leaders",
		Short: "Season leaderboard by batting average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, rows, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoStats)
				return nil
			}
			renderLeaders(cmd.OutOrStdout(), agg.GroupByPlayer(rows), agg.Summarize(rows))
			return nil
		},
	}
}

func (c *cli) gamesCommand() *cobra.Command {
	limit := c.cfg.RecentGames

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Most recent games with team totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, rows, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoStats)
				return nil
			}
			renderGames(cmd.OutOrStdout(), agg.GroupByGame(rows, limit))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "games to show, 0 for all")
	return cmd
}

func (c *cli) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Stats as CSV, same columns as the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg, rows, err := c.load(cmd.Context())
			if err != nil {
				return err
			}

			if output == "-" {
				return export.StatsCSV(cmd.OutOrStdout(), rows, agg.Convention)
			}
			if output == "" {
				output = export.StatsFilename(c.now())
			}
			return writeFile(output, func(w io.Writer) error {
				return export.StatsCSV(w, rows, agg.Convention)
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `file to write, "-" for stdout (default softball_stats_<date>.csv)`)
	return cmd
}

const msgNoStats = "No stats saved yet"

// load fetches and filters the rows. An empty sheet is no rows, not an error.
func (c *cli) load(ctx context.Context) (history.Aggregator, []domain.HistoricalStatRow, error) {
	convention, err := stats.ParseConvention(c.convention)
	if err != nil {
		return history.Aggregator{}, nil, err
	}
	agg := history.NewAggregator(convention)

	filter := history.Filter{PlayerName: c.player}
	if c.from != "" {
		if filter.DateFrom, err = domain.ParseGameDate(c.from); err != nil {
			return agg, nil, fmt.Errorf("--from: %w", err)
		}
	}
	if c.to != "" {
		if filter.DateTo, err = domain.ParseGameDate(c.to); err != nil {
			return agg, nil, fmt.Errorf("--to: %w", err)
		}
	}

	cfg := *c.cfg
	cfg.SheetsURL = c.url
	client := api.NewSheetsClient(&cfg, c.logger)

	ctx, cancel := context.WithTimeout(ctx, cfg.SheetsTimeout)
	defer cancel()

	rows, err := client.LoadStats(ctx)
	if errors.Is(err, api.ErrNoData) {
		return agg, nil, nil
	}
	if err != nil {
		return agg, nil, err
	}
	return agg, agg.Filter(rows, filter), nil
}

func writeFile(path string, write func(io.Writer) error, status io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(status, "wrote %s\n", path)
	return nil
}
