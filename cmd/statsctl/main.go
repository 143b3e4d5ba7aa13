// Command statsctl reads the season's stats from the spreadsheet endpoint
// and prints leaderboards, recent games and CSV exports.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/logger"
)

func main() {
	log := logger.SetLevel(zerolog.WarnLevel)
	cfg, err := config.Load(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand(cfg, log).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
