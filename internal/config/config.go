package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/okaytrev/softball-lineup/internal/stats"
)

type Config struct {
	ServerPort string
	DBPath     string
	LogLevel   string

	// SheetsURL is the spreadsheet endpoint games and lineups are saved to.
	// Empty means this service's own /exec endpoint.
	SheetsURL      string
	SheetsTimeout  time.Duration
	FireAndForget  bool
	StatsSavedBy   string
	LineupSavedBy  string
	Convention     stats.Convention
	RecentGames    int
	LineupRetained int

	// GameLocation is the zone a finished game's date is taken in.
	GameLocation *time.Location
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "softball.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SheetsURL:     getEnv("SHEETS_URL", ""),
		StatsSavedBy:  getEnv("STATS_SAVED_BY", "Stats Keeper"),
		LineupSavedBy: getEnv("LINEUP_SAVED_BY", "Coach"),
	}

	convention, err := stats.ParseConvention(getEnv("AVERAGE_CONVENTION", string(stats.SacrificeFlyAware)))
	if err != nil {
		return nil, err
	}
	cfg.Convention = convention

	if cfg.FireAndForget, err = strconv.ParseBool(getEnv("FIRE_AND_FORGET", "false")); err != nil {
		return nil, fmt.Errorf("FIRE_AND_FORGET: %w", err)
	}
	if cfg.RecentGames, err = strconv.Atoi(getEnv("RECENT_GAMES", "5")); err != nil {
		return nil, fmt.Errorf("RECENT_GAMES: %w", err)
	}
	if cfg.LineupRetained, err = strconv.Atoi(getEnv("LINEUP_RETAINED", "100")); err != nil {
		return nil, fmt.Errorf("LINEUP_RETAINED: %w", err)
	}
	if cfg.SheetsTimeout, err = time.ParseDuration(getEnv("SHEETS_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("SHEETS_TIMEOUT: %w", err)
	}

	if cfg.GameLocation, err = loadLocation(getEnv("GAME_TIMEZONE", "")); err != nil {
		return nil, fmt.Errorf("GAME_TIMEZONE: %w", err)
	}

	if cfg.SheetsURL == "" {
		cfg.SheetsURL = fmt.Sprintf("http://localhost:%s/exec", cfg.ServerPort)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("sheets_url", cfg.SheetsURL).
		Str("convention", string(cfg.Convention)).
		Bool("fire_and_forget", cfg.FireAndForget).
		Str("game_timezone", cfg.GameLocation.String()).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

var Module = fx.Provide(Load)
