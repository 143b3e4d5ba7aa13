package fx

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/okaytrev/softball-lineup/internal/api"
	"github.com/okaytrev/softball-lineup/internal/config"
	"github.com/okaytrev/softball-lineup/internal/database"
	"github.com/okaytrev/softball-lineup/internal/db"
	"github.com/okaytrev/softball-lineup/internal/hub"
	"github.com/okaytrev/softball-lineup/internal/logger"
	"github.com/okaytrev/softball-lineup/internal/metrics"
	"github.com/okaytrev/softball-lineup/internal/repository"
	"github.com/okaytrev/softball-lineup/internal/roster"
	"github.com/okaytrev/softball-lineup/internal/server"
	"github.com/okaytrev/softball-lineup/internal/service"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideGameService(r *roster.Roster, sheets *api.SheetsClient, h *hub.Hub, rec *metrics.Recorder, cfg *config.Config, logger zerolog.Logger) *service.GameService {
	return service.NewGameService(r, sheets, h, rec, cfg, logger)
}

func ProvideLineupService(r *roster.Roster, sheets *api.SheetsClient, local *repository.LocalStateRepository, rec *metrics.Recorder, cfg *config.Config, logger zerolog.Logger) *service.LineupService {
	return service.NewLineupService(r, sheets, local, rec, cfg, logger)
}

func ProvideHistoryService(sheets *api.SheetsClient, cfg *config.Config, logger zerolog.Logger) *service.HistoryService {
	return service.NewHistoryService(sheets, cfg, logger)
}

// restoreRoster loads the saved roster before the server takes requests.
func restoreRoster(lc fx.Lifecycle, svc *service.LineupService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.Restore(ctx)
		},
	})
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	metrics.Module,
	// repos
	fx.Provide(repository.NewStatRowRepository),
	fx.Provide(repository.NewLineupRepository),
	fx.Provide(repository.NewLocalStateRepository),
	// api client
	fx.Provide(api.NewSheetsClient),
	// live feed
	hub.Module,
	// svc
	fx.Provide(roster.New),
	fx.Provide(ProvideGameService),
	fx.Provide(ProvideLineupService),
	fx.Provide(ProvideHistoryService),
	fx.Invoke(restoreRoster),
	// server
	fx.Provide(server.NewTrackerServer),
	fx.Provide(server.NewSheetHandler),
	fx.Provide(server.NewLiveHandler),
)
