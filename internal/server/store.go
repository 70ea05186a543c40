package server

import (
	"context"
	"log/slog"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/app/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/app/writeups"
	"github.com/preston-bernstein/fake-soccer-service/internal/config"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
	"github.com/preston-bernstein/fake-soccer-service/internal/store/postgres"
)

// backend is everything the services persist: games, teams and writeups.
type backend interface {
	appgames.Store
	teams.Store
	writeups.Store
}

var openPostgres = func(ctx context.Context, cfg config.DatabaseConfig) (backend, func() error, error) {
	pg, err := postgres.Open(ctx, cfg.URL, cfg.QueryTimeout)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// openBackend connects to Postgres when configured and otherwise keeps everything in memory.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (backend, func() error, error) {
	if !cfg.Enabled() {
		logging.Info(logger, "using in-memory store")
		return store.NewMemoryStore(nil), func() error { return nil }, nil
	}
	ctx, cancel := context.WithTimeout(ctx, openStoreTimeout)
	defer cancel()
	b, closeFn, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logging.Info(logger, "using postgres store")
	return b, closeFn, nil
}
