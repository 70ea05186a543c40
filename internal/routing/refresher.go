package routing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// Source lists the records the index is rebuilt from.
type Source interface {
	ListGames(ctx context.Context, f games.Filter) ([]games.Game, error)
	ListTeams(ctx context.Context) ([]teams.Team, error)
}

// Refresher rebuilds an Index from its Source. It satisfies poller.Task.
type Refresher struct {
	index  *Index
	source Source
	logger *slog.Logger
}

// NewRefresher constructs a Refresher.
func NewRefresher(index *Index, source Source, logger *slog.Logger) *Refresher {
	return &Refresher{index: index, source: source, logger: logger}
}

// Name identifies the task in logs and metrics.
func (r *Refresher) Name() string {
	return "routing-refresh"
}

// Run reloads active games and teams. On failure the previous caches stay in place.
func (r *Refresher) Run(ctx context.Context) error {
	active, err := r.source.ListGames(ctx, games.Filter{Status: games.StatusActive})
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	all, err := r.source.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	r.index.Rebuild(active, all)

	offense, defense := r.index.Sizes()
	logging.Info(logging.FromContext(ctx, r.logger), "routing index rebuilt",
		logging.FieldCount, len(active),
		"offense", offense,
		"defense", defense,
		"teams", len(all),
	)
	return nil
}
