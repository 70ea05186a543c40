package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// TaskName identifies the sweep in poller logs and metrics.
const TaskName = "deadline-sweep"

// Games is the slice of the game service a sweep needs.
type Games interface {
	ActiveGames(ctx context.Context) ([]games.Game, error)
	CheckDeadline(ctx context.Context, gameID string) (appgames.Outcome, error)
}

// Sweeper checks every active game for due warnings, delays of game and forfeits.
// It implements poller.Task.
type Sweeper struct {
	games   Games
	logger  *slog.Logger
	running atomic.Bool
}

// New constructs a Sweeper.
func New(g Games, logger *slog.Logger) *Sweeper {
	return &Sweeper{games: g, logger: logger}
}

func (s *Sweeper) Name() string {
	return TaskName
}

// Run sweeps once. A sweep that starts while another is in flight is skipped.
// A failure on one game does not stop the others.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		logging.Warn(s.logger, "previous sweep still running, skipping", logging.FieldTask, TaskName)
		return nil
	}
	defer s.running.Store(false)

	active, err := s.games.ActiveGames(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}

	var (
		errs  []error
		acted int
	)
	for _, g := range active {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := s.games.CheckDeadline(ctx, g.ID)
		if err != nil {
			logging.Error(s.logger, "deadline check failed", err, logging.FieldGameID, g.ID)
			errs = append(errs, fmt.Errorf("game %s: %w", g.ID, err))
			continue
		}
		if len(out.Events) > 0 {
			acted++
			logging.Info(s.logger, "deadline action applied",
				logging.FieldGameID, g.ID,
				logging.FieldEvent, string(out.Events[0].Kind),
			)
		}
	}

	logging.Info(s.logger, "sweep finished",
		logging.FieldTask, TaskName,
		logging.FieldCount, len(active),
		"acted", acted,
	)
	return errors.Join(errs...)
}
