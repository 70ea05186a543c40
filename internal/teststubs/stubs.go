package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	domaingames "github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// StubTask is a test double for poller.Task.
type StubTask struct {
	TaskName string
	Err      error
	Calls    atomic.Int32
	// Notify is closed on the first run.
	Notify chan struct{}
	once   sync.Once
}

func (s *StubTask) Name() string {
	if s.TaskName == "" {
		return "stub"
	}
	return s.TaskName
}

// Run records the call and returns Err.
func (s *StubTask) Run(_ context.Context) error {
	s.Calls.Add(1)
	if s.Notify != nil {
		s.once.Do(func() { close(s.Notify) })
	}
	return s.Err
}

// GameStore is the persistence contract StubGameStore wraps.
type GameStore interface {
	CreateGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error)
	GetGame(ctx context.Context, id string) (domaingames.Game, error)
	UpdateGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error)
	ListGames(ctx context.Context, f domaingames.Filter) ([]domaingames.Game, error)
}

// StubGameStore delegates to a real store but can fail the next updates or reads.
type StubGameStore struct {
	GameStore

	mu sync.Mutex
	// Conflicts is how many upcoming UpdateGame calls fail with ErrConcurrencyConflict.
	Conflicts int
	// GetErr and ListErr are returned instead of delegating when set.
	GetErr  error
	ListErr error
	Updates int
}

// UpdateGame fails with a conflict while Conflicts remain, otherwise delegates.
func (s *StubGameStore) UpdateGame(ctx context.Context, g domaingames.Game) (domaingames.Game, error) {
	s.mu.Lock()
	s.Updates++
	if s.Conflicts > 0 {
		s.Conflicts--
		s.mu.Unlock()
		return domaingames.Game{}, domaingames.ErrConcurrencyConflict
	}
	s.mu.Unlock()
	return s.GameStore.UpdateGame(ctx, g)
}

// GetGame returns GetErr when set.
func (s *StubGameStore) GetGame(ctx context.Context, id string) (domaingames.Game, error) {
	if s.GetErr != nil {
		return domaingames.Game{}, s.GetErr
	}
	return s.GameStore.GetGame(ctx, id)
}

// ListGames returns ListErr when set.
func (s *StubGameStore) ListGames(ctx context.Context, f domaingames.Filter) ([]domaingames.Game, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.GameStore.ListGames(ctx, f)
}
