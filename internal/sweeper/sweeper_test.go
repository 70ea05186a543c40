package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
	"github.com/preston-bernstein/fake-soccer-service/internal/testutil"
)

func TestSweepAppliesDelayOfGame(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	testutil.SeedTeams(t, mem)
	clock := testutil.NewClock(time.Date(2024, 4, 6, 15, 0, 0, 0, time.UTC))
	notifier := &testutil.StubNotifier{}
	svc := appgames.NewService(appgames.Options{
		Store:    mem,
		Teams:    mem,
		Machine:  engine.NewMachine(&testutil.SeqRand{}, engine.Rules{}),
		Notifier: notifier,
		Now:      clock.Now,
	})
	ctx := context.Background()
	out, err := svc.StartGame(ctx, appgames.StartRequest{ChannelID: "c1", HomeTeam: "ars", AwayTeam: "che"})
	require.NoError(t, err)

	logger, buf := testutil.NewBufferLogger()
	s := New(svc, logger)
	assert.Equal(t, TaskName, s.Name())

	require.NoError(t, s.Run(ctx))
	g, err := svc.Game(ctx, out.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Game.Version, g.Version)

	clock.Advance(25 * time.Hour)
	notifier.Reset()
	require.NoError(t, s.Run(ctx))

	g, err = svc.Game(ctx, out.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.AwayDelays)
	assert.Equal(t, 1, g.HomeScore)
	assert.Equal(t, games.StateMidfield, g.State)
	require.NotEmpty(t, notifier.OfKind(notify.KindChannel))
	assert.Contains(t, notifier.OfKind(notify.KindChannel)[0], "has taken their first delay of game")
	assert.Contains(t, buf.String(), "deadline action applied")
}

type fakeGames struct {
	active  []games.Game
	listErr error
	failOn  string
	checked atomic.Int32
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeGames) ActiveGames(context.Context) ([]games.Game, error) {
	return f.active, f.listErr
}

func (f *fakeGames) CheckDeadline(_ context.Context, id string) (appgames.Outcome, error) {
	f.checked.Add(1)
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
		<-f.block
	}
	if id == f.failOn {
		return appgames.Outcome{}, errors.New("boom")
	}
	return appgames.Outcome{Events: []engine.Event{{Kind: engine.EventDeadlineWarning}}}, nil
}

func TestSweepContinuesPastFailures(t *testing.T) {
	f := &fakeGames{
		active: []games.Game{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		failOn: "b",
	}
	err := New(f, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game b")
	assert.EqualValues(t, 3, f.checked.Load())
}

func TestSweepListFailure(t *testing.T) {
	f := &fakeGames{listErr: errors.New("db down")}
	err := New(f, nil).Run(context.Background())
	assert.ErrorContains(t, err, "list active games")
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	f := &fakeGames{active: []games.Game{{ID: "a"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(f, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.checked.Load())
}

func TestOverlappingSweepIsSkipped(t *testing.T) {
	f := &fakeGames{
		active:  []games.Game{{ID: "a"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	entered := f.entered
	s := New(f, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	<-entered

	require.NoError(t, s.Run(context.Background()))
	assert.EqualValues(t, 1, f.checked.Load())

	close(f.block)
	require.NoError(t, <-done)
}
