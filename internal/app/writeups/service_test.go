package writeups

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
)

type failingStore struct {
	*store.MemoryStore
	err error
}

func (f *failingStore) RandomWriteup(context.Context, games.State, games.Outcome) (games.Writeup, error) {
	return games.Writeup{}, f.err
}

func newService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore(nil)
	return NewService(s, nil), s
}

func TestAddNormalizesAndValidates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	w, err := svc.Add(ctx, " attack ", "goal", "  {offteam} buries it  ")
	require.NoError(t, err)
	assert.Equal(t, games.StateAttack, w.State)
	assert.Equal(t, games.OutcomeGoal, w.Outcome)
	assert.Equal(t, "{offteam} buries it", w.Text)
	assert.NotZero(t, w.ID)

	_, err = svc.Add(ctx, "COIN_TOSS", "GOAL", "text")
	vErr, ok := games.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: either your gamestate, result, or both are not valid.", vErr.Reason)

	_, err = svc.Add(ctx, "ATTACK", "SAFETY", "text")
	_, ok = games.AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.Add(ctx, "SHOOTOUT", "GOAL", "   ")
	vErr, ok = games.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: Writeup text is required.", vErr.Reason)

	_, err = svc.Add(ctx, "SHOOTOUT", "GOAL", "Into the net")
	assert.NoError(t, err)
}

func TestPickUsesStoreOrFallback(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.Equal(t,
		"If you're seeing this, no writeup could be found. The result was GOAL.",
		svc.Pick(ctx, games.StateAttack, games.OutcomeGoal))

	_, err := svc.Add(ctx, "ATTACK", "GOAL", "Rocket from {offteam}")
	require.NoError(t, err)
	assert.Equal(t, "Rocket from {offteam}", svc.Pick(ctx, games.StateAttack, games.OutcomeGoal))
}

func TestPickFallsBackOnStoreFailure(t *testing.T) {
	fs := &failingStore{MemoryStore: store.NewMemoryStore(nil), err: errors.New("db down")}
	svc := NewService(fs, nil)

	assert.Equal(t, Fallback(games.OutcomeMidfield), svc.Pick(context.Background(), games.StateAttack, games.OutcomeMidfield))
}

func TestFillReplacesPlaceholders(t *testing.T) {
	got := Fill("{offteam} beat {defteam}, {offteam} celebrate", "Arsenal", "Chelsea")
	assert.Equal(t, "Arsenal beat Chelsea, Arsenal celebrate", got)
}

func TestToggleEditInfoSearch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	w, err := svc.Add(ctx, "MIDFIELD", "ATTACK", "Neat one-two")
	require.NoError(t, err)

	toggled, err := svc.Toggle(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Disabled)
	assert.Equal(t, Fallback(games.OutcomeAttack), svc.Pick(ctx, games.StateMidfield, games.OutcomeAttack))

	toggled, err = svc.Toggle(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Disabled)

	edited, err := svc.Edit(ctx, w.ID, "Slick one-two")
	require.NoError(t, err)
	assert.Equal(t, "Slick one-two", edited.Text)

	_, err = svc.Edit(ctx, w.ID, " ")
	_, ok := games.AsValidationError(err)
	assert.True(t, ok)

	info, err := svc.Info(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Slick one-two", info.Text)

	found, err := svc.Search(ctx, "one-two")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.Search(ctx, "")
	_, ok = games.AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.Toggle(ctx, 999)
	assert.ErrorIs(t, err, games.ErrNotFound)
	_, err = svc.Edit(ctx, 999, "x")
	assert.ErrorIs(t, err, games.ErrNotFound)
}
