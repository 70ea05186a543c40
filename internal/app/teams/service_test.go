package teams

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/routing"
	"github.com/preston-bernstein/fake-soccer-service/internal/store"
)

func newService(t *testing.T) (*Service, *routing.Index) {
	t.Helper()
	idx := routing.NewIndex()
	return NewService(store.NewMemoryStore(nil), idx, nil), idx
}

func TestCreateNormalizesAndPublishes(t *testing.T) {
	svc, idx := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teams.Team{ID: " ARS ", Name: " Arsenal ", Color: "EF0107", Manager: "100", Substitute: "999"})
	require.NoError(t, err)
	assert.Equal(t, "ars", created.ID)
	assert.Equal(t, "Arsenal", created.Name)
	assert.Empty(t, created.Substitute)
	assert.Equal(t, []string{"ars"}, idx.TeamsForUser("100"))

	_, err = svc.Create(ctx, teams.Team{ID: "ars", Name: "Other", Manager: "1"})
	assert.ErrorIs(t, err, store.ErrTeamExists)

	_, err = svc.Create(ctx, teams.Team{ID: "toolongid", Name: "X", Manager: "1"})
	vErr, ok := games.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: Team ID too long.", vErr.Reason)
}

func TestSubstitutes(t *testing.T) {
	svc, idx := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, teams.Team{ID: "che", Name: "Chelsea", Manager: "200"})
	require.NoError(t, err)

	sub, err := svc.AddSubstitute(ctx, "CHE", "300")
	require.NoError(t, err)
	assert.Equal(t, "300", sub.EffectiveManager())
	assert.Equal(t, []string{"che"}, idx.TeamsForUser("300"))
	assert.Empty(t, idx.TeamsForUser("200"))

	_, err = svc.AddSubstitute(ctx, "che", " ")
	_, ok := games.AsValidationError(err)
	assert.True(t, ok)

	restored, err := svc.RemoveSubstitute(ctx, "che")
	require.NoError(t, err)
	assert.Equal(t, "200", restored.EffectiveManager())
	assert.Equal(t, []string{"che"}, idx.TeamsForUser("200"))

	_, err = svc.AddSubstitute(ctx, "liv", "300")
	assert.ErrorIs(t, err, games.ErrNotFound)
}

func TestRemove(t *testing.T) {
	svc, idx := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, teams.Team{ID: "che", Name: "Chelsea", Manager: "200"})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, "che")
	require.NoError(t, err)
	assert.Equal(t, "Chelsea", removed.Name)
	_, ok := idx.Manager("che")
	assert.False(t, ok)

	_, err = svc.Info(ctx, "che")
	assert.ErrorIs(t, err, games.ErrNotFound)
	_, err = svc.Remove(ctx, "che")
	assert.ErrorIs(t, err, games.ErrNotFound)
}

func TestListPages(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, teams.Team{ID: fmt.Sprintf("t%02d", i), Name: "Team", Manager: "1"})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first, PageSize)
	assert.Equal(t, "t00", first[0].ID)

	second, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, "t11", second[1].ID)

	for _, page := range []int{0, 3} {
		_, err = svc.List(ctx, page)
		vErr, ok := games.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "Error: Page number out of range.", vErr.Reason)
	}

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 12)
}
