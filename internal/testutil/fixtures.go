package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
)

// Home and away managers used by SampleTeams.
const (
	HomeManager = "100"
	AwayManager = "200"
)

// SampleTeams returns two registered clubs, ars (home) and che (away).
func SampleTeams() []teams.Team {
	return []teams.Team{
		{ID: "ars", Name: "Arsenal", Color: "#EF0107", Manager: HomeManager},
		{ID: "che", Name: "Chelsea", Color: "#034694", Manager: AwayManager},
	}
}

// SampleGame returns an active game at midfield waiting on the away defense.
func SampleGame(id string) games.Game {
	return games.Game{
		ID:        id,
		ChannelID: "channel-" + id,
		HomeTeam:  "ars",
		AwayTeam:  "che",
		State:     games.StateMidfield,
		Phase:     games.PhaseDefensePending,
		WaitingOn: games.SideAway,
		Status:    games.StatusActive,
	}
}

// TeamCreator is the slice of a store SeedTeams needs.
type TeamCreator interface {
	CreateTeam(ctx context.Context, t teams.Team) error
}

// SeedTeams registers SampleTeams in s.
func SeedTeams(t *testing.T, s TeamCreator) {
	t.Helper()
	for _, team := range SampleTeams() {
		if err := s.CreateTeam(context.Background(), team); err != nil {
			t.Fatalf("failed to seed team %s: %v", team.ID, err)
		}
	}
}
