package games

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestStatusTerminal(t *testing.T) {
	expected := map[Status]bool{
		StatusActive:    false,
		StatusFinal:     true,
		StatusAbandoned: true,
		StatusForfeit:   true,
	}
	for status, want := range expected {
		if got := status.Terminal(); got != want {
			t.Fatalf("%s: expected terminal=%v, got %v", status, want, got)
		}
	}
}

func TestSideOpposite(t *testing.T) {
	if SideHome.Opposite() != SideAway || SideAway.Opposite() != SideHome {
		t.Fatalf("expected sides to mirror each other")
	}
	if Side("LEFT").Valid() {
		t.Fatalf("expected unknown side to be invalid")
	}
}

func TestStateValid(t *testing.T) {
	for _, s := range PlayStates {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if !StateShootout.Valid() || !StateCoinToss.Valid() {
		t.Fatalf("expected shootout and coin toss to be known states")
	}
	if StateShootout.Playable() || StateCoinToss.Playable() || !StatePenalty.Playable() {
		t.Fatalf("unexpected playable classification")
	}
	if State("FREEKICK").Valid() {
		t.Fatalf("expected unknown state to be invalid")
	}
	if !StateCoinTossChoice.IsCoinToss() || StateMidfield.IsCoinToss() {
		t.Fatalf("unexpected coin toss classification")
	}
}

func TestGameSideHelpers(t *testing.T) {
	g := Game{HomeTeam: "ars", AwayTeam: "che", WaitingOn: SideAway}
	if g.TeamFor(SideHome) != "ars" || g.WaitingTeam() != "che" {
		t.Fatalf("unexpected team lookup %+v", g)
	}
	if side, ok := g.SideOf("che"); !ok || side != SideAway {
		t.Fatalf("expected che to be away, got %s %v", side, ok)
	}
	if _, ok := g.SideOf("liv"); ok {
		t.Fatalf("expected unknown team to have no side")
	}

	g.AddScore(SideHome, 2)
	g.AddScore(SideAway, 1)
	if g.Score(SideHome) != 2 || g.Score(SideAway) != 1 {
		t.Fatalf("unexpected scores %d-%d", g.HomeScore, g.AwayScore)
	}
	g.SetDelays(SideAway, 2)
	if g.Delays(SideAway) != 2 || g.Delays(SideHome) != 0 {
		t.Fatalf("unexpected delays %+v", g)
	}
}

func TestGameJSONHidesDefenseNumber(t *testing.T) {
	field, ok := reflect.TypeOf(Game{}).FieldByName("DefenseNumber")
	if !ok {
		t.Fatalf("missing DefenseNumber field")
	}
	if tag := field.Tag.Get("json"); tag != "-" {
		t.Fatalf("expected defense number to stay private, got tag %q", tag)
	}
}

func TestOutcomeValid(t *testing.T) {
	for _, o := range Outcomes {
		if !o.Valid() {
			t.Fatalf("expected %s valid", o)
		}
	}
	if Outcome("SAFETY").Valid() {
		t.Fatalf("expected unknown outcome to be invalid")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Invalid("bad %d", 1))
	vErr, ok := AsValidationError(err)
	if !ok || vErr.Reason != "bad 1" {
		t.Fatalf("expected validation error, got %v", err)
	}

	nf := fmt.Errorf("lookup: %w", NotFound("game", "g1"))
	if !errors.Is(nf, ErrNotFound) {
		t.Fatalf("expected not found to match sentinel")
	}
	if NotFound("team", "").Error() != "team not found" {
		t.Fatalf("unexpected message %q", NotFound("team", "").Error())
	}
}
