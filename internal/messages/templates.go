package messages

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
)

const (
	offensivePrompt = "%s Please submit an offensive number between `1` and `1000`. Add the phrase **chew** to use more time, and **hurry** to use less.\n\n%s\n\n%s."
	defensivePrompt = "Please submit a defensive number between `1` and `1000`.\n\n%s."
	deadlineWarning = "%s You have about 12 hours left on your deadline.\nFailure to submit will lead to concession of a goal and/or a forfeit."
	channelClosing  = " Drive home safely!\nYou may delete this channel whenever you want."
)

var stateTexts = map[games.State]string{
	games.StateAttack:    "%s has the ball on the opponents' side of the field.",
	games.StateMidfield:  "%s has the ball at midfield.",
	games.StateDefense:   "%s has the ball in their own territory.",
	games.StateFreeKick:  "%s has a free kick.",
	games.StateShootout:  "It's %s's turn in a shootout.",
	games.StateBreakaway: "%s is breaking away with the ball!",
	games.StatePenalty:   "%s has a penalty kick.",
}

// StateText describes who has the ball and where.
func StateText(state games.State, mention string) string {
	tmpl, ok := stateTexts[state]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, mention)
}

// Scoreline renders "HOME h-a AWAY clock".
func Scoreline(g games.Game) string {
	upper := cases.Upper(language.Und)
	return fmt.Sprintf("%s %d-%d %s %s",
		upper.String(g.HomeTeam), g.HomeScore, g.AwayScore, upper.String(g.AwayTeam),
		engine.FormatClock(g.Elapsed, g.Stoppage1, g.Stoppage2))
}

// OffensivePrompt asks the side with the ball for its number.
func OffensivePrompt(g games.Game, mention string) string {
	return fmt.Sprintf(offensivePrompt, mention, StateText(g.State, mention), Scoreline(g))
}

// DefensivePrompt asks the defending manager for a private number.
func DefensivePrompt(g games.Game) string {
	return fmt.Sprintf(defensivePrompt, Scoreline(g))
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func goals(n int) string {
	if n == 1 {
		return "one goal"
	}
	return fmt.Sprintf("%d goals", n)
}
