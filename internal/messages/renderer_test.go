package messages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/results"
)

type staticPicker string

func (s staticPicker) Pick(context.Context, games.State, games.Outcome) string {
	return string(s)
}

var (
	now       = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	testTeams = Teams{
		Home: teams.Team{ID: "ars", Manager: "100"},
		Away: teams.Team{ID: "che", Manager: "200", Substitute: "201"},
	}
)

func baseGame() games.Game {
	return games.Game{
		ID:        "g1",
		ChannelID: "c1",
		HomeTeam:  "ars",
		AwayTeam:  "che",
		Status:    games.StatusActive,
		State:     games.StateMidfield,
		Phase:     games.PhaseDefensePending,
		WaitingOn: games.SideAway,
	}
}

func texts(notices []notify.Notice, kind notify.Kind) []string {
	var out []string
	for _, n := range notices {
		if n.Kind == kind {
			out = append(out, n.Text)
		}
	}
	return out
}

func TestScorelineAndPrompts(t *testing.T) {
	g := baseGame()
	g.HomeScore = 2
	g.Elapsed = 754
	assert.Equal(t, "ARS 2-0 CHE 12:34", Scoreline(g))
	assert.Equal(t, "Please submit a defensive number between `1` and `1000`.\n\nARS 2-0 CHE 12:34.", DefensivePrompt(g))

	g.State = games.StateAttack
	assert.Equal(t,
		"<@100> Please submit an offensive number between `1` and `1000`. Add the phrase **chew** to use more time, and **hurry** to use less.\n\n<@100> has the ball on the opponents' side of the field.\n\nARS 2-0 CHE 12:34.",
		OffensivePrompt(g, "<@100>"))
	assert.Empty(t, StateText(games.StateCoinToss, "x"))
}

func TestMentionUsesEffectiveManagerOrID(t *testing.T) {
	assert.Equal(t, "<@201>", Mention(testTeams.Away, "che"))
	assert.Equal(t, "LIV", Mention(teams.Team{}, "liv"))
}

func TestRenderGameStart(t *testing.T) {
	g := baseGame()
	g.State = games.StateCoinToss
	out := NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventGameStarted, Side: games.SideAway}}, now)

	require.Len(t, out.Notices, 1)
	assert.Equal(t, notify.KindChannel, out.Notices[0].Kind)
	assert.Equal(t, "c1", out.Notices[0].ChannelID)
	assert.Equal(t, "Game has started between <@100> and <@201>\n\nARS 0-0 CHE 0:00\n\n<@201>, please call **heads** or **tails**.", out.Notices[0].Text)
	assert.Nil(t, out.Result)
}

func TestRenderDefenseAccepted(t *testing.T) {
	g := baseGame()
	g.Phase = games.PhaseOffensePending
	g.WaitingOn = games.SideHome
	out := NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventDefenseAccepted, Side: games.SideAway, Number: 321}}, now)

	assert.Equal(t, "I've got 321 as your number.", out.Reply)
	channel := texts(out.Notices, notify.KindChannel)
	require.Len(t, channel, 1)
	assert.Contains(t, channel[0], "<@100> has the ball at midfield.")
}

func TestRenderPlayWithStoppageAndDefensePrompt(t *testing.T) {
	g := baseGame()
	g.Elapsed = engine.HalfSeconds
	g.Stoppage1 = 3
	g.HomeScore = 1
	play := &engine.Play{
		State:         games.StateMidfield,
		Offense:       games.SideHome,
		OffenseNumber: 500,
		DefenseNumber: 500,
		Outcome:       games.OutcomeGoal,
	}
	g.WaitingOn = games.SideHome
	events := []engine.Event{
		{Kind: engine.EventPlayResolved, Side: games.SideHome, Play: play},
		{Kind: engine.EventStoppageStarted, Half: 1, Minutes: 3},
		{Kind: engine.EventDefenseRequested, Side: games.SideHome},
	}
	out := NewRenderer(staticPicker("{offteam} scores past {defteam}")).Render(context.Background(), g, testTeams, events, now)

	channel := texts(out.Notices, notify.KindChannel)
	require.Len(t, channel, 1)
	assert.Equal(t,
		"<@100> scores past <@201>\n\nOffensive Number: 500\nDefensive Number: 500\nDiff: 0\nResult: GOAL\n\n<@100>\n\nStoppage time for the first half has started. There will be 3 extra minutes.",
		channel[0])

	require.Len(t, out.Notices, 2)
	assert.Equal(t, notify.KindDirect, out.Notices[1].Kind)
	assert.Equal(t, "100", out.Notices[1].UserID)
}

func TestRenderRegulationFinal(t *testing.T) {
	g := baseGame()
	g.Status = games.StatusFinal
	g.HomeScore, g.AwayScore = 1, 3
	play := &engine.Play{State: games.StateAttack, Offense: games.SideAway, Outcome: games.OutcomeMidfield}
	events := []engine.Event{
		{Kind: engine.EventPlayResolved, Play: play},
		{Kind: engine.EventGameFinal, Reason: engine.FinalRegulation},
	}
	out := NewRenderer(nil).Render(context.Background(), g, testTeams, events, now)

	channel := texts(out.Notices, notify.KindChannel)
	require.Len(t, channel, 1)
	assert.Contains(t, channel[0], "If you're seeing this, no writeup could be found. The result was MIDFIELD.")
	assert.Contains(t, channel[0], "\n\nAnd that's the end of the game! <@201> has defeated <@100> by a score of 3-1. Drive home safely!\nYou may delete this channel whenever you want.")

	assert.Equal(t, []string{"FINAL: ARS 1-3 CHE"}, texts(out.Notices, notify.KindScores))
	require.NotNil(t, out.Result)
	assert.Equal(t, results.LabelFinal, out.Result.Label)
}

func TestRenderScrimmageDrawAndForcedEnd(t *testing.T) {
	g := baseGame()
	g.Scrimmage = true
	g.HomeScore, g.AwayScore = 2, 2

	out := NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventGameFinal, Reason: engine.FinalRegulation}}, now)
	assert.Equal(t, []string{"SCRIMMAGE: ARS 2-2 CHE"}, texts(out.Notices, notify.KindScores))
	assert.Contains(t, texts(out.Notices, notify.KindChannel)[0], "<@100> and <@201> drew by a score of 2-2.")

	out = NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventGameFinal, Reason: engine.FinalForced}}, now)
	assert.True(t, len(texts(out.Notices, notify.KindChannel)) == 1)
	assert.Contains(t, texts(out.Notices, notify.KindChannel)[0], "The game was ended early by a bot operator.\n\nAnd that's the end of the game!")
	assert.Equal(t, []string{"GAME ENDED EARLY: ARS 2-2 CHE"}, texts(out.Notices, notify.KindScores))
}

func TestRenderDeadlineEvents(t *testing.T) {
	g := baseGame()
	g.HomeScore = 1
	g.HomeDelays = 0
	g.AwayDelays = 1
	g.WaitingOn = games.SideHome

	out := NewRenderer(nil).Render(context.Background(), g, testTeams, []engine.Event{
		{Kind: engine.EventDelayOfGame, Side: games.SideAway, Number: 1},
		{Kind: engine.EventDefenseRequested, Side: games.SideHome},
	}, now)
	channel := texts(out.Notices, notify.KindChannel)
	require.Len(t, channel, 1)
	assert.Equal(t,
		"<@201> has taken their first delay of game.\n\nThey have automatically conceded a goal. Ball is placed back at midfield, <@201> kickoff.\n\nARS 1-0 CHE 0:00\n\nWaiting on <@100> for defensive number",
		channel[0])
	assert.Len(t, texts(out.Notices, notify.KindDirect), 1)

	out = NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventDeadlineWarning, Side: games.SideHome}}, now)
	assert.Equal(t, []string{"<@100> You have about 12 hours left on your deadline.\nFailure to submit will lead to concession of a goal and/or a forfeit."},
		texts(out.Notices, notify.KindChannel))

	g.Status = games.StatusForfeit
	g.HomeScore, g.AwayScore = 3, 0
	g.AwayDelays = 3
	out = NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventForfeit, Side: games.SideAway}}, now)
	assert.Equal(t, []string{"<@201> has reached the limit of 3 delays of game.\n\nThe game is over! <@100> has won!\n\nThe score is 3-0."},
		texts(out.Notices, notify.KindChannel))
	assert.Equal(t, []string{"AUTOMATIC FORFEIT: ARS 3-0 CHE"}, texts(out.Notices, notify.KindScores))

	out = NewRenderer(nil).Render(context.Background(), g, testTeams,
		[]engine.Event{{Kind: engine.EventForfeit, Side: games.SideAway, Shootout: true}}, now)
	assert.Equal(t, []string{"SHOOTOUT FORFEIT: ARS 3-0 CHE"}, texts(out.Notices, notify.KindScores))
	assert.Equal(t, results.LabelShootoutForfeit, out.Result.Label)
}

func TestRenderOperatorEvents(t *testing.T) {
	g := baseGame()
	r := NewRenderer(nil)

	out := r.Render(context.Background(), g, testTeams, []engine.Event{{Kind: engine.EventScoreAdjusted, Side: games.SideHome, Number: 1}}, now)
	assert.Equal(t, []string{"<@100> has been granted one goal by a bot operator."}, texts(out.Notices, notify.KindChannel))

	out = r.Render(context.Background(), g, testTeams, []engine.Event{{Kind: engine.EventScoreAdjusted, Side: games.SideAway, Number: -2}}, now)
	assert.Equal(t, []string{"<@201> has been removed of 2 goals by a bot operator."}, texts(out.Notices, notify.KindChannel))

	out = r.Render(context.Background(), g, testTeams, []engine.Event{{Kind: engine.EventDefaultChewToggle, Enabled: true}}, now)
	assert.Equal(t, []string{"<@100> <@201> The game is now in chew only mode."}, texts(out.Notices, notify.KindChannel))

	out = r.Render(context.Background(), g, testTeams, []engine.Event{{Kind: engine.EventDefaultChewToggle}}, now)
	assert.Equal(t, []string{"<@100> <@201> The game is no longer in chew only mode."}, texts(out.Notices, notify.KindChannel))

	out = r.Render(context.Background(), g, testTeams, []engine.Event{
		{Kind: engine.EventRerun, Side: games.SideAway},
		{Kind: engine.EventDefenseRequested, Side: games.SideAway},
	}, now)
	assert.Equal(t, []string{"<@100> <@201> Current play is being rerun. Awaiting defensive number."}, texts(out.Notices, notify.KindChannel))
	assert.Equal(t, "201", out.Notices[1].UserID)

	out = r.Render(context.Background(), g, testTeams, []engine.Event{{Kind: engine.EventAbandoned}}, now)
	assert.Equal(t, []string{"Game Abandoned. You may delete this channel at any time."}, texts(out.Notices, notify.KindChannel))
	assert.Equal(t, []string{"GAME ABANDONED: ARS 0-0 CHE"}, texts(out.Notices, notify.KindScores))
}

func TestRenderSkipsDirectWithoutManager(t *testing.T) {
	out := NewRenderer(nil).Render(context.Background(), baseGame(), Teams{},
		[]engine.Event{{Kind: engine.EventDefenseRequested, Side: games.SideAway}}, now)
	assert.Empty(t, out.Notices)
}
