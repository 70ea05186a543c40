package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

var kickoffTime = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newTestMachine(values ...int) *Machine {
	return NewMachine(&scriptedRand{values: values}, Rules{})
}

// liveGame returns a game at midfield with HOME about to defend.
func liveGame() games.Game {
	return games.Game{
		ID:               "g1",
		ChannelID:        "ch1",
		HomeTeam:         "lions",
		AwayTeam:         "tigers",
		State:            games.StateMidfield,
		Phase:            games.PhaseDefensePending,
		WaitingOn:        games.SideHome,
		FirstHalfKickoff: games.SideAway,
		Status:           games.StatusActive,
		Deadline:         kickoffTime.Add(24 * time.Hour),
	}
}

func kinds(res Result) []EventKind {
	out := make([]EventKind, 0, len(res.Events))
	for _, e := range res.Events {
		out = append(out, e.Kind)
	}
	return out
}

func TestNewGameStartsWithCoinToss(t *testing.T) {
	m := newTestMachine()
	res, err := m.NewGame(NewGameParams{ID: "g1", ChannelID: "ch1", HomeTeam: "lions", AwayTeam: "tigers"}, kickoffTime)
	require.NoError(t, err)

	g := res.Game
	assert.Equal(t, games.StateCoinToss, g.State)
	assert.Equal(t, games.PhaseOffensePending, g.Phase)
	assert.Equal(t, games.SideAway, g.WaitingOn)
	assert.Equal(t, games.StatusActive, g.Status)
	assert.Equal(t, kickoffTime.Add(24*time.Hour), g.Deadline)
	assert.Equal(t, []EventKind{EventGameStarted}, kinds(res))
}

func TestNewGameRejectsBadParams(t *testing.T) {
	m := newTestMachine()
	_, err := m.NewGame(NewGameParams{ChannelID: "ch1", HomeTeam: "lions", AwayTeam: "lions"}, kickoffTime)
	_, ok := games.AsValidationError(err)
	assert.True(t, ok)

	_, err = m.NewGame(NewGameParams{HomeTeam: "lions", AwayTeam: "tigers"}, kickoffTime)
	_, ok = games.AsValidationError(err)
	assert.True(t, ok)
}

func TestCoinTossAndKickoffChoice(t *testing.T) {
	m := newTestMachine(1) // away wins
	start, err := m.NewGame(NewGameParams{ID: "g1", ChannelID: "ch1", HomeTeam: "lions", AwayTeam: "tigers"}, kickoffTime)
	require.NoError(t, err)

	tossed, err := m.CoinToss(start.Game, kickoffTime)
	require.NoError(t, err)
	assert.Equal(t, games.StateCoinTossChoice, tossed.Game.State)
	assert.Equal(t, games.SideAway, tossed.Game.WaitingOn)
	require.Len(t, tossed.Events, 1)
	assert.Equal(t, games.SideAway, tossed.Events[0].Side)

	_, err = m.CoinToss(tossed.Game, kickoffTime)
	assert.Error(t, err)

	deferred, err := m.ChooseKickoff(tossed.Game, kickoffTime, false)
	require.NoError(t, err)
	g := deferred.Game
	assert.Equal(t, games.StateMidfield, g.State)
	assert.Equal(t, games.PhaseDefensePending, g.Phase)
	assert.Equal(t, games.SideHome, g.FirstHalfKickoff)
	assert.Equal(t, games.SideAway, g.WaitingOn)
	assert.Equal(t, []EventKind{EventKickoffChosen, EventDefenseRequested}, kinds(deferred))

	kicked, err := m.ChooseKickoff(tossed.Game, kickoffTime, true)
	require.NoError(t, err)
	assert.Equal(t, games.SideAway, kicked.Game.FirstHalfKickoff)
	assert.Equal(t, games.SideHome, kicked.Game.WaitingOn)
}

func TestSubmissionsRejectedDuringCoinToss(t *testing.T) {
	m := newTestMachine()
	start, err := m.NewGame(NewGameParams{ID: "g1", ChannelID: "ch1", HomeTeam: "lions", AwayTeam: "tigers"}, kickoffTime)
	require.NoError(t, err)

	_, err = m.SubmitDefense(start.Game, kickoffTime, 10)
	assert.Error(t, err)
	_, err = m.SubmitOffense(start.Game, kickoffTime, 10, ClockNormal)
	assert.Error(t, err)
	_, err = m.Rerun(start.Game, kickoffTime)
	assert.Error(t, err)
}

func TestSubmitDefenseHandsTurnToOffense(t *testing.T) {
	m := newTestMachine()
	later := kickoffTime.Add(2 * time.Hour)
	res, err := m.SubmitDefense(liveGame(), later, 321)
	require.NoError(t, err)

	g := res.Game
	assert.Equal(t, 321, g.DefenseNumber)
	assert.Equal(t, games.PhaseOffensePending, g.Phase)
	assert.Equal(t, games.SideAway, g.WaitingOn)
	assert.Equal(t, later.Add(24*time.Hour), g.Deadline)
	require.Len(t, res.Events, 1)
	assert.Equal(t, games.SideHome, res.Events[0].Side)

	_, err = m.SubmitDefense(g, later, 5)
	assert.Error(t, err, "second defensive number is out of phase")
}

func TestSubmitDefenseRejectsOutOfRange(t *testing.T) {
	m := newTestMachine()
	_, err := m.SubmitDefense(liveGame(), kickoffTime, 1001)
	vErr, ok := games.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: Number out of range.", vErr.Reason)
}

func offensePending(defense int) games.Game {
	g := liveGame()
	g.Phase = games.PhaseOffensePending
	g.WaitingOn = games.SideAway
	g.DefenseNumber = defense
	return g
}

func TestSubmitOffenseGoalKeepsScorerDefending(t *testing.T) {
	m := newTestMachine()
	res, err := m.SubmitOffense(offensePending(500), kickoffTime, 505, ClockNormal)
	require.NoError(t, err)

	g := res.Game
	assert.Equal(t, 1, g.AwayScore)
	assert.Equal(t, 0, g.HomeScore)
	assert.Equal(t, games.StateMidfield, g.State)
	assert.Equal(t, games.SideAway, g.WaitingOn)
	assert.Equal(t, games.PhaseDefensePending, g.Phase)
	assert.Equal(t, 45, g.Elapsed)
	assert.Equal(t, []EventKind{EventPlayResolved, EventDefenseRequested}, kinds(res))

	play := res.Events[0].Play
	require.NotNil(t, play)
	assert.Equal(t, games.OutcomeGoal, play.Outcome)
	assert.Equal(t, 5, play.Diff)
	assert.Equal(t, games.StateMidfield, play.State)
}

func TestSubmitOffenseOpposingGoal(t *testing.T) {
	m := newTestMachine()
	// 1 vs 500 is diff 499 at midfield
	res, err := m.SubmitOffense(offensePending(1), kickoffTime, 500, ClockHurry)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Game.HomeScore)
	assert.Equal(t, games.SideHome, res.Game.WaitingOn)
	assert.Equal(t, 30, res.Game.Elapsed)
}

func TestSubmitOffenseOutcomeTransitions(t *testing.T) {
	cases := []struct {
		name        string
		offense     int
		wantOutcome games.Outcome
		wantState   games.State
		wantWaiting games.Side
	}{
		{"attack", 600, games.OutcomeAttack, games.StateAttack, games.SideHome},
		{"midfield", 700, games.OutcomeMidfield, games.StateMidfield, games.SideHome},
		{"defense", 800, games.OutcomeDefense, games.StateDefense, games.SideHome},
		{"turnover defense", 850, games.OutcomeTurnoverDefense, games.StateDefense, games.SideAway},
		{"turnover midfield", 900, games.OutcomeTurnoverMidfield, games.StateMidfield, games.SideAway},
		{"turnover attack", 950, games.OutcomeTurnoverAttack, games.StateAttack, games.SideAway},
		{"turnover free kick", 970, games.OutcomeTurnoverFreeKick, games.StateFreeKick, games.SideAway},
		{"turnover breakaway", 992, games.OutcomeTurnoverBreakaway, games.StateBreakaway, games.SideAway},
		{"penalty kick", 512, games.OutcomePenaltyKick, games.StatePenalty, games.SideHome},
		{"breakaway", 520, games.OutcomeBreakaway, games.StateBreakaway, games.SideHome},
		{"free kick", 530, games.OutcomeFreeKick, games.StateFreeKick, games.SideHome},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMachine()
			res, err := m.SubmitOffense(offensePending(500), kickoffTime, tc.offense, ClockNormal)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutcome, res.Events[0].Play.Outcome)
			assert.Equal(t, tc.wantState, res.Game.State)
			assert.Equal(t, tc.wantWaiting, res.Game.WaitingOn)
			assert.Equal(t, 0, res.Game.HomeScore+res.Game.AwayScore)
		})
	}
}

func TestDefaultChewForcesChew(t *testing.T) {
	m := newTestMachine()
	g := offensePending(500)
	g.DefaultChew = true
	res, err := m.SubmitOffense(g, kickoffTime, 700, ClockHurry)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Game.Elapsed)
	assert.Equal(t, ClockChew, res.Events[0].Play.ClockUse)
}

func TestFirstHalfStoppageThenHalfTime(t *testing.T) {
	m := newTestMachine(400) // roll 401 -> 3 minutes
	g := offensePending(500)
	g.Elapsed = 2690

	res, err := m.SubmitOffense(g, kickoffTime, 700, ClockNormal)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Game.Stoppage1)
	assert.False(t, res.Game.SecondHalf)
	assert.Equal(t, []EventKind{EventPlayResolved, EventStoppageStarted, EventDefenseRequested}, kinds(res))
	assert.Equal(t, 3, res.Events[1].Minutes)
	assert.Equal(t, 1, res.Events[1].Half)

	g = offensePending(500)
	g.Elapsed = 2870
	g.Stoppage1 = 3
	res, err = m.SubmitOffense(g, kickoffTime, 700, ClockNormal)
	require.NoError(t, err)
	h := res.Game
	assert.True(t, h.SecondHalf)
	assert.Equal(t, 2880, h.Elapsed)
	assert.Equal(t, games.StateMidfield, h.State)
	assert.Equal(t, games.PhaseDefensePending, h.Phase)
	// away kicked off the first half, so away defends and home kicks off
	assert.Equal(t, games.SideAway, h.WaitingOn)
	assert.True(t, res.Has(EventHalfTime))
	assert.Equal(t, "45:00", FormatClock(h.Elapsed, h.Stoppage1, h.Stoppage2))
}

func TestSetPieceDefersHalfTime(t *testing.T) {
	m := newTestMachine(400)
	g := offensePending(500)
	g.Elapsed = 2870
	g.Stoppage1 = 3

	res, err := m.SubmitOffense(g, kickoffTime, 512, ClockNormal) // penalty kick
	require.NoError(t, err)
	assert.False(t, res.Game.SecondHalf)
	assert.Equal(t, 2915, res.Game.Elapsed)
	assert.False(t, res.Has(EventHalfTime))
}

func TestSecondHalfStoppageAndFinal(t *testing.T) {
	m := newTestMachine(700) // roll 701 -> 4 minutes
	g := offensePending(500)
	g.SecondHalf = true
	g.Stoppage1 = 3
	g.Elapsed = 5570

	res, err := m.SubmitOffense(g, kickoffTime, 700, ClockNormal)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Game.Stoppage2)
	assert.True(t, res.Game.Active())

	g = res.Game
	g.Phase = games.PhaseOffensePending
	g.WaitingOn = games.SideAway
	g.DefenseNumber = 500
	g.Elapsed = 5800
	res, err = m.SubmitOffense(g, kickoffTime, 505, ClockNormal)
	require.NoError(t, err)
	assert.Equal(t, games.StatusFinal, res.Game.Status)
	assert.Equal(t, 1, res.Game.AwayScore)
	assert.Equal(t, []EventKind{EventPlayResolved, EventGameFinal}, kinds(res))
	assert.Equal(t, FinalRegulation, res.Events[1].Reason)

	_, err = m.SubmitDefense(res.Game, kickoffTime, 10)
	assert.Error(t, err)
}

func TestOvertimeGameStaysActiveAtFullTime(t *testing.T) {
	m := newTestMachine()
	g := offensePending(500)
	g.Overtime = true
	g.SecondHalf = true
	g.Stoppage1 = 3
	g.Stoppage2 = 4
	g.Elapsed = 5800

	res, err := m.SubmitOffense(g, kickoffTime, 700, ClockNormal)
	require.NoError(t, err)
	assert.True(t, res.Game.Active())
	assert.False(t, res.Has(EventGameFinal))
}

func TestShootoutPlaysAreRejected(t *testing.T) {
	m := newTestMachine()
	g := offensePending(500)
	g.State = games.StateShootout
	_, err := m.SubmitOffense(g, kickoffTime, 700, ClockNormal)
	assert.ErrorIs(t, err, ErrInvalidFieldPosition)
}

func TestRerun(t *testing.T) {
	m := newTestMachine()
	later := kickoffTime.Add(time.Hour)

	res, err := m.Rerun(offensePending(500), later)
	require.NoError(t, err)
	assert.Equal(t, games.PhaseDefensePending, res.Game.Phase)
	assert.Equal(t, games.SideHome, res.Game.WaitingOn)
	assert.Equal(t, later.Add(24*time.Hour), res.Game.Deadline)

	res, err = m.Rerun(liveGame(), later)
	require.NoError(t, err)
	assert.Equal(t, games.SideHome, res.Game.WaitingOn)
}

func TestAdjustScore(t *testing.T) {
	m := newTestMachine()
	res, err := m.AdjustScore(liveGame(), kickoffTime, games.SideAway, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Game.AwayScore)

	res, err = m.AdjustScore(res.Game, kickoffTime, games.SideAway, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Game.AwayScore)

	_, err = m.AdjustScore(res.Game, kickoffTime, games.SideHome, -1)
	assert.Error(t, err)
	_, err = m.AdjustScore(res.Game, kickoffTime, games.Side("LEFT"), 1)
	assert.Error(t, err)
}

func TestOperatorCommands(t *testing.T) {
	m := newTestMachine()

	chew, err := m.ToggleDefaultChew(liveGame(), kickoffTime)
	require.NoError(t, err)
	assert.True(t, chew.Game.DefaultChew)
	assert.True(t, chew.Events[0].Enabled)

	ended, err := m.ForceEnd(liveGame(), kickoffTime)
	require.NoError(t, err)
	assert.Equal(t, games.StatusFinal, ended.Game.Status)
	assert.Equal(t, FinalForced, ended.Events[0].Reason)

	abandoned, err := m.Abandon(liveGame(), kickoffTime)
	require.NoError(t, err)
	assert.Equal(t, games.StatusAbandoned, abandoned.Game.Status)

	_, err = m.ForceEnd(abandoned.Game, kickoffTime)
	assert.Error(t, err)
	_, err = m.ToggleDefaultChew(ended.Game, kickoffTime)
	assert.Error(t, err)
}

func TestCheckDeadlineWarning(t *testing.T) {
	m := newTestMachine()
	g := liveGame()

	res := m.CheckDeadline(g, g.Deadline.Add(-11*time.Hour-30*time.Minute))
	assert.Equal(t, []EventKind{EventDeadlineWarning}, kinds(res))
	assert.True(t, res.Game.WarnedDeadline.Equal(g.Deadline))
	assert.Equal(t, g.Deadline, res.Game.Deadline, "a warning leaves the deadline alone")

	again := m.CheckDeadline(res.Game, g.Deadline.Add(-11*time.Hour-10*time.Minute))
	assert.Empty(t, again.Events, "one warning per deadline")

	res = m.CheckDeadline(g, g.Deadline.Add(-13*time.Hour))
	assert.Empty(t, res.Events)
	res = m.CheckDeadline(g, g.Deadline.Add(-10*time.Hour))
	assert.Empty(t, res.Events)
}

func TestCheckDeadlineDelayOfGame(t *testing.T) {
	m := newTestMachine()
	g := liveGame()
	g.State = games.StateAttack
	now := g.Deadline.Add(time.Minute)

	res := m.CheckDeadline(g, now)
	d := res.Game
	assert.Equal(t, 1, d.AwayScore)
	assert.Equal(t, 1, d.HomeDelays)
	assert.Equal(t, games.StateMidfield, d.State)
	assert.Equal(t, games.PhaseDefensePending, d.Phase)
	assert.Equal(t, games.SideAway, d.WaitingOn)
	assert.Equal(t, now.Add(24*time.Hour), d.Deadline)
	assert.Equal(t, []EventKind{EventDelayOfGame, EventDefenseRequested}, kinds(res))
	assert.Equal(t, 1, res.Events[0].Number)
}

func TestCheckDeadlineForfeit(t *testing.T) {
	m := newTestMachine()

	g := liveGame()
	g.HomeDelays = 2
	g.HomeScore = 2
	g.AwayScore = 1
	res := m.CheckDeadline(g, g.Deadline.Add(time.Minute))
	assert.Equal(t, games.StatusForfeit, res.Game.Status)
	assert.Equal(t, 0, res.Game.HomeScore)
	assert.Equal(t, 3, res.Game.AwayScore)
	assert.Equal(t, 3, res.Game.HomeDelays)
	assert.Equal(t, []EventKind{EventForfeit}, kinds(res))

	lopsided := liveGame()
	lopsided.HomeDelays = 2
	lopsided.AwayScore = 5
	res = m.CheckDeadline(lopsided, lopsided.Deadline.Add(time.Minute))
	assert.Equal(t, 0, res.Game.HomeScore)
	assert.Equal(t, 5, res.Game.AwayScore)

	// An offender already up by more than two keeps its lead on the record.
	offenderAhead := liveGame()
	offenderAhead.HomeDelays = 2
	offenderAhead.HomeScore = 4
	offenderAhead.AwayScore = 1
	res = m.CheckDeadline(offenderAhead, offenderAhead.Deadline.Add(time.Minute))
	assert.Equal(t, games.StatusForfeit, res.Game.Status)
	assert.Equal(t, 4, res.Game.HomeScore)
	assert.Equal(t, 1, res.Game.AwayScore)
	assert.Equal(t, games.SideHome, res.Events[0].Side)

	shootout := liveGame()
	shootout.State = games.StateShootout
	shootout.WaitingOn = games.SideAway
	res = m.CheckDeadline(shootout, shootout.Deadline.Add(time.Minute))
	assert.Equal(t, games.StatusForfeit, res.Game.Status)
	assert.Equal(t, 3, res.Game.HomeScore)
	assert.True(t, res.Events[0].Shootout)
}

func TestCheckDeadlineIgnoresTerminalGames(t *testing.T) {
	m := newTestMachine()
	g := liveGame()
	g.Status = games.StatusFinal
	res := m.CheckDeadline(g, g.Deadline.Add(time.Hour))
	assert.Empty(t, res.Events)
}

// Playing random numbers to completion must keep every invariant and always terminate.
func TestRandomGamesHoldInvariants(t *testing.T) {
	r := NewRand(7)
	m := NewMachine(r, Rules{})
	for game := 0; game < 50; game++ {
		start, err := m.NewGame(NewGameParams{ID: "g", ChannelID: "c", HomeTeam: "lions", AwayTeam: "tigers"}, kickoffTime)
		require.NoError(t, err)
		res, err := m.CoinToss(start.Game, kickoffTime)
		require.NoError(t, err)
		res, err = m.ChooseKickoff(res.Game, kickoffTime, r.Intn(2) == 0)
		require.NoError(t, err)

		g := res.Game
		lastElapsed := g.Elapsed
		for plays := 0; g.Active(); plays++ {
			require.Less(t, plays, 1000, "game never ended")
			res, err = m.SubmitDefense(g, kickoffTime, r.Intn(1000)+1)
			require.NoError(t, err)
			res, err = m.SubmitOffense(res.Game, kickoffTime, r.Intn(1000)+1, ClockUse(r.Intn(3)))
			require.NoError(t, err)
			g = res.Game

			require.GreaterOrEqual(t, g.HomeScore, 0)
			require.GreaterOrEqual(t, g.AwayScore, 0)
			require.True(t, g.State.Valid())
			require.False(t, g.State.IsCoinToss())
			if g.Active() {
				require.Equal(t, games.PhaseDefensePending, g.Phase)
			}
			if !res.Has(EventHalfTime) {
				require.Greater(t, g.Elapsed, lastElapsed)
			}
			lastElapsed = g.Elapsed
		}
		assert.Equal(t, games.StatusFinal, g.Status)
		assert.True(t, g.SecondHalf)
	}
}
