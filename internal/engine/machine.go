package engine

import (
	"time"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

const (
	defaultTurnWindow   = 24 * time.Hour
	defaultWarningLead  = 12 * time.Hour
	defaultWarningSpan  = time.Hour
	defaultDelayLimit   = 2
	forfeitWinnerGoals  = 3
	forfeitLopsidedDiff = 2
)

// Rules tunes deadlines and delay-of-game handling.
type Rules struct {
	// TurnWindow is how long a side has to submit before a delay of game.
	TurnWindow time.Duration
	// A warning is due when now falls in (deadline-WarningLead, deadline-WarningLead+WarningSpan).
	WarningLead time.Duration
	WarningSpan time.Duration
	// DelayLimit is the number of delays a side may take; the next one forfeits.
	DelayLimit int
}

func (r Rules) withDefaults() Rules {
	if r.TurnWindow <= 0 {
		r.TurnWindow = defaultTurnWindow
	}
	if r.WarningLead <= 0 {
		r.WarningLead = defaultWarningLead
	}
	if r.WarningSpan <= 0 {
		r.WarningSpan = defaultWarningSpan
	}
	if r.DelayLimit <= 0 {
		r.DelayLimit = defaultDelayLimit
	}
	return r
}

// Machine applies game transitions. It never touches storage or the network;
// randomness is limited to coin tosses and stoppage rolls.
type Machine struct {
	rand  Rand
	rules Rules
}

// NewMachine constructs a Machine. A nil Rand falls back to a time-seeded source.
func NewMachine(r Rand, rules Rules) *Machine {
	if r == nil {
		r = NewRand(time.Now().UnixNano())
	}
	return &Machine{rand: r, rules: rules.withDefaults()}
}

// Rules returns the effective rules.
func (m *Machine) Rules() Rules {
	return m.rules
}

// NewGameParams describes a match an operator wants to start.
type NewGameParams struct {
	ID        string
	ChannelID string
	HomeTeam  string
	AwayTeam  string
	Scrimmage bool
	Overtime  bool
}

// NewGame builds the initial record: coin toss pending, away side calling.
func (m *Machine) NewGame(p NewGameParams, now time.Time) (Result, error) {
	if p.HomeTeam == "" || p.AwayTeam == "" {
		return Result{}, games.Invalid("Error: Both a home and an away team are required.")
	}
	if p.HomeTeam == p.AwayTeam {
		return Result{}, games.Invalid("Error: Cannot start game with same two teams.")
	}
	if p.ChannelID == "" {
		return Result{}, games.Invalid("Error: A game channel is required.")
	}
	g := games.Game{
		ID:        p.ID,
		ChannelID: p.ChannelID,
		HomeTeam:  p.HomeTeam,
		AwayTeam:  p.AwayTeam,
		Scrimmage: p.Scrimmage,
		Overtime:  p.Overtime,
		State:     games.StateCoinToss,
		Phase:     games.PhaseOffensePending,
		WaitingOn: games.SideAway,
		Status:    games.StatusActive,
		Deadline:  now.Add(m.rules.TurnWindow),
		CreatedAt: now,
		UpdatedAt: now,
	}
	res := Result{Game: g}
	res.emit(Event{Kind: EventGameStarted, Side: games.SideAway})
	return res, nil
}

// CoinToss settles a legal heads/tails call. The call itself does not influence the winner.
func (m *Machine) CoinToss(g games.Game, now time.Time) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if g.State != games.StateCoinToss {
		return Result{}, games.Invalid("The coin toss has already happened.")
	}
	winner := TossCoin(m.rand)
	g.State = games.StateCoinTossChoice
	g.Phase = games.PhaseOffensePending
	g.WaitingOn = winner
	m.touch(&g, now)

	res := Result{Game: g}
	res.emit(Event{Kind: EventCoinTossWon, Side: winner})
	return res, nil
}

// ChooseKickoff applies the toss winner's choice to kick now or defer.
func (m *Machine) ChooseKickoff(g games.Game, now time.Time, kick bool) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if g.State != games.StateCoinTossChoice {
		return Result{}, games.Invalid("There is no coin toss choice to make.")
	}
	kicker := g.WaitingOn
	if !kick {
		kicker = kicker.Opposite()
	}
	g.State = games.StateMidfield
	g.Phase = games.PhaseDefensePending
	g.WaitingOn = kicker.Opposite()
	g.FirstHalfKickoff = kicker
	m.touch(&g, now)

	res := Result{Game: g}
	res.emit(Event{Kind: EventKickoffChosen, Side: kicker})
	res.emit(Event{Kind: EventDefenseRequested, Side: g.WaitingOn})
	return res, nil
}

// SubmitDefense stores the defensive number and hands the turn to the offense.
func (m *Machine) SubmitDefense(g games.Game, now time.Time, number int) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if g.State.IsCoinToss() || g.Phase != games.PhaseDefensePending {
		return Result{}, games.Invalid("The game is not waiting on a defensive number.")
	}
	if !InRange(number) {
		return Result{}, games.Invalid("Error: Number out of range.")
	}
	defender := g.WaitingOn
	g.DefenseNumber = number
	g.Phase = games.PhaseOffensePending
	g.WaitingOn = defender.Opposite()
	m.touch(&g, now)

	res := Result{Game: g}
	res.emit(Event{Kind: EventDefenseAccepted, Side: defender, Number: number})
	return res, nil
}

// SubmitOffense resolves a play against the stored defensive number and applies it.
func (m *Machine) SubmitOffense(g games.Game, now time.Time, number int, use ClockUse) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if g.State.IsCoinToss() || g.Phase != games.PhaseOffensePending {
		return Result{}, games.Invalid("The game is not waiting on an offensive number.")
	}
	if !InRange(number) {
		return Result{}, games.Invalid("Error: Number out of range.")
	}
	if g.DefaultChew {
		use = ClockChew
	}
	diff := Diff(number, g.DefenseNumber)
	outcome, err := Resolve(g.State, diff)
	if err != nil {
		return Result{}, err
	}

	play := &Play{
		State:         g.State,
		Offense:       g.WaitingOn,
		OffenseNumber: number,
		DefenseNumber: g.DefenseNumber,
		Diff:          diff,
		Outcome:       outcome,
		ClockUse:      use,
	}
	res := Result{Game: applyOutcome(g, play)}
	m.touch(&res.Game, now)
	res.emit(Event{Kind: EventPlayResolved, Side: play.Offense, Play: play})

	if !deferBoundaries(outcome) {
		m.checkBoundaries(&res)
	}
	if res.Game.Active() {
		res.emit(Event{Kind: EventDefenseRequested, Side: res.Game.WaitingOn})
	}
	return res, nil
}

// applyOutcome credits goals, moves the ball, spends clock, and hands the
// next defensive submission to the right side.
func applyOutcome(g games.Game, p *Play) games.Game {
	offense := p.Offense
	switch p.Outcome {
	case games.OutcomeGoal:
		g.AddScore(offense, 1)
	case games.OutcomeOpposingGoal:
		g.AddScore(offense.Opposite(), 1)
	}
	if offenseDefendsNext(p.Outcome) {
		g.WaitingOn = offense
	} else {
		g.WaitingOn = offense.Opposite()
	}
	g.State = positionAfter(p.Outcome)
	g.Elapsed += p.ClockUse.Seconds()
	g.Phase = games.PhaseDefensePending
	return g
}

// offenseDefendsNext lists outcomes after which the side that just had the
// ball submits the next defensive number.
func offenseDefendsNext(o games.Outcome) bool {
	switch o {
	case games.OutcomeGoal,
		games.OutcomeTurnoverAttack,
		games.OutcomeTurnoverMidfield,
		games.OutcomeTurnoverDefense,
		games.OutcomeTurnoverFreeKick,
		games.OutcomeTurnoverBreakaway,
		games.OutcomeTurnoverPenalty:
		return true
	}
	return false
}

func positionAfter(o games.Outcome) games.State {
	switch o {
	case games.OutcomeAttack, games.OutcomeTurnoverAttack:
		return games.StateAttack
	case games.OutcomeMidfield, games.OutcomeTurnoverMidfield, games.OutcomeGoal, games.OutcomeOpposingGoal:
		return games.StateMidfield
	case games.OutcomeDefense, games.OutcomeTurnoverDefense:
		return games.StateDefense
	case games.OutcomeFreeKick, games.OutcomeTurnoverFreeKick:
		return games.StateFreeKick
	case games.OutcomeBreakaway, games.OutcomeTurnoverBreakaway:
		return games.StateBreakaway
	default:
		return games.StatePenalty
	}
}

// deferBoundaries reports whether a half may not end on this outcome
// because a set piece is still to be taken.
func deferBoundaries(o games.Outcome) bool {
	switch o {
	case games.OutcomePenaltyKick,
		games.OutcomeFreeKick,
		games.OutcomeTurnoverFreeKick,
		games.OutcomeTurnoverPenalty,
		games.OutcomeBreakaway,
		games.OutcomeTurnoverBreakaway:
		return true
	}
	return false
}

// checkBoundaries rolls stoppage time and ends halves or the match.
func (m *Machine) checkBoundaries(res *Result) {
	g := &res.Game
	switch {
	case g.Elapsed >= HalfSeconds && g.Stoppage1 == 0:
		g.Stoppage1 = RollStoppage(m.rand)
		res.emit(Event{Kind: EventStoppageStarted, Half: 1, Minutes: g.Stoppage1})
	case g.Elapsed >= FirstHalfEnd(g.Stoppage1) && !g.SecondHalf:
		g.State = games.StateMidfield
		g.Phase = games.PhaseDefensePending
		g.SecondHalf = true
		g.Elapsed = FirstHalfEnd(g.Stoppage1)
		// The first-half kicker defends first, so the other side kicks off.
		g.WaitingOn = firstHalfKicker(*g)
		res.emit(Event{Kind: EventHalfTime, Side: g.WaitingOn.Opposite()})
	}

	if !g.SecondHalf {
		return
	}
	switch {
	case g.Elapsed >= SecondHalfStoppageStart(g.Stoppage1) && g.Stoppage2 == 0:
		g.Stoppage2 = RollStoppage(m.rand)
		res.emit(Event{Kind: EventStoppageStarted, Half: 2, Minutes: g.Stoppage2})
	case g.Stoppage2 > 0 && g.Elapsed >= MatchEnd(g.Stoppage1, g.Stoppage2):
		if g.Overtime {
			// TODO: overtime play once its rules are settled; the game stays active until an operator ends it.
			return
		}
		g.Status = games.StatusFinal
		res.emit(Event{Kind: EventGameFinal, Reason: FinalRegulation})
	}
}

func firstHalfKicker(g games.Game) games.Side {
	if g.FirstHalfKickoff.Valid() {
		return g.FirstHalfKickoff
	}
	return games.SideHome
}

// Rerun asks again for the defensive number of the current play.
func (m *Machine) Rerun(g games.Game, now time.Time) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if g.State.IsCoinToss() {
		return Result{}, games.Invalid("Error: The game has not kicked off yet.")
	}
	if g.Phase != games.PhaseDefensePending {
		g.WaitingOn = g.WaitingOn.Opposite()
	}
	g.Phase = games.PhaseDefensePending
	m.touch(&g, now)

	res := Result{Game: g}
	res.emit(Event{Kind: EventRerun, Side: g.WaitingOn})
	res.emit(Event{Kind: EventDefenseRequested, Side: g.WaitingOn})
	return res, nil
}

// AdjustScore applies an operator score correction.
func (m *Machine) AdjustScore(g games.Game, now time.Time, side games.Side, delta int) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	if !side.Valid() {
		return Result{}, games.Invalid("Please specify home or away.")
	}
	if delta == 0 {
		return Result{}, games.Invalid("Error: Score change must not be zero.")
	}
	if g.Score(side)+delta < 0 {
		return Result{}, games.Invalid("Error: Score cannot go below zero.")
	}
	g.AddScore(side, delta)
	g.UpdatedAt = now

	res := Result{Game: g}
	res.emit(Event{Kind: EventScoreAdjusted, Side: side, Number: delta})
	return res, nil
}

// ToggleDefaultChew flips chew-only mode.
func (m *Machine) ToggleDefaultChew(g games.Game, now time.Time) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	g.DefaultChew = !g.DefaultChew
	g.UpdatedAt = now

	res := Result{Game: g}
	res.emit(Event{Kind: EventDefaultChewToggle, Enabled: g.DefaultChew})
	return res, nil
}

// ForceEnd ends the game as it stands.
func (m *Machine) ForceEnd(g games.Game, now time.Time) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	g.Status = games.StatusFinal
	g.UpdatedAt = now

	res := Result{Game: g}
	res.emit(Event{Kind: EventGameFinal, Reason: FinalForced})
	return res, nil
}

// Abandon closes the game without a result.
func (m *Machine) Abandon(g games.Game, now time.Time) (Result, error) {
	if err := requireActive(g); err != nil {
		return Result{}, err
	}
	g.Status = games.StatusAbandoned
	g.UpdatedAt = now

	res := Result{Game: g}
	res.emit(Event{Kind: EventAbandoned})
	return res, nil
}

// CheckDeadline warns the responsible side or punishes a missed deadline.
// A result without events means nothing is due.
func (m *Machine) CheckDeadline(g games.Game, now time.Time) Result {
	res := Result{Game: g}
	if !g.Active() || g.Deadline.IsZero() {
		return res
	}
	offender := g.WaitingOn

	warnFrom := g.Deadline.Add(-m.rules.WarningLead)
	if now.After(warnFrom) && now.Before(warnFrom.Add(m.rules.WarningSpan)) {
		if g.WarnedDeadline.Equal(g.Deadline) {
			return res
		}
		g.WarnedDeadline = g.Deadline
		g.UpdatedAt = now
		res.Game = g
		res.emit(Event{Kind: EventDeadlineWarning, Side: offender})
		return res
	}
	if !now.After(g.Deadline) {
		return res
	}

	if g.State == games.StateShootout || g.Delays(offender) >= m.rules.DelayLimit {
		return m.forfeit(g, now, offender)
	}

	opponent := offender.Opposite()
	g.AddScore(opponent, 1)
	g.SetDelays(offender, g.Delays(offender)+1)
	g.State = games.StateMidfield
	g.Phase = games.PhaseDefensePending
	// The offender kicks off, so the opponent defends.
	g.WaitingOn = opponent
	m.touch(&g, now)

	res.Game = g
	res.emit(Event{Kind: EventDelayOfGame, Side: offender, Number: g.Delays(offender)})
	res.emit(Event{Kind: EventDefenseRequested, Side: opponent})
	return res
}

func (m *Machine) forfeit(g games.Game, now time.Time, offender games.Side) Result {
	shootout := g.State == games.StateShootout
	margin := g.HomeScore - g.AwayScore
	if margin < 0 {
		margin = -margin
	}
	if margin <= forfeitLopsidedDiff {
		if offender == games.SideHome {
			g.SetScores(0, forfeitWinnerGoals)
		} else {
			g.SetScores(forfeitWinnerGoals, 0)
		}
	}
	g.SetDelays(offender, m.rules.DelayLimit+1)
	g.Status = games.StatusForfeit
	g.UpdatedAt = now

	res := Result{Game: g}
	res.emit(Event{Kind: EventForfeit, Side: offender, Shootout: shootout})
	return res
}

func (m *Machine) touch(g *games.Game, now time.Time) {
	g.Deadline = now.Add(m.rules.TurnWindow)
	g.UpdatedAt = now
}

func requireActive(g games.Game) error {
	if !g.Active() {
		return games.Invalid("Error: This game is over.")
	}
	return nil
}
