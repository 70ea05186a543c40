package games

import "time"

// Side identifies one of the two teams in a game.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether s is HOME or AWAY.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Phase says which kind of number the game expects next.
type Phase string

const (
	PhaseDefensePending Phase = "DEFENSE_PENDING"
	PhaseOffensePending Phase = "OFFENSE_PENDING"
)

// State is the field position of a game, plus the two coin toss steps.
type State string

const (
	StateCoinToss       State = "COIN_TOSS"
	StateCoinTossChoice State = "COIN_TOSS_CHOICE"
	StateAttack         State = "ATTACK"
	StateMidfield       State = "MIDFIELD"
	StateDefense        State = "DEFENSE"
	StateFreeKick       State = "FREE_KICK"
	StatePenalty        State = "PENALTY"
	StateBreakaway      State = "BREAKAWAY"
	StateShootout       State = "SHOOTOUT"
)

// PlayStates lists every field position that resolves plays through a range table.
var PlayStates = []State{
	StateAttack,
	StateMidfield,
	StateDefense,
	StateFreeKick,
	StatePenalty,
	StateBreakaway,
}

// IsCoinToss reports whether the game has not kicked off yet.
func (s State) IsCoinToss() bool {
	return s == StateCoinToss || s == StateCoinTossChoice
}

// Playable reports whether plays in s resolve through a range table.
func (s State) Playable() bool {
	for _, p := range PlayStates {
		if p == s {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateCoinToss, StateCoinTossChoice, StateShootout:
		return true
	}
	return s.Playable()
}

// Status is the lifecycle of a game.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusFinal     Status = "FINAL"
	StatusAbandoned Status = "ABANDONED"
	StatusForfeit   Status = "FORFEIT"
)

// Terminal reports whether no further play is possible.
func (s Status) Terminal() bool {
	return s == StatusFinal || s == StatusAbandoned || s == StatusForfeit
}

// Game is the persisted record of a single match.
type Game struct {
	ID        string `json:"id"`
	ChannelID string `json:"channelId"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`

	// Elapsed is game time in seconds. Stoppage minutes stay 0 until rolled.
	Elapsed    int  `json:"elapsed"`
	Stoppage1  int  `json:"stoppage1"`
	Stoppage2  int  `json:"stoppage2"`
	SecondHalf bool `json:"secondHalf"`

	Overtime    bool `json:"overtime"`
	Scrimmage   bool `json:"scrimmage"`
	DefaultChew bool `json:"defaultChew"`

	State            State `json:"state"`
	Phase            Phase `json:"phase"`
	WaitingOn        Side  `json:"waitingOn"`
	FirstHalfKickoff Side  `json:"firstHalfKickoff,omitempty"`
	DefenseNumber    int   `json:"-"`
	HomeDelays       int   `json:"homeDelays"`
	AwayDelays       int   `json:"awayDelays"`

	Deadline       time.Time `json:"deadline"`
	// WarnedDeadline is the deadline a warning was last sent for.
	WarnedDeadline time.Time `json:"-"`
	Status         Status    `json:"status"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Filter narrows game listings. Zero fields match everything.
type Filter struct {
	Status    Status
	ChannelID string
	TeamID    string
	Limit     int
}

// Matches reports whether g satisfies every set field of f (Limit aside).
func (f Filter) Matches(g Game) bool {
	if f.Status != "" && g.Status != f.Status {
		return false
	}
	if f.ChannelID != "" && g.ChannelID != f.ChannelID {
		return false
	}
	if f.TeamID != "" && g.HomeTeam != f.TeamID && g.AwayTeam != f.TeamID {
		return false
	}
	return true
}

// Active reports whether the game still accepts submissions.
func (g Game) Active() bool {
	return g.Status == StatusActive
}

// TeamFor returns the team id playing as side.
func (g Game) TeamFor(side Side) string {
	if side == SideHome {
		return g.HomeTeam
	}
	return g.AwayTeam
}

// SideOf returns the side the team plays as.
func (g Game) SideOf(teamID string) (Side, bool) {
	switch teamID {
	case g.HomeTeam:
		return SideHome, true
	case g.AwayTeam:
		return SideAway, true
	}
	return "", false
}

// WaitingTeam returns the team id expected to submit next.
func (g Game) WaitingTeam() string {
	return g.TeamFor(g.WaitingOn)
}

// Score returns the goals credited to side.
func (g Game) Score(side Side) int {
	if side == SideHome {
		return g.HomeScore
	}
	return g.AwayScore
}

// AddScore credits delta goals to side.
func (g *Game) AddScore(side Side, delta int) {
	if side == SideHome {
		g.HomeScore += delta
		return
	}
	g.AwayScore += delta
}

// SetScores overwrites both scores.
func (g *Game) SetScores(home, away int) {
	g.HomeScore = home
	g.AwayScore = away
}

// Delays returns the delay-of-game count for side.
func (g Game) Delays(side Side) int {
	if side == SideHome {
		return g.HomeDelays
	}
	return g.AwayDelays
}

// SetDelays overwrites the delay-of-game count for side.
func (g *Game) SetDelays(side Side, n int) {
	if side == SideHome {
		g.HomeDelays = n
		return
	}
	g.AwayDelays = n
}

// Outcome is the result of a resolved play.
type Outcome string

const (
	OutcomeGoal              Outcome = "GOAL"
	OutcomeOpposingGoal      Outcome = "OPPOSING_GOAL"
	OutcomePenaltyKick       Outcome = "PENALTY_KICK"
	OutcomeFreeKick          Outcome = "FREE_KICK"
	OutcomeAttack            Outcome = "ATTACK"
	OutcomeMidfield          Outcome = "MIDFIELD"
	OutcomeDefense           Outcome = "DEFENSE"
	OutcomeBreakaway         Outcome = "BREAKAWAY"
	OutcomeTurnoverAttack    Outcome = "TURNOVER_ATTACK"
	OutcomeTurnoverMidfield  Outcome = "TURNOVER_MIDFIELD"
	OutcomeTurnoverDefense   Outcome = "TURNOVER_DEFENSE"
	OutcomeTurnoverFreeKick  Outcome = "TURNOVER_FREE_KICK"
	OutcomeTurnoverBreakaway Outcome = "TURNOVER_BREAKAWAY"
	OutcomeTurnoverPenalty   Outcome = "TURNOVER_PENALTY"
)

// Outcomes lists every outcome a range table may produce.
var Outcomes = []Outcome{
	OutcomeGoal,
	OutcomeOpposingGoal,
	OutcomePenaltyKick,
	OutcomeFreeKick,
	OutcomeAttack,
	OutcomeMidfield,
	OutcomeDefense,
	OutcomeBreakaway,
	OutcomeTurnoverAttack,
	OutcomeTurnoverMidfield,
	OutcomeTurnoverDefense,
	OutcomeTurnoverFreeKick,
	OutcomeTurnoverBreakaway,
	OutcomeTurnoverPenalty,
}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	for _, known := range Outcomes {
		if known == o {
			return true
		}
	}
	return false
}

// Writeup is flavor text attached to a (state, outcome) pair.
// Text may reference {offteam} and {defteam}.
type Writeup struct {
	ID       int64   `json:"id"`
	State    State   `json:"state"`
	Outcome  Outcome `json:"outcome"`
	Text     string  `json:"text"`
	Disabled bool    `json:"disabled"`
}
