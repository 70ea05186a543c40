package engine

import "github.com/preston-bernstein/fake-soccer-service/internal/domain/games"

// EventKind names something that happened during a transition.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventCoinTossWon       EventKind = "coin_toss_won"
	EventKickoffChosen     EventKind = "kickoff_chosen"
	EventDefenseAccepted   EventKind = "defense_accepted"
	EventPlayResolved      EventKind = "play_resolved"
	EventStoppageStarted   EventKind = "stoppage_started"
	EventHalfTime          EventKind = "half_time"
	EventGameFinal         EventKind = "game_final"
	EventDefenseRequested  EventKind = "defense_requested"
	EventDeadlineWarning   EventKind = "deadline_warning"
	EventDelayOfGame       EventKind = "delay_of_game"
	EventForfeit           EventKind = "forfeit"
	EventRerun             EventKind = "rerun"
	EventScoreAdjusted     EventKind = "score_adjusted"
	EventDefaultChewToggle EventKind = "default_chew_toggled"
	EventAbandoned         EventKind = "abandoned"
)

// FinalReason distinguishes how a game reached FINAL.
type FinalReason string

const (
	FinalRegulation FinalReason = "regulation"
	FinalForced     FinalReason = "forced"
)

// Play is the resolved offensive submission.
type Play struct {
	State         games.State
	Offense       games.Side
	OffenseNumber int
	DefenseNumber int
	Diff          int
	Outcome       games.Outcome
	ClockUse      ClockUse
}

// Event carries the payload of one EventKind. Side is the team the event
// concerns: the winner, kicker, requested defender, or offending side.
type Event struct {
	Kind     EventKind
	Side     games.Side
	Number   int
	Minutes  int
	Half     int
	Enabled  bool
	Shootout bool
	Reason   FinalReason
	Play     *Play
}

// Result is the next game record plus what happened on the way there.
type Result struct {
	Game   games.Game
	Events []Event
}

// Changed reports whether the transition produced a different record to persist.
func (r Result) Changed(prev games.Game) bool {
	return r.Game != prev
}

// Has reports whether the result contains an event of kind.
func (r Result) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func (r *Result) emit(e Event) {
	r.Events = append(r.Events, e)
}
