package engine

import "fmt"

const (
	// HalfSeconds is the regulation length of one half.
	HalfSeconds = 2700
	// RegulationSeconds is the regulation length of a match.
	RegulationSeconds = 2 * HalfSeconds
)

// ClockUse selects how much game time an offensive play consumes.
type ClockUse int

const (
	ClockNormal ClockUse = iota
	ClockHurry
	ClockChew
)

// Seconds returns the game time consumed by a play.
func (c ClockUse) Seconds() int {
	switch c {
	case ClockHurry:
		return 30
	case ClockChew:
		return 60
	default:
		return 45
	}
}

func (c ClockUse) String() string {
	switch c {
	case ClockHurry:
		return "HURRY"
	case ClockChew:
		return "CHEW"
	default:
		return "NORMAL"
	}
}

// FormatClock renders elapsed seconds as a match clock. Stoppage minutes
// are 0 until rolled. Time inside a stoppage window is shown as an offset
// from 45:00 or 90:00; everything else has the stoppage allowances removed.
func FormatClock(elapsed, stoppage1, stoppage2 int) string {
	first := stoppage1 * 60
	second := stoppage2 * 60

	if elapsed >= HalfSeconds && elapsed < HalfSeconds+first {
		return "45:00+" + minutesSeconds(elapsed-HalfSeconds)
	}
	if shifted := elapsed - first; shifted >= RegulationSeconds && shifted < RegulationSeconds+second {
		return "90:00+" + minutesSeconds(elapsed-(RegulationSeconds+first))
	}
	remaining := elapsed - first - second
	if remaining < 0 {
		remaining = 0
	}
	return minutesSeconds(remaining)
}

func minutesSeconds(total int) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FirstHalfEnd is the elapsed second at which the first half ends.
func FirstHalfEnd(stoppage1 int) int {
	return HalfSeconds + stoppage1*60
}

// SecondHalfStoppageStart is the elapsed second at which second-half stoppage begins.
func SecondHalfStoppageStart(stoppage1 int) int {
	return RegulationSeconds + stoppage1*60
}

// MatchEnd is the elapsed second at which regulation, stoppage included, ends.
func MatchEnd(stoppage1, stoppage2 int) int {
	return RegulationSeconds + stoppage1*60 + stoppage2*60
}
