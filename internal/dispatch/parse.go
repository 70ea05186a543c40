package dispatch

import (
	"strconv"
	"strings"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
)

// ParseNumber extracts the single submitted number from content. Only
// whitespace-separated tokens made entirely of digits count.
func ParseNumber(content string) (int, error) {
	var found []string
	for _, field := range strings.Fields(content) {
		if isDigits(field) {
			found = append(found, field)
		}
	}
	switch {
	case len(found) >= 2:
		return 0, games.Invalid("Multiple numbers were found in your message.")
	case len(found) == 0:
		return 0, games.Invalid("No numbers were found in your message. Please try again.")
	}
	n, err := strconv.Atoi(found[0])
	if err != nil || !engine.InRange(n) {
		return 0, games.Invalid("Error: Number out of range.")
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ParseClockUse reads the hurry or chew keyword from an offensive submission.
func ParseClockUse(content string) (engine.ClockUse, error) {
	lower := strings.ToLower(content)
	hurry := strings.Contains(lower, "hurry")
	chew := strings.Contains(lower, "chew")
	switch {
	case hurry && chew:
		return engine.ClockNormal, games.Invalid(`Error: Both "hurry" and "chew" were found in your message. Please try again.`)
	case hurry:
		return engine.ClockHurry, nil
	case chew:
		return engine.ClockChew, nil
	}
	return engine.ClockNormal, nil
}

// ParseCoinCall checks that content calls heads or tails. The call never decides the toss.
func ParseCoinCall(content string) error {
	lower := strings.ToLower(content)
	if !strings.Contains(lower, "heads") && !strings.Contains(lower, "tails") {
		return games.Invalid("Did not call heads or tails.")
	}
	return nil
}

// ParseKickChoice reports whether the toss winner chose to kick off now.
func ParseKickChoice(content string) (bool, error) {
	lower := strings.ToLower(content)
	kick := strings.Contains(lower, "kick")
	deferred := strings.Contains(lower, "defer")
	switch {
	case kick && deferred:
		return false, games.Invalid(`Error: Both "kick" and "defer" were found in your message. Please try again.`)
	case kick:
		return true, nil
	case deferred:
		return false, nil
	}
	return false, games.Invalid("Neither **kick** or **defer** were found in your message. Please try again.")
}
