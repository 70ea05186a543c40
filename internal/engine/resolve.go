package engine

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// ErrInvalidFieldPosition is returned for states without a range table (shootout, coin toss).
var ErrInvalidFieldPosition = errors.New("no range table for field position")

// Resolve maps a diff to the outcome of the sub-range containing it.
func Resolve(state games.State, diff int) (games.Outcome, error) {
	table, ok := tables[state]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidFieldPosition, state)
	}
	if diff < 0 || diff > MaxDiff {
		return "", games.Invalid("diff %d outside [0,%d]", diff, MaxDiff)
	}
	outcome := table[0].outcome
	for _, entry := range table {
		if entry.min > diff {
			break
		}
		outcome = entry.outcome
	}
	return outcome, nil
}
