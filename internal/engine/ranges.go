package engine

import (
	"fmt"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
)

// threshold opens a sub-range of diffs that resolve to outcome.
type threshold struct {
	min     int
	outcome games.Outcome
}

type rangeTable []threshold

// tables must hold an entry for every games.PlayStates member; validateTables enforces it at init.
var tables = map[games.State]rangeTable{
	games.StateAttack: {
		{0, games.OutcomeGoal},
		{21, games.OutcomePenaltyKick},
		{26, games.OutcomeFreeKick},
		{51, games.OutcomeAttack},
		{201, games.OutcomeMidfield},
		{301, games.OutcomeTurnoverDefense},
		{381, games.OutcomeTurnoverMidfield},
		{441, games.OutcomeTurnoverAttack},
		{471, games.OutcomeTurnoverFreeKick},
		{495, games.OutcomeTurnoverBreakaway},
		{500, games.OutcomeOpposingGoal},
	},
	games.StateMidfield: {
		{0, games.OutcomeGoal},
		{11, games.OutcomePenaltyKick},
		{13, games.OutcomeBreakaway},
		{28, games.OutcomeFreeKick},
		{41, games.OutcomeAttack},
		{151, games.OutcomeMidfield},
		{276, games.OutcomeDefense},
		{326, games.OutcomeTurnoverDefense},
		{383, games.OutcomeTurnoverMidfield},
		{431, games.OutcomeTurnoverAttack},
		{466, games.OutcomeTurnoverFreeKick},
		{490, games.OutcomeTurnoverBreakaway},
		{499, games.OutcomeOpposingGoal},
	},
	games.StateDefense: {
		{0, games.OutcomeGoal},
		{1, games.OutcomePenaltyKick},
		{3, games.OutcomeBreakaway},
		{23, games.OutcomeFreeKick},
		{31, games.OutcomeAttack},
		{101, games.OutcomeMidfield},
		{201, games.OutcomeDefense},
		{351, games.OutcomeTurnoverMidfield},
		{421, games.OutcomeTurnoverAttack},
		{461, games.OutcomeTurnoverFreeKick},
		{495, games.OutcomeTurnoverPenalty},
		{498, games.OutcomeOpposingGoal},
	},
	games.StateFreeKick: {
		{0, games.OutcomeGoal},
		{36, games.OutcomeAttack},
		{201, games.OutcomeMidfield},
		{276, games.OutcomeTurnoverDefense},
		{376, games.OutcomeTurnoverMidfield},
		{451, games.OutcomeTurnoverAttack},
		{476, games.OutcomeTurnoverFreeKick},
		{493, games.OutcomeTurnoverBreakaway},
		{500, games.OutcomeOpposingGoal},
	},
	games.StatePenalty: {
		{0, games.OutcomeGoal},
		{376, games.OutcomeTurnoverDefense},
	},
	games.StateBreakaway: {
		{0, games.OutcomeGoal},
		{81, games.OutcomeAttack},
		{201, games.OutcomeMidfield},
		{251, games.OutcomeTurnoverDefense},
		{371, games.OutcomeTurnoverMidfield},
		{461, games.OutcomeTurnoverAttack},
		{481, games.OutcomeTurnoverFreeKick},
		{495, games.OutcomeTurnoverBreakaway},
		{500, games.OutcomeOpposingGoal},
	},
}

func init() {
	if err := validateTables(tables); err != nil {
		panic(err)
	}
}

func validateTables(t map[games.State]rangeTable) error {
	for _, state := range games.PlayStates {
		table, ok := t[state]
		if !ok || len(table) == 0 {
			return fmt.Errorf("range table missing for %s", state)
		}
		if table[0].min != 0 {
			return fmt.Errorf("range table %s must start at 0, starts at %d", state, table[0].min)
		}
		for i, entry := range table {
			if !entry.outcome.Valid() {
				return fmt.Errorf("range table %s has unknown outcome %q", state, entry.outcome)
			}
			if entry.min > MaxDiff {
				return fmt.Errorf("range table %s threshold %d exceeds %d", state, entry.min, MaxDiff)
			}
			if i > 0 && entry.min <= table[i-1].min {
				return fmt.Errorf("range table %s thresholds not ascending at %d", state, entry.min)
			}
		}
	}
	for state := range t {
		if !state.Playable() {
			return fmt.Errorf("range table declared for non-play state %s", state)
		}
	}
	return nil
}
