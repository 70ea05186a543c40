package games

// Operation names used in transition metrics and logs.
const (
	opStart       = "start"
	opCoinToss    = "coin_toss"
	opKickoff     = "kickoff"
	opDefense     = "defense"
	opOffense     = "offense"
	opRerun       = "rerun"
	opAdjustScore = "adjust_score"
	opToggleChew  = "toggle_chew"
	opForceEnd    = "force_end"
	opAbandon     = "abandon"
	opDeadline    = "deadline"

	maxCommitAttempts = 2
)
