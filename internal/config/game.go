package config

import "time"

// GameConfig holds the turn clock and the background task cadence.
type GameConfig struct {
	// TurnWindow is how long a side has to submit before a delay of game.
	TurnWindow  time.Duration
	WarningLead time.Duration
	DelayLimit  int
	// SweepInterval is how often deadlines are checked.
	SweepInterval   time.Duration
	RefreshInterval time.Duration
}

func loadGame() GameConfig {
	cfg := GameConfig{
		TurnWindow:      durationEnvOrDefault(envTurnWindow, defaultTurnWindow),
		WarningLead:     durationEnvOrDefault(envWarningLead, defaultWarningLead),
		DelayLimit:      intEnvOrDefault(envDelayLimit, defaultDelayLimit),
		SweepInterval:   durationEnvOrDefault(envSweepInterval, defaultSweepInterval),
		RefreshInterval: durationEnvOrDefault(envRouteRefresh, defaultRouteRefresh),
	}
	if cfg.WarningLead >= cfg.TurnWindow {
		cfg.WarningLead = cfg.TurnWindow / 2
	}
	return cfg
}
