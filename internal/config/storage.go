package config

import "time"

// DatabaseConfig selects the game store. An empty URL keeps games in memory.
type DatabaseConfig struct {
	URL          string
	QueryTimeout time.Duration
}

// Enabled reports whether Postgres is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ResultsConfig controls the finished-game ledger.
type ResultsConfig struct {
	Dir           string
	RetentionDays int
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		URL:          envOrDefault(envDatabaseURL, ""),
		QueryTimeout: durationEnvOrDefault(envDatabaseTimeout, defaultDatabaseTimeout),
	}
}

func loadResults() ResultsConfig {
	return ResultsConfig{
		Dir:           envOrDefault(envResultsDir, defaultResultsDir),
		RetentionDays: intEnvOrDefault(envResultsKeep, defaultResultsKeep),
	}
}
