package config

// Config holds runtime configuration for the server.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	Game      GameConfig
	Database  DatabaseConfig
	Notify    NotifyConfig
	Results   ResultsConfig
	HTTP      HTTPConfig
	Metrics   MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:      envOrDefault(envPort, defaultPort),
		LogLevel:  envOrDefault(envLogLevel, ""),
		LogFormat: envOrDefault(envLogFormat, defaultLogFormat),
		Game:      loadGame(),
		Database:  loadDatabase(),
		Notify:    loadNotify(),
		Results:   loadResults(),
		HTTP:      loadHTTP(),
		Metrics:   loadMetrics(),
	}
}
