package config

// HTTPConfig controls the public and operator HTTP surface.
type HTTPConfig struct {
	// AdminToken guards /admin; empty disables it.
	AdminToken     string
	RateLimitRPS   float64
	RateLimitBurst int
	// FeedOrigins lists origins allowed to open the websocket feed; empty allows any.
	FeedOrigins []string
}

func loadHTTP() HTTPConfig {
	return HTTPConfig{
		AdminToken:     envOrDefault(envAdminToken, ""),
		RateLimitRPS:   floatEnvOrDefault(envRateLimitRPS, defaultRateLimitRPS),
		RateLimitBurst: intEnvOrDefault(envRateLimitBurst, defaultRateLimitBurst),
		FeedOrigins:    listEnv(envFeedOrigins),
	}
}
