package config

import "time"

const (
	envPort         = "PORT"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken   = "ADMIN_TOKEN"

	envTurnWindow    = "GAME_TURN_WINDOW"
	envWarningLead   = "GAME_WARNING_LEAD"
	envDelayLimit    = "GAME_DELAY_LIMIT"
	envSweepInterval = "SWEEP_INTERVAL"
	envRouteRefresh  = "ROUTING_REFRESH_INTERVAL"

	envDatabaseURL     = "DATABASE_URL"
	envDatabaseTimeout = "DATABASE_QUERY_TIMEOUT"

	envNotifyURL      = "NOTIFY_WEBHOOK_URL"
	envNotifyToken    = "NOTIFY_WEBHOOK_TOKEN"
	envNotifyTimeout  = "NOTIFY_TIMEOUT"
	envNotifyRetries  = "NOTIFY_RETRY_ATTEMPTS"
	envNotifyBackoff  = "NOTIFY_RETRY_BACKOFF"
	envNotifyRate     = "NOTIFY_RATE_PER_SECOND"
	envNotifyBurst    = "NOTIFY_BURST"
	envNotifyLogKeep  = "NOTIFY_LOG_KEEP"
	envResultsDir     = "RESULTS_DIR"
	envResultsKeep    = "RESULTS_RETENTION_DAYS"
	envRateLimitRPS   = "HTTP_RATE_LIMIT_RPS"
	envRateLimitBurst = "HTTP_RATE_LIMIT_BURST"
	envFeedOrigins    = "FEED_ALLOWED_ORIGINS"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"
	defaultLogFormat   = "text"

	defaultTurnWindow    = 24 * Duration(time.Hour)
	defaultWarningLead   = 12 * Duration(time.Hour)
	defaultDelayLimit    = 2
	defaultSweepInterval = Duration(time.Hour)
	defaultRouteRefresh  = Duration(time.Minute)

	defaultDatabaseTimeout = 3 * Duration(time.Second)

	defaultNotifyTimeout = 5 * Duration(time.Second)
	defaultNotifyRetries = 3
	defaultNotifyBackoff = 200 * Duration(time.Millisecond)
	// Chat platforms throttle around five messages per second per channel.
	defaultNotifyRate  = 5.0
	defaultNotifyBurst = 5
	defaultNotifyKeep  = 200

	defaultResultsDir  = "data/results"
	defaultResultsKeep = 30

	defaultRateLimitRPS   = 10.0
	defaultRateLimitBurst = 20
)
