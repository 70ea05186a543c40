package config

import "time"

// NotifyConfig controls delivery of notices to the chat bridge. Without a
// webhook URL notices are only logged.
type NotifyConfig struct {
	WebhookURL    string
	WebhookToken  string
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	PerSecond     float64
	Burst         int
	LogKeep       int
}

func loadNotify() NotifyConfig {
	return NotifyConfig{
		WebhookURL:    envOrDefault(envNotifyURL, ""),
		WebhookToken:  envOrDefault(envNotifyToken, ""),
		Timeout:       durationEnvOrDefault(envNotifyTimeout, defaultNotifyTimeout),
		RetryAttempts: intEnvOrDefault(envNotifyRetries, defaultNotifyRetries),
		RetryBackoff:  durationEnvOrDefault(envNotifyBackoff, defaultNotifyBackoff),
		PerSecond:     floatEnvOrDefault(envNotifyRate, defaultNotifyRate),
		Burst:         intEnvOrDefault(envNotifyBurst, defaultNotifyBurst),
		LogKeep:       intEnvOrDefault(envNotifyLogKeep, defaultNotifyKeep),
	}
}
