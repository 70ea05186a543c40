package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/fake-soccer-service/internal/config"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify/webhook"
)

// buildDelivery assembles the chat delivery chain: webhook behind a throttle and
// retries when a bridge is configured, the log otherwise. Both are instrumented.
func buildDelivery(cfg config.NotifyConfig, logger *slog.Logger, recorder *metrics.Recorder) notify.Notifier {
	var delivery notify.Notifier
	if cfg.WebhookURL != "" {
		client := webhook.NewClient(webhook.Config{
			URL:        cfg.WebhookURL,
			Token:      cfg.WebhookToken,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		})
		delivery = notify.NewRateLimitedNotifier(client, cfg.PerSecond, cfg.Burst, logger, recorder)
		delivery = notify.NewRetryingNotifier(delivery, logger, cfg.RetryAttempts, cfg.RetryBackoff)
		logging.Info(logger, "notices delivered to chat bridge", "url", cfg.WebhookURL)
	} else {
		delivery = notify.NewLogNotifier(logger, cfg.LogKeep)
		logging.Warn(logger, "no chat bridge configured, notices are only logged")
	}
	return notify.NewInstrumentedNotifier(delivery, recorder, cfg.Timeout)
}

// originChecker allows every origin when none are configured.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if strings.EqualFold(origin, a) {
				return true
			}
		}
		return false
	}
}
