package notify

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingNotifier wraps a Notifier with retry/backoff behavior.
type retryingNotifier struct {
	inner       Notifier
	logger      *slog.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingNotifier wraps the given notifier with retries. If maxAttempts/backoff are <= 0, defaults are used.
// A RateLimitError with a Retry-After waits at least that long before the next attempt.
func NewRetryingNotifier(inner Notifier, logger *slog.Logger, maxAttempts int, backoff time.Duration) Notifier {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingNotifier{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingNotifier) Notify(ctx context.Context, n Notice) error {
	if r.inner == nil {
		return ErrNotifierUnavailable
	}
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := r.inner.Notify(ctx, n)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		logNotice(ctx, r.logger, slog.LevelWarn, n, "notice retry", "attempt", attempt, "max_attempts", r.maxAttempts, "error", err)

		delay := r.backoffFn(attempt)
		if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > delay {
			delay = rl.RetryAfter
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	logNotice(ctx, r.logger, slog.LevelWarn, n, "notice failed", "attempts", r.maxAttempts, "error", lastErr)
	return lastErr
}
