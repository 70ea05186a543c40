package notify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
)

// rateLimitedNotifier throttles outbound notices so a burst of transitions
// cannot trip the chat platform's own limits.
type rateLimitedNotifier struct {
	next    Notifier
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewRateLimitedNotifier allows perSecond notices with the given burst. Calls block until a token is free.
func NewRateLimitedNotifier(next Notifier, perSecond float64, burst int, logger *slog.Logger, recorder *metrics.Recorder) Notifier {
	if perSecond <= 0 {
		perSecond = 5
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedNotifier{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
		metrics: recorder,
	}
}

func (p *rateLimitedNotifier) Notify(ctx context.Context, n Notice) error {
	if p == nil || p.next == nil {
		return ErrNotifierUnavailable
	}
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		logNotice(ctx, p.logger, slog.LevelWarn, n, "rate-limited notice canceled", "error", err)
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		p.metrics.RecordRateLimit("notify", waited)
	}
	return p.next.Notify(ctx, n)
}
