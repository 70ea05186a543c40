package notify

import (
	"context"
	"time"

	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
)

type instrumentedNotifier struct {
	next    Notifier
	metrics *metrics.Recorder
	timeout time.Duration
}

// NewInstrumentedNotifier bounds each delivery by timeout, records it, and wraps failures in NotificationError.
func NewInstrumentedNotifier(next Notifier, recorder *metrics.Recorder, timeout time.Duration) Notifier {
	return &instrumentedNotifier{next: next, metrics: recorder, timeout: timeout}
}

func (i *instrumentedNotifier) Notify(ctx context.Context, n Notice) error {
	if i.next == nil {
		return &NotificationError{Kind: n.Kind, GameID: n.GameID, Err: ErrNotifierUnavailable}
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	start := time.Now()
	err := i.next.Notify(ctx, n)
	i.metrics.RecordNotification(string(n.Kind), time.Since(start), err)
	if rl, ok := AsRateLimitError(err); ok {
		i.metrics.RecordRateLimit(string(n.Kind), rl.RetryAfter)
	}
	if err != nil {
		return &NotificationError{Kind: n.Kind, GameID: n.GameID, Err: err}
	}
	return nil
}
