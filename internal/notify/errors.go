package notify

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotifierUnavailable is returned when no delivery backend is configured.
var ErrNotifierUnavailable = errors.New("notifier unavailable")

// NotificationError reports a notice that could not be delivered.
type NotificationError struct {
	Kind   Kind
	GameID string
	Err    error
}

func (e *NotificationError) Error() string {
	if e.GameID != "" {
		return fmt.Sprintf("deliver %s notice for game %s: %v", e.Kind, e.GameID, e.Err)
	}
	return fmt.Sprintf("deliver %s notice: %v", e.Kind, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// AsNotificationError attempts to unwrap an error into a NotificationError.
func AsNotificationError(err error) (*NotificationError, bool) {
	var nErr *NotificationError
	if errors.As(err, &nErr) {
		return nErr, true
	}
	return nil, false
}

// RateLimitError captures rate limit responses from the chat bridge.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "notifier rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
