package notify

import (
	"context"
	"errors"
)

// Kind routes a notice to the game channel, a manager's private messages, or the scores feed.
type Kind string

const (
	KindChannel Kind = "channel"
	KindDirect  Kind = "direct"
	KindScores  Kind = "scores"
)

// Notice is one outbound chat message.
type Notice struct {
	Kind      Kind   `json:"kind"`
	GameID    string `json:"gameId,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Text      string `json:"text"`
}

// Notifier delivers notices to the chat platform.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice) error

func (f NotifierFunc) Notify(ctx context.Context, n Notice) error {
	return f(ctx, n)
}

// Fanout delivers every notice to each notifier in order and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, next := range f {
		if next == nil {
			continue
		}
		if err := next.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
