package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// LogNotifier writes notices to the log and keeps the most recent ones in memory.
// It stands in for a chat bridge during local runs.
type LogNotifier struct {
	logger *slog.Logger
	keep   int

	mu     sync.Mutex
	recent []Notice
}

// NewLogNotifier returns a LogNotifier that retains up to keep notices.
func NewLogNotifier(logger *slog.Logger, keep int) *LogNotifier {
	if keep <= 0 {
		keep = 100
	}
	return &LogNotifier{logger: logger, keep: keep}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notice) error {
	l.mu.Lock()
	l.recent = append(l.recent, n)
	if over := len(l.recent) - l.keep; over > 0 {
		l.recent = append([]Notice(nil), l.recent[over:]...)
	}
	l.mu.Unlock()

	logNotice(ctx, l.logger, slog.LevelInfo, n, "notice",
		slog.String(logging.FieldChannelID, n.ChannelID),
		slog.String(logging.FieldUserID, n.UserID),
		slog.String("text", n.Text),
	)
	return nil
}

// Recent returns a copy of the retained notices, oldest first.
func (l *LogNotifier) Recent() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notice(nil), l.recent...)
}
