package notify

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// logNotice emits a log entry if a logger is available and always includes the notice routing fields.
func logNotice(ctx context.Context, fallback *slog.Logger, level slog.Level, n Notice, msg string, args ...any) {
	logger := logging.FromContext(ctx, fallback)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldNotice, string(n.Kind)))
	if n.GameID != "" {
		args = append(args, slog.String(logging.FieldGameID, n.GameID))
	}
	logger.Log(ctx, level, msg, args...)
}
