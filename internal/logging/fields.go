package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"

	FieldGameID    = "game_id"
	FieldChannelID = "channel_id"
	FieldTeamID    = "team_id"
	FieldUserID    = "user_id"
	FieldSide      = "side"
	FieldState     = "state"
	FieldOutcome   = "outcome"
	FieldEvent     = "event"
	FieldNotice    = "notice"
	FieldTask      = "task"
	FieldAttempt   = "attempt"
	FieldDate      = "date"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
