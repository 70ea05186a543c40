package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/http/middleware"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps service errors onto HTTP statuses. Validation reasons
// are shown verbatim; anything unclassified is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if vErr, ok := games.AsValidationError(err); ok {
		writeError(w, r, http.StatusUnprocessableEntity, vErr.Reason, logger)
		return
	}
	switch {
	case errors.Is(err, games.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, games.ErrConcurrencyConflict), errors.Is(err, engine.ErrInvalidFieldPosition):
		writeError(w, r, http.StatusConflict, err.Error(), logger)
	default:
		if _, ok := notify.AsNotificationError(err); ok {
			writeError(w, r, http.StatusBadGateway, err.Error(), logger)
			return
		}
		logging.Error(loggerFromContext(r, logger), "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}

// decodeJSON reads a bounded JSON body into dest, reporting a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any, logger *slog.Logger) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", logger)
		return false
	}
	return true
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
