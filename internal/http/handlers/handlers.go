package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/fake-soccer-service/internal/dispatch"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/poller"
	"github.com/preston-bernstein/fake-soccer-service/internal/results"
)

// GameReader lists and loads games.
type GameReader interface {
	Game(ctx context.Context, id string) (games.Game, error)
	Games(ctx context.Context, f games.Filter) ([]games.Game, error)
}

// MessageHandler routes inbound chat messages into games.
type MessageHandler interface {
	Handle(ctx context.Context, m dispatch.Message) (dispatch.Result, error)
}

// Watcher streams game notices over a websocket.
type Watcher interface {
	Serve(w http.ResponseWriter, r *http.Request, gameID string) error
}

// Options wires a Handler. Every collaborator is optional; missing ones answer 503.
type Options struct {
	Games    GameReader
	Results  results.Reader
	Messages MessageHandler
	Feed     Watcher
	Logger   *slog.Logger
	// Statuses reports the background pollers readiness depends on.
	Statuses func() []poller.Status
}

// Handler serves the public routes.
type Handler struct {
	games    GameReader
	results  results.Reader
	messages MessageHandler
	feed     Watcher
	logger   *slog.Logger
	statuses func() []poller.Status
	now      func() time.Time
}

// NewHandler constructs a Handler with defaults.
func NewHandler(opts Options) *Handler {
	return &Handler{
		games:    opts.Games,
		results:  opts.Results,
		messages: opts.Messages,
		feed:     opts.Feed,
		logger:   opts.Logger,
		statuses: opts.Statuses,
		now:      time.Now,
	}
}

// GamesResponse is the body of a game listing.
type GamesResponse struct {
	Count int          `json:"count"`
	Games []games.Game `json:"games"`
}

// ResultsResponse is one ledger day plus its rendered score lines.
type ResultsResponse struct {
	Date    string          `json:"date"`
	Entries []results.Entry `json:"entries"`
	Lines   []string        `json:"lines"`
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether every background poller has succeeded recently.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statuses == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	for _, st := range h.statuses() {
		if st.IsReady() {
			continue
		}
		msg := st.LastError
		if msg == "" {
			msg = "not ready"
		}
		writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// ListGames returns games filtered by status, channel and team.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	if h.games == nil {
		writeError(w, r, http.StatusServiceUnavailable, "games unavailable", h.logger)
		return
	}
	q := r.URL.Query()
	f := games.Filter{
		Status:    games.Status(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		ChannelID: strings.TrimSpace(q.Get("channel")),
		TeamID:    strings.ToLower(strings.TrimSpace(q.Get("team"))),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		f.Limit = limit
	}
	list, err := h.games.Games(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "served games", logging.FieldCount, len(list))
	writeJSON(w, http.StatusOK, GamesResponse{Count: len(list), Games: list}, h.logger)
}

// GameByID returns a single game.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	if h.games == nil {
		writeError(w, r, http.StatusServiceUnavailable, "games unavailable", h.logger)
		return
	}
	g, err := h.games.Game(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, g, h.logger)
}

// Results returns the ledger for ?date=YYYY-MM-DD, defaulting to today (UTC).
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, r, http.StatusServiceUnavailable, "results unavailable", h.logger)
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = results.FormatDate(h.now())
	}
	if _, err := results.ParseDate(date); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", h.logger)
		return
	}
	day, err := h.results.LoadDay(date)
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "load results failed", err, logging.FieldDate, date)
		writeError(w, r, http.StatusInternalServerError, "results unavailable", h.logger)
		return
	}
	resp := ResultsResponse{Date: day.Date, Entries: day.Entries, Lines: make([]string, 0, len(day.Entries))}
	for _, e := range day.Entries {
		resp.Lines = append(resp.Lines, e.Line())
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// ResultsManifest lists which ledger days are retained.
func (h *Handler) ResultsManifest(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, r, http.StatusServiceUnavailable, "results unavailable", h.logger)
		return
	}
	m, err := h.results.Manifest()
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "load manifest failed", err)
		writeError(w, r, http.StatusInternalServerError, "results unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, m, h.logger)
}

// Message accepts an inbound chat message from the chat bridge.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	if h.messages == nil {
		writeError(w, r, http.StatusServiceUnavailable, "dispatcher unavailable", h.logger)
		return
	}
	var m dispatch.Message
	if !decodeJSON(w, r, &m, h.logger) {
		return
	}
	if strings.TrimSpace(m.AuthorID) == "" || (!m.Private && strings.TrimSpace(m.ChannelID) == "") {
		writeError(w, r, http.StatusBadRequest, "authorId and channelId are required", h.logger)
		return
	}
	res, err := h.messages.Handle(r.Context(), m)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, res, h.logger)
}

// Watch streams notices for one game, or for every game when no id is routed.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		writeError(w, r, http.StatusServiceUnavailable, "feed unavailable", h.logger)
		return
	}
	id := chi.URLParam(r, "id")
	if id != "" && h.games != nil {
		if _, err := h.games.Game(r.Context(), id); err != nil {
			writeServiceError(w, r, err, h.logger)
			return
		}
	}
	if err := h.feed.Serve(w, r, id); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "feed upgrade failed", logging.FieldGameID, id, "error", err)
	}
}
