package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/domain/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
)

// GameOperator is the operator side of the game service.
type GameOperator interface {
	StartGame(ctx context.Context, req appgames.StartRequest) (appgames.Outcome, error)
	Rerun(ctx context.Context, gameID string) (appgames.Outcome, error)
	AdjustScore(ctx context.Context, gameID string, side games.Side, delta int) (appgames.Outcome, error)
	ToggleDefaultChew(ctx context.Context, gameID string) (appgames.Outcome, error)
	ForceEnd(ctx context.Context, gameID string) (appgames.Outcome, error)
	Abandon(ctx context.Context, gameID string) (appgames.Outcome, error)
}

// TeamManager registers teams and their substitutes.
type TeamManager interface {
	Create(ctx context.Context, t teams.Team) (teams.Team, error)
	Remove(ctx context.Context, id string) (teams.Team, error)
	Info(ctx context.Context, id string) (teams.Team, error)
	List(ctx context.Context, page int) ([]teams.Team, error)
	AddSubstitute(ctx context.Context, id, userID string) (teams.Team, error)
	RemoveSubstitute(ctx context.Context, id string) (teams.Team, error)
}

// WriteupManager curates play writeups.
type WriteupManager interface {
	Add(ctx context.Context, state games.State, outcome games.Outcome, text string) (games.Writeup, error)
	Info(ctx context.Context, id int64) (games.Writeup, error)
	Toggle(ctx context.Context, id int64) (games.Writeup, error)
	Edit(ctx context.Context, id int64, text string) (games.Writeup, error)
	Search(ctx context.Context, query string) ([]games.Writeup, error)
}

// AdminHandler exposes the operator routes. Authentication happens in middleware.
type AdminHandler struct {
	games    GameOperator
	teams    TeamManager
	writeups WriteupManager
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(g GameOperator, t TeamManager, w WriteupManager, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{games: g, teams: t, writeups: w, logger: logger}
}

// OutcomeResponse reports a committed operator action.
type OutcomeResponse struct {
	Game        games.Game `json:"game"`
	Events      []string   `json:"events"`
	NotifyError string     `json:"notifyError,omitempty"`
}

type startGameRequest struct {
	ChannelID string `json:"channelId"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	Scrimmage bool   `json:"scrimmage"`
	Overtime  bool   `json:"overtime"`
}

type scoreRequest struct {
	Side  games.Side `json:"side"`
	Delta int        `json:"delta"`
}

type substituteRequest struct {
	UserID string `json:"userId"`
}

type writeupRequest struct {
	State   games.State   `json:"state"`
	Outcome games.Outcome `json:"outcome"`
	Text    string        `json:"text"`
}

type editWriteupRequest struct {
	Text string `json:"text"`
}

// StartGame creates a regular, scrimmage or overtime game.
func (h *AdminHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	out, err := h.games.StartGame(r.Context(), appgames.StartRequest{
		ChannelID: req.ChannelID,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Scrimmage: req.Scrimmage,
		Overtime:  req.Overtime,
	})
	h.respondOutcome(w, r, http.StatusCreated, "game started", out, err)
}

// Rerun asks for the current defensive number again.
func (h *AdminHandler) Rerun(w http.ResponseWriter, r *http.Request) {
	out, err := h.games.Rerun(r.Context(), chi.URLParam(r, "id"))
	h.respondOutcome(w, r, http.StatusOK, "play rerun", out, err)
}

// AdjustScore adds (or, with a negative delta, subtracts) goals for one side.
func (h *AdminHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	side := games.Side(strings.ToUpper(string(req.Side)))
	if !side.Valid() {
		writeError(w, r, http.StatusBadRequest, "side must be HOME or AWAY", h.logger)
		return
	}
	out, err := h.games.AdjustScore(r.Context(), chi.URLParam(r, "id"), side, req.Delta)
	h.respondOutcome(w, r, http.StatusOK, "score adjusted", out, err)
}

// ToggleChew flips the game's default chew setting.
func (h *AdminHandler) ToggleChew(w http.ResponseWriter, r *http.Request) {
	out, err := h.games.ToggleDefaultChew(r.Context(), chi.URLParam(r, "id"))
	h.respondOutcome(w, r, http.StatusOK, "default chew toggled", out, err)
}

// ForceEnd finishes the game with the current score.
func (h *AdminHandler) ForceEnd(w http.ResponseWriter, r *http.Request) {
	out, err := h.games.ForceEnd(r.Context(), chi.URLParam(r, "id"))
	h.respondOutcome(w, r, http.StatusOK, "game ended", out, err)
}

// Abandon stops the game without a result.
func (h *AdminHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	out, err := h.games.Abandon(r.Context(), chi.URLParam(r, "id"))
	h.respondOutcome(w, r, http.StatusOK, "game abandoned", out, err)
}

func (h *AdminHandler) respondOutcome(w http.ResponseWriter, r *http.Request, status int, msg string, out appgames.Outcome, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	resp := OutcomeResponse{Game: out.Game, Events: make([]string, 0, len(out.Events))}
	for _, ev := range out.Events {
		resp.Events = append(resp.Events, string(ev.Kind))
	}
	if out.NotifyErr != nil {
		resp.NotifyError = out.NotifyErr.Error()
	}
	logging.Info(loggerFromContext(r, h.logger), "admin "+msg,
		logging.FieldGameID, out.Game.ID,
		logging.FieldState, string(out.Game.State),
	)
	writeJSON(w, status, resp, h.logger)
}

// CreateTeam registers a team.
func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var t teams.Team
	if !decodeJSON(w, r, &t, h.logger) {
		return
	}
	created, err := h.teams.Create(r.Context(), t)
	h.respondTeam(w, r, http.StatusCreated, created, err)
}

// TeamInfo returns one team.
func (h *AdminHandler) TeamInfo(w http.ResponseWriter, r *http.Request) {
	t, err := h.teams.Info(r.Context(), chi.URLParam(r, "id"))
	h.respondTeam(w, r, http.StatusOK, t, err)
}

// RemoveTeam deletes a team.
func (h *AdminHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.teams.Remove(r.Context(), chi.URLParam(r, "id"))
	h.respondTeam(w, r, http.StatusOK, t, err)
}

// ListTeams returns one page of teams, ?page= defaulting to 1.
func (h *AdminHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid page", h.logger)
			return
		}
		page = p
	}
	list, err := h.teams.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page, "teams": list}, h.logger)
}

// AddSubstitute sets the user who stands in for the team's manager.
func (h *AdminHandler) AddSubstitute(w http.ResponseWriter, r *http.Request) {
	var req substituteRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	t, err := h.teams.AddSubstitute(r.Context(), chi.URLParam(r, "id"), req.UserID)
	h.respondTeam(w, r, http.StatusOK, t, err)
}

// RemoveSubstitute clears the team's substitute.
func (h *AdminHandler) RemoveSubstitute(w http.ResponseWriter, r *http.Request) {
	t, err := h.teams.RemoveSubstitute(r.Context(), chi.URLParam(r, "id"))
	h.respondTeam(w, r, http.StatusOK, t, err)
}

func (h *AdminHandler) respondTeam(w http.ResponseWriter, r *http.Request, status int, t teams.Team, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, status, t, h.logger)
}

// AddWriteup stores a new writeup.
func (h *AdminHandler) AddWriteup(w http.ResponseWriter, r *http.Request) {
	var req writeupRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	wu, err := h.writeups.Add(r.Context(), req.State, req.Outcome, req.Text)
	h.respondWriteup(w, r, http.StatusCreated, wu, err)
}

// WriteupInfo returns one writeup.
func (h *AdminHandler) WriteupInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.writeupID(w, r)
	if !ok {
		return
	}
	wu, err := h.writeups.Info(r.Context(), id)
	h.respondWriteup(w, r, http.StatusOK, wu, err)
}

// ToggleWriteup enables or disables a writeup.
func (h *AdminHandler) ToggleWriteup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.writeupID(w, r)
	if !ok {
		return
	}
	wu, err := h.writeups.Toggle(r.Context(), id)
	h.respondWriteup(w, r, http.StatusOK, wu, err)
}

// EditWriteup replaces a writeup's text.
func (h *AdminHandler) EditWriteup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.writeupID(w, r)
	if !ok {
		return
	}
	var req editWriteupRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	wu, err := h.writeups.Edit(r.Context(), id, req.Text)
	h.respondWriteup(w, r, http.StatusOK, wu, err)
}

// SearchWriteups finds writeups containing ?q=.
func (h *AdminHandler) SearchWriteups(w http.ResponseWriter, r *http.Request) {
	found, err := h.writeups.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(found), "writeups": found}, h.logger)
}

func (h *AdminHandler) writeupID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid writeup id", h.logger)
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) respondWriteup(w http.ResponseWriter, r *http.Request, status int, wu games.Writeup, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, status, wu, h.logger)
}
