package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/fake-soccer-service/internal/http/handlers"
	"github.com/preston-bernstein/fake-soccer-service/internal/http/middleware"
	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
)

// RouterConfig carries what NewRouter mounts. Admin routes exist only when
// Admin is set, and still need AdminToken to pass.
type RouterConfig struct {
	Public     *handlers.Handler
	Admin      *handlers.AdminHandler
	AdminToken string
	Limiter    *middleware.RateLimiter
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// NewRouter registers the public and operator routes.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware)
	}

	h := cfg.Public
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/games", h.ListGames)
	r.Get("/games/{id}", h.GameByID)
	r.Get("/games/{id}/watch", h.Watch)
	r.Get("/watch", h.Watch)
	r.Get("/results", h.Results)
	r.Get("/results/manifest", h.ResultsManifest)
	r.Post("/messages", h.Message)

	if a := cfg.Admin; a != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireBearer(cfg.AdminToken, cfg.Logger))

			r.Post("/games", a.StartGame)
			r.Post("/games/{id}/rerun", a.Rerun)
			r.Post("/games/{id}/score", a.AdjustScore)
			r.Post("/games/{id}/chew", a.ToggleChew)
			r.Post("/games/{id}/end", a.ForceEnd)
			r.Post("/games/{id}/abandon", a.Abandon)

			r.Get("/teams", a.ListTeams)
			r.Post("/teams", a.CreateTeam)
			r.Get("/teams/{id}", a.TeamInfo)
			r.Delete("/teams/{id}", a.RemoveTeam)
			r.Put("/teams/{id}/substitute", a.AddSubstitute)
			r.Delete("/teams/{id}/substitute", a.RemoveSubstitute)

			r.Get("/writeups", a.SearchWriteups)
			r.Post("/writeups", a.AddWriteup)
			r.Get("/writeups/{id}", a.WriteupInfo)
			r.Put("/writeups/{id}", a.EditWriteup)
			r.Post("/writeups/{id}/toggle", a.ToggleWriteup)
		})
	}

	r.NotFound(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
	return r
}
