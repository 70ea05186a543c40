package server

import (
	"context"
	"log/slog"
	"net/http"

	appgames "github.com/preston-bernstein/fake-soccer-service/internal/app/games"
	"github.com/preston-bernstein/fake-soccer-service/internal/app/teams"
	"github.com/preston-bernstein/fake-soccer-service/internal/app/writeups"
	"github.com/preston-bernstein/fake-soccer-service/internal/config"
	"github.com/preston-bernstein/fake-soccer-service/internal/dispatch"
	"github.com/preston-bernstein/fake-soccer-service/internal/engine"
	"github.com/preston-bernstein/fake-soccer-service/internal/feed"
	httpserver "github.com/preston-bernstein/fake-soccer-service/internal/http"
	"github.com/preston-bernstein/fake-soccer-service/internal/http/handlers"
	"github.com/preston-bernstein/fake-soccer-service/internal/http/middleware"
	"github.com/preston-bernstein/fake-soccer-service/internal/logging"
	"github.com/preston-bernstein/fake-soccer-service/internal/messages"
	"github.com/preston-bernstein/fake-soccer-service/internal/metrics"
	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
	"github.com/preston-bernstein/fake-soccer-service/internal/poller"
	"github.com/preston-bernstein/fake-soccer-service/internal/results"
	"github.com/preston-bernstein/fake-soccer-service/internal/routing"
	"github.com/preston-bernstein/fake-soccer-service/internal/sweeper"
)

var metricsSetup = metrics.Setup

// Server owns the HTTP surface, the background pollers and the shared services.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	gamesService  *appgames.Service
	feed          *feed.Hub
	httpServer    httpServer
	metricsServer httpServer
	pollers       []Poller
	metricsStop   func(context.Context) error
	closeStore    func() error
}

// New constructs a server from cfg, opening the configured store.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	st, closeStore, err := openBackend(context.Background(), cfg.Database, logger)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}

	srv := buildServer(cfg, logger, recorder, st)
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	srv.closeStore = closeStore
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, pollers ...Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		pollers:    pollers,
	}
}

func buildServer(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, st backend) *Server {
	machine := engine.NewMachine(nil, engine.Rules{
		TurnWindow:  cfg.Game.TurnWindow,
		WarningLead: cfg.Game.WarningLead,
		DelayLimit:  cfg.Game.DelayLimit,
	})
	index := routing.NewIndex()
	writeupSvc := writeups.NewService(st, logger)
	hub := feed.NewHub(logger, originChecker(cfg.HTTP.FeedOrigins))

	gameSvc := appgames.NewService(appgames.Options{
		Store:    st,
		Teams:    st,
		Machine:  machine,
		Index:    index,
		Renderer: messages.NewRenderer(writeupSvc),
		Notifier: notify.Fanout{buildDelivery(cfg.Notify, logger, recorder), hub},
		Results:  results.NewLedger(cfg.Results.Dir, cfg.Results.RetentionDays, logger),
		Metrics:  recorder,
		Logger:   logger,
	})
	teamSvc := teams.NewService(st, index, logger)
	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, logger, recorder)

	sweep := poller.New(sweeper.New(gameSvc, logger), logger, recorder, cfg.Game.SweepInterval)
	refresh := poller.New(routing.NewRefresher(index, st, logger), logger, recorder, cfg.Game.RefreshInterval)
	limitSweep := poller.New(limiter, logger, recorder, rateLimitSweepInterval)

	public := handlers.NewHandler(handlers.Options{
		Games:    gameSvc,
		Results:  results.NewFSStore(cfg.Results.Dir),
		Messages: dispatch.NewDispatcher(index, gameSvc, logger),
		Feed:     hub,
		Logger:   logger,
		Statuses: func() []poller.Status {
			return []poller.Status{sweep.Status(), refresh.Status()}
		},
	})
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Public:     public,
		Admin:      handlers.NewAdminHandler(gameSvc, teamSvc, writeupSvc, logger),
		AdminToken: cfg.HTTP.AdminToken,
		Limiter:    limiter,
		Logger:     logger,
		Metrics:    recorder,
	})
	if cfg.HTTP.AdminToken == "" {
		logging.Warn(logger, "ADMIN_TOKEN not set, operator routes reject every request")
	}

	return &Server{
		cfg:          cfg,
		logger:       logger,
		metrics:      recorder,
		gamesService: gameSvc,
		feed:         hub,
		httpServer: netHTTPServer{srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		}},
		pollers: []Poller{refresh, sweep, limitSweep},
	}
}

// Run starts the pollers and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	for _, p := range s.pollers {
		p.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	for _, p := range s.pollers {
		if err := p.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop poller", err)
		}
	}

	// Hijacked websocket connections are not closed by Shutdown.
	if s.feed != nil {
		s.feed.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			logging.Warn(s.logger, "store close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
