// Package server provides the HTTP front end for the activity board.
//
// The server renders the sign-up page, accepts the page's form posts, and
// exposes a JSON API over the same board state. All data comes from the
// upstream activities server; nothing is stored locally.
//
// The activity list is shared by every visitor. The message area and the
// form values belong to a per-visitor session identified by a cookie.
//
// # Endpoints
//
//   - GET / - Board page
//   - POST /signup - Sign-up form post, redirects to /
//   - POST /unregister - Participant delete control, redirects to /
//   - GET /api/board - Board view as JSON
//   - POST /api/refresh - Reloads the activity list
//   - POST /api/activities/{activity}/signup?email= - Signs up, returns the view
//   - POST /api/activities/{activity}/unregister?email= - Unregisters, returns the view
//   - GET /api/console - Captured warnings and errors (DELETE clears them)
//   - GET /health - "ok", "loading" before the first load, 503 when the last load failed
//   - GET /metrics - Prometheus metrics
//   - GET /config - Current configuration as YAML (?section= selects one block)
//   - POST /reload - Reloads configuration from disk, returns the new upstream
//
// # Architecture
//
// Config-derived dependencies (the config itself and the upstream client)
// are swapped atomically on reload. The board keeps its state across reloads
// and picks up the new client for its next request. Logging, metrics and the
// listener are built once at startup.
//
// # Example
//
//	srv, err := server.New("/etc/activityboard/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mergington/activityboard/board"
	"github.com/mergington/activityboard/clients/activityclient"
	"github.com/mergington/activityboard/config"
	"github.com/mergington/activityboard/logging"
	"github.com/mergington/activityboard/metrics"
	"github.com/mergington/activityboard/server/cron"
	"github.com/mergington/activityboard/server/handlers"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultReadTimeout     = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	// Form posts wait for the upstream action and the reload that follows it.
	writeTimeoutMargin = 10 * time.Second
)

// serverDeps holds config-derived dependencies that are swapped atomically on reload.
type serverDeps struct {
	config *config.Config
	client *activityclient.Client
}

// Server is the HTTP server for the activity board.
type Server struct {
	addr        string
	configPath  string
	logger      *slog.Logger
	console     *logging.Console
	registry    *metrics.ScrapeRegistry
	deps        atomic.Pointer[serverDeps]
	board       *board.Board
	sessions    *sessionStore
	httpServer  *http.Server
	cronTrigger *cron.CronTrigger
}

// Option configures a Server.
type Option func(*Server) error

// WithCron refreshes the activity list on a cron schedule, overriding
// board.refresh_schedule from the config.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
func WithCron(spec string) Option {
	return func(s *Server) error {
		trigger, err := cron.NewCronTrigger(spec, cron.RunnableFunc(s.refresh), s.logger)
		if err != nil {
			return fmt.Errorf("creating cron trigger: %w", err)
		}
		s.cronTrigger = trigger
		return nil
	}
}

// WithListenAddr overrides listener.addr from the config.
func WithListenAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// New creates a new Server from the config file at configPath and options.
// An empty configPath builds the configuration from the environment.
func New(configPath string, opts ...Option) (*Server, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	console := logging.NewConsole(cfg.Board.ConsoleSize)
	logger, err := logging.New(cfg.Logging, logging.WithConsole(console))
	if err != nil {
		return nil, err
	}

	registry, err := metrics.NewScrapeRegistry(cfg.Monitoring.MetricsPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating metrics registry: %w", err)
	}
	boardMetrics, err := board.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("registering board metrics: %w", err)
	}

	s := &Server{
		addr:       cfg.Listener.Addr,
		configPath: configPath,
		logger:     logger,
		console:    console,
		registry:   registry,
	}

	if err := s.apply(cfg); err != nil {
		return nil, err
	}

	s.board = board.New(s.deps.Load().client,
		board.WithLogger(logger),
		board.WithMetrics(boardMetrics),
		board.WithMessageTimeout(cfg.Board.MessageTimeout),
	)
	s.sessions = newSessionStore(s.board)

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.cronTrigger == nil && cfg.Board.RefreshSchedule != "" {
		if err := WithCron(cfg.Board.RefreshSchedule)(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Reload reads the config from disk and swaps the upstream client.
func (s *Server) Reload() error {
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}
	s.board.SetClient(s.deps.Load().client)
	return nil
}

// apply builds the config-derived dependencies and stores them.
func (s *Server) apply(cfg *config.Config) error {
	client, err := activityclient.New(cfg.Upstream.URL,
		activityclient.WithLogger(s.logger),
		activityclient.WithTimeout(cfg.Upstream.Timeout),
	)
	if err != nil {
		return fmt.Errorf("creating activities client: %w", err)
	}

	s.deps.Store(&serverDeps{
		config: cfg,
		client: client,
	})

	s.logger.Info("configuration loaded",
		"config_path", s.configPath,
		"upstream", cfg.Redacted().Upstream.URL,
	)
	return nil
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	return s.deps.Load().config
}

// Board returns the activity board served by the server.
func (s *Server) Board() *board.Board {
	return s.board
}

// NextRefresh returns the next scheduled refresh time, or nil if no cron is configured.
func (s *Server) NextRefresh() *time.Time {
	if s.cronTrigger == nil {
		return nil
	}
	next := s.cronTrigger.NextRun()
	return &next
}

func (s *Server) refresh(ctx context.Context) error {
	s.board.LoadActivities(ctx)
	return nil
}

// Run loads the activity list, starts the HTTP server and blocks until the
// context is cancelled. It performs a graceful shutdown when the context is done.
// If a cron trigger is configured, it will be started automatically.
func (s *Server) Run(ctx context.Context) error {
	s.board.LoadActivities(ctx)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: 2*s.Config().Upstream.Timeout + writeTimeoutMargin,
	}

	if s.cronTrigger != nil {
		s.logger.Info("starting cron trigger",
			"schedule", s.cronTrigger.Spec(),
			"next_run", s.cronTrigger.NextRun(),
		)
		s.cronTrigger.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", s.addr,
			"config_path", s.configPath,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler returns the router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(accessLog(s.logger))

	s.registerRoutes(r)
	return r
}

func (s *Server) registerRoutes(r chi.Router) {
	consoleHandler := handlers.NewConsoleHandler(s.console)

	// Page and form posts
	r.Method(http.MethodGet, "/", handlers.NewPageHandler(s.logger, s.sessions, s))
	r.Method(http.MethodPost, "/signup", handlers.NewSignupFormHandler(s.logger, s.sessions))
	r.Method(http.MethodPost, "/unregister", handlers.NewUnregisterFormHandler(s.logger, s.sessions))

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/board", handlers.NewBoardHandler(s.sessions))
		r.Method(http.MethodPost, "/refresh", handlers.NewRefreshHandler(s.sessions))
		r.Method(http.MethodPost, "/activities/{activity}/signup", handlers.NewSignupHandler(s.sessions))
		r.Method(http.MethodPost, "/activities/{activity}/unregister", handlers.NewUnregisterHandler(s.sessions))
		r.Method(http.MethodGet, "/console", consoleHandler)
		r.Method(http.MethodDelete, "/console", consoleHandler)
	})

	// Operations
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(s.board))
	r.Method(http.MethodGet, "/metrics", s.registry.Handler())
	r.Method(http.MethodGet, "/config", handlers.NewConfigHandler(s.logger, s))
	r.Method(http.MethodPost, "/reload", handlers.NewReloadHandler(s.logger, s, s))

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Error("failed to create static file system", "error", err)
		return
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}
