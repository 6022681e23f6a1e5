package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/scoreboard-service/internal/app/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/config"
	httpserver "github.com/preston-bernstein/scoreboard-service/internal/http"
	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/live"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

var metricsSetup = metrics.Setup

// Server owns the scoreboard store and every component serving it.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	service       *matches.Service
	hub           *live.Hub
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with an empty scoreboard.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	memoryStore := store.NewMemoryStore()
	svc := matches.NewService(memoryStore, logger, recorder)
	hub := buildHub(cfg, memoryStore, logger, recorder)
	httpSrv := buildHTTPServer(cfg, svc, hub, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		service:       svc,
		hub:           hub,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject a custom HTTP server.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer) *Server {
	s := newServerWithMetrics(cfg, logger, metrics.NewRecorder())
	s.httpServer = httpSrv
	return s
}

func buildHub(cfg config.Config, memoryStore *store.MemoryStore, logger *slog.Logger, recorder *metrics.Recorder) *live.Hub {
	return live.NewHub(live.Options{
		Logger:         logger,
		Recorder:       recorder,
		SendBuffer:     cfg.Live.SendBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
		Current:        memoryStore.Snapshot,
	})
}

func buildHTTPServer(cfg config.Config, svc *matches.Service, hub *live.Hub, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	router := httpserver.NewRouter(handlers.NewHandler(svc, logger), httpserver.RouterOptions{
		Logger:         logger,
		Recorder:       recorder,
		AllowedOrigins: cfg.AllowedOrigins,
		Stream:         hub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run serves the API, the metrics endpoint, and the live feed until ctx is
// cancelled or one of them fails, then shuts everything down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	snapshots, unsubscribe := s.store.Subscribe(s.cfg.Live.SendBuffer)
	g.Go(func() error {
		return s.hub.Run(gctx, snapshots)
	})

	g.Go(func() error {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
		return serve("http", s.httpServer, s.logger)
	})

	if s.metricsServer != nil {
		g.Go(func() error {
			s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
			return serve("metrics", s.metricsServer, s.logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutdown signal received")
		unsubscribe()
		s.gracefulShutdown()
		return nil
	})

	return g.Wait()
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	s.logger.Info("shutdown complete")
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
		logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
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

// serve runs srv until it is shut down. A clean shutdown is not an error.
func serve(name string, srv httpServer, logger *slog.Logger) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn(name+" server failed", "error", err)
		return err
	}
	return nil
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Service exposes the matches service backing the API.
func (s *Server) Service() *matches.Service {
	return s.service
}
