package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/coursehub/internal/bootstrap"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/observability"
)

// Server holds the state for the HTTP server.
type Server struct {
	config         *config.Config
	router         *gin.Engine
	store          db.Store
	tracerShutdown observability.ShutdownFunc
	logger         zerolog.Logger
	http           *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx := context.Background()

	tracerShutdown, err := bootstrap.SetupTracing(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup tracing: %w", err)
	}

	store, repos, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		_ = tracerShutdown(ctx)
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	deps := bootstrap.BuildDependencies(store, repos, lgr)
	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return New(cfg, router, store, tracerShutdown, lgr), nil
}

// New assembles a server from already initialized parts
func New(cfg *config.Config, router *gin.Engine, store db.Store, tracerShutdown observability.ShutdownFunc, lgr zerolog.Logger) *Server {
	return &Server{
		config:         cfg,
		router:         router,
		store:          store,
		tracerShutdown: tracerShutdown,
		logger:         lgr,
	}
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout(),
		WriteTimeout: s.config.WriteTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests, then closes the store and flushes traces.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout())
	defer cancel()

	var shutdownErr error

	// In-flight requests still need the store, so it closes only after this
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	// Store close and trace flush both run to completion under ctx
	var (
		g                   errgroup.Group
		closeErr, tracerErr error
	)
	if s.store != nil {
		g.Go(func() error {
			s.logger.Info().Msg("Closing store connection...")
			if err := s.store.Close(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Store close error")
				closeErr = fmt.Errorf("close store: %w", err)
				return closeErr
			}
			s.logger.Info().Msg("Store connection closed.")
			return nil
		})
	}
	if s.tracerShutdown != nil {
		g.Go(func() error {
			if err := s.tracerShutdown(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Tracer shutdown error")
				tracerErr = fmt.Errorf("shutdown tracer: %w", err)
				return tracerErr
			}
			return nil
		})
	}
	_ = g.Wait()
	shutdownErr = errors.Join(shutdownErr, closeErr, tracerErr)

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}
