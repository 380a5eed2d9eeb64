package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"standings-ticker/internal/poller"
	"standings-ticker/internal/store"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// Server owns the HTTP surface: health/readiness, current standings, and the
// metrics handler when telemetry is enabled.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New builds the router and wraps it in an http.Server on the given port.
func New(port int, sectionStore *store.MemoryStore, statusFn func() poller.Status, renderer StripRenderer, metricsHandler http.Handler, logger *slog.Logger) *Server {
	handler := NewHandler(sectionStore, logger, statusFn, renderer)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/standings", handler.Standings)
	mux.HandleFunc("/strip.png", handler.Strip)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: logger,
	}
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until the listener fails; a non-ErrServerClosed failure
// invokes stop so the caller can begin shutdown.
func (s *Server) Start(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.srv.Addr))
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if s.logger != nil {
				s.logger.Error("http server failed", "error", err)
			}
			if stop != nil {
				stop()
			}
		}
	}()
}

// Shutdown drains in-flight requests within shutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
