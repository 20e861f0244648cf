// Package httpserver exposes the library, reading activity and probes over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/routes"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

const requestTimeout = 5 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	log := loggerClient.With(logger.Component("http"))
	if d.Logger == nil {
		d.Logger = log
	}

	return &Server{
		http: &http.Server{
			Addr:              cfg.ListenPort,
			Handler:           newRouter(log, d),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger: log,
	}
}

func newRouter(log logger.Logger, d deps.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.GetHead,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
		mw.Log(log, d.TrustProxy),
		mw.CORS(d.AllowedOrigins),
	)

	// API under /api, probes at the root
	routes.RegisterAll(r, d)
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start blocks until the server fails or is shut down. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logger.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
