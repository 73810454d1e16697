package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/learnhub-io/learnhub-be/internal/auth"
	"github.com/learnhub-io/learnhub-be/internal/config"
	"github.com/learnhub-io/learnhub-be/internal/http/handlers"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. All
// collaborators are constructed here from the config; there is no
// package-level state.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	mw := middleware.NewAuth(tokens, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens, hasher, logger).Register(mux, mw)
	handlers.NewCourseHandler(store, logger).Register(mux, mw)
	handlers.NewEnrollmentHandler(store, logger).Register(mux, mw)
	handlers.NewAdminHandler(store, logger).Register(mux, mw)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
