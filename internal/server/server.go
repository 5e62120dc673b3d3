// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where every
// dependency chain is assembled in one place:
//
//	sqlite.DB            → repository.SubmissionStore
//	githubHost.Client    → vcshost.Client
//	SubmissionService    ← store + host
//	CatalogService       ← host
//	handlers             ← services
//
// Each layer only receives what it needs: the services get interfaces, the
// handlers get services, and nothing below main knows how anything above it
// is constructed.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bazzingacoder/webaide-server/internal/auth"
	"github.com/bazzingacoder/webaide-server/internal/handler"
	"github.com/bazzingacoder/webaide-server/internal/middleware"
	sqliteRepo "github.com/bazzingacoder/webaide-server/internal/repository/sqlite"
	"github.com/bazzingacoder/webaide-server/internal/service"
	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// Config holds server configuration, assembled from env vars in main.
type Config struct {
	Port   int
	DBPath string

	Submission service.SubmissionConfig

	// JWTSecret and AdminPasswordHash enable the operator endpoints.
	// When either is empty, the admin routes are simply not registered —
	// the public submission endpoint keeps working.
	JWTSecret         string
	AdminPasswordHash string
}

// Server owns the router, the database connection, and the graceful
// shutdown sequence.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server wired to the given hosting client.
//
// The vcshost.Client comes in as a parameter rather than being constructed
// here so that main decides how to reach GitHub and tests can pass a fake.
func New(cfg Config, host vcshost.Client, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(host); err != nil {
		db.Close() // clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST /api/submissions      → run the submission workflow (public)
//	GET  /api/resources        → current dataset from trunk (public)
//	GET  /api/submissions      → audit trail (admin)
//	GET  /api/submissions/{id} → one audit record (admin)
//	POST /auth/login           → operator login
//	POST /auth/logout          → operator logout
func (s *Server) setupRoutes(host vcshost.Client) error {
	// Global middleware, in order: request IDs for tracing, real client IPs
	// from proxy headers, panic recovery, then our request logger.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Services ===
	submissionService := service.NewSubmissionService(host, s.db, s.config.Submission, s.logger)
	catalogService := service.NewCatalogService(host, s.config.Submission, s.logger)

	// === Handlers ===
	submissionHandler := handler.NewSubmissionHandler(submissionService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)

	// === Operator auth ===
	// The admin routes are registered only when auth is configured; without
	// a secret there is no way to protect them, so they don't exist.
	var tokens *auth.TokenService
	adminEnabled := s.config.JWTSecret != "" && s.config.AdminPasswordHash != ""
	if adminEnabled {
		var err error
		tokens, err = auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	} else {
		s.logger.Warn("JWT_SECRET or ADMIN_PASSWORD_HASH not set — admin endpoints disabled")
	}

	// === API routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/submissions", submissionHandler.HandleSubmit)
		r.Get("/resources", catalogHandler.HandleList)

		if adminEnabled {
			admin := r.With(auth.RequireAdmin(tokens))
			admin.Get("/submissions", submissionHandler.HandleList)
			admin.Get("/submissions/{id}", submissionHandler.HandleGetByID)
		}
	})

	if adminEnabled {
		authHandler := handler.NewAuthHandler(auth.NewPasswordService(), tokens, s.config.AdminPasswordHash, s.logger)
		s.router.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})
	}

	return nil
}

// Start starts the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to 30s for in-flight requests (a submission mid-publish gets
//    to finish its hosting-API sequence rather than being cut off between
//    the branch and the pull request)
// 3. Close the database connection
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a submission makes five hosting-API round trips
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
