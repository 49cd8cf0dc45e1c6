// Package server sets up the HTTP server, router, and all route
// definitions. It is the composition root: the whole dependency chain
// (DB → repositories → services → handlers) is wired here, so main.go
// stays minimal and the wiring is testable without running a binary.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rianperassoli/daily-diet-api/internal/auth"
	"github.com/rianperassoli/daily-diet-api/internal/config"
	"github.com/rianperassoli/daily-diet-api/internal/handler"
	"github.com/rianperassoli/daily-diet-api/internal/middleware"
	sqliteRepo "github.com/rianperassoli/daily-diet-api/internal/repository/sqlite"
	"github.com/rianperassoli/daily-diet-api/internal/service"
)

// Server owns the router, the configuration, and the database
// connection. The DB is closed during graceful shutdown so the WAL is
// flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the full dependency chain:
//
//	sqlite.DB → UserRepository/MealRepository
//	          → UserService / AuthService / MealService
//	          → UserHandler / AuthHandler / MealHandler
//
// Each layer only receives what it needs — handlers never see the DB,
// services never see HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
//	POST   /users             register                         (public)
//	GET    /users/{username}  lookup                           (public)
//	POST   /auth              login / session refresh          (public)
//	GET    /meals             list own meals                   (session)
//	GET    /meals/summary     diet summary                     (session)
//	GET    /meals/{id}        point lookup                     (session)
//	POST   /meals             create                           (session)
//	PUT    /meals/{id}        partial update                   (session)
//	DELETE /meals/{id}        delete (idempotent)              (session)
//	GET    /metrics           Prometheus exposition            (public)
//
// Middleware order matters: RealIP before logging (so the log shows the
// real client), Recoverer outermost of the handlers so a panic becomes
// a logged 500, metrics innermost so it sees the matched route pattern.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics())

	userService := service.NewUserService(s.db, s.logger)
	authService := service.NewAuthService(s.db, s.logger)
	mealService := service.NewMealService(s.db, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Post("/users", userHandler.HandleRegister)
	s.router.Get("/users/{username}", userHandler.HandleGetByUsername)

	s.router.Post("/auth", authHandler.HandleLogin)

	s.router.Route("/meals", func(r chi.Router) {
		r.Use(auth.RequireSession)

		r.Get("/", mealHandler.HandleList)
		// /summary must not be swallowed by /{id}; chi matches static
		// segments before parameters, so this is safe in either order.
		r.Get("/summary", mealHandler.HandleSummary)
		r.Get("/{id}", mealHandler.HandleGetByID)
		r.Post("/", mealHandler.HandleCreate)
		r.Put("/{id}", mealHandler.HandleUpdate)
		r.Delete("/{id}", mealHandler.HandleDelete)
	})
}

// Handler exposes the assembled router. Used by tests to drive the full
// stack through httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database connection).
// Start calls it on shutdown; tests call it via t.Cleanup.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to drain, close the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("env", s.config.Env),
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
