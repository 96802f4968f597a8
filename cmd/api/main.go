package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/ferren/application-rollup-backend/internal/adapters/primary/http"
	mw "github.com/ferren/application-rollup-backend/internal/adapters/primary/http/middleware"
	"github.com/ferren/application-rollup-backend/internal/adapters/primary/websocket"
	"github.com/ferren/application-rollup-backend/internal/adapters/secondary/memstore"
	"github.com/ferren/application-rollup-backend/internal/adapters/secondary/tabular"
	"github.com/ferren/application-rollup-backend/internal/auth"
	"github.com/ferren/application-rollup-backend/internal/config"
	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/core/services"
	"github.com/ferren/application-rollup-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 4. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Secondary Adapters
	store := memstore.NewDatasetStore()
	parser := tabular.NewParser(cfg.Upload.PreferredSheet)

	// Services (Core)
	authService := services.NewAuthService(cfg.Auth.PasswordHash, tokenManager, logger)
	rollupService := services.NewRollupService(services.RollupConfig{
		Columns: services.ColumnSpec{
			Region:   cfg.Rollup.RegionColumn,
			District: cfg.Rollup.DistrictColumn,
			Office:   cfg.Rollup.OfficeColumn,
			AppKey:   cfg.Rollup.AppKeyColumn,
			Status:   cfg.Rollup.StatusColumn,
		},
		CanonicalStatuses: domain.CanonicalStatusOrder,
		HiddenStatuses:    cfg.Rollup.HiddenStatuses,
		GrowthFactor:      cfg.Rollup.GrowthFactor,
	}, logger)
	coordinator := services.NewCoordinator(store, rollupService, hub, logger)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, errorHandler, logger)
	datasetHandler := httpAdapter.NewDatasetHandler(store, parser, coordinator, hub, cfg.Upload.MaxBytes, errorHandler, logger)
	rollupHandler := httpAdapter.NewRollupHandler(coordinator, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(store, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/datasets", datasetHandler.RegisterRoutes)
			r.Route("/rollup", rollupHandler.RegisterRoutes)
		})
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Wait for any in-flight report computation to settle
	coordinator.Shutdown()

	logger.Info("server shutdown complete")
}
