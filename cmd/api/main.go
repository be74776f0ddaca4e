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
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/http"
	mw "github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/http/middleware"
	"github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/websocket"
	"github.com/otavioq/ticket-metrics-backend/internal/adapters/secondary/postgres"
	"github.com/otavioq/ticket-metrics-backend/internal/adapters/secondary/rediscache"
	"github.com/otavioq/ticket-metrics-backend/internal/adapters/secondary/tomticket"
	"github.com/otavioq/ticket-metrics-backend/internal/auth"
	"github.com/otavioq/ticket-metrics-backend/internal/config"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
	"github.com/otavioq/ticket-metrics-backend/internal/core/services"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/logging"
	"github.com/otavioq/ticket-metrics-backend/internal/infrastructure/metrics"
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

	// 3. Run Database Migrations
	if err := runMigrations(cfg.Database.URL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	// Apply database configuration
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 5. Initialize Optional Ticket Cache
	var ticketCache ports.TicketCache
	var cacheChecker httpAdapter.HealthChecker
	if cfg.CacheEnabled() {
		cache, err := rediscache.NewTicketCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() { _ = cache.Close() }()
		ticketCache = cache
		cacheChecker = cache
		logger.Info("ticket cache enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("ticket cache disabled")
	}

	// 6. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 7. Initialize Rate Limiters
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
	jobRateLimiter := mw.NewRateLimitByKey(1, 3)

	// 8. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Secondary Adapters
	calendarRepo := postgres.NewCalendarRepository(pool)
	analysisRepo := postgres.NewAnalysisRepository(pool)
	ticketSource := tomticket.NewClient(cfg.Vendor.BaseURL, cfg.Vendor.Token, cfg.Vendor.Timeout)

	// Services (Core)
	authService := services.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, tokenManager)
	calendarService := services.NewCalendarService(calendarRepo)
	ticketQueryService := services.NewTicketQueryService(ticketSource, ticketCache, logger)
	analysisService := services.NewAnalysisService(ticketQueryService, calendarService, analysisRepo, hub, logger)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, errorHandler, logger)
	calendarHandler := httpAdapter.NewCalendarHandler(calendarService, errorHandler, logger)
	analysisHandler := httpAdapter.NewAnalysisHandler(analysisService, errorHandler, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketQueryService, analysisHandler, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, cacheChecker, cfg.App.Version)

	// 9. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	corsOrigins := cfg.WebSocket.AllowedOrigins
	if cfg.IsDevelopment() && len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
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

	// Prometheus metrics
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

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
			r.Route("/calendar", calendarHandler.RegisterRoutes)
			r.Route("/analyses", func(r chi.Router) {
				// Jobs fan out vendor calls, so cap how fast one user can start them
				r.Use(jobRateLimiter.Middleware)
				analysisHandler.RegisterRoutes(r)
			})
			r.Route("/tickets", ticketHandler.RegisterRoutes)
		})
	})

	// 10. Start Server with Graceful Shutdown
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

	// Graceful shutdown: stop accepting requests, then drain running jobs
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	analysisService.Shutdown()

	logger.Info("server shutdown complete")
}

// runMigrations applies pending database migrations at startup.
func runMigrations(databaseURL string) error {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
