package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tripdesk/internal/mockapi"
	"tripdesk/internal/shared/config"
	"tripdesk/internal/shared/database"
	"tripdesk/pkg/cache"
	"tripdesk/pkg/logger"
	"tripdesk/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.GetDefault().Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	appLogger := logger.NewWithOptions(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	logger.SetDefault(appLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg, database.Options{
		Postgres: cfg.Database.DSN != "",
		Redis:    cfg.MockAPI.RateLimitEnabled || cfg.MockAPI.SearchCacheEnabled,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize backing stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Bookings live in PostgreSQL when configured, otherwise in process memory
	var repo mockapi.Repository
	if db.PostgreSQL != nil {
		if err := mockapi.Migrate(db.PostgreSQL); err != nil {
			appLogger.Error("Failed to migrate booking tables", slog.Any("error", err))
			os.Exit(1)
		}
		repo = mockapi.NewGormRepository(db.PostgreSQL)
	} else {
		repo = mockapi.NewMemoryRepository()
		appLogger.Info("DB_HOST not set: bookings are kept in memory")
	}

	var opts []mockapi.ServiceOption
	if cfg.MockAPI.SearchCacheEnabled {
		opts = append(opts, mockapi.WithSearchCache(
			cache.NewService(db.Redis, "tripdesk:search:", appLogger),
			cfg.MockAPI.SearchCacheTTL,
		))
		appLogger.Info("Search cache enabled", slog.Duration("ttl", cfg.MockAPI.SearchCacheTTL))
	}

	svc, err := mockapi.NewService(repo, &cfg.MockAPI, appLogger, opts...)
	if err != nil {
		appLogger.Error("Failed to initialize mock API service", slog.Any("error", err))
		os.Exit(1)
	}

	var rateLimiter *ratelimit.RateLimiter
	if db.Redis != nil && cfg.MockAPI.RateLimitEnabled {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, ratelimit.NewConfig(
			cfg.MockAPI.RateLimitEnabled,
			cfg.MockAPI.RateLimitWindow,
			cfg.MockAPI.RateLimitRequests,
		))
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.MockAPI.RateLimitWindow),
			slog.Int("default_requests", cfg.MockAPI.RateLimitRequests),
		)
	}

	router := mockapi.NewRouter(cfg, svc, db, rateLimiter, appLogger)

	srv := &http.Server{
		Addr:              cfg.GetMockAPIAddress(),
		Handler:           router.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.Info("Mock travel API running",
			slog.String("address", cfg.GetMockAPIAddress()),
			slog.String("base_url", fmt.Sprintf("http://localhost:%s/api", cfg.MockAPI.Port)),
			slog.String("flight_shape", cfg.MockAPI.FlightShape),
			slog.String("dev_email", cfg.MockAPI.DevEmail),
			slog.String("version", Version),
			slog.String("build_time", BuildTime),
			slog.String("commit", GitCommit),
			slog.Bool("postgres", db.PostgreSQL != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}
