package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/cache"
	"github.com/justsurfingit/ejobs/internal/config"
	"github.com/justsurfingit/ejobs/internal/database"
	"github.com/justsurfingit/ejobs/internal/handlers"
	"github.com/justsurfingit/ejobs/internal/logger"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/services"
	"github.com/justsurfingit/ejobs/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load Environment Variables. The .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. Database Connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	ctx := context.Background()

	// 3. Supporting infrastructure
	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	var statsCache cache.Cache = cache.Noop{}
	redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redisCache != nil {
		defer redisCache.Close()
		statsCache = redisCache
		log.Info("stats cache enabled", "ttl", cfg.StatsTTL)
	}

	m := metrics.New()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// 4. Initialize Core Services (Dependencies)
	llmService, err := services.NewLLMService(ctx, cfg.GeminiKey, log)
	if err != nil {
		return fmt.Errorf("failed to initialize llm: %w", err)
	}
	statsService := services.NewStatsService(db, statsCache, cfg.StatsTTL, log)

	// 5. Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Dependencies{
		Log:         log,
		Metrics:     m,
		Tokens:      tokens,
		UploadDir:   store.Root(),
		PageSize:    cfg.PageSize,
		CORSOrigins: cfg.CORSOrigins,
		Users:       services.NewUserService(db, store, m, log),
		Jobs:        services.NewJobService(db, store, m, log),
		Categories:  services.NewCategoryService(db),
		Profiles:    services.NewProfileService(db, store, log),
		Reviews:     services.NewReviewService(db, log),
		Payments:    services.NewPaymentService(db, m, log),
		Admin:       services.NewAdminService(db, statsService, log),
		Stats:       statsService,
		LLM:         llmService,
		Matcher:     services.NewMatcherService(db),
	})

	return serve(cfg, router, log)
}

// serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests.
func serve(cfg *config.Config, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
