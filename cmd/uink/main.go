package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Denyusha/uink-backend/internal/app"
	"github.com/Denyusha/uink-backend/internal/auth"
	"github.com/Denyusha/uink-backend/internal/blogs"
	"github.com/Denyusha/uink-backend/internal/observability"
	"github.com/Denyusha/uink-backend/internal/platform/db"
	"github.com/Denyusha/uink-backend/internal/uploads"
	"github.com/Denyusha/uink-backend/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// The listing cache is optional; a missing Redis only costs repeated
	// queries, so a failed ping downgrades to a nil client.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping, serving without listing cache", slog.Any("error", err))
		_ = redisClient.Close()
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	uploader := uploads.NewClient(cfg.ImageHostURL, cfg.ImageHostKey)
	if err := uploader.Ping(ctx); err != nil {
		logger.Warn("image host ping", slog.Any("error", err))
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokens, uploader)

	blogRepo := blogs.NewRepository(dbpool)
	blogCache := blogs.NewCache(redisClient, cfg.ListCacheTTL)
	blogService := blogs.NewService(blogRepo, blogCache)
	blogHandler := blogs.NewHandler(logger, blogService, uploader, guard)

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		AuthHandler: authHandler,
		BlogHandler: blogHandler,
		UserHandler: userHandler,
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
