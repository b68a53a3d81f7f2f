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
	"github.com/redis/go-redis/v9"

	"nineworlds/database"
	"nineworlds/internal/authz"
	"nineworlds/internal/config"
	"nineworlds/internal/handler"
	"nineworlds/internal/middleware"
	"nineworlds/internal/notify"
	"nineworlds/internal/repository"
	"nineworlds/internal/service"
	"nineworlds/internal/stats"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	cache := newRedisClient(cfg, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	aggregator := stats.NewAggregator(logger)
	userRepo := repository.NewUserRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	novelRepo := repository.NewNovelRepository(db, aggregator)
	chapterRepo := repository.NewChapterRepository(db, aggregator)
	commentRepo := repository.NewCommentRepository(db, aggregator)
	reactionRepo := repository.NewReactionRepository(db, aggregator)
	libraryRepo := repository.NewLibraryRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	// Services
	authorizer := authz.NewAuthorizer()
	notifier := notify.NewLogNotifier(logger)
	authService := service.NewAuthService(userRepo, notifier, logger, cfg)
	adminService := service.NewAdminService(userRepo, adminLogRepo, notifier, logger)
	novelService := service.NewNovelService(novelRepo, authorizer)
	chapterService := service.NewChapterService(chapterRepo, novelRepo, authorizer)
	commentService := service.NewCommentService(commentRepo, authorizer)
	reactionService := service.NewReactionService(reactionRepo, authorizer)
	libraryService := service.NewLibraryService(libraryRepo, novelRepo)
	rankingService := service.NewRankingService(rankingRepo, cache, cfg.RankingCacheTTL, logger)

	// HTTP wiring
	router := gin.New()
	router.Use(gin.Recovery())

	authMW := middleware.AuthMiddleware(authService)
	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerMin)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	handler.NewAuthHandler(authService, cfg.TokenTTL, loginLimiter.Middleware()).RegisterRoutes(api)
	handler.NewNovelHandler(novelService, chapterService, authMW).RegisterRoutes(api)
	handler.NewEngagementHandler(commentService, reactionService, authMW).RegisterRoutes(api)
	handler.NewLibraryHandler(libraryService, authMW).RegisterRoutes(api)
	handler.NewRankingHandler(rankingService).RegisterRoutes(api)
	handler.NewAdminHandler(adminService, authMW).RegisterRoutes(api)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	loginLimiter.Close()
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newRedisClient returns nil when redis is unreachable; rankings then
// read straight from the database.
func newRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, ranking cache disabled", "error", err)
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, ranking cache disabled", "error", err)
		return nil
	}
	return client
}
