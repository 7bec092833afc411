package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/uzeyirmammadli/catcare-sub001/internal/api"
	"github.com/uzeyirmammadli/catcare-sub001/internal/config"
	"github.com/uzeyirmammadli/catcare-sub001/internal/redis"
	"github.com/uzeyirmammadli/catcare-sub001/internal/service"
	"github.com/uzeyirmammadli/catcare-sub001/internal/storage/media"
	"github.com/uzeyirmammadli/catcare-sub001/internal/storage/postgres"
	"github.com/uzeyirmammadli/catcare-sub001/internal/workers"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	EventQueue *redis.EventQueue
	Notifier   *workers.Notifier
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	caseCache := redis.NewCaseCache(redisClient)
	eventQueue := redis.NewEventQueue(redisClient.Client, "resolutions:queue")

	mediaStore, err := media.NewLocalStore(cfg.Uploads, logger)
	if err != nil {
		storage.Pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to init media store: %w", err)
	}

	caseSvc := service.NewCaseService(storage.Cases(), caseCache, eventQueue, logger, cfg.Redis.CaseTTL)
	searchSvc := service.NewSearchService(storage.Cases(), logger, cfg.Search.PageSize, cfg.Search.DefaultRadiusKM)
	commentSvc := service.NewCommentService(storage.Comments(), storage.Cases(), logger, 20)
	statsSvc := service.NewStatsService(storage.Stats())

	srv := service.NewService(caseSvc, searchSvc, commentSvc, statsSvc)

	notifier := workers.NewNotifier(logger, cfg.Notify, eventQueue)

	httpServer := api.NewServer(cfg, logger, srv, mediaStore)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		EventQueue: eventQueue,
		Notifier:   notifier,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
