package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/cache"
	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/database"
	"github.com/Anycrabs/telegram-masters-bot/internal/adapters/events"
	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/bot"
	"github.com/Anycrabs/telegram-masters-bot/internal/conversation"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/redis"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/telegram"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/migrations"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	if len(cfg.Bot.Admins) == 0 {
		logger.Warn().Msg("ADMIN_IDS is empty; nobody can moderate applications")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := migrations.Up(ctx, pgClient.DB().DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	masterRepo := database.NewMasterAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	var infoRepo repositories.InfoRepository = database.NewInfoAdapter(pgClient)

	// Redis is optional: without it info pages are read straight from
	// PostgreSQL and no events are published
	var (
		eventBus     providers.EventBus
		invalidation *services.CacheInvalidationService
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis client, running without cache")
		} else {
			defer redisClient.Close()

			cacheProvider := cache.NewRedisAdapter(redisClient, "tgbot:")
			infoRepo = database.NewCachedInfoAdapter(infoRepo, cacheProvider, metrics)
			eventBus = events.NewRedisEventBus(redisClient)

			invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
			if err := invalidation.Start(); err != nil {
				logger.Warn().Err(err).Msg("failed to start cache invalidation service")
				invalidation = nil
			}
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache and event bus enabled")
		}
	}

	tg, err := telegram.NewClient(cfg.Bot.Token,
		telegram.WithBaseURL(cfg.Bot.APIURL),
		telegram.WithRateLimit(cfg.Bot.RateLimit),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Telegram client")
	}

	publisher := services.NewEventPublisher(eventBus)
	notifier := services.NewNotificationService(tg, cfg.Bot.Admins, metrics)

	svc := bot.Services{
		Directory:    services.NewDirectoryService(masterRepo, reviewRepo),
		Rating:       services.NewRatingService(reviewRepo, publisher),
		Moderation:   services.NewModerationService(masterRepo, cfg.Bot.Admins, notifier, publisher),
		Applications: services.NewApplicationService(masterRepo, notifier, publisher),
		Info:         services.NewInfoService(infoRepo, cfg.Bot.Admins, publisher),
		Users:        services.NewUserService(userRepo),
	}

	machine := conversation.NewMachine(conversation.NewStore())
	dispatcher := bot.New(svc, machine, tg, metrics)
	runner := bot.NewRunner(tg, dispatcher, cfg.Bot.Workers, cfg.Bot.PollTimeout)

	logger.Info().
		Str("bot", tg.Username()).
		Int("workers", cfg.Bot.Workers).
		Int("admins", len(cfg.Bot.Admins)).
		Msg("bot started")

	if err := runner.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("bot stopped with error")
	}

	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("bot stopped")
}
