package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/migrations"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
)

func main() {
	var command string
	flag.StringVar(&command, "command", "up", "Migration command: up or status")
	flag.Parse()

	cfg := config.LoadStorage()
	observability.InitLogger("masters-migrate", cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	switch command {
	case "up":
		err = migrations.Up(ctx, pgClient.DB().DB)
	case "status":
		err = migrations.Status(ctx, pgClient.DB().DB)
	default:
		logger.Fatal().Str("command", command).Msg("unknown migration command")
	}
	if err != nil {
		logger.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}

	logger.Info().Str("command", command).Msg("migrations done")
}
