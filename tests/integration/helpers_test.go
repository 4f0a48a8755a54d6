//go:build integration

package integration

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/redis"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/migrations"
	"github.com/Anycrabs/telegram-masters-bot/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func requireEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if os.Getenv(key) == "" {
			t.Skipf("Skipping integration test: %s not set", key)
		}
	}
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg := &config.RedisConfig{
		Enabled:  true,
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redis.NewClient(context.Background(), cfg)
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { client.Close() })
	return client
}

// newTestPostgresClient connects to the test database, applies migrations
// and empties every table the bot writes to.
func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "masters_bot_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
		MaxConns: 5,
	}

	ctx := context.Background()
	client, err := postgres.NewClient(ctx, cfg)
	require.NoError(t, err, "Failed to create postgres client")
	t.Cleanup(func() { client.Close() })

	require.NoError(t, migrations.Up(ctx, client.DB().DB))
	_, err = client.DB().ExecContext(ctx, `TRUNCATE TABLE reviews, masters, faq, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return client
}

func waitForDirectoryEvent(t *testing.T, ch <-chan *entities.DirectoryEvent) *entities.DirectoryEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for directory event")
		return nil
	}
}

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }
