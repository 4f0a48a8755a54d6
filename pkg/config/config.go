package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env      string
	LogLevel string
	Bot      BotConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OTEL     OTELConfig
}

// BotConfig holds chat transport configuration
type BotConfig struct {
	Token       string
	APIURL      string
	Admins      AdminSet
	PollTimeout time.Duration
	Workers     int
	RateLimit   float64
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	cfg := LoadStorage()
	if cfg.Bot.Token == "" {
		return nil, errors.New("BOT_TOKEN is not set")
	}
	return cfg, nil
}

// LoadStorage loads configuration for tools that only talk to the stores.
// The bot token is not required.
func LoadStorage() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:      getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Bot: BotConfig{
			Token:       getEnv("BOT_TOKEN", ""),
			APIURL:      getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			Admins:      ParseAdminSet(getEnv("ADMIN_IDS", "")),
			PollTimeout: time.Duration(getEnvAsInt("BOT_POLL_TIMEOUT", 30)) * time.Second,
			Workers:     getEnvAsInt("BOT_WORKERS", 8),
			RateLimit:   getEnvAsFloat("BOT_RATE_LIMIT", 25),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Database: getEnv("DB_NAME", "masters_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "telegram-masters-bot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}
}

// AdminSet is the immutable set of administrator identities.
type AdminSet map[int64]struct{}

// NewAdminSet builds a set from explicit ids.
func NewAdminSet(ids ...int64) AdminSet {
	set := make(AdminSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ParseAdminSet parses a comma separated id list. Entries that are not
// integers are skipped.
func ParseAdminSet(raw string) AdminSet {
	set := AdminSet{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Contains reports exact membership.
func (s AdminSet) Contains(userID int64) bool {
	_, ok := s[userID]
	return ok
}

// IDs returns the members in no particular order.
func (s AdminSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=tg_masters_bot",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
