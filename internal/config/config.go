// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jason-s-yu/roshambo/internal/fees"
	"github.com/jason-s-yu/roshambo/internal/models"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// DefaultQueueName is the Redis list transfer receipts are pushed to.
const DefaultQueueName = "roshambo_receipts"

// Config is everything the commands read from the environment.
type Config struct {
	Port     string
	LogLevel string
	Store    string
	Fees     fees.Schedule

	RedisAddr string
	RedisDB   int
	QueueName string

	PGUser     string
	PGPassword string
	PGHost     string
	PGPort     string
	PGDatabase string

	// TokenExpire is zero when session tokens never expire.
	TokenExpire time.Duration

	HistorianBatchSize int
	HistorianFlush     time.Duration
}

// Load reads the environment, falling back to defaults for anything unset.
// Fee values that are set but malformed fail the load.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Store:              strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		QueueName:          getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
		PGUser:             getEnv("POSTGRES_USER", "postgres"),
		PGPassword:         os.Getenv("POSTGRES_PASSWORD"),
		PGHost:             getEnv("PG_HOST", "localhost"),
		PGPort:             getEnv("PG_PORT", "5432"),
		PGDatabase:         getEnv("PG_DATABASE", "roshambo"),
		HistorianBatchSize: getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlush:     time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
	}

	schedule, err := loadFees(fees.DefaultSchedule())
	if err != nil {
		return nil, err
	}
	cfg.Fees = schedule

	expire, err := parseTokenExpire(os.Getenv("TOKEN_EXPIRE_TIME"))
	if err != nil {
		return nil, err
	}
	cfg.TokenExpire = expire

	if cfg.Store != StoreMemory && cfg.Store != StoreRedis {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store)
	}
	if cfg.HistorianBatchSize <= 0 {
		return nil, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.HistorianBatchSize)
	}
	if err := cfg.Fees.Validate(); err != nil {
		return nil, fmt.Errorf("fee schedule: %w", err)
	}
	return cfg, nil
}

// PostgresURL builds the pgx connection string.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// parseTokenExpire accepts "never", "0", empty or a Go duration.
func parseTokenExpire(s string) (time.Duration, error) {
	if s == "" || s == "0" || s == "never" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token expire time: %w", err)
	}
	return d, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// loadFees overrides def from FEE_* and WINNER_BONUS_BPS. Fees are policy,
// so a malformed value is an error rather than a silent default.
func loadFees(def fees.Schedule) (fees.Schedule, error) {
	s := def
	amounts := []struct {
		key string
		dst *models.Amount
	}{
		{"FEE_ROOM", &s.Room},
		{"FEE_JOIN_REQUEST", &s.JoinRequest},
		{"FEE_GAME", &s.Game},
		{"FEE_PLAY", &s.Play},
		{"FEE_STAKE", &s.Stake},
	}
	for _, a := range amounts {
		v, err := parseUintEnv(a.key, uint64(*a.dst))
		if err != nil {
			return fees.Schedule{}, err
		}
		*a.dst = models.Amount(v)
	}
	bps, err := parseUintEnv("WINNER_BONUS_BPS", def.WinnerBonusBPS)
	if err != nil {
		return fees.Schedule{}, err
	}
	s.WinnerBonusBPS = bps
	return s, nil
}

func parseUintEnv(key string, def uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
