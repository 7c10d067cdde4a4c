package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	APIToken   string
	UserID     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	TelegramToken    string
	TelegramChat     string
	TelegramThreadID *int

	HTTPPort  string
	WatchCron string
	CacheTTL  time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:    envOrDefault("MUNIFUND_API_URL", "http://localhost:8000"),
		APIToken:      os.Getenv("MUNIFUND_API_TOKEN"),
		UserID:        os.Getenv("MUNIFUND_USER_ID"),
		DBHost:        envOrDefault("DB_HOST", "localhost"),
		DBPort:        envOrDefault("DB_PORT", "5432"),
		DBUser:        envOrDefault("DB_USERNAME", "postgres"),
		DBPassword:    envOrDefault("DB_PASSWORD", "postgres"),
		DBName:        envOrDefault("DB_DATABASE", "munifund"),
		DBSSLMode:     envOrDefault("DB_SSLMODE", "disable"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChat:  os.Getenv("TELEGRAM_CHAT_ID"),
		HTTPPort:      envOrDefault("HTTP_PORT", "3000"),
		WatchCron:     envOrDefault("WATCH_CRON", "*/15 * * * *"),
	}

	threadID, err := envOrIntPtr("TELEGRAM_CHAT_THREAD_ID")
	if err != nil {
		return cfg, err
	}
	cfg.TelegramThreadID = threadID

	ttlSeconds, err := envOrInt("CACHE_TTL_SECONDS", 30)
	if err != nil {
		return cfg, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.APIBaseURL == "" {
		return cfg, errors.New("missing MUNIFUND_API_URL")
	}

	return cfg, nil
}

// ValidateWatch checks the extra configuration the watch daemon needs
// beyond plain API access.
func (c Config) ValidateWatch() error {
	if c.UserID == "" {
		return errors.New("missing MUNIFUND_USER_ID")
	}
	if c.TelegramToken == "" || c.TelegramChat == "" {
		return errors.New("missing TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID")
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return errors.New("missing database configuration")
	}
	return nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func envOrIntPtr(key string) (*int, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}
