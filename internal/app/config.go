package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Поддерживаемые backend'ы хранилища слотов.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config описывает настройки запуска витрины.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// Storage выбирает backend хранилища слотов: memory, redis или postgres.
	Storage     string
	RedisAddr   string
	PostgresDSN string

	// KafkaBrokers — список брокеров через запятую; пустое значение
	// отключает пересылку аналитики в Kafka.
	KafkaBrokers string

	SessionTTL     time.Duration
	ChatNudgeDelay time.Duration
	SEOInterval    time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию: in-memory
// хранилище без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		Storage:        StorageMemory,
		SessionTTL:     30 * time.Minute,
		ChatNudgeDelay: 30 * time.Second,
		SEOInterval:    30 * time.Second,
	}
}

// LoadConfig читает настройки из окружения поверх значений по умолчанию.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STOREFRONT_STORAGE"); v != "" {
		cfg.Storage = strings.ToLower(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}

	var err error
	if cfg.SessionTTL, err = envDuration("STOREFRONT_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.ChatNudgeDelay, err = envDuration("STOREFRONT_CHAT_NUDGE_DELAY", cfg.ChatNudgeDelay); err != nil {
		return Config{}, err
	}
	if cfg.SEOInterval, err = envDuration("STOREFRONT_SEO_INTERVAL", cfg.SEOInterval); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis storage requires REDIS_ADDR")
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres storage requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
