package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	RegistryFile     = "file"
	RegistryPostgres = "postgres"
	RegistrySQLite   = "sqlite3"

	StateMemory = "memory"
	StateRedis  = "redis"
)

type Config struct {
	TelegramToken      string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	TelegramDebug      bool   `env:"TELEGRAM_DEBUG" envDefault:"false"`
	TelegramMaxRetries uint64 `env:"TELEGRAM_MAX_RETRIES" envDefault:"3"`

	Port         int    `env:"PORT" envDefault:"8080"`
	LivenessText string `env:"LIVENESS_TEXT" envDefault:"Bot is running"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`

	RegistryDriver string `env:"REGISTRY_DRIVER" envDefault:"file"`
	ChannelsFile   string `env:"CHANNELS_FILE" envDefault:"channels.json"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	StateBackend       string        `env:"STATE_BACKEND" envDefault:"memory"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	StateTTL           time.Duration `env:"STATE_TTL" envDefault:"0s"`
	StateSweepInterval time.Duration `env:"STATE_SWEEP_INTERVAL" envDefault:"10m"`

	ButtonsText string `env:"BUTTONS_TEXT" envDefault:"🔗"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.RegistryDriver {
	case RegistryFile:
		if c.ChannelsFile == "" {
			return fmt.Errorf("CHANNELS_FILE is required for the file registry")
		}
	case RegistryPostgres, RegistrySQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s registry", c.RegistryDriver)
		}
	default:
		return fmt.Errorf("unknown REGISTRY_DRIVER %q", c.RegistryDriver)
	}

	switch c.StateBackend {
	case StateMemory:
	case StateRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis state backend")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}

	if c.StateTTL < 0 {
		return fmt.Errorf("STATE_TTL must not be negative")
	}
	if c.StateTTL > 0 && c.StateSweepInterval <= 0 {
		return fmt.Errorf("STATE_SWEEP_INTERVAL must be positive when STATE_TTL is set")
	}
	if c.ButtonsText == "" {
		return fmt.Errorf("BUTTONS_TEXT must not be empty")
	}

	return nil
}
