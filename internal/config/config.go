package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config keeps runtime settings for the console and the bot.
type Config struct {
	Env         string `env:"DUKE_ENV" env-default:"local"`
	LogLevel    string `env:"DUKE_LOG_LEVEL" env-default:"warn"`
	Storage     string `env:"DUKE_STORAGE" env-default:"file"`
	DataFile    string `env:"DUKE_DATA_FILE" env-default:"data/duke.txt"`
	DatabaseURL string `env:"DATABASE_URL" env-default:"data/duke.db"`

	// StrictLoad refuses to start on a corrupt record instead of skipping it.
	StrictLoad bool `env:"DUKE_STRICT_LOAD" env-default:"false"`
	Telegram   TelegramConfig
}

type TelegramConfig struct {
	Token               string `env:"TELEGRAM_TOKEN"`
	OwnerID             int64  `env:"TELEGRAM_OWNER_ID"`
	ReminderTime        string `env:"REMINDER_TIME" env-default:"09:00"`
	ReminderHorizonDays int    `env:"REMINDER_HORIZON_DAYS" env-default:"2"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TelegramEnabled reports whether a bot token was provided.
func (c Config) TelegramEnabled() bool {
	return c.Telegram.Token != ""
}

func (c Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown DUKE_ENV %q", c.Env)
	}

	switch c.Storage {
	case StorageFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return fmt.Errorf("DUKE_DATA_FILE is required for file storage")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown DUKE_STORAGE %q, expected %s or %s", c.Storage, StorageFile, StorageSQLite)
	}

	if c.TelegramEnabled() && c.Telegram.OwnerID == 0 {
		return fmt.Errorf("TELEGRAM_OWNER_ID is required when TELEGRAM_TOKEN is set")
	}
	if c.Telegram.ReminderHorizonDays < 0 {
		return fmt.Errorf("REMINDER_HORIZON_DAYS must not be negative")
	}
	return nil
}
