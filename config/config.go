package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port             int    `env:"PORT" envDefault:"8081"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName     string `env:"LOG_LEVEL" envDefault:"info"`
	TablesDir        string `env:"LOOTSIM_TABLES_DIR" envDefault:"loot-tables"`
	EnchantmentsFile string `env:"LOOTSIM_ENCHANTMENTS"` // empty means the embedded vanilla set
	DefaultTable     string `env:"LOOTSIM_DEFAULT_TABLE" envDefault:"ruined_portal"`
	Trials           int    `env:"LOOTSIM_TRIALS" envDefault:"10000"`
	MaxTrials        int    `env:"LOOTSIM_MAX_TRIALS" envDefault:"1000000"`
	DatabaseURL      string `env:"DATABASE_URL"`

	LogLevel slog.Level // parsed from LogLevelName
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port < 1 {
		return nil, fmt.Errorf("PORT must be positive, got %d", cfg.Port)
	}
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("LOOTSIM_TRIALS must be >= 1, got %d", cfg.Trials)
	}
	if cfg.MaxTrials < cfg.Trials {
		cfg.MaxTrials = cfg.Trials
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
