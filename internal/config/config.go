package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// UI modes.
const (
	UITerminal = "tui"
	UILine     = "line"
)

type Config struct {
	Dataset        string        `env:"DATASET" envDefault:"cities.csv"`
	RefLat         float64       `env:"REF_LAT" envDefault:"55.68004068027785"`
	RefLng         float64       `env:"REF_LNG" envDefault:"12.574885137312116"`
	UI             string        `env:"UI" envDefault:"tui"`
	Keyword        string        `env:"KEYWORD" envDefault:"break"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"10"`
	MapCacheSize   int           `env:"MAP_CACHE_SIZE" envDefault:"32"`
	ResolveCountry bool          `env:"RESOLVE_COUNTRY" envDefault:"false"`
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"10s"`
	TurnPause      time.Duration `env:"TURN_PAUSE" envDefault:"300ms"`
	StartCity      string        `env:"START_CITY"`
	Seed           uint64        `env:"SEED"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile        string        `env:"LOG_FILE"`
}

// Prefix is prepended to every variable name.
const Prefix = "CITYDIST_"

func Load() (*Config, error) {
	return load(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Prefix: Prefix, Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.UI = strings.ToLower(strings.TrimSpace(c.UI))
	if c.UI != UITerminal && c.UI != UILine {
		return fmt.Errorf("%sUI: unknown mode %q", Prefix, c.UI)
	}
	if c.RefLat < -90 || c.RefLat > 90 || c.RefLng < -180 || c.RefLng > 180 {
		return fmt.Errorf("%sREF_LAT/%sREF_LNG: reference point out of range", Prefix, Prefix)
	}
	if strings.TrimSpace(c.Keyword) == "" {
		return fmt.Errorf("%sKEYWORD: must not be empty", Prefix)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%sMAX_ATTEMPTS: must be at least 1", Prefix)
	}
	if c.MapCacheSize < 1 {
		return fmt.Errorf("%sMAP_CACHE_SIZE: must be at least 1", Prefix)
	}
	return nil
}
