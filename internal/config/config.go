package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	DBDriver string `env:"HABITERR_DB_DRIVER" envDefault:"sqlite3"`
	DBURL    string `env:"DB_URL" envDefault:"habiterr.db"`

	SessionTTL   time.Duration `env:"HABITERR_SESSION_TTL" envDefault:"720h"`
	CookieSecure bool          `env:"HABITERR_COOKIE_SECURE" envDefault:"false"`

	StatsWindowDays int    `env:"HABITERR_STATS_WINDOW_DAYS" envDefault:"30"`
	Timezone        string `env:"HABITERR_TIMEZONE" envDefault:"UTC"`

	LogLevel string `env:"HABITERR_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"HABITERR_LOG_FILE"`

	SSHAddr    string `env:"HABITERR_SSH_ADDR" envDefault:":23234"`
	SSHHostKey string `env:"HABITERR_SSH_HOST_KEY" envDefault:".ssh/id_ed25519"`

	HabiticaAPIUser string `env:"HABITICA_API_USER"`
	HabiticaAPIKey  string `env:"HABITICA_API_KEY"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the timezone calendar days are computed in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
