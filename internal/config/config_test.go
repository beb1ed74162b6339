package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "habiterr.db", cfg.DBURL)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.StatsWindowDays)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HABITERR_DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/habiterr")
	t.Setenv("HABITERR_STATS_WINDOW_DAYS", "7")
	t.Setenv("HABITERR_SESSION_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7, cfg.StatsWindowDays)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	base := Config{DBDriver: "sqlite3", DBURL: "x.db", SessionTTL: time.Hour, Timezone: "UTC"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"missing url", func(c *Config) { c.DBURL = "" }, true},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
