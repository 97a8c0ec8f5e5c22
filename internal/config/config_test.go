package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talgya/planetforge/internal/stellar"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PLANETFORGE_SEED", "SYSTEM_FILE", "MAPS_DIR", "MATERIALS_FILE", "DB_DRIVER", "DB_DSN",
		"REDIS_ENABLED", "REDIS_URL", "REDIS_DB", "REDIS_TTL_MINUTES",
		"LOG_LEVEL", "LOG_FORMAT", "GENERATION_WORKERS", "HABITABLE_ZONE_MODEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Zero(t, cfg.Generation.Seed)
	require.Equal(t, "system.json", cfg.Generation.SystemFile)
	require.Equal(t, 4, cfg.Generation.Workers)
	require.Equal(t, stellar.Conservative, cfg.Generation.ZoneModel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, time.Hour, cfg.Redis.TTL)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Logging.JSONFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PLANETFORGE_SEED", "-77")
	t.Setenv("GENERATION_WORKERS", "8")
	t.Setenv("HABITABLE_ZONE_MODEL", "optimistic")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/planets?sslmode=disable")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_TTL_MINUTES", "5")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(-77), cfg.Generation.Seed)
	require.Equal(t, 8, cfg.Generation.Workers)
	require.Equal(t, stellar.Optimistic, cfg.Generation.ZoneModel)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	require.True(t, cfg.Logging.JSONFormat)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"unknown driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"unknown zone model", "HABITABLE_ZONE_MODEL", "generous", "HABITABLE_ZONE_MODEL"},
		{"zero workers", "GENERATION_WORKERS", "0", "GENERATION_WORKERS"},
		{"malformed seed", "PLANETFORGE_SEED", "abc", "PLANETFORGE_SEED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.ErrorContains(t, err, tt.want)
		})
	}
}
