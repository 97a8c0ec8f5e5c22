// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/talgya/planetforge/internal/stellar"
)

type Config struct {
	Generation GenerationConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

type GenerationConfig struct {
	// Seed overrides a seed file's seed when the file leaves it at zero.
	Seed          int64
	SystemFile    string
	MapsDir       string
	MaterialsFile string
	Workers       int
	ZoneModel     stellar.ZoneModel
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	gen, err := loadGenerationConfig()
	if err != nil {
		return nil, err
	}
	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}
	return &Config{
		Generation: gen,
		Database:   loadDatabaseConfig(),
		Redis:      redisCfg,
		Logging:    loadLoggingConfig(),
	}, nil
}

func loadGenerationConfig() (GenerationConfig, error) {
	seed, err := strconv.ParseInt(getEnv("PLANETFORGE_SEED", "0"), 10, 64)
	if err != nil {
		return GenerationConfig{}, fmt.Errorf("PLANETFORGE_SEED: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("GENERATION_WORKERS", "4"))
	if err != nil {
		return GenerationConfig{}, fmt.Errorf("GENERATION_WORKERS: %w", err)
	}

	return GenerationConfig{
		Seed:          seed,
		SystemFile:    getEnv("SYSTEM_FILE", "system.json"),
		MapsDir:       getEnv("MAPS_DIR", "maps"),
		MaterialsFile: getEnv("MATERIALS_FILE", ""),
		Workers:       workers,
		ZoneModel:     stellar.ZoneModel(getEnv("HABITABLE_ZONE_MODEL", string(stellar.Conservative))),
	}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: getEnv("DB_DRIVER", "sqlite"),
		DSN:    getEnv("DB_DSN", "planetforge.db"),
	}
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	ttl, err := strconv.Atoi(getEnv("REDIS_TTL_MINUTES", "60"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("REDIS_TTL_MINUTES: %w", err)
	}

	return RedisConfig{
		Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
		URL:      getEnv("REDIS_URL", ""),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      time.Duration(ttl) * time.Minute,
	}, nil
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		JSONFormat: getEnv("LOG_FORMAT", "text") == "json",
	}
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (sqlite, postgres)", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if !stellar.ValidZoneModel(c.Generation.ZoneModel) {
		return fmt.Errorf("HABITABLE_ZONE_MODEL %q is not supported (conservative, optimistic)", c.Generation.ZoneModel)
	}

	if c.Generation.Workers <= 0 {
		return fmt.Errorf("GENERATION_WORKERS must be positive, got %d", c.Generation.Workers)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
