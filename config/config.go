package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port               string
	DataDir            string
	StoreBackend       string
	DatabaseURL        string
	CORSOrigins        []string
	AdminUsername      string
	AdminEmail         string
	AdminPassword      string
	OpenRegistration   bool
	TokenTTL           time.Duration
	LogLevel           string
	AnalyticsFlushSpec string
	AnalyticsRetention time.Duration
	Search             SearchSettings
}

// Load reads the configuration like Read and validates it.
func Load(envFiles ...string) (*Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads environment variables, from a .env file when one exists, without
// cross-field validation. A missing .env file is not an error.
func Read(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DataDir:            getEnv("DATA_DIR", "./findmyjob_data"),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", StoreBadger)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		CORSOrigins:        parseList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		AdminUsername:      os.Getenv("ADMIN_USERNAME"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AnalyticsFlushSpec: getEnv("ANALYTICS_FLUSH_SPEC", "@every 1m"),
	}

	var err error
	if cfg.OpenRegistration, err = getBool("OPEN_REGISTRATION", true); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AnalyticsRetention, err = getDuration("ANALYTICS_RETENTION", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Search.MaxSuggestions, err = getInt("SEARCH_MAX_SUGGESTIONS", 0); err != nil {
		return nil, err
	}
	if cfg.Search.ParallelThreshold, err = getInt("SEARCH_PARALLEL_THRESHOLD", 0); err != nil {
		return nil, err
	}
	if cfg.Search.Workers, err = getInt("SEARCH_WORKERS", 0); err != nil {
		return nil, err
	}
	cfg.Search.ApplyDefaults()

	return cfg, nil
}

// Validate checks cross-field requirements. The CLI calls it after flags have been applied.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBadger:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the %s store", StoreBadger)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, StoreBadger, StorePostgres)
	}

	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	if problems := c.Search.Validate(); len(problems) > 0 {
		return fmt.Errorf("invalid search settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
