// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SchedulerConfig provides settings for the asynq scheduler worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ListingsConfig provides settings for the external listings provider client.
type ListingsConfig interface {
	GetListingsBaseURL() string
	GetListingsAPIKey() string
	GetListingsSearchRadiusKM() float64
}

// MatcherConfig provides settings for the cross-reference batch job.
type MatcherConfig interface {
	GetMatcherBatchLimit() int
	GetMatcherRecencyWindow() time.Duration
	GetMatcherParallelism() int
}

// ImportConfig provides settings for bulk data imports.
type ImportConfig interface {
	GetImportDataDir() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	CORSAllowAll           bool
	CORSOrigins            []string
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	ListingsBaseURL        string
	ListingsAPIKey         string
	ListingsSearchRadiusKM float64
	MatcherBatchLimit      int
	MatcherRecencyWindow   time.Duration
	MatcherParallelism     int
	ImportDataDir          string
}

// Load reads configuration from the environment. A .env file is loaded first
// when present so local development does not need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":3000"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		CORSAllowAll:           getBoolEnv("CORS_ALLOW_ALL", true),
		CORSOrigins:            splitAndTrim(os.Getenv("CORS_ORIGINS")),
		RedisURL:               os.Getenv("REDIS_URL"),
		RedisTLSInsecure:       getBoolEnv("REDIS_TLS_INSECURE", false),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       getIntEnv("ASYNQ_CONCURRENCY", 10),
		ListingsBaseURL:        os.Getenv("LISTINGS_API_URL"),
		ListingsAPIKey:         os.Getenv("LISTINGS_API_KEY"),
		ListingsSearchRadiusKM: getFloatEnv("LISTINGS_SEARCH_RADIUS_KM", 1),
		MatcherBatchLimit:      getIntEnv("MATCHER_BATCH_LIMIT", 100),
		MatcherRecencyWindow:   getDurationEnv("MATCHER_RECENCY_WINDOW", 30*24*time.Hour),
		MatcherParallelism:     getIntEnv("MATCHER_PARALLELISM", 4),
		ImportDataDir:          getEnv("IMPORT_DATA_DIR", "data"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

func (c *Config) GetListingsBaseURL() string         { return c.ListingsBaseURL }
func (c *Config) GetListingsAPIKey() string          { return c.ListingsAPIKey }
func (c *Config) GetListingsSearchRadiusKM() float64 { return c.ListingsSearchRadiusKM }

func (c *Config) GetMatcherBatchLimit() int              { return c.MatcherBatchLimit }
func (c *Config) GetMatcherRecencyWindow() time.Duration { return c.MatcherRecencyWindow }
func (c *Config) GetMatcherParallelism() int             { return c.MatcherParallelism }

func (c *Config) GetImportDataDir() string { return c.ImportDataDir }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getFloatEnv(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
