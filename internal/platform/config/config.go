package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	Environment           string
	LogLevel              string
	SourceURL             string
	SourceTimeout         time.Duration
	SourceCacheTTL        time.Duration
	SourceRefreshInterval time.Duration
	CacheSize             int
	RedisURL              string
	EmployeeAPIURL        string
	APITimeout            time.Duration
	TopMinTasks           int
	TopLimit              int
	DetailTaskLimit       int
	PDFFontPath           string
	MaxBodyBytes          int64
	RateLimitPerMinute    int
	MetricsEnabled        bool
	BreakerFailures       int
	BreakerTimeout        time.Duration
}

// Load reads a .env file from the working directory when present, then the environment.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:                  getEnv("APP_ADDR", ":8080"),
		Environment:           getEnv("APP_ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SourceURL:             getEnv("SOURCE_URL", ""),
		SourceTimeout:         getEnvDuration("SOURCE_TIMEOUT", 10*time.Second),
		SourceCacheTTL:        getEnvDuration("SOURCE_CACHE_TTL", 60*time.Second),
		SourceRefreshInterval: getEnvDuration("SOURCE_REFRESH_INTERVAL", 0),
		CacheSize:             getEnvInt("CACHE_SIZE", 64),
		RedisURL:              getEnv("REDIS_URL", ""),
		EmployeeAPIURL:        getEnv("EMPLOYEE_API_URL", "http://localhost:8080"),
		APITimeout:            getEnvDuration("API_TIMEOUT", 15*time.Second),
		TopMinTasks:           getEnvInt("TOP_MIN_TASKS", 10),
		TopLimit:              getEnvInt("TOP_LIMIT", 3),
		DetailTaskLimit:       getEnvInt("DETAIL_TASK_LIMIT", 50),
		PDFFontPath:           getEnv("PDF_FONT_PATH", ""),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
		BreakerFailures:       getEnvInt("BREAKER_FAILURES", 5),
		BreakerTimeout:        getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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

func (c Config) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return fmt.Errorf("SOURCE_URL is required")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}
	if c.SourceCacheTTL < 0 {
		return fmt.Errorf("SOURCE_CACHE_TTL must not be negative")
	}
	if c.SourceRefreshInterval < 0 {
		return fmt.Errorf("SOURCE_REFRESH_INTERVAL must not be negative")
	}
	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL is invalid: %w", err)
		}
	}
	if c.TopMinTasks < 0 {
		return fmt.Errorf("TOP_MIN_TASKS must not be negative")
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("TOP_LIMIT must be positive")
	}
	if c.DetailTaskLimit <= 0 {
		return fmt.Errorf("DETAIL_TASK_LIMIT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.BreakerFailures <= 0 {
		return fmt.Errorf("BREAKER_FAILURES must be positive")
	}
	if c.BreakerTimeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}
