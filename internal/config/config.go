// Package config provides configuration loading for the API server.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string
	LogFile  string

	// CORS
	AllowedOrigins []string

	// Rate Limiting
	RateLimitRPM   int
	RateLimitBurst int

	// Downloads
	YtDlpPath string
	TempDir   string

	// Metadata cache
	InfoCacheTTL time.Duration

	// Temp dir cleanup
	CleanupInterval time.Duration
	TempMaxAge      time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 5),

		YtDlpPath: getEnv("YTDLP_PATH", "yt-dlp"),
		TempDir:   getEnv("TEMP_DIR", "./tmp"),

		InfoCacheTTL: time.Duration(getEnvInt("INFO_CACHE_TTL", 60)) * time.Minute,

		CleanupInterval: time.Duration(getEnvInt("CLEANUP_INTERVAL", 10)) * time.Minute,
		TempMaxAge:      time.Duration(getEnvInt("TEMP_MAX_AGE", 60)) * time.Minute,
	}

	return cfg, nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
