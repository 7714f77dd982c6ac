package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	Env           string
	RedisURL      string
	OverlaySecret string

	// Text generation provider
	OpenAIKey   string
	OpenAIModel string

	// Generation requests per channel per minute
	RateLimitPerMinute int
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		OverlaySecret:      getEnv("OVERLAY_SECRET", "dev-overlay-secret"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
	}

	// In production, require an explicit store and signing secret
	if cfg.Env == "production" {
		if os.Getenv("REDIS_URL") == "" {
			panic("REDIS_URL is required in production")
		}
		if os.Getenv("OVERLAY_SECRET") == "" {
			panic("OVERLAY_SECRET is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
