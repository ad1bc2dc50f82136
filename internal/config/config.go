package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DevFallbackSecret signs tokens when JWT_SECRET is not set. It exists only
// so the service can be run locally without a .env file and is unsafe for
// production use; callers must warn loudly when it is active.
const DevFallbackSecret = "dev-fallback-secret-do-not-use-in-production"

type Config struct {
	DatabaseURL string
	HTTPPort    string
	LogLevel    string
	JWTSecret   string
}

func Load() *Config {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", "rail_complaints.db"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevFallbackSecret
	}

	return cfg
}

// UsingFallbackSecret reports whether the built-in development secret is in use.
func (c *Config) UsingFallbackSecret() bool {
	return c.JWTSecret == DevFallbackSecret
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
