package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Redis struct {
		URL string
	}
	JWT struct {
		Secret     string
		Expiration time.Duration
	}
	Upstream struct {
		URL     string
		Timeout time.Duration
	}
	Registrations struct {
		// URL is the absolute endpoint serving the registration snapshot.
		// It defaults to the upstream base so deployments that expose it
		// elsewhere can point it at a different host.
		URL string
		// RequireAuth controls whether the upstream bearer token is sent
		// with registration reads. The backend currently serves them
		// without authentication.
		RequireAuth bool
	}
	LogLevel string
}

func Load() *Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// Redis configuration
	cfg.Redis.URL = getEnv("REDIS_URL", "redis://localhost:6379")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.Expiration = getEnvAsDuration("JWT_EXPIRATION", "24h")

	// Upstream backend configuration
	cfg.Upstream.URL = strings.TrimRight(getEnv("UPSTREAM_URL", "http://localhost:5000"), "/")
	cfg.Upstream.Timeout = getEnvAsDuration("UPSTREAM_TIMEOUT", "30s")

	// Registrations endpoint configuration
	cfg.Registrations.URL = getEnv("REGISTRATIONS_URL", cfg.Upstream.URL+"/api/admin/registrations")
	cfg.Registrations.RequireAuth = getEnvAsBool("REGISTRATIONS_AUTH", false)

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsBool(key string, defaultValue bool) bool {
	val := getEnv(key, strconv.FormatBool(defaultValue))
	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return boolVal
}
