package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=rentpos port=5432 sslmode=disable"

type Config struct {
	Env         string
	HTTPPort    string
	DBDriver    string // postgres | sqlite
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	RedisAddr   string // empty disables the availability cache
	CacheTTL    time.Duration
	LogLevel    string
}

// Load reads the environment, after merging a local .env file if one exists.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "dev"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		CacheTTL:    getDuration("CACHE_TTL", 10*time.Minute),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// Warnings lists settings that still carry development defaults.
func (c *Config) Warnings() []string {
	var out []string
	if c.DBDriver == "postgres" && c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == "http://localhost:5173" {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	return out
}

// ValidateServer checks the settings the HTTP server cannot run without.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	return c.ValidateDatabase()
}

func (c *Config) ValidateDatabase() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
		return nil
	}
	return errors.New("DB_DRIVER must be 'postgres' or 'sqlite'")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
