// Package config reads server configuration from the environment, with the
// same variables and defaults the WordPress tooling ecosystem expects.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is read once at startup and immutable afterwards.
type Config struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	User     string `validate:"required"`
	Password string
	Database string `validate:"required"`
	// Socket selects the unix-socket transport; when set, Host and Port are
	// ignored (Local, MAMP and similar setups).
	Socket string
	// TablePrefix left empty triggers auto-detection at startup.
	TablePrefix string

	MaxRows            int `validate:"min=1"`
	QueryTimeoutSecs   int `validate:"min=1"`
	ConnectTimeoutSecs int `validate:"min=1"`
	PoolMin            int `validate:"min=1"`
	PoolMax            int `validate:"min=1,gtefield=PoolMin"`
}

// Load reads a .env file if present, then the WP_* environment variables,
// and validates the result.
func Load() (*Config, error) {
	godotenv.Load(".env")

	cfg := &Config{
		Host:               getEnv("WP_DB_HOST", "127.0.0.1"),
		Port:               getEnvInt("WP_DB_PORT", 3306),
		User:               getEnv("WP_DB_USER", "root"),
		Password:           os.Getenv("WP_DB_PASSWORD"),
		Database:           getEnv("WP_DB_NAME", "wordpress"),
		Socket:             os.Getenv("WP_DB_SOCKET"),
		TablePrefix:        os.Getenv("WP_TABLE_PREFIX"),
		MaxRows:            getEnvInt("WP_MAX_ROWS", 1000),
		QueryTimeoutSecs:   getEnvInt("WP_QUERY_TIMEOUT", 30),
		ConnectTimeoutSecs: getEnvInt("WP_CONNECT_TIMEOUT", 10),
		PoolMin:            getEnvInt("WP_POOL_MIN", 1),
		PoolMax:            getEnvInt("WP_POOL_MAX", 5),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Password == "" {
		slog.Warn("WP_DB_PASSWORD is not set; an empty password is insecure outside local development")
	}

	return cfg, nil
}

// QueryTimeout returns the per-query execution ceiling.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSecs) * time.Second
}

// ConnectTimeout bounds both the startup ping and pool slot acquisition.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric environment variable", "key", key, "value", v)
		return fallback
	}
	return n
}
