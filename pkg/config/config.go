// Package config loads application configuration from the environment. A
// .env file is honored when present, mirroring local development setups.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates the per-concern configuration sections.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Storage  StorageConfig
	LogLevel string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string
	APIPrefix   string
	CORSOrigins string
	BodyLimit   int
}

// DatabaseConfig configures the Postgres connection pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// RedisConfig configures the Redis client used for send quotas.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Address returns the host:port pair for the Redis client.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig configures the upload file store.
type StorageConfig struct {
	UploadDir string
}

// Load reads every section from the environment. The database URL is the
// only hard requirement; everything else has a development default.
func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			APIPrefix:   getEnv("API_PREFIX", "api"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimit:   getEnvInt("BODY_LIMIT_MB", 10) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mail:     loadMailConfig(),
		Storage:  StorageConfig{UploadDir: getEnv("UPLOAD_DIR", "./uploads")},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
