package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Upload limits for /analyze_image, in bytes
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 16 << 20 // 16 MiB

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets (files under SECRETS_DIR, default /run/secrets) for any
// value not present in the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:     lookup("SERVER_PORT", "8080"),
		ServerHost:     lookup("SERVER_HOST", "0.0.0.0"),
		DBHost:         lookup("DB_HOST", "localhost"),
		DBPort:         lookup("DB_PORT", "5432"),
		DBUser:         lookup("DB_USER", "postgres"),
		DBPassword:     lookup("DB_PASSWORD", ""),
		DBName:         lookup("DB_NAME", "notacookbook"),
		DBSSLMode:      lookup("DB_SSL_MODE", "disable"),
		RedisHost:      lookup("REDIS_HOST", "localhost"),
		RedisPort:      lookup("REDIS_PORT", "6379"),
		RedisPassword:  lookup("REDIS_PASSWORD", ""),
		JWTSecret:      lookup("JWT_SECRET", ""),
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	if dbStr := lookup("REDIS_DB", ""); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if maxStr := lookup("MAX_UPLOAD_BYTES", ""); maxStr != "" {
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", maxStr, err)
		}
		cfg.MaxUploadBytes = max
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if IsProduction() && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}
	return nil
}

// DSN returns the Postgres connection string for this configuration.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisAddr returns the host:port address of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// lookup resolves a configuration value: environment variable first, then the
// matching Docker secret file, then the given default.
func lookup(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
