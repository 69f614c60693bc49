package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration

	MinLength int
	MaxLength int

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel slog.Level
}

// Load reads the configuration from the environment and exits on invalid values.
func Load() Config {
	cfg, err := load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passforge?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
	}

	var err error
	if cfg.JWTExpiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "24h")); err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRY: %w", err)
	}
	if cfg.MinLength, err = strconv.Atoi(getEnv("PASSWORD_MIN_LENGTH", "4")); err != nil {
		return Config{}, fmt.Errorf("PASSWORD_MIN_LENGTH: %w", err)
	}
	if cfg.MaxLength, err = strconv.Atoi(getEnv("PASSWORD_MAX_LENGTH", "16")); err != nil {
		return Config{}, fmt.Errorf("PASSWORD_MAX_LENGTH: %w", err)
	}
	if cfg.MinLength < 1 || cfg.MinLength > cfg.MaxLength {
		return Config{}, fmt.Errorf("password length range [%d, %d] is invalid", cfg.MinLength, cfg.MaxLength)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		return Config{}, fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
