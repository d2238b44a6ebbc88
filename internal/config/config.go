// Package config loads server settings from the environment and optional .env files
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// devSecret signs tokens when PELADA_DEV=1 and no JWT_SECRET is given
const devSecret = "pelada-dev-secret"

// Config is the server configuration
type Config struct {
	Port     int
	Dev      bool
	LogLevel slog.Level

	StorageType string
	RedisURL    string
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret       string
	SessionDuration time.Duration

	MinPlayersPerTeam int
	MetricsEnabled    bool
}

// Load reads the given env files (or .env when none are given) and then the environment.
// Variables already set in the environment take precedence over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			slog.Warn("env file not found", "files", envFiles)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file, using system environment variables")
		}
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	port, err := getEnvAsInt("PELADA_ADDR_PORT", 8080)
	collect(err)
	minPlayers, err := getEnvAsInt("MIN_PLAYERS_PER_TEAM", 2)
	collect(err)
	maxConns, err := getEnvAsInt("DB_MAX_CONNS", 10)
	collect(err)
	minConns, err := getEnvAsInt("DB_MIN_CONNS", 2)
	collect(err)
	sessionDuration, err := getEnvAsDuration("SESSION_DURATION", 24*time.Hour)
	collect(err)
	metricsEnabled, err := getEnvAsBool("METRICS_ENABLED", true)
	collect(err)
	dev, err := getEnvAsBool("PELADA_DEV", false)
	collect(err)
	level, err := parseLevel(getEnvWithDefault("LOG_LEVEL", "info"))
	collect(err)

	cfg := &Config{
		Port:              port,
		Dev:               dev,
		LogLevel:          level,
		StorageType:       strings.ToLower(getEnvWithDefault("STORAGE_TYPE", StorageMemory)),
		RedisURL:          os.Getenv("REDIS_URL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        int32(maxConns),
		DBMinConns:        int32(minConns),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionDuration:   sessionDuration,
		MinPlayersPerTeam: minPlayers,
		MetricsEnabled:    metricsEnabled,
	}

	switch cfg.StorageType {
	case StorageMemory:
	case StorageRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORAGE_TYPE=redis"))
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be memory, redis or postgres, got %q", cfg.StorageType))
	}

	if cfg.JWTSecret == "" {
		if cfg.Dev {
			cfg.JWTSecret = devSecret
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required"))
		}
	}
	if cfg.MinPlayersPerTeam < 1 {
		errs = append(errs, fmt.Errorf("MIN_PLAYERS_PER_TEAM must be at least 1, got %d", cfg.MinPlayersPerTeam))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slog.Debug("configuration loaded",
		"port", cfg.Port,
		"storage", cfg.StorageType,
		"dev", cfg.Dev)

	return cfg, nil
}

// for variables with default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, valueStr)
	}
	return duration, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, valueStr)
	}
	return value, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}
