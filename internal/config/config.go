// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Shivanand-hulikatti/club-event-ledger/internal/database"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all runtime settings.
type Config struct {
	Port        string
	Store       string
	Database    database.Config
	CORSOrigins []string
	LogLevel    slog.Level

	// PaymentOnManualAdd creates a pending payment whenever an organizer adds
	// an attendee directly.
	PaymentOnManualAdd bool
	// StrictPayments rejects a second payment record for the same attendee.
	StrictPayments bool
}

// Load reads an optional .env file and then the process environment,
// falling back to local-development defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Store: strings.ToLower(getEnv("STORE", StorePostgres)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "clubledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.PaymentOnManualAdd, err = getBool("PAYMENT_ON_MANUAL_ADD", false); err != nil {
		return nil, err
	}
	if cfg.StrictPayments, err = getBool("STRICT_PAYMENTS", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
