// Package config loads the reconciler configuration from environment
// variables, with optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the batch reconciler settings.
type Config struct {
	// RegisterPath is the register CSV file.
	RegisterPath string
	// StatementsPath is the zip archive of provider statement exports.
	StatementsPath string
	// RateCardPath is the rate card YAML file.
	RateCardPath string
	// OutputDir receives the three output tables.
	OutputDir string
	// HistoryPath is the SQLite run-history database; empty disables it.
	HistoryPath string
	// HeaderSkip overrides the statement metadata line count; zero keeps
	// the provider default.
	HeaderSkip int
}

// Load loads configuration from environment variables. It loads a .env
// file from the current directory if one exists, or from the given path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	headerSkip, err := parseIntEnv("RECON_HEADER_SKIP", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid RECON_HEADER_SKIP: %w", err)
	}

	return &Config{
		RegisterPath:   getEnvOrDefault("RECON_REGISTER", "register.csv"),
		StatementsPath: getEnvOrDefault("RECON_STATEMENTS", "statements.zip"),
		RateCardPath:   getEnvOrDefault("RECON_RATECARD", "ratecard.yaml"),
		OutputDir:      getEnvOrDefault("RECON_OUTPUT_DIR", "."),
		HistoryPath:    os.Getenv("RECON_HISTORY_DB"),
		HeaderSkip:     headerSkip,
	}, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return n, nil
}
