// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string  // Base directory for the ledger database and snapshot cache
	Port         int     // HTTP API port
	LogLevel     string  // debug, info, warn, error
	DevMode      bool    // Enables permissive CORS and pretty logging
	RiskFreeRate float64 // Annual risk-free rate used as the cash-rate baseline

	// Background job schedules (cron expressions, seconds field included)
	ReloadSchedule      string // Re-reads the ledger store and recomputes the snapshot
	CheckpointSchedule  string // SQLite WAL checkpoint
	MaintenanceSchedule string // Integrity checks and VACUUM
	BackupSchedule      string // Cloud backup of the ledger database

	// R2/S3 backup credentials (backup disabled when any is empty)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("TRADERLENS_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("TRADERLENS_PORT", 8010),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		RiskFreeRate:       getEnvAsFloat("RISK_FREE_RATE", 0.02),
		ReloadSchedule:      getEnv("RELOAD_SCHEDULE", "0 */5 * * * *"),
		CheckpointSchedule:  getEnv("CHECKPOINT_SCHEDULE", "@hourly"),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@daily"),
		BackupSchedule:      getEnv("BACKUP_SCHEDULE", "@daily"),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// BackupEnabled reports whether cloud backup credentials are fully configured
func (c *Config) BackupEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.RiskFreeRate < 0 {
		return fmt.Errorf("risk-free rate must be non-negative, got %f", c.RiskFreeRate)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
