// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for SQLite databases and backup staging (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	DBDriver    string // sqlite or postgres
	DatabaseURL string // postgres DSN, required when DBDriver is postgres

	PolygonAPIKey  string
	PolygonBaseURL string
	PriceCacheTTL  time.Duration

	// CheckingAccountTypeID is the only account type allowed to fund stock purchases
	CheckingAccountTypeID int

	KafkaBrokers []string
	KafkaTopic   string

	CacheCleanupSchedule string
	Backup               *BackupConfig
}

// BackupConfig holds S3-compatible backup settings
type BackupConfig struct {
	Bucket          string
	Endpoint        string // Empty for AWS, set for R2/MinIO
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Schedule        string
	RetentionDays   int // Backups older than this are rotated out, keeping a minimum count
}

// Enabled reports whether backups have a destination
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("BANK_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:               absDataDir,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		Port:                  getEnvAsInt("PORT", 5000),
		DevMode:               getEnvAsBool("DEV_MODE", false),
		DBDriver:              strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		PolygonAPIKey:         getEnv("POLYGON_API_KEY", ""),
		PolygonBaseURL:        getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
		PriceCacheTTL:         getEnvAsDuration("PRICE_CACHE_TTL", 24*time.Hour),
		CheckingAccountTypeID: getEnvAsInt("CHECKING_ACCOUNT_TYPE_ID", 1),
		KafkaBrokers:          getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "ledger.transactions"),
		CacheCleanupSchedule:  getEnv("CACHE_CLEANUP_SCHEDULE", "@daily"),
		Backup: &BackupConfig{
			Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
			Region:          getEnv("BACKUP_S3_REGION", "auto"),
			AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
			Schedule:        getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	if c.CheckingAccountTypeID <= 0 {
		return fmt.Errorf("CHECKING_ACCOUNT_TYPE_ID must be positive, got %d", c.CheckingAccountTypeID)
	}

	// Polygon key is optional; without it every price lookup fails upstream
	return nil
}

// LedgerDBPath is the SQLite file holding customers, accounts and the transaction log
func (c *Config) LedgerDBPath() string {
	return filepath.Join(c.DataDir, "bank.db")
}

// ClientDataDBPath is the SQLite file holding cached market data
func (c *Config) ClientDataDBPath() string {
	return filepath.Join(c.DataDir, "client_data.db")
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var result []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
