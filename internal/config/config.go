// Package config collects the process configuration from the environment,
// with defaults suitable for local development. A .env file in the working
// directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DB captures the connection parameters for a MySQL instance.
type DB struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Params   string
}

// Config is the full process configuration.
type Config struct {
	HTTPAddr          string
	DB                DB
	LowStockThreshold int
	RestockAmount     int
	// InactiveCustomerDays is how long a customer may go without an
	// order before the weekly cleanup removes them.
	InactiveCustomerDays int
	// JobLogDir is where the maintenance jobs append their text logs.
	JobLogDir string
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv populates a Config using sensible defaults that can be
// overridden via environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr: getEnv("CRM_HTTP_ADDR", ":8000"),
		DB: DB{
			User:     getEnv("MYSQL_USER", "crm"),
			Password: getEnv("MYSQL_PASSWORD", "crm"),
			Host:     getEnv("MYSQL_HOST", "127.0.0.1"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "crm"),
			Params:   getEnv("MYSQL_PARAMS", "charset=utf8mb4&parseTime=True&loc=Local"),
		},
		LowStockThreshold:    getEnvInt("CRM_LOW_STOCK_THRESHOLD", 10),
		RestockAmount:        getEnvInt("CRM_RESTOCK_AMOUNT", 10),
		InactiveCustomerDays: getEnvInt("CRM_INACTIVE_DAYS", 365),
		JobLogDir:            getEnv("CRM_LOG_DIR", "/tmp"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
