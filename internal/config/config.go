package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Payment callback base URL (gateways append /api/payment/notify/<method>)
	NotifyBaseURL string

	// Order configuration
	OrderExpireMinutes int

	// Background sweep configuration (cron specs)
	ExpireSweepSpec    string
	ProvisionRetrySpec string

	ServiceName string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:               getEnv("PORT", "8080"),
		Mode:               getEnv("GIN_MODE", "debug"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		NotifyBaseURL:      getEnv("NOTIFY_BASE_URL", "http://localhost:8080"),
		OrderExpireMinutes: getEnvInt("ORDER_EXPIRE_MINUTES", 30),
		ExpireSweepSpec:    getEnv("EXPIRE_SWEEP_SPEC", "@every 1m"),
		ProvisionRetrySpec: getEnv("PROVISION_RETRY_SPEC", "@every 5m"),
		ServiceName:        getEnv("SERVICE_NAME", "Domainhub Service"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
