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

	// Auth configuration
	JWTSecret        string
	TokenExpireHours int

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	// Purchase configuration
	PurchaseRateLimitMinutes int
	ServiceName              string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                     getEnv("PORT", "8080"),
		Mode:                     getEnv("GIN_MODE", "debug"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpireHours:         getEnvInt("TOKEN_EXPIRE_HOURS", 24),
		BrevoAPIKey:              getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:           getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:            getEnv("BREVO_FROM_NAME", "Subscription Service"),
		PurchaseRateLimitMinutes: getEnvInt("PURCHASE_RATE_LIMIT_MINUTES", 1),
		ServiceName:              getEnv("SERVICE_NAME", "Subscription Service"),
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
