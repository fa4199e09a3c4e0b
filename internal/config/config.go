package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/veloretail/backoffice/pkg/database"
)

type Config struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	HTTPPort      string
	AllowedOrigin string

	Database database.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string

	StaffTokenSecret string
	StaffTokenTTL    time.Duration
	AccountJWTSecret string

	DefaultOutletID string
}

// Load reads configuration from the environment, with a best-effort .env
// file load first.
func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	ttlHours, err := strconv.Atoi(getEnv("STAFF_TOKEN_TTL_HOURS", "8"))
	if err != nil || ttlHours < 1 {
		ttlHours = 8
	}

	var brokers []string
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		ServiceName:   getEnv("OTEL_SERVICE_NAME", "backoffice-service"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "backofficedb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		KafkaBrokers:     brokers,
		StaffTokenSecret: getEnv("STAFF_TOKEN_SECRET", "dev-change-me"),
		StaffTokenTTL:    time.Duration(ttlHours) * time.Hour,
		AccountJWTSecret: getEnv("ACCOUNT_JWT_SECRET", "dev-change-me"),
		DefaultOutletID:  getEnv("DEFAULT_OUTLET_ID", "main-outlet"),
	}
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
