package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	Environment         string
	VerifierURL         string
	VerifierTimeout     time.Duration
	CheckInWindowLead   time.Duration
	StationTokenTTL     time.Duration
	RunMigrations       bool
	MaxBodyBytes        int64
	ScheduleListMaxDays int
}

func Load() Config {
	// Missing .env is fine; deployed environments set real variables.
	_ = godotenv.Load()

	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		Environment:         getEnv("APP_ENV", "development"),
		VerifierURL:         getEnv("VERIFIER_URL", ""),
		VerifierTimeout:     getEnvDuration("VERIFIER_TIMEOUT", 10*time.Second),
		CheckInWindowLead:   getEnvDuration("CHECKIN_WINDOW_LEAD", 5*time.Minute),
		StationTokenTTL:     getEnvDuration("STATION_TOKEN_TTL", 180*24*time.Hour),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		ScheduleListMaxDays: getEnvInt("SCHEDULE_LIST_MAX_DAYS", 92),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.VerifierURL) == "" {
			return fmt.Errorf("VERIFIER_URL must be set in production")
		}
	}
	if c.CheckInWindowLead <= 0 {
		return fmt.Errorf("CHECKIN_WINDOW_LEAD must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.ScheduleListMaxDays <= 0 {
		return fmt.Errorf("SCHEDULE_LIST_MAX_DAYS must be positive")
	}
	return nil
}
