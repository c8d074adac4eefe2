package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	// DatabaseURL selects the storage backend: postgres when set,
	// the JSON file store otherwise.
	DatabaseURL string
	DataDir     string

	RedisURL      string
	CloudinaryURL string
	UploadsDir    string

	ReportCooldown time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     getEnv("REPORTS_DATA_DIR", "data"),

		RedisURL:      os.Getenv("REDIS_URL"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
	}

	var err error
	cfg.ReportCooldown, err = time.ParseDuration(getEnv("REPORT_COOLDOWN", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_COOLDOWN: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
