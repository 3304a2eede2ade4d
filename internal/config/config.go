package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the process needs, assembled once at startup.
type Config struct {
	DatabaseDSN          string
	HTTPAddr             string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	TelegramBotToken     string
	ReminderPollInterval time.Duration
}

// Load reads .env if present and builds the configuration from the environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debugf(".env not loaded: %v", err)
	}

	return Config{
		DatabaseDSN:          os.Getenv("DATABASE_DSN"),
		HTTPAddr:             envOrDefault("HTTP_ADDR", ":8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenTTL:       durationOrDefault("ACCESS_TOKEN_TTL_MINUTES", 30*time.Minute),
		RefreshTokenTTL:      durationOrDefault("REFRESH_TOKEN_TTL_MINUTES", 7*24*time.Hour),
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		ReminderPollInterval: durationOrDefault("REMINDER_POLL_MINUTES", time.Minute),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		logrus.Warnf("invalid %s=%q, using default", key, value)
		return fallback
	}
	return time.Duration(minutes) * time.Minute
}
