package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Square   SquareConfig
	Intent   IntentConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type SquareConfig struct {
	Environment string
	AccessToken string
	LocationID  string
	AppID       string
	BaseURL     string
}

type IntentConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "giveflow:giveflow@tcp(localhost:3306)/giveflow?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Square: SquareConfig{
			Environment: envOr("SQUARE_ENVIRONMENT", "production"),
			AccessToken: os.Getenv("SQUARE_ACCESS_TOKEN"),
			LocationID:  os.Getenv("SQUARE_LOCATION_ID"),
			AppID:       os.Getenv("SQUARE_APP_ID"),
			BaseURL:     envOr("SQUARE_BASE_URL", "https://connect.squareup.com"),
		},
		Intent: IntentConfig{
			Secret: envOr("INTENT_SECRET", "change-me-in-production"),
			Issuer: "giveflow",
			Expiry: 30 * time.Minute,
		},
	}
}

// Validate refuses to start without processor credentials.
func (c *Config) Validate() error {
	if c.Square.AccessToken == "" || c.Square.LocationID == "" || c.Square.AppID == "" {
		return fmt.Errorf("missing Square env vars: set SQUARE_ACCESS_TOKEN, SQUARE_LOCATION_ID, SQUARE_APP_ID")
	}
	return nil
}
