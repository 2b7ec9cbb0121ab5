// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all server settings.
type Config struct {
	Addr        string
	Env         string
	JWTSecret   string
	DatabaseURL string
	RedisAddr   string
	CORSOrigin  string
}

const fallbackJWTSecret = "fallback-secret-key"

// Load reads configuration from the environment. A missing .env file is not
// an error; a missing JWT_SECRET is fatal in production only.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file loaded")
	}

	cfg := &Config{
		Addr:        ":" + envOr("PORT", "3001"),
		Env:         envOr("APP_ENV", "development"),
		JWTSecret:   envOr("JWT_SECRET", fallbackJWTSecret),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CORSOrigin:  envOr("CORS_ORIGIN", "http://localhost:3000"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == fallbackJWTSecret {
		return nil, errors.New("JWT_SECRET is required in production")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
