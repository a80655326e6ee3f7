// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string // empty selects the in-memory store
	LogFile     string
	SessionKey  string // cookie session signing key; generated when empty
}

// Load reads .env if present, then the environment. Missing values get
// local-development defaults.
func Load() Config {
	// Ignore the error: a missing .env file just means plain env vars.
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "4000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogFile:     getEnv("LOG_FILE", ""),
		SessionKey:  getEnv("SESSION_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
