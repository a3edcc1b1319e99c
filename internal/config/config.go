// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration for the server and CLI.
type Config struct {
	DatabasePath string
	UploadRoot   string

	MaxUploadBytes    int64
	AllowedExtensions []string

	Port        string
	TokenSecret string
	AppEnv      string
}

// Load reads configuration from a .env file (if present) and the
// environment. Every value has a development default.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading from environment")
	}

	return &Config{
		DatabasePath: getEnv("DATABASE_PATH", "./archub.db"),
		UploadRoot:   getEnv("UPLOAD_ROOT", "./static/uploads"),

		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 16<<20),
		AllowedExtensions: splitList(getEnv("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif,webp")),

		Port:        getEnv("PORT", "8080"),
		TokenSecret: getEnv("TOKEN_SECRET", "change_me_in_production"),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-numeric environment value")
		return fallback
	}
	return n
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
