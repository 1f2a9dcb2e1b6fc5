package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultAvatarURL is used when a registration carries no avatar.
const DefaultAvatarURL = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

// Config holds all process-wide settings. It is read from the environment
// once at startup and treated as immutable afterwards.
type Config struct {
	DatabaseURL string

	// JWT
	JWTSecret string
	TokenTTL  time.Duration

	// Server
	Port               string
	CORSAllowedOrigins string
}

// Load reads the Config from environment variables. Required variables that
// are missing produce an error.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 30*24*time.Hour)
	cfg.Port = getEnvString("PORT", "8080")
	cfg.CORSAllowedOrigins = getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
