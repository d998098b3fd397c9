package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Environment values for the runtime-mode flag.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// devJWTSecret is only acceptable in development; Load refuses to start a
// production process with it.
const devJWTSecret = "dev-secret-change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	Env          string
	MySQLDSN     string
	SQLitePath   string
	JWTSecret    string
	TokenTTL     time.Duration
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	GeminiAPIKey string
	SwaggerHost  string
}

// Load builds Config from environment with development defaults. The signing
// secret has no usable production default: production mode fails fast when
// JWT_SECRET is unset or left at the development placeholder.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Env:          getEnv("APP_ENV", EnvDevelopment),
		MySQLDSN:     os.Getenv("MYSQL_DSN"),
		SQLitePath:   getEnv("SQLITE_PATH", "local.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}

	if cfg.Env == EnvProduction {
		if cfg.JWTSecret == "" || cfg.JWTSecret == devJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set to a real secret in production")
		}
	} else if cfg.JWTSecret == "" {
		log.Println("warning: JWT_SECRET not set, using development placeholder")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// IsProduction reports whether the runtime-mode flag selects production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
