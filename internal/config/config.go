package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go-sales-inventory/pkg/database"
)

type Config struct {
	Port string
	Env  string

	DB    database.Config
	Redis RedisConfig
	Auth  AuthConfig

	CORSOrigins     string
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Addr     string // empty disables the statistics cache
	Password string
	DB       int
	StatsTTL time.Duration
}

type AuthConfig struct {
	Required      bool
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment with defaults.
// Precedence: explicit env var > .env file (loaded by the caller) > default.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("APP_ENV", "production"),
		DB: database.Config{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "inventory"),
			Port:     getEnv("DB_PORT", "5432"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
			LogLevel: strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       ParseInt("REDIS_DB", 0),
			StatsTTL: ParseDuration("STATS_CACHE_TTL", 30*time.Second),
		},
		Auth: AuthConfig{
			Required:      ParseBool("AUTH_REQUIRED", false),
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      ParseDuration("JWT_TTL", 24*time.Hour),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		ShutdownTimeout: ParseDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// IsDevelopment reports whether internal error details may be exposed to clients
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func ParseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func ParseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}
