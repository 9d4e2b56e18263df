package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const DefaultApplicationQuota = 10

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	// SuperAdminID is the permanent, non-removable administrator user id.
	SuperAdminID     string
	ApplicationQuota int

	Database DatabaseConfig

	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
}

type DatabaseConfig struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	defaultFormat := "console"
	if env == "production" {
		defaultFormat = "json"
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         env,
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SuperAdminID:     getEnvOrPanic("SUPER_ADMIN_ID"),
		ApplicationQuota: getEnvInt("APP_QUOTA", DefaultApplicationQuota),

		Database: DatabaseConfig{
			MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:       int32(getEnvInt("DB_MIN_CONNS", 1)),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			IdleTimeout:    getEnvDuration("DB_IDLE_TIMEOUT", 30*time.Second),
		},

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", defaultFormat),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
