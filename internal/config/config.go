package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Event transports.
const (
	EventsBackendMemory = "memory"
	EventsBackendRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Events   EventsConfig
	Auth     AuthConfig
	Log      LogConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects where trips live.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	UserCacheTTL time.Duration
}

// EventsConfig holds trip event transport configuration.
type EventsConfig struct {
	Backend       string
	ConsumerGroup string
}

// AuthConfig holds identity token settings.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreBackendPostgres),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "tawseel"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:      getBoolEnv("REDIS_ENABLED", true),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			UserCacheTTL: getDurationEnv("USER_CACHE_TTL", 5*time.Minute),
		},
		Events: EventsConfig{
			Backend:       getEnv("EVENTS_BACKEND", EventsBackendMemory),
			ConsumerGroup: getEnv("EVENTS_CONSUMER_GROUP", "tawseel-notifier"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
			Issuer:    getEnv("AUTH_JWT_ISSUER", "tawseel-identity"),
			TokenTTL:  getDurationEnv("AUTH_TOKEN_TTL", 72*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "tawseel-trip-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Events.Backend {
	case EventsBackendMemory:
	case EventsBackendRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("EVENTS_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
