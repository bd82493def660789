package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the
// environment with an optional .env file.
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr     string
	Mode           string
	AllowedOrigins []string
	CookieSecure   bool
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis settings. Redis is optional; an empty Addr
// disables the public serving cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig holds object store settings
type StorageConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// SessionConfig holds session token settings
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level pkg.LogLevel
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "folderexplorer"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			TTL:    getEnvDuration("SESSION_TTL", pkg.DefaultSessionTTL),
			Issuer: getEnv("SESSION_ISSUER", "folderexplorer"),
		},
		Log: LogConfig{
			Level: pkg.ParseLogLevel(getEnv("LOG_LEVEL", "info")),
		},
	}

	if origins := getEnv("ALLOWED_ORIGINS", "*"); origins != "" {
		cfg.Server.AllowedOrigins = splitAndTrim(origins)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("config: S3_BUCKET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
