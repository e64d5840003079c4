package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Upload    UploadConfig
	Google    GoogleConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	CookieDomain   string
	CookieSecure   bool
}

// APIConfig describes the AddaHub REST backend every workflow talks to.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type SessionConfig struct {
	// Store selects the credential store used by the CLI: memory, redis or postgres.
	Store           string
	Profile         string
	SyncInterval    time.Duration
	ProfileCacheTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type UploadConfig struct {
	// Backend is either "http" (delegate to an upload endpoint) or "s3".
	Backend       string
	URL           string
	MaxBytes      int64
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	PublicBaseURL string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	FrontendURL string
	// Timezone is where event form dates and times are read and shown.
	Timezone string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CookieDomain:   getEnv("COOKIE_DOMAIN", ""),
			CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		},
		API: APIConfig{
			BaseURL: strings.TrimSuffix(getEnv("ADDAHUB_API_URL", "http://localhost:5000/api/v1"), "/"),
			Timeout: getEnvAsDuration("ADDAHUB_API_TIMEOUT", 15*time.Second),
			RPS:     getEnvAsFloat("ADDAHUB_API_RPS", 0),
			Burst:   getEnvAsInt("ADDAHUB_API_BURST", 10),
		},
		Session: SessionConfig{
			Store:           getEnv("CREDENTIAL_STORE", "redis"),
			Profile:         getEnv("SESSION_PROFILE", "default"),
			SyncInterval:    getEnvAsDuration("SESSION_SYNC_INTERVAL", time.Second),
			ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "addahub"),
		},
		Upload: UploadConfig{
			Backend:       getEnv("UPLOAD_BACKEND", "http"),
			URL:           getEnv("UPLOAD_URL", "http://localhost:5000/api/upload"),
			MaxBytes:      int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 20),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Second),
			Burst:    getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			FrontendURL: strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
			Timezone:    getEnv("EVENT_TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("ADDAHUB_API_URL is required")
	}

	switch c.Session.Store {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("CREDENTIAL_STORE must be one of memory, redis, postgres (got %q)", c.Session.Store)
	}

	switch c.Upload.Backend {
	case "http":
		if c.Upload.URL == "" {
			return fmt.Errorf("UPLOAD_URL is required when UPLOAD_BACKEND=http")
		}
	case "s3":
		if c.Upload.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND must be http or s3 (got %q)", c.Upload.Backend)
	}

	if c.Session.SyncInterval <= 0 {
		return fmt.Errorf("SESSION_SYNC_INTERVAL must be positive")
	}

	return nil
}

// Location resolves App.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
