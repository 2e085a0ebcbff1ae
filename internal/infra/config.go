package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	JobStore    string // "postgres" or "memory"
	DatabaseURL string
	DBMaxConns  int
	DBMinConns  int

	CacheBackend  string // "memory" or "redis"
	CacheSize     int
	CacheTTL      time.Duration
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	RenderProvider string // "gemini" or "local"
	GeminiAPIKey   string
	GeminiModel    string
	RenderTimeout  time.Duration

	StoragePath    string
	StorageBaseURL string

	PendingMaxWait   time.Duration
	WatchdogInterval time.Duration
	CleanupAfterDays int

	HTTPReadTimeout       time.Duration
	HTTPReadHeaderTimeout time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
	RateLimitPerMin       int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		JobStore:    getEnv("JOB_STORE", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:  getEnvInt("DB_MIN_CONNS", 1),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheSize:     getEnvInt("CACHE_SIZE", 512),
		CacheTTL:      time.Second * time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", false),

		RenderProvider: getEnv("RENDER_PROVIDER", "gemini"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		RenderTimeout:  time.Second * time.Duration(getEnvInt("RENDER_TIMEOUT_SECONDS", 90)),

		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		PendingMaxWait:   time.Second * time.Duration(getEnvInt("PENDING_MAX_WAIT_SECONDS", 300)),
		WatchdogInterval: time.Second * time.Duration(getEnvInt("WATCHDOG_INTERVAL_SECONDS", 30)),
		CleanupAfterDays: getEnvInt("CLEANUP_AFTER_DAYS", 30),

		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPReadHeaderTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_HEADER_TIMEOUT_SECONDS", 5)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:       getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.JobStore != "postgres" && cfg.JobStore != "memory" {
		return nil, fmt.Errorf("JOB_STORE must be postgres or memory, got %q", cfg.JobStore)
	}
	if cfg.JobStore == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when JOB_STORE=postgres")
	}
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", cfg.CacheBackend)
	}
	if cfg.RenderProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when RENDER_PROVIDER=gemini")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
