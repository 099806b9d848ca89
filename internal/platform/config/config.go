package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	Environment         string
	RunMigrations       bool
	MigrationsDir       string
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	MetricsEnabled      bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	ReportWindow        time.Duration
	ReportCacheTTL      time.Duration
	ExportHistoryTTL    time.Duration
	ReportWarmInterval  time.Duration
	BenchmarkInterval   time.Duration
	PurgeInterval       time.Duration
	ShutdownGracePeriod time.Duration
}

func Load() Config {
	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		Environment:         getEnv("APP_ENV", "development"),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:       getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		ReportWindow:        getEnvDuration("REPORT_DEFAULT_WINDOW", 90*24*time.Hour),
		ReportCacheTTL:      getEnvDuration("REPORT_CACHE_TTL", 24*time.Hour),
		ExportHistoryTTL:    getEnvDuration("EXPORT_HISTORY_TTL", 7*24*time.Hour),
		ReportWarmInterval:  getEnvDuration("REPORT_WARM_INTERVAL", 0),
		BenchmarkInterval:   getEnvDuration("BENCHMARK_INTERVAL", 0),
		PurgeInterval:       getEnvDuration("PURGE_INTERVAL", time.Hour),
		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.ReportWindow < 24*time.Hour {
		return fmt.Errorf("REPORT_DEFAULT_WINDOW must be at least 24h")
	}
	if c.ReportCacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be positive")
	}
	if c.ExportHistoryTTL <= 0 {
		return fmt.Errorf("EXPORT_HISTORY_TTL must be positive")
	}
	if c.ReportWarmInterval < 0 || c.BenchmarkInterval < 0 || c.PurgeInterval < 0 {
		return fmt.Errorf("job intervals must not be negative")
	}
	return nil
}
