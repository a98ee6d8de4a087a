package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/scheduler"
)

type Config struct {
	Addr         string
	DBDriver     string
	DBPath       string
	LogLevel     string
	LogFormat    string
	UserIDHeader string
	Timezone     string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	BaselineIntervalDays int
	MaxIntervalDays      int
	DefaultEase          float64
	MinEase              float64
	MaxEase              float64
	EaseStep             float64
	FailEasePenalty      float64

	LockTimeout        time.Duration
	MaxConflictRetries int

	WorkerCount            int
	QueueSize              int
	ReconcileInterval      time.Duration
	ReconcileGrace         time.Duration
	CatalogRefreshInterval time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	defaults := scheduler.DefaultParams()
	return Config{
		Addr:         envOr("ADDR", ":8080"),
		DBDriver:     envOr("DB_DRIVER", db.DriverSQLite),
		DBPath:       envOr("DB_PATH", "file:repeetcode.db"),
		LogLevel:     envOr("LOG_LEVEL", "INFO"),
		LogFormat:    envOr("LOG_FORMAT", "text"),
		UserIDHeader: envOr("USER_ID_HEADER", "X-User-ID"),
		Timezone:     envOr("TIMEZONE", "UTC"),

		RequestTimeout:  envDurationOr("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: envDurationOr("SHUTDOWN_TIMEOUT", 30*time.Second),

		BaselineIntervalDays: envIntOr("BASELINE_INTERVAL_DAYS", defaults.BaselineIntervalDays),
		MaxIntervalDays:      envIntOr("MAX_INTERVAL_DAYS", defaults.MaxIntervalDays),
		DefaultEase:          envFloatOr("DEFAULT_EASE", defaults.DefaultEase),
		MinEase:              envFloatOr("MIN_EASE", defaults.MinEase),
		MaxEase:              envFloatOr("MAX_EASE", defaults.MaxEase),
		EaseStep:             envFloatOr("EASE_STEP", defaults.EaseStep),
		FailEasePenalty:      envFloatOr("FAIL_EASE_PENALTY", defaults.FailEasePenalty),

		LockTimeout:        envDurationOr("LOCK_TIMEOUT", 2*time.Second),
		MaxConflictRetries: envIntOr("MAX_CONFLICT_RETRIES", 3),

		WorkerCount:            envIntOr("WORKER_COUNT", 2),
		QueueSize:              envIntOr("QUEUE_SIZE", 16),
		ReconcileInterval:      envDurationOr("RECONCILE_INTERVAL", 5*time.Minute),
		ReconcileGrace:         envDurationOr("RECONCILE_GRACE", time.Minute),
		CatalogRefreshInterval: envDurationOr("CATALOG_REFRESH_INTERVAL", time.Hour),
	}
}

// SchedulerParams returns the scheduling parameters carried by the config.
func (c Config) SchedulerParams() scheduler.Params {
	return scheduler.Params{
		BaselineIntervalDays: c.BaselineIntervalDays,
		MaxIntervalDays:      c.MaxIntervalDays,
		DefaultEase:          c.DefaultEase,
		MinEase:              c.MinEase,
		MaxEase:              c.MaxEase,
		EaseStep:             c.EaseStep,
		FailEasePenalty:      c.FailEasePenalty,
	}
}

// Location resolves TIMEZONE, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if c.DBDriver != db.DriverSQLite && c.DBDriver != db.DriverPostgres {
		errs = append(errs, fmt.Sprintf("DB_DRIVER must be %s or %s, got %q", db.DriverSQLite, db.DriverPostgres, c.DBDriver))
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if c.UserIDHeader == "" {
		errs = append(errs, "USER_ID_HEADER cannot be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("TIMEZONE %q is not a known location", c.Timezone))
	}
	if err := c.SchedulerParams().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, "REQUEST_TIMEOUT cannot be negative")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be positive")
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, "LOCK_TIMEOUT must be positive")
	}
	if c.MaxConflictRetries < 0 {
		errs = append(errs, "MAX_CONFLICT_RETRIES cannot be negative")
	}
	if c.WorkerCount < 1 {
		errs = append(errs, "WORKER_COUNT must be at least 1")
	}
	if c.QueueSize < 1 {
		errs = append(errs, "QUEUE_SIZE must be at least 1")
	}
	if c.ReconcileInterval < 0 {
		errs = append(errs, "RECONCILE_INTERVAL cannot be negative")
	}
	if c.ReconcileGrace < 0 {
		errs = append(errs, "RECONCILE_GRACE cannot be negative")
	}
	if c.CatalogRefreshInterval < 0 {
		errs = append(errs, "CATALOG_REFRESH_INTERVAL cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
