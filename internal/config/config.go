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
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Auth configuration
	Auth AuthConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Rollup computation policy
	Rollup RollupConfig

	// Upload handling configuration
	Upload UploadConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds dashboard authentication configuration. PasswordHash is a
// bcrypt hash of the shared dashboard password.
type AuthConfig struct {
	JWTSecret    string
	PasswordHash string
	TokenTTL     time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	AuthRPS           float64 // Stricter limit for the login endpoint
	AuthBurst         int
}

// RollupConfig holds the computation policy: required column names, canonical
// status handling, and the growth factor behind targets.
type RollupConfig struct {
	RegionColumn   string
	DistrictColumn string
	OfficeColumn   string
	AppKeyColumn   string
	StatusColumn   string

	// HiddenStatuses are removed from the displayed status dimension while
	// still counting toward totals.
	HiddenStatuses []string

	// GrowthFactor is applied to prior-period counts to derive targets.
	GrowthFactor float64
}

// UploadConfig holds upload handling configuration
type UploadConfig struct {
	// PreferredSheet selects the workbook sheet to read; empty means the
	// first sheet.
	PreferredSheet string
	MaxBytes       int64
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			PasswordHash: os.Getenv("DASHBOARD_PASSWORD_HASH"),
			TokenTTL:     getDurationOrDefault("AUTH_TOKEN_TTL", 12*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			AuthRPS:           getFloatOrDefault("RATE_LIMIT_AUTH_RPS", 1),
			AuthBurst:         getIntOrDefault("RATE_LIMIT_AUTH_BURST", 5),
		},
		Rollup: RollupConfig{
			RegionColumn:   getEnvOrDefault("ROLLUP_REGION_COLUMN", "Region"),
			DistrictColumn: getEnvOrDefault("ROLLUP_DISTRICT_COLUMN", "District"),
			OfficeColumn:   getEnvOrDefault("ROLLUP_OFFICE_COLUMN", "Office"),
			AppKeyColumn:   getEnvOrDefault("ROLLUP_APPKEY_COLUMN", "Application No"),
			StatusColumn:   getEnvOrDefault("ROLLUP_STATUS_COLUMN", "Status"),
			HiddenStatuses: getStringSliceOrDefault("ROLLUP_HIDDEN_STATUSES", []string{}),
			GrowthFactor:   getFloatOrDefault("ROLLUP_GROWTH_FACTOR", 1.10),
		},
		Upload: UploadConfig{
			PreferredSheet: os.Getenv("UPLOAD_PREFERRED_SHEET"),
			MaxBytes:       getInt64OrDefault("UPLOAD_MAX_BYTES", 16<<20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "application-rollup"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if c.Auth.PasswordHash == "" {
		errs = append(errs, "DASHBOARD_PASSWORD_HASH is required")
	}

	// Security validations
	if c.App.Environment == "production" {
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}

		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				errs = append(errs, "CORS_ALLOWED_ORIGINS must not contain \"*\" in production")
			}
		}
	}

	// Logical validations
	if c.Rollup.GrowthFactor < 1 {
		errs = append(errs, "ROLLUP_GROWTH_FACTOR must be at least 1")
	}

	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, "UPLOAD_MAX_BYTES must be positive")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, Auth: [REDACTED], RateLimit: %v, Growth: %.2f, Environment: %s}",
		c.Server.Port,
		c.RateLimit.Enabled,
		c.Rollup.GrowthFactor,
		c.App.Environment,
	)
}
