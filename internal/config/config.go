// Package config loads the service configuration from the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"costservice/internal/validation"
)

// Default values used when the corresponding variable is unset
const (
	DefaultHost                 = "0.0.0.0"
	DefaultPort                 = 8007
	DefaultLogLevel             = "info"
	DefaultGinMode              = "release"
	DefaultShutdownTimeout      = 5 * time.Second
	DefaultRateLimitRequests    = 1000
	DefaultRateLimitWindow      = 60
	DefaultCompressionMinLength = 1024
)

// ErrInvalidPort is returned when PORT is set but is not an integer
var ErrInvalidPort = errors.New("invalid port")

// Config represents the application configuration
type Config struct {
	// API contains HTTP server configuration
	API APIConfig
	// Log contains logger configuration
	Log LogConfig
	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig
	// Compression contains response compression configuration
	Compression CompressionConfig
}

// APIConfig contains HTTP server settings
type APIConfig struct {
	// Host is the interface to bind
	Host string `validate:"required"`
	// Port is the server port to listen on
	Port int
	// GinMode is the gin engine mode (debug, release, test)
	GinMode string `validate:"ginmode"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `validate:"gt=0"`
	// MetricsEnabled mounts the Prometheus endpoint
	MetricsEnabled bool
	// SwaggerEnabled mounts the Swagger UI
	SwaggerEnabled bool
}

// LogConfig contains logger settings
type LogConfig struct {
	// Level is the minimum level written (debug, info, warn, error)
	Level string `validate:"loglevel"`
}

// RateLimitConfig contains rate limiter settings
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window
	Requests int `validate:"gt=0"`
	// Window is the time window in seconds
	Window int `validate:"gt=0"`
}

// CompressionConfig contains gzip settings
type CompressionConfig struct {
	// MinLength is the smallest body size that gets compressed
	MinLength int `validate:"gte=0"`
}

// Addr returns the host:port the server binds
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Default returns the configuration used when no variable is set
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			GinMode:         DefaultGinMode,
			ShutdownTimeout: DefaultShutdownTimeout,
			MetricsEnabled:  true,
			SwaggerEnabled:  true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		RateLimit: RateLimitConfig{
			Requests: DefaultRateLimitRequests,
			Window:   DefaultRateLimitWindow,
		},
		Compression: CompressionConfig{
			MinLength: DefaultCompressionMinLength,
		},
	}
}

// LoadFromEnv retrieves configuration from environment variables.
// A variable that is set but cannot be parsed is an error.
func (c *Config) LoadFromEnv() error {
	port, err := getEnvAsInt("PORT", DefaultPort)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPort, err)
	}

	shutdownTimeout, err := getEnvAsDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)
	if err != nil {
		return err
	}
	metricsEnabled, err := getEnvAsBool("METRICS_ENABLED", true)
	if err != nil {
		return err
	}
	swaggerEnabled, err := getEnvAsBool("SWAGGER_ENABLED", true)
	if err != nil {
		return err
	}
	c.API = APIConfig{
		Host:            getEnvOrDefault("HOST", DefaultHost),
		Port:            port,
		GinMode:         strings.ToLower(getEnvOrDefault("GIN_MODE", DefaultGinMode)),
		ShutdownTimeout: shutdownTimeout,
		MetricsEnabled:  metricsEnabled,
		SwaggerEnabled:  swaggerEnabled,
	}

	c.Log = LogConfig{
		Level: strings.ToLower(getEnvOrDefault("LOG_LEVEL", DefaultLogLevel)),
	}

	if c.RateLimit.Requests, err = getEnvAsInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests); err != nil {
		return err
	}
	if c.RateLimit.Window, err = getEnvAsInt("RATE_LIMIT_WINDOW", DefaultRateLimitWindow); err != nil {
		return err
	}
	if c.Compression.MinLength, err = getEnvAsInt("COMPRESSION_MIN_LENGTH", DefaultCompressionMinLength); err != nil {
		return err
	}

	return c.Validate()
}

// Validate checks the loaded values against their constraints
func (c *Config) Validate() error {
	if err := validation.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load builds a Config from the environment
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer.
// Surrounding whitespace is ignored, but a blank value is still malformed.
func getEnvAsInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return i, nil
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
