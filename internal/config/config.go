package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the backend
type Config struct {
	// Server configuration
	HTTPPort int    `env:"PORT" envDefault:"3001"`
	GRPCPort int    `env:"GRPC_PORT" envDefault:"0"` // 0 disables the gRPC health server
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Keyword metrics source
	MetricsProvider string `env:"METRICS_PROVIDER" envDefault:"mock"`

	// Redis configuration
	Redis RedisConfig

	// Event configuration
	Events EventsConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration.
// An empty address keeps analysis events in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// EventsConfig holds analysis event settings
type EventsConfig struct {
	StreamPrefix string `env:"EVENTS_STREAM_PREFIX" envDefault:"kdp:events"`
	StreamMaxLen int64  `env:"EVENTS_STREAM_MAXLEN" envDefault:"10000"`

	// Upper bound for delivering one event; publishing never blocks a request.
	PublishTimeout time.Duration `env:"EVENTS_PUBLISH_TIMEOUT" envDefault:"2s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	HealthCheckTimeout  time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"2s"`
	ShutdownTimeout     time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"15s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("gRPC port %d collides with HTTP port", c.GRPCPort)
	}

	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed CORS origin is required (use '*' to allow any)")
	}

	if c.MetricsProvider != "mock" {
		return fmt.Errorf("unsupported metrics provider: %s (only 'mock' is available)", c.MetricsProvider)
	}

	if c.Events.StreamPrefix == "" {
		return fmt.Errorf("events stream prefix is required")
	}

	if c.Events.PublishTimeout <= 0 {
		return fmt.Errorf("events publish timeout must be positive")
	}

	if c.Timeouts.HealthCheckInterval <= 0 {
		return fmt.Errorf("health check interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// UseRedis reports whether analysis events go to Redis Streams
func (c *Config) UseRedis() bool {
	return c.Redis.Addr != ""
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
