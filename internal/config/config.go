package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Log     LogConfig
	Session SessionConfig
	Events  EventsConfig
	Redis   RedisConfig
}

// LogConfig holds diagnostic logging settings. Logs always go to stderr.
type LogConfig struct {
	Level  zerolog.Level
	Format string
}

// SessionConfig holds interactive session settings.
type SessionConfig struct {
	Prompt string
}

// EventsConfig holds task event journaling settings.
type EventsConfig struct {
	Log bool
}

// RedisConfig holds task event publisher settings. An empty Addr disables
// publishing.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
	Channel  string
	Timeout  time.Duration
}

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Enabled reports whether task events should be published.
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	level, err := getEnvLevel("TODO_LOG_LEVEL", zerolog.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	eventLog, err := getEnvBool("TODO_EVENT_LOG", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("TODO_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisTimeout, err := getEnvDuration("TODO_REDIS_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  level,
			Format: getEnv("TODO_LOG_FORMAT", LogFormatText),
		},
		Session: SessionConfig{
			Prompt: getEnv("TODO_PROMPT", "todo> "),
		},
		Events: EventsConfig{
			Log: eventLog,
		},
		Redis: RedisConfig{
			Addr:     getEnv("TODO_REDIS_ADDR", ""),
			Password: getEnv("TODO_REDIS_PASSWORD", ""),
			DB:       redisDB,
			Channel:  getEnv("TODO_REDIS_CHANNEL", "todo:tasks"),
			Timeout:  redisTimeout,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks enumerations and value bounds.
func (c *Config) validate() error {
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("TODO_LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.Log.Format)
	}

	if c.Redis.DB < 0 {
		return fmt.Errorf("TODO_REDIS_DB must be >= 0, got %d", c.Redis.DB)
	}
	if c.Redis.Timeout <= 0 {
		return fmt.Errorf("TODO_REDIS_TIMEOUT must be positive, got %s", c.Redis.Timeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvLevel(key string, fallback zerolog.Level) (zerolog.Level, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	l, err := zerolog.ParseLevel(v)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing %s=%q as log level: %w", key, v, err)
	}
	return l, nil
}
