package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		URI             string `yaml:"uri" env:"MONGO_URI"`
		Name            string `yaml:"name" env:"DB_NAME"`
		Collection      string `yaml:"collection" env:"DB_COLLECTION"`
		Transactional   bool   `yaml:"transactional" env:"DB_TRANSACTIONAL"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnMaxIdleTime string `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME"`
		ConnectTimeout  string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED"`
		ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
		Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure    bool    `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
		SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLER_RATIO"`
	} `yaml:"tracing"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; variables already present in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.ShutdownTimeout = "10s"

	// Database defaults
	config.Database.Driver = DriverMongo
	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "coursehub"
	config.Database.Collection = "courses"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnMaxIdleTime = "30m"
	config.Database.ConnectTimeout = "10s"
	config.Database.MigrationsDir = "migrations"

	config.CORS.AllowedOrigins = []string{"*"}

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Tracing.ServiceName = "coursehub"
	config.Tracing.SampleRatio = 1
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case DriverMongo, DriverPostgres:
		if config.Database.URI == "" {
			return fmt.Errorf("database uri is required for driver %q", config.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Driver == DriverMongo {
		if config.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Collection == "" {
			return fmt.Errorf("database collection is required")
		}
	}

	durations := map[string]string{
		"server read timeout":      config.Server.ReadTimeout,
		"server write timeout":     config.Server.WriteTimeout,
		"server shutdown timeout":  config.Server.ShutdownTimeout,
		"database conn lifetime":   config.Database.ConnMaxLifetime,
		"database conn idle time":  config.Database.ConnMaxIdleTime,
		"database connect timeout": config.Database.ConnectTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Tracing.SampleRatio < 0 || config.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second)
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 10*time.Second)
}

// ShutdownTimeout returns how long graceful shutdown may take
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// ConnMaxLifetime returns the maximum lifetime of a pooled connection
func (c *Config) ConnMaxLifetime() time.Duration {
	return parseDuration(c.Database.ConnMaxLifetime, time.Hour)
}

// ConnMaxIdleTime returns how long a pooled connection may sit unused before it is closed
func (c *Config) ConnMaxIdleTime() time.Duration {
	return parseDuration(c.Database.ConnMaxIdleTime, 30*time.Minute)
}

// ConnectTimeout bounds the initial connection to the store
func (c *Config) ConnectTimeout() time.Duration {
	return parseDuration(c.Database.ConnectTimeout, 10*time.Second)
}

// parseDuration parses a duration string, returns default duration on error.
func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("duration", value).Dur("default", fallback).Msg("Failed to parse duration string, using default")
		return fallback
	}
	return duration
}
