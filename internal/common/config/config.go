// Package config provides configuration management for the taskboard server.
// It supports loading configuration from environment variables, config files, and defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration sections.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Attachments AttachmentsConfig `mapstructure:"attachments"`
	Seed        SeedConfig        `mapstructure:"seed"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"readTimeout"`  // in seconds
	WriteTimeout int    `mapstructure:"writeTimeout"` // in seconds
}

// NATSConfig holds NATS messaging configuration.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	ClientID      string `mapstructure:"clientId"`
	MaxReconnects int    `mapstructure:"maxReconnects"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"outputPath"`
	MaxSizeMB  int    `mapstructure:"maxSizeMb"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
}

// AttachmentsConfig controls attachment validation and upload storage.
type AttachmentsConfig struct {
	MaxFileSizeBytes  int64    `mapstructure:"maxFileSizeBytes"`
	MaxFileNameLength int      `mapstructure:"maxFileNameLength"`
	AllowedMimeTypes  []string `mapstructure:"allowedMimeTypes"`
	UploadsPath       string   `mapstructure:"uploadsPath"` // URL and directory segment under WebRoot
	WebRoot           string   `mapstructure:"webRoot"`
}

// SeedConfig controls startup demo data.
type SeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"` // optional YAML seed; built-in demo boards when empty
}

// TracingConfig holds OpenTelemetry exporter configuration.
type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlpEndpoint"`
	ServiceName  string `mapstructure:"serviceName"`
}

// Default attachment limits.
const (
	DefaultMaxFileSizeBytes  int64 = 10 * 1024 * 1024
	DefaultMaxFileNameLength       = 120
	DefaultUploadsPath             = "uploads"
)

// DefaultAllowedMimeTypes lists the image types accepted for attachments.
var DefaultAllowedMimeTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp"}

// ReadTimeoutDuration returns the read timeout as a time.Duration.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the write timeout as a time.Duration.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// detectDefaultLogFormat returns "json" under Kubernetes or TASKBOARD_ENV=production,
// "text" otherwise.
func detectDefaultLogFormat() string {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "json"
	}
	if env := os.Getenv("TASKBOARD_ENV"); env == "production" || env == "prod" {
		return "json"
	}
	return "text"
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// NATS defaults - empty URL means use in-memory event bus
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.clientId", "taskboard")
	v.SetDefault("nats.maxReconnects", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", detectDefaultLogFormat())
	v.SetDefault("logging.outputPath", "stdout")
	v.SetDefault("logging.maxSizeMb", 100)
	v.SetDefault("logging.maxBackups", 3)
	v.SetDefault("logging.maxAgeDays", 28)

	// Attachment defaults
	v.SetDefault("attachments.maxFileSizeBytes", DefaultMaxFileSizeBytes)
	v.SetDefault("attachments.maxFileNameLength", DefaultMaxFileNameLength)
	v.SetDefault("attachments.allowedMimeTypes", DefaultAllowedMimeTypes)
	v.SetDefault("attachments.uploadsPath", DefaultUploadsPath)
	v.SetDefault("attachments.webRoot", "./wwwroot")

	// Seed defaults
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.file", "")

	// Tracing defaults - empty endpoint keeps the no-op tracer
	v.SetDefault("tracing.otlpEndpoint", "")
	v.SetDefault("tracing.serviceName", "taskboard")
}

// Load reads configuration from environment variables, config file, and defaults.
// Environment variables use the prefix TASKBOARD_ with dots replaced by underscores.
// The config file is config.yaml in the current directory or /etc/taskboard/.
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from the specified path or default locations.
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not map camelCase keys to SNAKE_CASE, bind the common ones explicitly.
	_ = v.BindEnv("attachments.webRoot", "TASKBOARD_ATTACHMENTS_WEB_ROOT")
	_ = v.BindEnv("attachments.maxFileSizeBytes", "TASKBOARD_ATTACHMENTS_MAX_FILE_SIZE_BYTES")
	_ = v.BindEnv("tracing.otlpEndpoint", "TASKBOARD_TRACING_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/taskboard/")

	// Missing config file is fine
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate checks that all configuration fields hold usable values.
func validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, "logging.format must be one of: json, text, console")
	}

	if cfg.Attachments.MaxFileSizeBytes <= 0 {
		errs = append(errs, "attachments.maxFileSizeBytes must be positive")
	}
	if cfg.Attachments.MaxFileNameLength <= 0 {
		errs = append(errs, "attachments.maxFileNameLength must be positive")
	}
	if len(cfg.Attachments.AllowedMimeTypes) == 0 {
		errs = append(errs, "attachments.allowedMimeTypes must not be empty")
	}
	if strings.Trim(cfg.Attachments.UploadsPath, "/") == "" {
		errs = append(errs, "attachments.uploadsPath is required")
	}
	if cfg.Attachments.WebRoot == "" {
		errs = append(errs, "attachments.webRoot is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}
