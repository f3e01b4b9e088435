// SPDX-License-Identifier: MIT

// Package config loads the mrio configuration: a YAML file, then MRIO_*
// environment overrides, then struct validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates the merged configuration failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full mrio configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig locates the S and L exports.
type DataConfig struct {
	Stressors      string        `yaml:"stressors" validate:"required"`
	Leontief       string        `yaml:"leontief" validate:"required"`
	GCSCredentials string        `yaml:"gcs_credentials"`
	Watch          bool          `yaml:"watch"`
	EagerReload    bool          `yaml:"eager_reload"`
	Debounce       time.Duration `yaml:"debounce" validate:"gte=0"`
	DefaultPolicy  string        `yaml:"default_policy" validate:"omitempty,oneof=minus_direct exclude_diagonal"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	Mode            string        `yaml:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxTop          int           `yaml:"max_top" validate:"gte=0"`
}

// SnapshotConfig enables the BadgerDB table cache.
type SnapshotConfig struct {
	Enabled bool          `yaml:"enabled"`
	Path    string        `yaml:"path" validate:"required_if=Enabled true"`
	TTL     time.Duration `yaml:"ttl" validate:"gte=0"`
}

// TelemetryConfig selects trace and metric exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=otlp stdout none"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" validate:"required_if=TraceExporter otlp"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Default returns a configuration with every optional field set.
// Data sources are left empty; they must come from the file or environment.
func Default() Config {
	return Config{
		Data: DataConfig{
			Debounce:      250 * time.Millisecond,
			DefaultPolicy: "minus_direct",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxTop:          50,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "mrio",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
			OTLPInsecure:   true,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LookupFunc resolves an environment variable; os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// Load reads path (optional), applies MRIO_* overrides from the process
// environment and validates the result.
func Load(path string) (*Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment.
func LoadWith(path string, env LookupFunc) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// decode rejects unknown keys so typos surface instead of silently defaulting.
func decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

var validate = validator.New()

// Validate checks every field tag and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
