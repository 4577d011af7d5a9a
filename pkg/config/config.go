// Package config loads kerf settings from YAML files and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chazu/kerf/pkg/validate"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "KERF_LOG_LEVEL"
	EnvLogFormat = "KERF_LOG_FORMAT"
	EnvWorkers   = "KERF_WORKERS"
)

// Config holds every tunable of the kernel and the tools around it.
type Config struct {
	// Tolerance is the largest distance between a curve and its
	// approximation, in model units.
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`

	Validation validate.Config `yaml:"validation"`

	Intersect struct {
		ParallelEpsilon float64 `yaml:"parallel_epsilon" validate:"gte=0"`
	} `yaml:"intersect"`

	Approx struct {
		// Workers bounds parallel shell approximation. Zero means GOMAXPROCS.
		Workers int `yaml:"workers" validate:"gte=0"`
	} `yaml:"approx"`

	Engine struct {
		Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"engine"`

	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
		Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	} `yaml:"log"`
}

var configValidate = validator.New()

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		Tolerance:  0.01,
		Validation: validate.DefaultConfig(),
	}
	cfg.Engine.Timeout = 5 * time.Second
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// FromEnvironment builds the effective configuration: defaults, then the
// file at path if path is not empty, then variables from a .env file in the
// working directory and the process environment.
func FromEnvironment(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables looked up with
// getenv, then validates the result.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvWorkers, err)
		}
		c.Approx.Workers = n
	}
	return c.Validate()
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", f.Namespace(), f.ActualTag(), f.Value()))
	}
	return fmt.Errorf("config: invalid settings: %s", strings.Join(msgs, "; "))
}
