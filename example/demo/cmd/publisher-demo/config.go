package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel   = "info"
	defaultBookCopies = 5
)

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the configuration of the demo binary.
type Config struct {
	Log struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"log"`

	Dispatch struct {
		Concurrent bool `yaml:"concurrent"`
	} `yaml:"dispatch"`

	Metrics struct {
		ListenAddress string `yaml:"listen_address"`
	} `yaml:"metrics"`

	Scenario struct {
		BookCopies int `yaml:"book_copies"`
	} `yaml:"scenario"`
}

// DefaultConfig returns the config used when no config file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = defaultLogLevel
	cfg.Log.Console = true
	cfg.Scenario.BookCopies = defaultBookCopies

	return cfg
}

// LoadConfig reads a YAML config file. ${ENV_VAR} placeholders are expanded before parsing.
// An empty path returns DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the config values and fills in defaults for empty ones.
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}

	if _, err := parseLogLevel(c.Log.Level); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	if c.Scenario.BookCopies < 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("scenario.book_copies must not be negative, got %d", c.Scenario.BookCopies))
	}

	c.Metrics.ListenAddress = strings.TrimSpace(c.Metrics.ListenAddress)

	return nil
}
