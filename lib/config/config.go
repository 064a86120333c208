// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/persist/lib/compression"
	"github.com/bureau-foundation/persist/lib/persist"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "PERSIST_CONFIG"

// Config holds the defaults the persist command starts from.
type Config struct {
	// Compression is the method used by save when --compress is not
	// given.
	Compression compression.Method `yaml:"compression"`

	// Keys names the files encryption keys are read from.
	Keys KeysConfig `yaml:"keys"`

	// Pipeline tunes the stage pipeline.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Safeguard makes load print the positional/named envelope even for
	// a lone positional object.
	Safeguard bool `yaml:"safeguard"`

	Log LogConfig `yaml:"log"`
}

// KeysConfig names key material. At most one of the two may be set.
type KeysConfig struct {
	// KeyFile holds a raw 16, 24 or 32 byte AES key.
	KeyFile string `yaml:"key_file"`

	// PassphraseFile holds a passphrase; surrounding whitespace is
	// ignored.
	PassphraseFile string `yaml:"passphrase_file"`
}

// PipelineConfig tunes the stage pipeline.
type PipelineConfig struct {
	// ChannelBudget is the total capacity in bytes of the queues between
	// stages.
	ChannelBudget int `yaml:"channel_budget"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Compression: compression.None,
		Pipeline: PipelineConfig{
			ChannelBudget: persist.DefaultChannelBudget,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the file named by PERSIST_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads the file at path over Default and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Keys.KeyFile = expandVars(c.Keys.KeyFile, vars)
	c.Keys.PassphraseFile = expandVars(c.Keys.PassphraseFile, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if !c.Compression.Valid() {
		errs = append(errs, fmt.Errorf("compression: invalid method %d", c.Compression))
	}
	if c.Keys.KeyFile != "" && c.Keys.PassphraseFile != "" {
		errs = append(errs, errors.New("keys: key_file and passphrase_file are mutually exclusive"))
	}
	if c.Pipeline.ChannelBudget <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.channel_budget must be positive, got %d", c.Pipeline.ChannelBudget))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
