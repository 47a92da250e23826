// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for docchat.
//
// Configuration lives at ~/.docchat/config.toml with built-in defaults for
// every field; a missing or malformed file is never fatal. The data directory
// can be overridden with the DOCCHAT_DATA_DIR environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete docchat configuration.
type Config struct {
	// DataDir is where the key-value store lives. Empty means ~/.docchat.
	DataDir string `toml:"data_dir"`

	// Backend selects the kv backend: "sqlite" (default) or "file".
	Backend string `toml:"backend"`

	// Delays tune the simulated latencies.
	Delays DelaysConfig `toml:"delays"`

	// Limits tune validation and throttling.
	Limits LimitsConfig `toml:"limits"`
}

// DelaysConfig holds the simulated latencies, in milliseconds.
type DelaysConfig struct {
	AuthMS      int `toml:"auth_ms"`
	AssistantMS int `toml:"assistant_ms"`
	UploadMS    int `toml:"upload_ms"`
	ProcessMS   int `toml:"process_ms"`
}

// LimitsConfig holds validation and throttling limits.
type LimitsConfig struct {
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen int `toml:"min_password_len"`
	// LoginPerMin throttles login and signup attempts per minute.
	LoginPerMin int `toml:"login_per_min"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: "sqlite",
		Delays: DelaysConfig{
			AuthMS:      800,
			AssistantMS: 1200,
			UploadMS:    1000,
			ProcessMS:   1500,
		},
		Limits: LimitsConfig{
			MinPasswordLen: 6,
			LoginPerMin:    5,
		},
	}
}

// =============================================================================
// DURATION ACCESSORS
// =============================================================================

// AuthDelay returns the simulated login/signup latency.
func (c *Config) AuthDelay() time.Duration {
	return time.Duration(c.Delays.AuthMS) * time.Millisecond
}

// AssistantDelay returns the simulated model-inference latency.
func (c *Config) AssistantDelay() time.Duration {
	return time.Duration(c.Delays.AssistantMS) * time.Millisecond
}

// UploadDelay returns the simulated document-upload latency.
func (c *Config) UploadDelay() time.Duration {
	return time.Duration(c.Delays.UploadMS) * time.Millisecond
}

// ProcessDelay returns the simulated ingestion-processing latency.
func (c *Config) ProcessDelay() time.Duration {
	return time.Duration(c.Delays.ProcessMS) * time.Millisecond
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the docchat configuration directory (~/.docchat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}

// ResolveDataDir returns the effective data directory: DOCCHAT_DATA_DIR if
// set, then the configured data_dir, then ~/.docchat.
func (c *Config) ResolveDataDir() (string, error) {
	if env := os.Getenv("DOCCHAT_DATA_DIR"); env != "" {
		return env, nil
	}
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	return ConfigDir()
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads ~/.docchat/config.toml on top of the defaults. A missing file
// yields defaults with a nil error; a malformed file yields defaults with the
// parse error so callers can log it and continue.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := ConfigDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	if err := LoadFrom(cfg, path); err != nil {
		return Default(), fmt.Errorf("failed to load config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// LoadFrom decodes a TOML file over cfg.
func LoadFrom(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// setDefaults fills zero values left by a partial config file.
func (c *Config) setDefaults() {
	def := Default()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Delays.AuthMS <= 0 {
		c.Delays.AuthMS = def.Delays.AuthMS
	}
	if c.Delays.AssistantMS <= 0 {
		c.Delays.AssistantMS = def.Delays.AssistantMS
	}
	if c.Delays.UploadMS <= 0 {
		c.Delays.UploadMS = def.Delays.UploadMS
	}
	if c.Delays.ProcessMS <= 0 {
		c.Delays.ProcessMS = def.Delays.ProcessMS
	}
	if c.Limits.MinPasswordLen <= 0 {
		c.Limits.MinPasswordLen = def.Limits.MinPasswordLen
	}
	if c.Limits.LoginPerMin <= 0 {
		c.Limits.LoginPerMin = def.Limits.LoginPerMin
	}
}
