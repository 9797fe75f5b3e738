// Package config holds the aetherclaw YAML configuration. Secrets never
// live here; they go to the env file next to the config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the persisted configuration.
type Config struct {
	Channels ChannelsConfig `yaml:"channels"`
	Pairing  PairingConfig  `yaml:"pairing"`
}

// ChannelsConfig enables messaging channels.
type ChannelsConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig is the Telegram channel section.
type TelegramConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PairingConfig holds the pairing flow's timer knobs, in seconds. Zero
// means "use the built-in default".
type PairingConfig struct {
	HandshakeTimeoutSec int `yaml:"handshake_timeout_sec"`
	ChallengeTimeoutSec int `yaml:"challenge_timeout_sec"`
	PollTimeoutSec      int `yaml:"poll_timeout_sec"`
	IdleIntervalSec     int `yaml:"idle_interval_sec"`
}

// HandshakeTimeout returns the configured handshake deadline, or 0 for
// the default.
func (p PairingConfig) HandshakeTimeout() time.Duration {
	return time.Duration(p.HandshakeTimeoutSec) * time.Second
}

// ChallengeTimeout returns the configured challenge deadline, or 0 for
// the default.
func (p PairingConfig) ChallengeTimeout() time.Duration {
	return time.Duration(p.ChallengeTimeoutSec) * time.Second
}

// PollTimeout returns the configured long-poll hold, or 0 for the default.
func (p PairingConfig) PollTimeout() time.Duration {
	return time.Duration(p.PollTimeoutSec) * time.Second
}

// IdleInterval returns the configured inter-poll pause, or 0 for the
// default.
func (p PairingConfig) IdleInterval() time.Duration {
	return time.Duration(p.IdleIntervalSec) * time.Second
}

// Default returns a config with built-in defaults.
func Default() *Config {
	return &Config{}
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is the default config file location.
func DefaultPath() string {
	return ExpandHome("~/.aetherclaw/config.yaml")
}

// DefaultEnvPath is the default secrets (env) file location.
func DefaultEnvPath() string {
	return ExpandHome("~/.aetherclaw/.env")
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
