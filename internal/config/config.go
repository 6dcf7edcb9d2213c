// Package config loads dayplan settings from the config file, first-run
// prompts, the environment, and command-line flags.
package config

import (
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		User   UserConfig   `mapstructure:"user"`
		Remote RemoteConfig `mapstructure:"remote"`
		Sync   SyncConfig   `mapstructure:"sync"`
		Log    LogConfig    `mapstructure:"log"`
		Server ServerConfig `mapstructure:"server"`
		CLI    CLIConfig    `mapstructure:"-"`
		System SystemConfig `mapstructure:"-"`
	}

	// UserConfig identifies the user to the remote store
	UserConfig struct {
		ID    string `mapstructure:"id"`
		Token string `mapstructure:"token"`
	}

	// RemoteConfig holds remote task store settings
	RemoteConfig struct {
		BaseURL       string        `mapstructure:"base_url"`
		Timeout       time.Duration `mapstructure:"timeout"`
		ProbeInterval time.Duration `mapstructure:"probe_interval"`
	}

	// SyncConfig holds save and sync settings
	SyncConfig struct {
		Cmd              string        `mapstructure:"cmd"`
		AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
		Notify           bool          `mapstructure:"notify"`
	}

	// LogConfig holds log file settings
	LogConfig struct {
		Level      string `mapstructure:"level"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
	}

	// ServerConfig holds settings for the reference remote store. Tokens maps
	// user keys to their bearer tokens.
	ServerConfig struct {
		Tokens map[string]string `mapstructure:"tokens"`
		Addr   string            `mapstructure:"addr"`
	}

	// CLIConfig holds per-invocation settings from flags
	CLIConfig struct {
		Date    string
		Offline bool
		JSON    bool
	}

	// SystemConfig holds file locations
	SystemConfig struct {
		ConfigPath   string
		DBPath       string
		ServerDBPath string
		LogPath      string
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// WithSystemPaths records file locations.
func WithSystemPaths(p SystemConfig) Option {
	return func(c *Config) error {
		c.System = p
		return nil
	}
}

// ServerTokens returns the bearer token to user key mapping used by the
// reference remote store.
func (c *Config) ServerTokens() map[string]string {
	tokens := make(map[string]string, len(c.Server.Tokens))

	for user, token := range c.Server.Tokens {
		if token != "" {
			tokens[token] = user
		}
	}

	return tokens
}
