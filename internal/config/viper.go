package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/dayplan/internal/osutil"
)

const envPrefix = "DAYPLAN"

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyUserID               = "user.id"
	keyUserToken            = "user.token"
	keyRemoteBaseURL        = "remote.base_url"
	keyRemoteTimeout        = "remote.timeout"
	keyRemoteProbeInterval  = "remote.probe_interval"
	keySyncAutosaveInterval = "sync.autosave_interval"
	keySyncCmd              = "sync.cmd"
	keySyncNotify           = "sync.notify"
	keyLogLevel             = "log.level"
	keyLogMaxSize           = "log.max_size"
	keyLogMaxBackups        = "log.max_backups"
	keyLogMaxAge            = "log.max_age"
	keyServerAddr           = "server.addr"
	keyServerTokens         = "server.tokens"
)

// WithViperConfig returns an Option that loads configuration from Viper. A
// config file with the defaults is written when none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return errReadConfig.Wrap(err)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), osutil.DirPermission); err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyUserID, "")
	v.SetDefault(keyUserToken, "")
	v.SetDefault(keyRemoteBaseURL, "http://localhost:5000/api")
	v.SetDefault(keyRemoteTimeout, "10s")
	v.SetDefault(keyRemoteProbeInterval, "15s")
	v.SetDefault(keySyncAutosaveInterval, "30s")
	v.SetDefault(keySyncCmd, "")
	v.SetDefault(keySyncNotify, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 5)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyLogMaxAge, 28)
	v.SetDefault(keyServerAddr, ":5000")
	v.SetDefault(keyServerTokens, map[string]string{})

	// Answers from the first-run prompt end up in the written file.
	if c.User.ID != "" {
		v.SetDefault(keyUserID, c.User.ID)
	}

	if c.User.Token != "" {
		v.SetDefault(keyUserToken, c.User.Token)
	}

	if c.Remote.BaseURL != "" {
		v.SetDefault(keyRemoteBaseURL, c.Remote.BaseURL)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	if c.Server.Tokens == nil {
		c.Server.Tokens = make(map[string]string)
	}

	return nil
}
