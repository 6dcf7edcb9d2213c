package config

import (
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	intervals := []struct {
		name  string
		value time.Duration
	}{
		{keyRemoteTimeout, c.Remote.Timeout},
		{keyRemoteProbeInterval, c.Remote.ProbeInterval},
		{keySyncAutosaveInterval, c.Sync.AutosaveInterval},
	}

	for _, iv := range intervals {
		if iv.value <= 0 {
			return errInvalidInterval.Fmt(iv.name, iv.value)
		}
	}

	if err := validateURL(c.Remote.BaseURL); err != nil {
		return err
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	if _, err := shellquote.Split(c.Sync.Cmd); err != nil {
		return errInvalidSyncCmd.Wrap(err)
	}

	return nil
}
