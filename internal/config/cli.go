package config

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/internal/timeutil"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Date    string
	Offline bool
	JSON    bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Date:    ctx.String("date"),
			Offline: ctx.Bool("offline"),
			JSON:    ctx.Bool("json"),
		}

		return applyCLIOptions(c, opts, time.Now())
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions, now time.Time) error {
	date, err := ParseDate(opts.Date, now)
	if err != nil {
		return err
	}

	c.CLI = CLIConfig{
		Date:    date,
		Offline: opts.Offline,
		JSON:    opts.JSON,
	}

	return nil
}

// ParseDate resolves s to a ledger date relative to now. An empty string,
// "today", "yesterday", and "tomorrow" are recognized before falling back to
// free-form parsing.
func ParseDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return timeutil.DateKey(now), nil
	case "yesterday":
		return timeutil.DateKey(now.AddDate(0, 0, -1)), nil
	case "tomorrow":
		return timeutil.DateKey(now.AddDate(0, 0, 1)), nil
	}

	t, err := dateparse.ParseIn(strings.TrimSpace(s), now.Location())
	if err != nil {
		return "", errInvalidDate.Fmt(s).Wrap(err)
	}

	return timeutil.DateKey(t), nil
}
