package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ayoisaiah/dayplan/internal/osutil"
)

const asciiLogo = `
██████╗  █████╗ ██╗   ██╗██████╗ ██╗      █████╗ ███╗   ██╗
██╔══██╗██╔══██╗╚██╗ ██╔╝██╔══██╗██║     ██╔══██╗████╗  ██║
██║  ██║███████║ ╚████╔╝ ██████╔╝██║     ███████║██╔██╗ ██║
██║  ██║██╔══██║  ╚██╔╝  ██╔═══╝ ██║     ██╔══██║██║╚██╗██║
██████╔╝██║  ██║   ██║   ██║     ███████╗██║  ██║██║ ╚████║
╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	UserID  string
	Token   string
	BaseURL string
}

// WithPromptConfig returns an Option that asks for the remote account on the
// first run. It does nothing when the config file exists or stdin is not a
// terminal.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if !osutil.IsTerminal(os.Stdin) || !osutil.IsTerminal(os.Stdout) {
			return nil
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		return applyPromptOptions(c, opts)
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		BaseURL: "http://localhost:5000/api",
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure dayplan for the first time.
Leave the account fields empty to plan offline as an anonymous user.
Edit the config file with 'dayplan edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Value(&opts.UserID),
			huh.NewInput().
				Title("Access token").
				EchoMode(huh.EchoModePassword).
				Value(&opts.Token),
			huh.NewInput().
				Title("Remote task store URL").
				Validate(validateURL).
				Value(&opts.BaseURL),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidURL.Fmt(s)
	}

	return nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.User.ID = opts.UserID
	c.User.Token = opts.Token
	c.Remote.BaseURL = opts.BaseURL

	return nil
}
