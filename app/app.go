package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the dayplan app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "dayplan",
		Usage: `
		dayplan keeps a plan-versus-actual timeline of your day in 5-minute
		slots. It works offline and syncs with a remote task store when one
		is reachable.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the timeline for a day",
				Action: showAction,
			},
			{
				Name:   "summary",
				Usage:  "Print category totals and efficiency for a day",
				Action: summaryAction,
			},
			{
				Name:      "insert",
				Usage:     "Insert an empty interval after a row",
				ArgsUsage: "--after ROW",
				Flags:     []cli.Flag{afterFlag},
				Action:    insertAction,
			},
			{
				Name:      "set",
				Usage:     "Change the times, text, or category of a row",
				ArgsUsage: "[OPTIONS] ROW",
				Flags: []cli.Flag{
					startFlag,
					endFlag,
					planFlag,
					actualFlag,
					categoryFlag,
				},
				Action: setAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a row and stretch the next one to close the gap",
				ArgsUsage: "ROW",
				Action:    deleteAction,
			},
			{
				Name:   "clear",
				Usage:  "Reset a day to the default timeline",
				Flags:  []cli.Flag{yesFlag},
				Action: clearAction,
			},
			{
				Name:   "sync",
				Usage:  "Push the locally saved timeline to the remote store",
				Action: syncAction,
			},
			{
				Name:   "watch",
				Usage:  "Autosave periodically and sync whenever the remote store comes back online",
				Action: watchAction,
			},
			{
				Name:      "import",
				Usage:     "Import days from a JSON export of the browser cache",
				ArgsUsage: "FILE",
				Action:    importAction,
			},
			{
				Name:   "serve",
				Usage:  "Run the reference remote task store",
				Flags:  []cli.Flag{addrFlag},
				Action: serveAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			dateFlag,
			offlineFlag,
			jsonFlag,
			noColorFlag,
		},
		Action: showAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
