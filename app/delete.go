package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/osutil"
	"github.com/ayoisaiah/dayplan/ledger"
)

var (
	errRowArg = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "expected a row number between 1 and %d, got %q",
	}

	errConfirmRequired = &apperr.Error{
		Message: "refusing to clear %s without confirmation; pass --yes",
	}
)

// rowArg resolves the first positional argument to an interval of l.
func rowArg(ctx *cli.Context, l ledger.Ledger) (models.Task, error) {
	arg := strings.TrimSpace(ctx.Args().First())

	row, err := strconv.Atoi(arg)
	if err != nil || row < 1 || row > l.Len() {
		return models.Task{}, errRowArg.Fmt(l.Len(), arg)
	}

	return l.Task(row - 1)
}

// confirmClear asks before a day is reset. Without a terminal the --yes flag
// is required.
func confirmClear(ctx *cli.Context, date string) (bool, error) {
	if ctx.Bool("yes") {
		return true, nil
	}

	if !osutil.IsTerminal(os.Stdin) {
		return false, errConfirmRequired.Fmt(date)
	}

	var ok bool

	err := huh.NewConfirm().
		Title("Clear all intervals for " + date + "?").
		Description("The day is reset to 24 empty hourly rows, locally and remotely.").
		Affirmative("Clear").
		Negative("Cancel").
		Value(&ok).
		Run()

	return ok, err
}
