package app

import (
	"log/slog"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/reconcile"
)

// syncCmdHook runs cmdStr after every fully synced save. The synced date is
// exported as DAYPLAN_DATE.
func syncCmdHook(cmdStr string, log *slog.Logger) reconcile.Hook {
	return func(date string, _ ledger.Ledger) {
		cmd := syncCmd(cmdStr, date)
		if cmd == nil {
			log.Warn("unable to parse sync.cmd option", slog.String("cmd", cmdStr))
			return
		}

		if err := cmd.Run(); err != nil {
			log.Error("sync.cmd failed", slog.String("cmd", cmdStr), slog.Any("error", err))
		}
	}
}

func syncCmd(cmdStr, date string) *exec.Cmd {
	cmdSlice, err := shellquote.Split(cmdStr)
	if err != nil || len(cmdSlice) == 0 {
		return nil
	}

	//nolint:gosec // the command comes from the user's own config file
	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)
	cmd.Env = append(os.Environ(), "DAYPLAN_DATE="+date)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd
}
