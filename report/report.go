// Package report prints the outcome of commands and raises desktop
// notifications for sync failures that need attention.
package report

import (
	"errors"
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/reconcile"
)

// Notifications toggles desktop notifications.
var Notifications = true

// notify is swapped out in tests.
var notify = beeep.Notify

// Notify sends a desktop notification.
func Notify(title, msg string) {
	if !Notifications {
		return
	}

	if err := notify(title, msg, ""); err != nil {
		pterm.Error.Println(
			fmt.Errorf("unable to display notification: %w", err),
		)
	}
}

// Message returns the user-facing description of a save outcome.
func Message(status reconcile.Status, err error) string {
	switch apperr.KindOf(err) {
	case apperr.RemoteRejection:
		return "Saved locally, but the remote store rejected the ledger. Run 'dayplan show' and correct the day"
	case apperr.Session:
		return "Saved locally. Syncing resumes once user.token is renewed"
	}

	if status == reconcile.StatusSynced {
		return "Saved and synced"
	}

	return "Saved locally, will sync later"
}

// SaveOutcome prints the outcome of a save. Rejections are also raised as
// desktop notifications. Session errors are surfaced by SessionExpired.
func SaveOutcome(status reconcile.Status, err error) {
	msg := Message(status, err)

	switch {
	case apperr.IsKind(err, apperr.Session):
		pterm.Warning.Println(msg)
	case err != nil:
		pterm.Error.Println(msg)
		Notify("dayplan sync failed", msg)
	case status == reconcile.StatusSynced:
		pterm.Success.Println(msg)
	default:
		pterm.Warning.Println(msg)
	}
}

// SessionExpired is the session invalidation hook.
func SessionExpired() {
	pterm.Error.Println("The remote store refused your credentials. Update user.token and run 'dayplan sync'")
	Notify("dayplan", "Your session has expired. Update user.token to resume syncing")
}

type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// Reported marks err as already shown to the user. It returns nil if err is
// nil.
func Reported(err error) error {
	if err == nil {
		return nil
	}

	return &reportedError{err: err}
}

// IsReported reports whether err was marked by Reported.
func IsReported(err error) bool {
	var r *reportedError

	return errors.As(err, &r)
}

func Error(err error) {
	pterm.Error.Println(err)
}

func Info(msg string) {
	pterm.Info.Println(msg)
}
