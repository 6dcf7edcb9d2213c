package remote

import "github.com/ayoisaiah/dayplan/internal/apperr"

var (
	// ErrRejected reports that the remote store refused the payload (HTTP 400).
	ErrRejected = &apperr.Error{
		Kind:    apperr.RemoteRejection,
		Message: "remote store rejected the ledger for %s",
	}

	// ErrUnauthorized reports that the session credentials were refused
	// (HTTP 401).
	ErrUnauthorized = &apperr.Error{
		Kind:    apperr.Session,
		Message: "remote store refused the session credentials",
	}

	// ErrUnavailable covers network failures, timeouts, and any other
	// unexpected response.
	ErrUnavailable = &apperr.Error{
		Kind:    apperr.Transient,
		Message: "remote store unavailable",
	}

	errUnexpectedStatus = &apperr.Error{
		Kind:    apperr.Transient,
		Message: "unexpected status %d from %s",
	}
)
