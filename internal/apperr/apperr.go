// Package apperr defines the error type shared across dayplan packages
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how callers are expected to react to it.
type Kind string

const (
	Validation        Kind = "validation"
	Policy            Kind = "policy"
	Floor             Kind = "floor"
	Capacity          Kind = "capacity"
	RemoteRejection   Kind = "remote_rejection"
	Transient         Kind = "transient"
	Session           Kind = "session"
	StorageCorruption Kind = "storage_corruption"
)

// Error is a classified application error. Package-level values act as
// sentinels: errors derived through Fmt or Wrap still match them with
// errors.Is.
type Error struct {
	Cause   error
	origin  *Error
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || e.root() == t
}

// Fmt returns a copy of the error with its message formatted with args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		origin:  e.root(),
	}
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Cause:   err,
		origin:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return ""
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
