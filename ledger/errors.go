package ledger

import "github.com/ayoisaiah/dayplan/internal/apperr"

var (
	ErrTaskNotFound = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "no interval with id %q",
	}

	ErrIndexRange = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "interval index %d is out of range (ledger has %d intervals)",
	}

	ErrStartNotEditable = &apperr.Error{
		Kind:    apperr.Policy,
		Message: "the start time of interval %d is derived from the previous interval and cannot be edited",
	}

	ErrUnknownBoundary = &apperr.Error{
		Kind:    apperr.Policy,
		Message: "unknown boundary field %q",
	}

	ErrFloor = &apperr.Error{
		Kind:    apperr.Floor,
		Message: "a day must keep at least %d intervals",
	}

	ErrNoRoom = &apperr.Error{
		Kind:    apperr.Capacity,
		Message: "no room to insert after interval %d",
	}

	ErrDayFull = &apperr.Error{
		Kind:    apperr.Capacity,
		Message: "the day would exceed %d minutes",
	}

	ErrEndBeforeStart = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "end time %s must be after start time %s",
	}

	ErrEndPastNext = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "end time %s must be before the next interval ends at %s",
	}

	ErrNotSorted = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "interval %d starts at %s, not after interval %d",
	}

	ErrGap = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "interval %d ends at %s but interval %d starts at %s",
	}

	ErrDuration = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "interval %d has duration %d, expected %d",
	}

	ErrEmpty = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "ledger has no intervals",
	}
)
