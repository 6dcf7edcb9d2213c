package config

import "github.com/ayoisaiah/dayplan/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidInterval = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "%s must be a positive duration, got %v",
	}

	errInvalidURL = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "remote.base_url must be an http or https URL, got %q",
	}

	errInvalidLogLevel = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "log.level must be one of debug, info, warn, error, got %q",
	}

	errInvalidDate = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "unable to parse date %q",
	}

	errInvalidSyncCmd = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "sync.cmd could not be parsed",
	}
)
