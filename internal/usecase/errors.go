package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrScheduleDesync marks a bulk provider record that cannot be matched
	// to the internal schedule. This is a configuration fault that has to be
	// fixed out-of-band, so the whole run aborts instead of skipping.
	ErrScheduleDesync = errors.New("schedule and provider are out of sync")

	// ErrRunInProgress is returned when the reconciliation lease is held by
	// another run.
	ErrRunInProgress = errors.New("reconciliation run already in progress")
)
