package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when the submit attempt limit is reached
	// with validation errors still pending.
	ErrTooManyAttempts = errors.New("tui: too many submit attempts")
)
