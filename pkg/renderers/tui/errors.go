package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrControllerRequired is returned when Run is called without a wizard.
	ErrControllerRequired = errors.New("tui: controller is required")
	// ErrClosed is returned when the wizard is closed while prompting.
	ErrClosed = errors.New("tui: wizard closed")
)
