package wizard

import "errors"

var (
	// ErrNotSubmitStep is returned by Submit when the submit step is not
	// active.
	ErrNotSubmitStep = errors.New("wizard: submit is only valid on the submit step")
	// ErrSubmitInProgress is returned by Submit when a submission already
	// started.
	ErrSubmitInProgress = errors.New("wizard: submit already in progress")
	// ErrTransitionInFlight is returned by Submit while the transition into
	// the submit step has not completed.
	ErrTransitionInFlight = errors.New("wizard: transition in flight")
)
