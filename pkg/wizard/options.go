package wizard

import (
	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/registry"
	"github.com/goliatone/go-formwizard/pkg/schedule"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Option customises a Controller.
type Option func(*Controller)

// WithConfig replaces the configuration. Blank values are normalised.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		c.cfg = cfg.Normalize()
	}
}

// WithRegistry shares an existing registry. Mutations made directly on it are
// observed by the controller.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Controller) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithGate overrides the validation gate. A validity checker configured with
// WithValidityChecker is ignored when a gate is supplied.
func WithGate(gate *validation.Gate) Option {
	return func(c *Controller) {
		if gate != nil {
			c.gate = gate
		}
	}
}

// WithValidityChecker supplies the builtin validation capability.
func WithValidityChecker(checker validation.Checker) Option {
	return func(c *Controller) {
		c.checker = checker
	}
}

// WithMeasurer supplies the layout measurement capability.
func WithMeasurer(measurer Measurer) Option {
	return func(c *Controller) {
		c.measurer = measurer
	}
}

// WithSubmitHandler supplies the submit capability.
func WithSubmitHandler(handler SubmitHandler) Option {
	return func(c *Controller) {
		c.submitter = handler
	}
}

// WithFocuser supplies the focus capability.
func WithFocuser(focuser Focuser) Option {
	return func(c *Controller) {
		c.focuser = focuser
	}
}

// WithObserver registers an event observer. Observers run in registration
// order.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}

// WithScheduler overrides the scheduler used for delayed focus.
func WithScheduler(scheduler schedule.Scheduler) Option {
	return func(c *Controller) {
		if scheduler != nil {
			c.scheduler = scheduler
		}
	}
}

// WithLogger sets the logger. Navigation decisions log at V(1), dropped
// requests at V(2).
func WithLogger(logger logr.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithAutoCompleteAnimations treats every transition as complete immediately,
// for renderers without an animation backend.
func WithAutoCompleteAnimations() Option {
	return func(c *Controller) {
		c.autoComplete = true
	}
}
