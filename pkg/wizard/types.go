package wizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/animation"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// SubmitStepName names the synthetic descriptor reported on the submit step.
const SubmitStepName = "__submit__"

// State is the controller state machine position.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateError      State = "error"
	StateSubmitting State = "submitting"
)

// ErrorState is the inline error of the active step.
type ErrorState struct {
	Active  bool   `json:"active"`
	Message string `json:"message,omitempty"`
	Rule    string `json:"rule,omitempty"`
	// Step is the name of the step that failed validation.
	Step string `json:"step,omitempty"`
}

// Snapshot is the read model handed to rendering layers on each cycle.
type Snapshot struct {
	ID              string           `json:"id"`
	Inputs          []model.Input    `json:"inputs"`
	ActiveIndex     int              `json:"activeIndex"`
	ActiveInput     model.Input      `json:"activeInput"`
	Error           ErrorState       `json:"errorState"`
	IsSubmitPage    bool             `json:"isSubmitPage"`
	CollectedValues map[string]any   `json:"collectedValues"`
	State           State            `json:"state"`
	Submitted       bool             `json:"submitted,omitempty"`
	Animation       animation.Params `json:"animation"`
	Animating       bool             `json:"animating"`
	Config          Config           `json:"config"`
}

// Count is the number of registered steps, excluding the submit step.
func (s Snapshot) Count() int {
	return len(s.Inputs)
}

// EventKind identifies a controller event.
type EventKind string

const (
	EventIndexChanged EventKind = "index-changed"
	// EventError carries a validation failure; renderers shake the step.
	EventError      EventKind = "error"
	EventCleared    EventKind = "cleared"
	EventSubmitting EventKind = "submitting"
	EventSubmitted  EventKind = "submitted"
	EventFocus      EventKind = "focus"
	// EventRemeasured reports animation params recomputed after a late
	// measurement.
	EventRemeasured EventKind = "remeasured"
)

// Event is delivered to observers after the state change it describes.
type Event struct {
	Kind      EventKind
	Index     int
	Previous  int
	Name      string
	Message   string
	Animation animation.Params
}

// Observer receives controller events.
type Observer func(Event)

// Measurer reports the laid out size of a bound node. A zero size means the
// node has not been laid out yet.
type Measurer interface {
	Measure(node model.NodeRef) model.Size
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(node model.NodeRef) model.Size

// Measure implements Measurer.
func (f MeasurerFunc) Measure(node model.NodeRef) model.Size {
	return f(node)
}

// SubmitHandler receives the collected values when the wizard is submitted.
type SubmitHandler interface {
	Submit(ctx context.Context, values map[string]any) error
}

// SubmitFunc adapts a function to SubmitHandler.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// Submit implements SubmitHandler.
func (f SubmitFunc) Submit(ctx context.Context, values map[string]any) error {
	return f(ctx, values)
}

// Focuser moves focus to the active step.
type Focuser interface {
	Focus(input model.Input)
}

// FocusFunc adapts a function to Focuser.
type FocusFunc func(input model.Input)

// Focus implements Focuser.
func (f FocusFunc) Focus(input model.Input) {
	f(input)
}
