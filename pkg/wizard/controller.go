package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/animation"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/registry"
	"github.com/goliatone/go-formwizard/pkg/schedule"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Controller is the active step state machine of one wizard instance.
type Controller struct {
	mu     sync.Mutex
	id     string
	cfg    Config
	logger logr.Logger

	registry    *registry.Registry
	unsubscribe func()
	gate        *validation.Gate
	checker     validation.Checker
	measurer    Measurer
	submitter   SubmitHandler
	focuser     Focuser
	observers   []Observer
	scheduler   schedule.Scheduler
	focus       *schedule.Slot
	geometry    *animation.Geometry

	ctx    context.Context
	cancel context.CancelFunc

	index        int
	state        State
	err          ErrorState
	params       animation.Params
	from         model.Size
	animating    bool
	autoComplete bool
	submitted    bool
	measured     map[string]model.Size
	// epoch changes whenever the step list or index changes; validation
	// results computed against an older epoch are discarded.
	epoch  uint64
	closed bool
}

// New constructs a controller in Editing(0).
func New(options ...Option) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		cfg:      DefaultConfig(),
		logger:   logr.Discard(),
		state:    StateEditing,
		params:   animation.Identity(),
		measured: make(map[string]model.Size),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	c.logger = c.logger.WithValues("wizard", c.id)
	if c.registry == nil {
		c.registry = registry.New()
	}
	if c.gate == nil {
		c.gate = validation.NewGate(
			validation.WithChecker(c.checker),
			validation.WithLogger(c.logger),
		)
	}
	c.geometry = animation.NewGeometry(c.cfg.BaseHeight, c.cfg.SubmitWidth, c.cfg.SubmitHeight)
	c.focus = schedule.NewSlot(c.scheduler)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.unsubscribe = c.registry.Subscribe(c.onRegistryEvent)

	existing := c.registry.Snapshot()
	if len(existing) > 0 {
		c.mu.Lock()
		c.scheduleFocusLocked()
		c.mu.Unlock()
		for _, input := range existing {
			c.measure(input)
		}
	}
	return c
}

// ID returns the instance identifier.
func (c *Controller) ID() string {
	return c.id
}

// Config returns the normalised configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Registry exposes the step registry the controller observes.
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// Register mounts a step. Registering an existing name replaces it in place.
func (c *Controller) Register(input model.Input) error {
	if c.Closed() {
		return nil
	}
	if _, err := c.registry.Register(input); err != nil {
		return fmt.Errorf("wizard: register step: %w", err)
	}
	return nil
}

// Unregister unmounts a step. It reports whether the step was registered.
func (c *Controller) Unregister(name string) bool {
	if c.Closed() {
		return false
	}
	_, ok := c.registry.Unregister(name)
	return ok
}

// SetValue records the value reported for a step. It is accepted in every
// state and clears the error when the step is the one that failed.
func (c *Controller) SetValue(name string, value any) bool {
	if c.Closed() {
		return false
	}
	name = strings.TrimSpace(name)
	if !c.registry.Update(name, func(in *model.Input) { in.Value = model.CloneValue(value) }) {
		return false
	}

	c.mu.Lock()
	var events []Event
	if c.err.Active && c.err.Step == name {
		events = c.clearErrorLocked(events)
	}
	c.mu.Unlock()

	c.emit(events)
	return true
}

// RequestNext validates the active step and advances on success. It reports
// whether the index changed. Requests are dropped while a transition is in
// flight and on the submit step.
func (c *Controller) RequestNext() bool {
	c.mu.Lock()
	if !c.navigableLocked("next") {
		c.mu.Unlock()
		return false
	}
	n := c.registry.Count()
	if c.index >= n {
		c.mu.Unlock()
		c.logger.V(2).Info("next ignored on submit step")
		return false
	}
	input, _ := c.registry.At(c.index)
	from, epoch := c.index, c.epoch
	c.state = StateValidating
	c.mu.Unlock()

	result := c.gate.Validate(input)

	c.mu.Lock()
	if !c.currentLocked(from, epoch) {
		c.mu.Unlock()
		return false
	}
	var events []Event
	if !result.Valid {
		events = c.failLocked(input.Name, result, events)
		c.mu.Unlock()
		c.logger.V(1).Info("step invalid", "step", input.Name, "rule", result.Rule)
		c.emit(events)
		return false
	}
	events = c.moveLocked(from+1, events)
	c.mu.Unlock()

	c.emit(events)
	return true
}

// RequestBack moves to the previous step without validation.
func (c *Controller) RequestBack() bool {
	c.mu.Lock()
	if !c.navigableLocked("back") || c.index == 0 {
		c.mu.Unlock()
		return false
	}
	events := c.moveLocked(c.index-1, nil)
	c.mu.Unlock()

	c.emit(events)
	return true
}

// JumpTo navigates directly to index, as a step indicator does. Backward
// jumps are unconditional. Forward jumps validate every step in between and
// stop on the first one that fails; JumpTo reports whether target was reached.
func (c *Controller) JumpTo(target int) bool {
	c.mu.Lock()
	if !c.navigableLocked("jump") {
		c.mu.Unlock()
		return false
	}
	inputs := c.registry.Snapshot()
	n := len(inputs)
	if target < 0 || target > n || target == c.index {
		c.mu.Unlock()
		return false
	}
	if target < c.index {
		events := c.moveLocked(target, nil)
		c.mu.Unlock()
		c.emit(events)
		return true
	}
	from, epoch := c.index, c.epoch
	c.state = StateValidating
	c.mu.Unlock()

	failed := -1
	var result validation.Result
	for i := from; i < target; i++ {
		result = c.gate.Validate(inputs[i])
		if !result.Valid {
			failed = i
			break
		}
	}

	c.mu.Lock()
	if !c.currentLocked(from, epoch) {
		c.mu.Unlock()
		return false
	}
	var events []Event
	landing := target
	if failed >= 0 {
		landing = failed
	}
	if landing != from {
		events = c.moveLocked(landing, events)
	}
	if failed >= 0 {
		events = c.failLocked(inputs[failed].Name, result, events)
	}
	c.mu.Unlock()

	c.emit(events)
	return failed < 0
}

// NotifyAnimationComplete reopens navigation after a transition.
func (c *Controller) NotifyAnimationComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.animating = false
}

// NotifyMeasured records the laid out size of a step. The first measurement
// of the active step captures the base size; a pending transition is
// recomputed once its target is measured.
func (c *Controller) NotifyMeasured(name string, size model.Size) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	pos := c.registry.IndexOf(name)
	if pos < 0 {
		c.mu.Unlock()
		return
	}
	c.measured[name] = size

	var events []Event
	if pos == c.index {
		if c.geometry.Capture(size) {
			c.logger.V(1).Info("base size captured", "step", name, "width", size.Width, "height", size.Height)
		}
		if c.params.Pending {
			c.params = c.geometry.Transition(c.from, c.sizeAtLocked(c.index, c.registry.Count()))
			events = append(events, Event{Kind: EventRemeasured, Index: c.index, Previous: c.index, Name: name, Animation: c.params})
		}
	}
	c.mu.Unlock()

	c.emit(events)
}

// Submit hands the collected values to the submit capability. It is only
// valid on the submit step once the transition into it has completed. Handler errors are returned as is and leave the
// controller in Submitting; call ResumeEditing to return to the submit step.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	n := c.registry.Count()
	if c.index != n || c.state == StateValidating {
		c.mu.Unlock()
		return ErrNotSubmitStep
	}
	if c.animating {
		c.mu.Unlock()
		c.logger.V(2).Info("submit dropped while animating")
		return ErrTransitionInFlight
	}
	c.state = StateSubmitting
	c.submitted = false
	values := c.collectLocked()
	handler := c.submitter
	c.mu.Unlock()

	c.logger.V(1).Info("submitting", "steps", n)
	c.emit([]Event{{Kind: EventSubmitting, Index: n, Previous: n}})

	if handler != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		if err := handler.Submit(ctx, values); err != nil {
			c.logger.Error(err, "submit failed")
			return err
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.submitted = true
	c.mu.Unlock()

	c.emit([]Event{{Kind: EventSubmitted, Index: n, Previous: n}})
	return nil
}

// ResumeEditing returns from Submitting to the submit step.
func (c *Controller) ResumeEditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.state != StateSubmitting {
		return false
	}
	c.state = StateEditing
	c.submitted = false
	c.index = c.registry.Count()
	return true
}

// Close tears the instance down: pending focus is cancelled and later calls
// become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.epoch++
	unsubscribe := c.unsubscribe
	c.mu.Unlock()

	c.cancel()
	c.focus.Stop()
	if unsubscribe != nil {
		unsubscribe()
	}
	c.logger.V(1).Info("wizard closed")
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot returns the current read model.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	inputs := c.registry.Snapshot()
	n := len(inputs)
	index := c.index
	if index > n {
		index = n
	}
	active := c.submitInput()
	if index < n {
		active = inputs[index].Clone()
	}
	values := make(map[string]any, n)
	for _, input := range inputs {
		values[input.Name] = model.CloneValue(input.Value)
	}
	return Snapshot{
		ID:              c.id,
		Inputs:          inputs,
		ActiveIndex:     index,
		ActiveInput:     active,
		Error:           c.err,
		IsSubmitPage:    index == n,
		CollectedValues: values,
		State:           c.state,
		Submitted:       c.submitted,
		Animation:       c.params,
		Animating:       c.animating,
		Config:          c.cfg,
	}
}

// CollectedValues returns name -> value for every registered step.
func (c *Controller) CollectedValues() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectLocked()
}

func (c *Controller) onRegistryEvent(evt registry.Event) {
	switch evt.Kind {
	case registry.EventRegistered, registry.EventReplaced:
		c.onRegistered(evt)
	case registry.EventUnregistered:
		c.onUnregistered(evt)
	}
}

func (c *Controller) onRegistered(evt registry.Event) {
	input, ok := c.registry.Get(evt.Name)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.epoch++
	if evt.Kind == registry.EventReplaced {
		delete(c.measured, evt.Name)
	}

	var events []Event
	if evt.Kind == registry.EventRegistered && evt.Index == c.index {
		switch {
		case c.index == 0:
			c.scheduleFocusLocked()
		case c.state != StateSubmitting:
			// The new step took the submit step's place as the active one.
			n := c.registry.Count()
			c.from = c.geometry.StepSize(nil, model.Size{}, true)
			c.params = c.geometry.Transition(c.from, c.sizeAtLocked(c.index, n))
			c.scheduleFocusLocked()
			events = append(events, Event{
				Kind:      EventIndexChanged,
				Index:     c.index,
				Previous:  c.index,
				Name:      evt.Name,
				Animation: c.params,
			})
		}
	}
	c.mu.Unlock()

	c.logger.V(1).Info("step registered", "step", evt.Name, "index", evt.Index, "replaced", evt.Kind == registry.EventReplaced)
	c.emit(events)
	c.measure(input)
}

func (c *Controller) onUnregistered(evt registry.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.epoch++
	removed := c.measured[evt.Name]
	delete(c.measured, evt.Name)

	n := c.registry.Count()
	prev := c.index
	activeRemoved := false
	switch {
	case evt.Index < c.index:
		c.index--
	case evt.Index == c.index:
		activeRemoved = true
		if c.index > n-1 {
			c.index = n - 1
		}
		if c.index < 0 {
			c.index = 0
		}
	}

	var events []Event
	if c.err.Active && c.err.Step == evt.Name {
		events = c.clearErrorLocked(events)
	}
	if activeRemoved {
		c.from = c.geometry.StepSize(nil, removed, false)
		c.params = c.geometry.Transition(c.from, c.sizeAtLocked(c.index, n))
		c.scheduleFocusLocked()
	}
	if activeRemoved || c.index != prev {
		events = append(events, Event{
			Kind:      EventIndexChanged,
			Index:     c.index,
			Previous:  prev,
			Name:      c.activeInputLocked(n).Name,
			Animation: c.params,
		})
	}
	active := c.index
	c.mu.Unlock()

	c.logger.V(1).Info("step unregistered", "step", evt.Name, "index", evt.Index, "active", active)
	c.emit(events)
}

func (c *Controller) measure(input model.Input) {
	if c.measurer == nil || input.Node == nil {
		return
	}
	c.mu.Lock()
	_, done := c.measured[input.Name]
	c.mu.Unlock()
	if done {
		return
	}
	size := c.measurer.Measure(input.Node)
	if size.Width <= 0 && size.Height <= 0 {
		return
	}
	c.NotifyMeasured(input.Name, size)
}

func (c *Controller) navigableLocked(op string) bool {
	if c.closed {
		return false
	}
	if c.animating {
		c.logger.V(2).Info("navigation dropped while animating", "op", op, "index", c.index)
		return false
	}
	switch c.state {
	case StateValidating, StateSubmitting:
		c.logger.V(2).Info("navigation dropped", "op", op, "state", string(c.state))
		return false
	}
	return true
}

// currentLocked reports whether a validation started at (from, epoch) may
// still be applied, restoring Editing when it may not.
func (c *Controller) currentLocked(from int, epoch uint64) bool {
	if !c.closed && c.epoch == epoch && c.index == from {
		return true
	}
	if c.state == StateValidating {
		c.state = StateEditing
	}
	c.logger.V(2).Info("validation outcome discarded", "from", from)
	return false
}

func (c *Controller) moveLocked(to int, events []Event) []Event {
	n := c.registry.Count()
	from := c.index
	if c.err.Active {
		events = c.clearErrorLocked(events)
	}
	c.state = StateEditing
	c.from = c.sizeAtLocked(from, n)
	c.index = to
	c.params = c.geometry.Transition(c.from, c.sizeAtLocked(to, n))
	c.animating = !c.autoComplete
	c.epoch++
	c.scheduleFocusLocked()

	c.logger.V(1).Info("step changed", "from", from, "to", to,
		"widthScale", c.params.WidthScale, "heightScale", c.params.HeightScale, "pending", c.params.Pending)
	return append(events, Event{
		Kind:      EventIndexChanged,
		Index:     to,
		Previous:  from,
		Name:      c.activeInputLocked(n).Name,
		Animation: c.params,
	})
}

func (c *Controller) failLocked(step string, result validation.Result, events []Event) []Event {
	c.state = StateError
	c.err = ErrorState{Active: true, Message: result.Message, Rule: result.Rule, Step: step}
	return append(events, Event{Kind: EventError, Index: c.index, Previous: c.index, Name: step, Message: result.Message})
}

func (c *Controller) clearErrorLocked(events []Event) []Event {
	step := c.err.Step
	c.err = ErrorState{}
	if c.state == StateError {
		c.state = StateEditing
	}
	return append(events, Event{Kind: EventCleared, Index: c.index, Previous: c.index, Name: step})
}

func (c *Controller) sizeAtLocked(index, n int) model.Size {
	if index >= n {
		return c.geometry.StepSize(nil, model.Size{}, true)
	}
	input, ok := c.registry.At(index)
	if !ok {
		return c.geometry.StepSize(nil, model.Size{}, false)
	}
	return c.geometry.StepSize(&input, c.measured[input.Name], false)
}

func (c *Controller) activeInputLocked(n int) model.Input {
	if c.index >= n {
		return c.submitInput()
	}
	if input, ok := c.registry.At(c.index); ok {
		return input
	}
	return c.submitInput()
}

func (c *Controller) submitInput() model.Input {
	return model.Input{
		Name:   SubmitStepName,
		Label:  c.cfg.SubmitText,
		Height: model.Float(c.cfg.SubmitHeight),
	}
}

func (c *Controller) collectLocked() map[string]any {
	inputs := c.registry.Snapshot()
	values := make(map[string]any, len(inputs))
	for _, input := range inputs {
		values[input.Name] = model.CloneValue(input.Value)
	}
	return values
}

func (c *Controller) scheduleFocusLocked() {
	index := c.index
	c.focus.ScheduleContext(c.ctx, animation.FocusDelay, func() {
		c.fireFocus(index)
	})
}

func (c *Controller) fireFocus(index int) {
	c.mu.Lock()
	if c.closed || c.index != index {
		c.mu.Unlock()
		return
	}
	n := c.registry.Count()
	input := c.activeInputLocked(n)
	if !c.cfg.InitialFocus && index == 0 && index < n && validation.IsEmpty(input.Value) {
		c.mu.Unlock()
		return
	}
	focuser := c.focuser
	c.mu.Unlock()

	if focuser != nil {
		focuser.Focus(input)
	}
	c.emit([]Event{{Kind: EventFocus, Index: index, Previous: index, Name: input.Name}})
}

func (c *Controller) emit(events []Event) {
	for _, evt := range events {
		for _, observer := range c.observers {
			observer(evt)
		}
	}
}
