// Package controls dispatches wizard steps to the control that collects their
// value. Dispatch goes through an explicit table keyed by model.ControlKind;
// steps without an explicit kind are resolved through prioritised matchers.
package controls

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrUnknownOption is returned when a value does not match any declared
	// option of a choice control.
	ErrUnknownOption = errors.New("controls: unknown option")
	// ErrUnsupportedValue is returned when a value shape cannot be coerced for
	// the control.
	ErrUnsupportedValue = errors.New("controls: unsupported value")
)

// Control describes how one control kind produces and formats values.
type Control struct {
	Kind model.ControlKind
	// Multiple reports whether the control selects several options at once.
	Multiple bool
	// Zero returns the initial value of an untouched step.
	Zero func(in model.Input) any
	// Coerce normalises a raw value (typed text, decoded YAML, a selection)
	// into the control's value shape.
	Coerce func(in model.Input, raw any) (any, error)
	// Format renders a value for summaries and terminal output.
	Format func(in model.Input, value any) string
}

// Matcher decides whether a control kind should handle a step without an
// explicit kind.
type Matcher func(in model.Input) bool

type rule struct {
	kind     model.ControlKind
	priority int
	match    Matcher
	order    int
}

// Table maps control kinds to their implementation. Higher priority matchers
// win; ties fall back to registration order.
type Table struct {
	mu       sync.RWMutex
	controls map[model.ControlKind]Control
	rules    []rule
}

// NewTable constructs a table with the built-in radio, checkbox, select and
// text controls and their matchers registered.
func NewTable() *Table {
	t := &Table{controls: make(map[model.ControlKind]Control)}
	t.registerBuiltins()
	return t
}

var defaultTable = NewTable()

// Default returns the shared built-in table.
func Default() *Table {
	return defaultTable
}

// Register adds or replaces the control for c.Kind.
func (t *Table) Register(c Control) error {
	if t == nil {
		return nil
	}
	if strings.TrimSpace(string(c.Kind)) == "" {
		return errors.New("controls: kind is required")
	}
	if c.Zero == nil || c.Coerce == nil || c.Format == nil {
		return fmt.Errorf("controls: control %q must define Zero, Coerce and Format", c.Kind)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.controls[c.Kind] = c
	return nil
}

// Match registers a matcher that resolves steps with no explicit kind to kind.
func (t *Table) Match(kind model.ControlKind, priority int, matcher Matcher) {
	if t == nil || matcher == nil || kind == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = append(t.rules, rule{kind: kind, priority: priority, match: matcher, order: len(t.rules)})
}

// Resolve returns the control kind for a step. An explicit Kind is honoured
// before matcher evaluation; nothing matching resolves to text.
func (t *Table) Resolve(in model.Input) model.ControlKind {
	if explicit := strings.TrimSpace(string(in.Kind)); explicit != "" {
		kind := model.ControlKind(strings.ToLower(explicit))
		if _, ok := t.lookup(kind); ok {
			return kind
		}
		return model.ParseControlKind(explicit)
	}
	if t == nil {
		return model.ControlText
	}
	t.mu.RLock()
	rules := append([]rule(nil), t.rules...)
	t.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(in) {
			return entry.kind
		}
	}
	return model.ControlText
}

// For returns the control handling in. Kinds without a registered control use
// the text control.
func (t *Table) For(in model.Input) Control {
	kind := t.Resolve(in)
	if control, ok := t.lookup(kind); ok {
		return control
	}
	return textControl()
}

// Lookup returns the control registered for kind.
func (t *Table) Lookup(kind model.ControlKind) (Control, bool) {
	return t.lookup(kind)
}

// Kinds lists the registered kinds in lexical order.
func (t *Table) Kinds() []model.ControlKind {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	kinds := make([]model.ControlKind, 0, len(t.controls))
	for kind := range t.controls {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Prepare resolves the step's kind and coerces its value, filling in the
// control's zero value when the step has none.
func (t *Table) Prepare(in model.Input) (model.Input, error) {
	control := t.For(in)
	in.Kind = control.Kind
	if in.Value == nil {
		in.Value = control.Zero(in)
		return in, nil
	}
	value, err := control.Coerce(in, in.Value)
	if err != nil {
		return in, fmt.Errorf("controls: step %q: %w", in.Name, err)
	}
	in.Value = value
	return in, nil
}

func (t *Table) lookup(kind model.ControlKind) (Control, bool) {
	if t == nil {
		return Control{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	control, ok := t.controls[kind]
	return control, ok
}

func (t *Table) registerBuiltins() {
	for _, c := range []Control{textControl(), radioControl(model.ControlRadio), radioControl(model.ControlSelect), checkboxControl()} {
		t.controls[c.Kind] = c
	}

	t.Match(model.ControlCheckbox, 80, func(in model.Input) bool {
		return len(in.Options) > 0 && isMultiValue(in.Value)
	})
	t.Match(model.ControlSelect, 70, func(in model.Input) bool {
		return len(in.Options) > 8
	})
	t.Match(model.ControlRadio, 60, func(in model.Input) bool {
		return len(in.Options) > 0
	})
}

func isMultiValue(value any) bool {
	switch value.(type) {
	case map[string]bool, map[string]any, []string, []any:
		return true
	default:
		return false
	}
}
