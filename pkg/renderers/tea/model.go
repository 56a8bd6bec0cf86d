// Package tea renders a wizard controller as an interactive bubbletea program.
// Step changes are animated for animation.Duration before navigation reopens,
// failed validation shakes the step box, and the box width follows the
// controller's width scale.
package tea

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/animation"
	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var (
	// ErrAborted signals the user quit before submitting.
	ErrAborted = errors.New("tea: aborted")
	// ErrControllerRequired is returned when Run is called without a wizard.
	ErrControllerRequired = errors.New("tea: controller is required")
)

// shakeOffsets are the horizontal box offsets, in cells, of each shake frame.
var shakeOffsets = []int{-2, 2, -1, 1, 0}

const (
	shakeFrame  = 50 * time.Millisecond
	shakeMargin = 2
)

type animationDoneMsg struct{}

type shakeMsg struct{}

type submitDoneMsg struct {
	err error
}

// Model implements bubbletea.Model over a wizard controller.
type Model struct {
	ctx      context.Context
	ctrl     *wizard.Controller
	controls *controls.Table
	styles   Styles
	logger   logr.Logger
	columns  int

	step       string
	buffer     []rune
	cursor     int
	shake      int
	submitting bool
	submitErr  error
	done       bool
	aborted    bool
	measured   map[string]bool
}

// New builds a model for ctrl. ctx is handed to the submit capability.
func New(ctx context.Context, ctrl *wizard.Controller, options ...Option) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		controls: controls.Default(),
		styles:   DefaultStyles(),
		logger:   logr.Discard(),
		columns:  DefaultColumns,
		shake:    -1,
		measured: make(map[string]bool),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Init lays out the registered steps so the controller captures its base size.
func (m *Model) Init() bubbletea.Cmd {
	m.layout()
	m.sync(m.ctrl.Snapshot())
	return nil
}

// Update implements bubbletea.Model.
func (m *Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case animationDoneMsg:
		m.ctrl.NotifyAnimationComplete()
		return m, nil
	case shakeMsg:
		m.shake++
		if m.shake >= len(shakeOffsets) {
			m.shake = -1
			return m, nil
		}
		return m, shakeTick()
	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.submitErr = msg.err
			m.ctrl.ResumeEditing()
			m.logger.Error(msg.err, "submit failed")
			return m, m.startShake()
		}
		m.done = true
		return m, bubbletea.Quit
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || m.ctrl.Closed() {
		m.aborted = !m.done
		return m, bubbletea.Quit
	}
	if m.submitting || m.done {
		return m, nil
	}

	snap := m.ctrl.Snapshot()
	m.sync(snap)
	input := snap.ActiveInput
	kind := m.kindOf(snap)

	switch key {
	case "esc":
		return m, m.after(snap, m.ctrl.RequestBack(), false)
	case "tab":
		if snap.Config.Tabs {
			return m, m.after(snap, m.ctrl.JumpTo(snap.ActiveIndex+1), true)
		}
		return m, nil
	case "shift+tab":
		if snap.Config.Tabs {
			return m, m.after(snap, m.ctrl.JumpTo(snap.ActiveIndex-1), false)
		}
		return m, nil
	case "enter":
		if snap.IsSubmitPage {
			m.submitting = true
			m.submitErr = nil
			return m, m.submit()
		}
		if kind == model.ControlRadio || kind == model.ControlSelect {
			if m.cursor < len(input.Options) {
				m.commit(input, input.Options[m.cursor].Value)
			}
		}
		return m, m.after(snap, m.ctrl.RequestNext(), true)
	}

	switch kind {
	case model.ControlRadio, model.ControlSelect, model.ControlCheckbox:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(input.Options)-1 {
				m.cursor++
			}
		case " ", "x":
			if kind == model.ControlCheckbox && m.cursor < len(input.Options) {
				m.toggle(input, input.Options[m.cursor].Value)
			}
		}
	case "":
	default:
		switch msg.Type {
		case bubbletea.KeyBackspace:
			if len(m.buffer) > 0 {
				m.buffer = m.buffer[:len(m.buffer)-1]
				m.commit(input, string(m.buffer))
			}
		case bubbletea.KeyRunes, bubbletea.KeySpace:
			if msg.Type == bubbletea.KeySpace {
				m.buffer = append(m.buffer, ' ')
			} else {
				m.buffer = append(m.buffer, msg.Runes...)
			}
			m.commit(input, string(m.buffer))
		}
	}
	return m, nil
}

// after reconciles the view with a navigation request: a step change starts
// the transition timer and a failed validation starts the shake.
func (m *Model) after(before wizard.Snapshot, moved, validated bool) bubbletea.Cmd {
	snap := m.ctrl.Snapshot()
	var cmds []bubbletea.Cmd
	if snap.ActiveIndex != before.ActiveIndex {
		m.submitErr = nil
		m.layout()
		m.sync(snap)
		if snap.Animating {
			cmds = append(cmds, bubbletea.Tick(animation.Duration, func(time.Time) bubbletea.Msg {
				return animationDoneMsg{}
			}))
		}
	}
	if validated && !moved && snap.Error.Active {
		cmds = append(cmds, m.startShake())
	}
	return bubbletea.Batch(cmds...)
}

func (m *Model) startShake() bubbletea.Cmd {
	m.shake = 0
	return shakeTick()
}

func shakeTick() bubbletea.Cmd {
	return bubbletea.Tick(shakeFrame, func(time.Time) bubbletea.Msg {
		return shakeMsg{}
	})
}

func (m *Model) submit() bubbletea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() bubbletea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

func (m *Model) commit(input model.Input, raw any) {
	value, err := m.controls.For(input).Coerce(input, raw)
	if err != nil {
		m.logger.V(1).Info("answer rejected", "step", input.Name, "error", err.Error())
		return
	}
	m.ctrl.SetValue(input.Name, value)
}

func (m *Model) toggle(input model.Input, option string) {
	selected := make(map[string]bool)
	for _, name := range controls.Selected(input.Value) {
		selected[name] = true
	}
	selected[option] = !selected[option]
	m.commit(input, selected)
}

// sync resets the edit buffer and cursor when the active step changes.
func (m *Model) sync(snap wizard.Snapshot) {
	input := snap.ActiveInput
	if input.Name == m.step {
		return
	}
	m.step = input.Name
	m.buffer = nil
	m.cursor = 0
	if snap.IsSubmitPage {
		return
	}
	switch m.kindOf(snap) {
	case model.ControlRadio, model.ControlSelect:
		current, _ := input.Value.(string)
		for i, option := range input.Options {
			if option.Value == current {
				m.cursor = i
			}
		}
	case model.ControlCheckbox:
	default:
		m.buffer = []rune(m.controls.For(input).Format(input, input.Value))
	}
}

// layout reports the size of every step not measured yet, active step first,
// in the pixel units the animator works in.
func (m *Model) layout() {
	snap := m.ctrl.Snapshot()
	order := make([]model.Input, 0, len(snap.Inputs))
	if !snap.IsSubmitPage {
		order = append(order, snap.ActiveInput)
	}
	order = append(order, snap.Inputs...)
	for _, input := range order {
		if m.measured[input.Name] {
			continue
		}
		m.measured[input.Name] = true
		m.ctrl.NotifyMeasured(input.Name, m.stepSize(input))
	}
}

func (m *Model) stepSize(input model.Input) model.Size {
	lines := 2
	if input.Caption != "" {
		lines++
	}
	if len(input.Options) > 0 {
		lines += len(input.Options) - 1
	}
	return model.Size{
		Width:  float64(m.columns * CellWidth),
		Height: float64(lines * LineHeight),
	}
}

func (m *Model) kindOf(snap wizard.Snapshot) model.ControlKind {
	if snap.IsSubmitPage {
		return ""
	}
	return m.controls.For(snap.ActiveInput).Kind
}

// BoxWidth is the width in cells of the step box for snap.
func (m *Model) BoxWidth(snap wizard.Snapshot) int {
	width := int(math.Round(float64(m.columns) * snap.Animation.WidthScale))
	if width < minColumns {
		width = minColumns
	}
	return width
}

// View implements bubbletea.Model.
func (m *Model) View() string {
	snap := m.ctrl.Snapshot()
	var b strings.Builder

	if snap.Config.Tabs {
		b.WriteString(m.tabs(snap))
		b.WriteString("\n")
	}

	box := m.styles.Box
	switch {
	case m.done:
		box = m.styles.DoneBox
	case snap.Error.Active || m.submitErr != nil:
		box = m.styles.ErrorBox
	}
	margin := shakeMargin
	if m.shake >= 0 && m.shake < len(shakeOffsets) {
		margin += shakeOffsets[m.shake]
	}
	b.WriteString(box.Width(m.BoxWidth(snap)).MarginLeft(margin).Render(m.content(snap)))
	b.WriteString("\n")

	help := "enter next · esc back"
	if snap.Config.Tabs {
		help += " · tab jump"
	}
	b.WriteString(m.styles.Footer.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) tabs(snap wizard.Snapshot) string {
	parts := make([]string, 0, len(snap.Inputs)+1)
	for i, input := range snap.Inputs {
		parts = append(parts, m.tab(i == snap.ActiveIndex, displayLabel(input)))
	}
	parts = append(parts, m.tab(snap.IsSubmitPage, snap.Config.SubmitText))
	return strings.Join(parts, " ")
}

func (m *Model) tab(active bool, label string) string {
	if active {
		return m.styles.ActiveTab.Render(markActive + " " + label)
	}
	return m.styles.Tab.Render(markInactive + " " + label)
}

func (m *Model) content(snap wizard.Snapshot) string {
	var lines []string
	switch {
	case m.done:
		lines = append(lines, m.styles.Label.Render("✓ "+snap.Config.SubmitText))
	case snap.IsSubmitPage:
		label := "[ " + snap.Config.SubmitText + " ]"
		if m.submitting {
			label = snap.Config.SubmitText + "…"
		}
		lines = append(lines, m.styles.Cursor.Render(label))
	default:
		input := snap.ActiveInput
		lines = append(lines, m.styles.Label.Render(displayLabel(input)))
		if input.Caption != "" {
			lines = append(lines, m.styles.Caption.Render(input.Caption))
		}
		lines = append(lines, m.field(snap)...)
	}

	switch {
	case snap.Error.Active:
		lines = append(lines, m.styles.Error.Render(snap.Error.Message))
	case m.submitErr != nil:
		lines = append(lines, m.styles.Error.Render(m.submitErr.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) field(snap wizard.Snapshot) []string {
	input := snap.ActiveInput
	kind := m.kindOf(snap)
	switch kind {
	case model.ControlRadio, model.ControlSelect, model.ControlCheckbox:
		selected := make(map[string]bool)
		for _, name := range controls.Selected(input.Value) {
			selected[name] = true
		}
		current, _ := input.Value.(string)
		lines := make([]string, 0, len(input.Options))
		for i, option := range input.Options {
			mark := markRadioOff
			switch {
			case kind == model.ControlCheckbox && selected[option.Value]:
				mark = markChecked
			case kind == model.ControlCheckbox:
				mark = markEmpty
			case option.Value == current:
				mark = markRadioOn
			}
			line := fmt.Sprintf("  %s %s", mark, option.Display())
			if i == m.cursor {
				line = m.styles.Cursor.Render(fmt.Sprintf("› %s %s", mark, option.Display()))
			}
			lines = append(lines, line)
		}
		return lines
	default:
		if len(m.buffer) == 0 && input.Placeholder != "" {
			return []string{"> " + m.styles.Caption.Render(input.Placeholder)}
		}
		return []string{"> " + string(m.buffer) + m.styles.Cursor.Render("█")}
	}
}

// Submitted reports whether the wizard was submitted successfully.
func (m *Model) Submitted() bool {
	return m.done
}

// Aborted reports whether the user quit before submitting.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Run drives ctrl in a bubbletea program until it is submitted and returns the
// collected values.
func Run(ctx context.Context, ctrl *wizard.Controller, options []Option, programOptions ...bubbletea.ProgramOption) (map[string]any, error) {
	if ctrl == nil {
		return nil, ErrControllerRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(ctx, ctrl, options...)
	opts := append([]bubbletea.ProgramOption{bubbletea.WithContext(ctx)}, programOptions...)
	final, err := bubbletea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("tea: run program: %w", err)
	}
	if fm, ok := final.(*Model); ok && !fm.Submitted() {
		return nil, ErrAborted
	}
	return ctrl.CollectedValues(), nil
}

func displayLabel(input model.Input) string {
	if input.Label != "" {
		return input.Label
	}
	return input.Name
}
