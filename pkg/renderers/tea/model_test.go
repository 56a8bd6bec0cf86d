package tea

import (
	"context"
	"errors"
	"strings"
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newModel(t *testing.T, cfg wizard.Config, handler wizard.SubmitHandler, inputs ...model.Input) (*Model, *wizard.Controller) {
	t.Helper()
	ctrl := wizard.New(wizard.WithConfig(cfg), wizard.WithSubmitHandler(handler))
	t.Cleanup(ctrl.Close)
	for _, input := range inputs {
		if err := ctrl.Register(input); err != nil {
			t.Fatalf("register %s: %v", input.Name, err)
		}
	}
	m := New(context.Background(), ctrl)
	m.Init()
	return m, ctrl
}

func press(m *Model, key bubbletea.KeyType) bubbletea.Cmd {
	_, cmd := m.Update(bubbletea.KeyMsg{Type: key})
	return cmd
}

func typeText(m *Model, text string) {
	m.Update(bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune(text)})
}

func finishAnimation(m *Model) {
	m.Update(animationDoneMsg{})
}

func nameStep() model.Input {
	return model.Input{
		Name:  "name",
		Kind:  model.ControlText,
		Label: "Name",
		Rules: []model.ValidationRule{model.Rule("required")},
		Value: "",
	}
}

func levelStep() model.Input {
	return model.Input{
		Name:    "level",
		Kind:    model.ControlRadio,
		Label:   "Level",
		Options: []model.Option{{Value: "beginner"}, {Value: "expert"}},
		Value:   "",
	}
}

func TestModel_WalksStepsAndSubmits(t *testing.T) {
	var submitted map[string]any
	handler := wizard.SubmitFunc(func(_ context.Context, values map[string]any) error {
		submitted = values
		return nil
	})
	m, ctrl := newModel(t, wizard.DefaultConfig(), handler, nameStep(), levelStep())

	if cmd := press(m, bubbletea.KeyEnter); cmd == nil {
		t.Fatalf("expected shake command on invalid step")
	}
	if m.shake != 0 {
		t.Fatalf("expected shake to start, got frame %d", m.shake)
	}
	if view := m.View(); !strings.Contains(view, "This field is required") {
		t.Fatalf("expected error in view, got:\n%s", view)
	}

	typeText(m, "Ada")
	if snap := ctrl.Snapshot(); snap.Error.Active || snap.CollectedValues["name"] != "Ada" {
		t.Fatalf("expected typed value and cleared error, got %+v", snap)
	}
	if view := m.View(); !strings.Contains(view, "> Ada") {
		t.Fatalf("expected typed text in view, got:\n%s", view)
	}

	if cmd := press(m, bubbletea.KeyEnter); cmd == nil {
		t.Fatalf("expected transition command")
	}
	if snap := ctrl.Snapshot(); snap.ActiveIndex != 1 || !snap.Animating {
		t.Fatalf("expected animating move to step 1, got index %d animating %v", snap.ActiveIndex, snap.Animating)
	}
	finishAnimation(m)

	press(m, bubbletea.KeyDown)
	press(m, bubbletea.KeyEnter)
	finishAnimation(m)

	snap := ctrl.Snapshot()
	if !snap.IsSubmitPage {
		t.Fatalf("expected submit page, got index %d", snap.ActiveIndex)
	}
	if got := m.BoxWidth(snap); got != minColumns {
		t.Fatalf("expected submit box to shrink to %d columns, got %d", minColumns, got)
	}
	if view := m.View(); !strings.Contains(view, "[ Submit ]") {
		t.Fatalf("expected submit button, got:\n%s", view)
	}

	cmd := press(m, bubbletea.KeyEnter)
	if cmd == nil || !m.submitting {
		t.Fatalf("expected submit command")
	}
	_, quit := m.Update(cmd())
	if quit == nil || !m.Submitted() {
		t.Fatalf("expected model to finish after submit")
	}

	want := map[string]any{"name": "Ada", "level": "expert"}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_EscapeGoesBackAndRestoresBuffer(t *testing.T) {
	first := nameStep()
	first.Value = "Grace"
	m, ctrl := newModel(t, wizard.DefaultConfig(), nil, first, levelStep())

	press(m, bubbletea.KeyEnter)
	finishAnimation(m)
	if ctrl.Snapshot().ActiveIndex != 1 {
		t.Fatalf("expected to advance")
	}

	if cmd := press(m, bubbletea.KeyEsc); cmd == nil {
		t.Fatalf("expected transition command on back")
	}
	finishAnimation(m)
	if ctrl.Snapshot().ActiveIndex != 0 {
		t.Fatalf("expected to go back")
	}
	if string(m.buffer) != "Grace" {
		t.Fatalf("expected buffer to hold the step value, got %q", string(m.buffer))
	}

	press(m, bubbletea.KeyBackspace)
	if got := ctrl.Snapshot().CollectedValues["name"]; got != "Grac" {
		t.Fatalf("expected backspace to update value, got %v", got)
	}
}

func TestModel_CheckboxToggle(t *testing.T) {
	topics := model.Input{
		Name:    "topics",
		Kind:    model.ControlCheckbox,
		Label:   "Topics",
		Options: []model.Option{{Value: "go"}, {Value: "css"}},
		Value:   map[string]bool{"go": false, "css": false},
	}
	m, ctrl := newModel(t, wizard.DefaultConfig(), nil, topics)

	press(m, bubbletea.KeySpace)
	press(m, bubbletea.KeyDown)
	press(m, bubbletea.KeySpace)
	press(m, bubbletea.KeyUp)
	press(m, bubbletea.KeySpace)

	want := map[string]bool{"go": false, "css": true}
	if diff := cmp.Diff(want, ctrl.Snapshot().CollectedValues["topics"]); diff != "" {
		t.Fatalf("checkbox value mismatch (-want +got):\n%s", diff)
	}
	if view := m.View(); !strings.Contains(view, "[x] css") {
		t.Fatalf("expected checked option in view, got:\n%s", view)
	}
}

func TestModel_SubmitFailureKeepsSubmitStep(t *testing.T) {
	handler := wizard.SubmitFunc(func(context.Context, map[string]any) error {
		return errors.New("server unavailable")
	})
	m, ctrl := newModel(t, wizard.DefaultConfig(), handler)

	cmd := press(m, bubbletea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	_, shake := m.Update(cmd())
	if shake == nil || m.Submitted() {
		t.Fatalf("expected failed submit to shake without finishing")
	}
	snap := ctrl.Snapshot()
	if snap.State != wizard.StateEditing || !snap.IsSubmitPage {
		t.Fatalf("expected controller back on the submit step, got %+v", snap)
	}
	if view := m.View(); !strings.Contains(view, "server unavailable") {
		t.Fatalf("expected submit error in view, got:\n%s", view)
	}
}

func TestModel_ShakeRunsEveryFrame(t *testing.T) {
	m, _ := newModel(t, wizard.DefaultConfig(), nil, nameStep())
	m.startShake()
	for i := 1; i < len(shakeOffsets); i++ {
		if _, cmd := m.Update(shakeMsg{}); cmd == nil {
			t.Fatalf("expected frame %d to schedule the next", i)
		}
	}
	if _, cmd := m.Update(shakeMsg{}); cmd != nil || m.shake != -1 {
		t.Fatalf("expected shake to stop, frame %d", m.shake)
	}
}

func TestModel_TabsJumpAndIndicator(t *testing.T) {
	m, ctrl := newModel(t, wizard.DefaultConfig(), nil, nameStep(), levelStep())

	if view := m.View(); !strings.Contains(view, markActive+" Name") || !strings.Contains(view, markInactive+" Submit") {
		t.Fatalf("expected tab indicator, got:\n%s", view)
	}

	press(m, bubbletea.KeyTab)
	if snap := ctrl.Snapshot(); snap.ActiveIndex != 0 || !snap.Error.Active {
		t.Fatalf("expected jump to stop on the invalid step, got %+v", snap)
	}

	cfg := wizard.DefaultConfig()
	cfg.Tabs = false
	plain, _ := newModel(t, cfg, nil, nameStep())
	if view := plain.View(); strings.Contains(view, markActive) {
		t.Fatalf("expected no tab indicator, got:\n%s", view)
	}
}

func TestModel_CtrlCAborts(t *testing.T) {
	m, _ := newModel(t, wizard.DefaultConfig(), nil, nameStep())
	if cmd := press(m, bubbletea.KeyCtrlC); cmd == nil || !m.Aborted() {
		t.Fatalf("expected ctrl+c to abort")
	}
}

func TestRun_RequiresController(t *testing.T) {
	if _, err := Run(context.Background(), nil, nil); !errors.Is(err, ErrControllerRequired) {
		t.Fatalf("expected ErrControllerRequired, got %v", err)
	}
}
