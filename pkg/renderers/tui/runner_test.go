package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	infoMessages []string
	messages     []string
	inputPos     int
	selectPos    int
	multiPos     int
}

func (s *stubDriver) Ask(_ context.Context, prompt TextPrompt) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.messages = append(s.messages, prompt.Label)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Choose(_ context.Context, prompt ChoicePrompt) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.messages = append(s.messages, prompt.Label)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) ChooseMany(_ context.Context, prompt ChoicePrompt) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	s.messages = append(s.messages, prompt.Label)
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Say(_ context.Context, line string) error {
	s.infoMessages = append(s.infoMessages, line)
	return nil
}

func newController(t *testing.T, inputs []model.Input, options ...wizard.Option) *wizard.Controller {
	t.Helper()
	ctrl := wizard.New(options...)
	t.Cleanup(ctrl.Close)
	for _, input := range inputs {
		if err := ctrl.Register(input); err != nil {
			t.Fatalf("register %s: %v", input.Name, err)
		}
	}
	return ctrl
}

func bookmarkSteps() []model.Input {
	return []model.Input{
		{
			Name:  "url",
			Kind:  model.ControlText,
			Label: "Link",
			Rules: []model.ValidationRule{model.Rule("required")},
			Value: "",
		},
		{
			Name:  "type",
			Kind:  model.ControlRadio,
			Label: "Type",
			Options: []model.Option{
				{Value: "Guide"},
				{Value: "Tutorial"},
				{Value: "Reference"},
			},
			Value: "",
		},
		{
			Name:  "topics",
			Kind:  model.ControlCheckbox,
			Label: "Topics",
			Options: []model.Option{
				{Value: "go"},
				{Value: "css"},
				{Value: "http"},
			},
			Value: map[string]bool{"go": false, "css": false, "http": false},
		},
	}
}

func TestRun_CollectsEveryStepAndSubmits(t *testing.T) {
	var submitted map[string]any
	ctrl := newController(t, bookmarkSteps(), wizard.WithSubmitHandler(wizard.SubmitFunc(func(_ context.Context, values map[string]any) error {
		submitted = values
		return nil
	})))
	driver := &stubDriver{
		inputs:    []string{"", "https://example.com"},
		selectIdx: []int{1, 0},
		multiIdx:  [][]int{{0, 2}},
	}

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := map[string]any{
		"url":    "https://example.com",
		"type":   "Tutorial",
		"topics": map[string]bool{"go": true, "css": false, "http": true},
	}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded["type"] != "Tutorial" {
		t.Fatalf("expected type in output, got %v", decoded)
	}
	if driver.inputPos != 2 || driver.selectPos != 2 || driver.multiPos != 1 {
		t.Fatalf("prompts not consumed as expected: %+v", driver)
	}
	if !contains(driver.infoMessages, "✗ This field is required") {
		t.Fatalf("expected validation message to be printed, got %v", driver.infoMessages)
	}
	if !contains(driver.infoMessages, "Topics: go, http") {
		t.Fatalf("expected summary line, got %v", driver.infoMessages)
	}
	if !ctrl.Snapshot().Submitted {
		t.Fatalf("expected controller to report submitted")
	}
}

func TestRun_BackNavigation(t *testing.T) {
	ctrl := newController(t, []model.Input{
		{Name: "first", Kind: model.ControlText, Value: ""},
		{Name: "second", Kind: model.ControlText, Value: ""},
	})
	driver := &stubDriver{
		inputs: []string{"a", BackToken, "b", "c", "d"},
		// The submit step goes back once before submitting.
		selectIdx: []int{1, 0},
	}

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]string{"first": "b", "second": "d"}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"first", "second", "first", "second", "Submit?", "second", "Submit?"}
	if diff := cmp.Diff(wantPrompts, driver.messages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BackFromChoiceStep(t *testing.T) {
	steps := bookmarkSteps()[:2]
	steps[0].Rules = nil
	ctrl := newController(t, steps)
	driver := &stubDriver{
		inputs: []string{"one", "two"},
		// "← Back" is appended after the three options.
		selectIdx: []int{3, 2, 0},
	}

	out, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText)).Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Link: two\nType: Reference\n"
	if string(out) != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRun_SubmitFailureReturnsToSubmitStep(t *testing.T) {
	calls := 0
	ctrl := newController(t, []model.Input{{Name: "name", Kind: model.ControlText, Value: ""}},
		wizard.WithSubmitHandler(wizard.SubmitFunc(func(context.Context, map[string]any) error {
			calls++
			if calls == 1 {
				return errors.New("server unavailable")
			}
			return nil
		})))
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		selectIdx: []int{0, 0},
	}

	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), ctrl); err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two submit attempts, got %d", calls)
	}
	if !contains(driver.infoMessages, "✗ server unavailable") {
		t.Fatalf("expected submit error to be printed, got %v", driver.infoMessages)
	}
}

func TestRun_RepromptsWhenAnswerCannotBeCoerced(t *testing.T) {
	table := controls.NewTable()
	err := table.Register(controls.Control{
		Kind: "rating",
		Zero: func(model.Input) any { return 0 },
		Coerce: func(_ model.Input, raw any) (any, error) {
			n, err := strconv.Atoi(strings.TrimSpace(raw.(string)))
			if err != nil {
				return nil, errors.New("rating must be a number")
			}
			return n, nil
		},
		Format: func(_ model.Input, value any) string { return fmt.Sprint(value) },
	})
	if err != nil {
		t.Fatalf("register control: %v", err)
	}
	ctrl := newController(t, []model.Input{{Name: "stars", Kind: "rating", Value: 0}})
	driver := &stubDriver{
		inputs:    []string{"x", "5"},
		selectIdx: []int{0},
	}
	r := New(WithPromptDriver(driver), WithControls(table), WithTheme(Theme{ErrorPrefix: "! "}))

	out, err := r.Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !contains(driver.infoMessages, "! rating must be a number") {
		t.Fatalf("expected coercion error, got %v", driver.infoMessages)
	}
	if strings.TrimSpace(string(out)) != "{\n  \"stars\": 5\n}" {
		t.Fatalf("unexpected output %q", out)
	}
	if r.theme.BackLabel != DefaultTheme().BackLabel {
		t.Fatalf("expected blank theme fields to keep defaults")
	}
}

func TestRun_PropagatesDriverErrors(t *testing.T) {
	ctrl := newController(t, []model.Input{{Name: "name", Kind: model.ControlText, Value: ""}})
	_, err := New(WithPromptDriver(&stubDriver{})).Run(context.Background(), ctrl)
	if err == nil || !strings.Contains(err.Error(), "no input scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestRun_Preconditions(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Run(context.Background(), nil); !errors.Is(err, ErrControllerRequired) {
		t.Fatalf("expected ErrControllerRequired, got %v", err)
	}

	ctrl := wizard.New()
	ctrl.Close()
	if _, err := r.Run(context.Background(), ctrl); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	open := wizard.New()
	defer open.Close()
	if _, err := r.Run(ctx, open); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	if got := New(WithPromptDriver(&stubDriver{})).ContentType(); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(OutputFormatPrettyText)).ContentType(); got != "text/plain" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
