package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Runner drives a wizard controller from the terminal, one prompt per active
// step. Terminals have no transitions, so every step change is reported to
// the controller as complete straight away.
type Runner struct {
	driver   PromptDriver
	out      io.Writer
	format   OutputFormat
	controls *controls.Table
	theme    Theme
	logger   logr.Logger
}

// New constructs a runner with defaults (survey driver, JSON output).
func New(options ...Option) *Runner {
	r := &Runner{
		format:   OutputFormatJSON,
		controls: controls.Default(),
		theme:    DefaultTheme(),
		logger:   logr.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Runner) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Run.
func (r *Runner) ContentType() string {
	if r.format == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Run prompts until the wizard is submitted and returns the collected values
// serialized in the configured format.
func (r *Runner) Run(ctx context.Context, ctrl *wizard.Controller) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if ctrl == nil {
		return nil, ErrControllerRequired
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ctrl.Closed() {
			return nil, ErrClosed
		}
		ctrl.NotifyAnimationComplete()

		snap := ctrl.Snapshot()
		if snap.IsSubmitPage {
			done, err := r.submitStep(ctx, ctrl, snap)
			if err != nil {
				return nil, err
			}
			if done {
				return r.serialize(snap)
			}
			continue
		}
		if err := r.step(ctx, ctrl, snap); err != nil {
			return nil, err
		}
	}
}

type promptFunc func(r *Runner, ctx context.Context, in model.Input, canBack bool) (raw any, back bool, err error)

var prompts = map[model.ControlKind]promptFunc{
	model.ControlText:     promptText,
	model.ControlRadio:    promptChoice,
	model.ControlSelect:   promptChoice,
	model.ControlCheckbox: promptMulti,
}

func (r *Runner) step(ctx context.Context, ctrl *wizard.Controller, snap wizard.Snapshot) error {
	input := snap.ActiveInput
	if snap.Error.Active && snap.Error.Step == input.Name {
		if err := r.driver.Say(ctx, r.theme.ErrorPrefix+snap.Error.Message); err != nil {
			return err
		}
	}

	control := r.controls.For(input)
	ask, ok := prompts[control.Kind]
	if !ok {
		ask = promptText
	}
	raw, back, err := ask(r, ctx, input, snap.ActiveIndex > 0)
	if err != nil {
		return err
	}
	if back {
		ctrl.RequestBack()
		return nil
	}

	value, err := control.Coerce(input, raw)
	if err != nil {
		r.logger.V(1).Info("answer rejected", "step", input.Name, "error", err.Error())
		return r.driver.Say(ctx, r.theme.ErrorPrefix+err.Error())
	}
	ctrl.SetValue(input.Name, value)
	if !ctrl.RequestNext() {
		r.logger.V(1).Info("step not accepted", "step", input.Name)
	}
	return nil
}

func (r *Runner) submitStep(ctx context.Context, ctrl *wizard.Controller, snap wizard.Snapshot) (bool, error) {
	for _, line := range r.summary(snap) {
		if err := r.driver.Say(ctx, r.theme.InfoPrefix+line); err != nil {
			return false, err
		}
	}

	options := []string{snap.Config.SubmitText}
	if snap.Count() > 0 {
		options = append(options, r.theme.BackLabel)
	}
	idx, err := r.driver.Choose(ctx, ChoicePrompt{
		Label:    snap.Config.SubmitText + "?",
		Choices:  options,
		Selected: 0,
	})
	if err != nil {
		return false, err
	}
	if idx == 1 {
		ctrl.RequestBack()
		return false, nil
	}
	if idx != 0 {
		return false, fmt.Errorf("tui: selection %d out of range", idx)
	}

	if err := ctrl.Submit(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		ctrl.ResumeEditing()
		r.logger.Error(err, "submit failed")
		return false, r.driver.Say(ctx, r.theme.ErrorPrefix+err.Error())
	}
	return true, nil
}

func promptText(r *Runner, ctx context.Context, in model.Input, canBack bool) (any, bool, error) {
	current := r.controls.For(in).Format(in, in.Value)
	answer, err := r.driver.Ask(ctx, TextPrompt{
		Label:   displayLabel(in),
		Current: current,
		Hint:    r.displayHelp(in, canBack),
	})
	if err != nil {
		return nil, false, err
	}
	if canBack && strings.TrimSpace(answer) == BackToken {
		return nil, true, nil
	}
	return answer, false, nil
}

func promptChoice(r *Runner, ctx context.Context, in model.Input, canBack bool) (any, bool, error) {
	labels := optionLabels(in.Options)
	current, _ := in.Value.(string)
	prompt := ChoicePrompt{
		Label:    displayLabel(in),
		Choices:  labels,
		Selected: optionIndex(in.Options, current),
		Hint:     r.displayHelp(in, false),
	}
	if in.Kind == model.ControlSelect {
		prompt.Rows = 10
	}
	if canBack {
		prompt.Choices = append(prompt.Choices, r.theme.BackLabel)
	}
	idx, err := r.driver.Choose(ctx, prompt)
	if err != nil {
		return nil, false, err
	}
	if canBack && idx == len(in.Options) {
		return nil, true, nil
	}
	if idx < 0 || idx >= len(in.Options) {
		return nil, false, fmt.Errorf("tui: selection %d out of range", idx)
	}
	return in.Options[idx].Value, false, nil
}

func promptMulti(r *Runner, ctx context.Context, in model.Input, canBack bool) (any, bool, error) {
	var checked []int
	for _, name := range controls.Selected(in.Value) {
		if idx := optionIndex(in.Options, name); idx >= 0 {
			checked = append(checked, idx)
		}
	}
	prompt := ChoicePrompt{
		Label:    displayLabel(in),
		Choices:  optionLabels(in.Options),
		Selected: -1,
		Checked:  checked,
		Hint:     r.displayHelp(in, false),
	}
	if canBack {
		prompt.Choices = append(prompt.Choices, r.theme.BackLabel)
	}
	picked, err := r.driver.ChooseMany(ctx, prompt)
	if err != nil {
		return nil, false, err
	}
	values := make([]string, 0, len(picked))
	for _, idx := range picked {
		if canBack && idx == len(in.Options) {
			return nil, true, nil
		}
		if idx < 0 || idx >= len(in.Options) {
			return nil, false, fmt.Errorf("tui: selection %d out of range", idx)
		}
		values = append(values, in.Options[idx].Value)
	}
	return values, false, nil
}

func (r *Runner) summary(snap wizard.Snapshot) []string {
	lines := make([]string, 0, len(snap.Inputs))
	for _, input := range snap.Inputs {
		value := r.controls.For(input).Format(input, snap.CollectedValues[input.Name])
		lines = append(lines, fmt.Sprintf("%s: %s", displayLabel(input), value))
	}
	return lines
}

func (r *Runner) serialize(snap wizard.Snapshot) ([]byte, error) {
	if r.format == OutputFormatPrettyText {
		return []byte(strings.Join(r.summary(snap), "\n") + "\n"), nil
	}
	out, err := json.MarshalIndent(snap.CollectedValues, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode values: %w", err)
	}
	return out, nil
}

func displayLabel(in model.Input) string {
	if in.Label != "" {
		return in.Label
	}
	return in.Name
}

func (r *Runner) displayHelp(in model.Input, canBack bool) string {
	help := in.Caption
	if help == "" {
		help = in.Placeholder
	}
	if !canBack {
		return help
	}
	hint := fmt.Sprintf("type %s to return to the previous step", BackToken)
	if help == "" {
		return hint
	}
	return help + " (" + hint + ")"
}

func optionLabels(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		out = append(out, option.Display())
	}
	return out
}

func optionIndex(options []model.Option, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}
