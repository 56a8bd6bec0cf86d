package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// TextPrompt asks for a free text answer.
type TextPrompt struct {
	Label   string
	Current string
	Hint    string
}

// ChoicePrompt asks the user to pick from Choices. Selected is the preselected
// index of a single choice (-1 for none); Checked holds the preselected
// indices of a multi choice.
type ChoicePrompt struct {
	Label    string
	Choices  []string
	Selected int
	Checked  []int
	Hint     string
	Rows     int
}

// PromptDriver is the terminal the runner talks to. Answers to choice prompts
// are indices into Choices.
type PromptDriver interface {
	Ask(ctx context.Context, prompt TextPrompt) (string, error)
	Choose(ctx context.Context, prompt ChoicePrompt) (int, error)
	ChooseMany(ctx context.Context, prompt ChoicePrompt) ([]int, error)
	Say(ctx context.Context, line string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns the default driver backed by survey. Prompts and
// messages go to out, or stdout when out is nil, so collected values can be
// written to a separate stream.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	d := &surveyDriver{out: out}
	if fw, ok := out.(terminal.FileWriter); ok {
		d.opts = append(d.opts, survey.WithStdio(os.Stdin, fw, os.Stderr))
	}
	return d
}

func (d *surveyDriver) Ask(ctx context.Context, prompt TextPrompt) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Input{
		Message: prompt.Label,
		Default: prompt.Current,
		Help:    prompt.Hint,
	}, &answer)
	return answer, err
}

func (d *surveyDriver) Choose(ctx context.Context, prompt ChoicePrompt) (int, error) {
	q := &survey.Select{
		Message:  prompt.Label,
		Options:  prompt.Choices,
		Help:     prompt.Hint,
		PageSize: prompt.Rows,
	}
	if prompt.Selected >= 0 && prompt.Selected < len(prompt.Choices) {
		q.Default = prompt.Selected
	}
	var index int
	if err := d.ask(ctx, q, &index); err != nil {
		return -1, err
	}
	return index, nil
}

func (d *surveyDriver) ChooseMany(ctx context.Context, prompt ChoicePrompt) ([]int, error) {
	q := &survey.MultiSelect{
		Message:  prompt.Label,
		Options:  prompt.Choices,
		Help:     prompt.Hint,
		PageSize: prompt.Rows,
	}
	if checked := inRange(prompt.Checked, len(prompt.Choices)); len(checked) > 0 {
		q.Default = checked
	}
	var indices []int
	if err := d.ask(ctx, q, &indices); err != nil {
		return nil, err
	}
	return indices, nil
}

func (d *surveyDriver) Say(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, line)
	return err
}

// ask runs one survey question. survey blocks on the terminal and cannot be
// cancelled, so the context is only checked before asking.
func (d *surveyDriver) ask(ctx context.Context, q survey.Prompt, answer any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(q, answer, d.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func inRange(indices []int, n int) []int {
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			out = append(out, idx)
		}
	}
	return out
}
