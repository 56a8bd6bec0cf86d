package tui

import (
	"io"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/controls"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "Label: value" line per step.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// BackToken is typed into a text prompt to return to the previous step.
const BackToken = ":back"

// Theme captures the labels and prefixes the runner prints. Keep minimal to
// avoid coupling the step loop to ANSI specifics.
type Theme struct {
	BackLabel   string
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme returns the labels used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		BackLabel:   "← Back",
		InfoPrefix:  "",
		ErrorPrefix: "✗ ",
	}
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Runner) {
		if format != "" {
			r.format = format
		}
	}
}

// WithControls overrides the control table used to pick prompts and coerce
// answers.
func WithControls(table *controls.Table) Option {
	return func(r *Runner) {
		if table != nil {
			r.controls = table
		}
	}
}

// WithTheme applies labels and message prefixes. Blank fields keep their
// defaults.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		if theme.BackLabel != "" {
			r.theme.BackLabel = theme.BackLabel
		}
		if theme.InfoPrefix != "" {
			r.theme.InfoPrefix = theme.InfoPrefix
		}
		if theme.ErrorPrefix != "" {
			r.theme.ErrorPrefix = theme.ErrorPrefix
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger logr.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}
