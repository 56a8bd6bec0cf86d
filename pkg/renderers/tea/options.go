package tea

import (
	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/controls"
)

const (
	// DefaultColumns is the width of a step box at scale 1.
	DefaultColumns = 48
	// CellWidth and LineHeight convert terminal cells to the pixel units the
	// animator works in.
	CellWidth  = 8
	LineHeight = 20

	minColumns = 14
)

// Option configures a Model.
type Option func(*Model)

// WithColumns sets the width of a step box at scale 1.
func WithColumns(columns int) Option {
	return func(m *Model) {
		if columns >= minColumns {
			m.columns = columns
		}
	}
}

// WithStyles replaces the default styles.
func WithStyles(styles Styles) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithControls overrides the control table used to coerce answers.
func WithControls(table *controls.Table) Option {
	return func(m *Model) {
		if table != nil {
			m.controls = table
		}
	}
}

// WithLogger sets the model logger.
func WithLogger(logger logr.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}
