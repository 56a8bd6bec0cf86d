package wizard

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/animation"
)

// DefaultSubmitText labels the synthetic submit step.
const DefaultSubmitText = "Submit"

// Config is the construction time configuration of a wizard instance.
type Config struct {
	// Tabs shows the step indicator.
	Tabs bool `json:"tabs" yaml:"tabs" toml:"tabs"`
	// SubmitText labels the submit step.
	SubmitText string `json:"submitText" yaml:"submitText" toml:"submitText"`
	// SubmitWidth is the target width of the submit step.
	SubmitWidth float64 `json:"submitWidth" yaml:"submitWidth" toml:"submitWidth"`
	// SubmitHeight is the target height of the submit step.
	SubmitHeight float64 `json:"submitHeight" yaml:"submitHeight" toml:"submitHeight"`
	// BaseHeight is the resting step height used before measurement.
	BaseHeight float64 `json:"baseHeight" yaml:"baseHeight" toml:"baseHeight"`
	// InitialFocus focuses the first step on mount.
	InitialFocus bool `json:"initialFocus" yaml:"initialFocus" toml:"initialFocus"`
}

// DefaultConfig returns the defaults. Decode documents over it so absent
// booleans keep their default.
func DefaultConfig() Config {
	return Config{
		Tabs:         true,
		SubmitText:   DefaultSubmitText,
		SubmitWidth:  animation.DefaultSubmitWidth,
		SubmitHeight: animation.DefaultSubmitHeight,
		BaseHeight:   animation.DefaultBaseHeight,
		InitialFocus: true,
	}
}

// Normalize fills blank text and non-positive dimensions with defaults.
func (c Config) Normalize() Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.SubmitText) == "" {
		c.SubmitText = defaults.SubmitText
	}
	if c.SubmitWidth <= 0 {
		c.SubmitWidth = defaults.SubmitWidth
	}
	if c.SubmitHeight <= 0 {
		c.SubmitHeight = defaults.SubmitHeight
	}
	if c.BaseHeight <= 0 {
		c.BaseHeight = defaults.BaseHeight
	}
	return c
}
