package animation

import (
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
)

const (
	// DefaultBaseHeight is the resting step height before anything is measured.
	DefaultBaseHeight = 60
	// DefaultSubmitHeight is the height of the synthetic submit step.
	DefaultSubmitHeight = 40
	// DefaultSubmitWidth is the width of the synthetic submit step.
	DefaultSubmitWidth = 110
)

// Geometry memoises the base size of one wizard instance and resolves the
// target size of each step. The base size is captured once.
type Geometry struct {
	mu           sync.Mutex
	base         model.Size
	captured     bool
	baseHeight   float64
	submitWidth  float64
	submitHeight float64
}

// NewGeometry builds a Geometry. Non-positive arguments use the defaults.
func NewGeometry(baseHeight, submitWidth, submitHeight float64) *Geometry {
	if baseHeight <= 0 {
		baseHeight = DefaultBaseHeight
	}
	if submitWidth <= 0 {
		submitWidth = DefaultSubmitWidth
	}
	if submitHeight <= 0 {
		submitHeight = DefaultSubmitHeight
	}
	return &Geometry{
		baseHeight:   baseHeight,
		submitWidth:  submitWidth,
		submitHeight: submitHeight,
	}
}

// Capture records the base size from the first rendered step. Later calls are
// ignored; it reports whether this call captured. A missing height uses the
// configured base height.
func (g *Geometry) Capture(size model.Size) bool {
	if size.Width <= 0 {
		return false
	}
	if size.Height <= 0 {
		size.Height = g.baseHeight
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.captured {
		return false
	}
	g.base = size
	g.captured = true
	return true
}

// Base returns the captured base size, or a size with only the configured
// height when nothing has been captured yet.
func (g *Geometry) Base() (model.Size, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.captured {
		return model.Size{Height: g.baseHeight}, false
	}
	return g.base, true
}

// StepSize resolves the target size of a step. measured wins over the declared
// height; steps without either rest at the base size. The submit step always
// uses the submit dimensions.
func (g *Geometry) StepSize(input *model.Input, measured model.Size, submit bool) model.Size {
	base, _ := g.Base()
	if submit {
		return model.Size{Width: g.submitWidth, Height: g.submitHeight}
	}
	size := model.Size{Width: base.Width, Height: base.Height}
	if measured.Height > 0 {
		size.Height = measured.Height
	} else if input != nil && input.Height != nil && *input.Height > 0 {
		size.Height = *input.Height
	}
	return size
}

// Transition computes the animation between two resolved step sizes against
// the memoised base.
func (g *Geometry) Transition(prev, next model.Size) Params {
	base, _ := g.Base()
	return Compute(prev, next, base)
}
