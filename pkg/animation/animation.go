// Package animation computes the paired scale transitions applied when the
// active wizard step changes size. The outer keyframes scale the step
// container; the inverse keyframes scale its content by the reciprocal so the
// content never looks stretched while the container morphs.
package animation

import (
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
)

const (
	// Duration is shared by the outer and inverse keyframes.
	Duration = 400 * time.Millisecond
	// FocusDelay is the wait before focus moves to the newly active step.
	FocusDelay = 450 * time.Millisecond
	// Timing is the keyframe timing function.
	Timing = "linear"
	// FillMode keeps the final keyframe applied after completion.
	FillMode = "forwards"
)

// Origin is a CSS-style transform origin.
type Origin string

const (
	OriginCenterTop Origin = "center top"
	OriginLeftTop   Origin = "left top"
)

// Scale is a pair of axis ratios.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Unit is the identity scale.
var Unit = Scale{X: 1, Y: 1}

// Inverse returns the reciprocal scale. Zero axes stay at 1.
func (s Scale) Inverse() Scale {
	return Scale{X: reciprocal(s.X), Y: reciprocal(s.Y)}
}

// Keyframes describes one scale animation from From to To.
type Keyframes struct {
	From     Scale         `json:"from"`
	To       Scale         `json:"to"`
	Origin   Origin        `json:"origin"`
	Duration time.Duration `json:"duration"`
	Timing   string        `json:"timing"`
	FillMode string        `json:"fillMode"`
}

// Params is the geometry the rendering layer applies for one transition.
type Params struct {
	WidthScale  float64   `json:"widthScale"`
	HeightScale float64   `json:"heightScale"`
	Outer       Keyframes `json:"outer"`
	Inverse     Keyframes `json:"inverse"`
	// Pending is set when a size was unavailable and the base size was used in
	// its place; the rendering layer should re-measure.
	Pending bool `json:"pending,omitempty"`
}

// Identity is the resting geometry: no scaling.
func Identity() Params {
	return Params{
		WidthScale:  1,
		HeightScale: 1,
		Outer:       keyframes(Unit, Unit, OriginCenterTop),
		Inverse:     keyframes(Unit, Unit, OriginLeftTop),
	}
}

// Compute derives the transition from prev to next, both expressed relative to
// base. It is a pure function of its inputs.
func Compute(prev, next, base model.Size) Params {
	pending := false
	if !base.Known() {
		return withPending(Identity(), !prev.Known() || !next.Known())
	}
	if !next.Known() {
		next = fill(next, base)
		pending = true
	}
	if !prev.Known() {
		prev = fill(prev, base)
		pending = true
	}

	from := Scale{X: prev.Width / base.Width, Y: prev.Height / base.Height}
	to := Scale{X: next.Width / base.Width, Y: next.Height / base.Height}

	return Params{
		WidthScale:  to.X,
		HeightScale: to.Y,
		Outer:       keyframes(from, to, OriginCenterTop),
		Inverse:     keyframes(from.Inverse(), to.Inverse(), OriginLeftTop),
		Pending:     pending,
	}
}

func keyframes(from, to Scale, origin Origin) Keyframes {
	return Keyframes{
		From:     from,
		To:       to,
		Origin:   origin,
		Duration: Duration,
		Timing:   Timing,
		FillMode: FillMode,
	}
}

func fill(size, base model.Size) model.Size {
	if size.Width <= 0 {
		size.Width = base.Width
	}
	if size.Height <= 0 {
		size.Height = base.Height
	}
	return size
}

func withPending(p Params, pending bool) Params {
	p.Pending = pending
	return p
}

func reciprocal(v float64) float64 {
	if v == 0 {
		return 1
	}
	return 1 / v
}
