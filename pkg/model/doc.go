// Package model defines the step descriptors shared by the wizard engine and
// the rendering layers that drive it. An Input describes one step: its
// presentation metadata (label, caption, icon), the control kind used to
// collect the value, the ordered validation rules evaluated before the wizard
// may advance, and the last value reported by the rendering layer.
//
// Validation rules are a canonical Kind plus
// string parameters (Params["value"] for thresholds, Params["pattern"] for
// regular expressions) so definitions stay serialisable and deterministic.
package model
