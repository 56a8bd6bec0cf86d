// Package keyframes renders a wizard snapshot's transition geometry as CSS:
// the paired outer and inverse scale keyframes, the scale compensated border
// radius and shadow, and the error shake. Colours and radius come from
// go-theme tokens when a theme is configured.
package keyframes

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwizard/pkg/animation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

//go:embed templates/*.tpl
var templates embed.FS

const templateName = "keyframes.css.tpl"

// Token names read from the theme.
const (
	TokenError   = "error"
	TokenSuccess = "success"
	TokenRadius  = "radius"
	TokenFocus   = "focus"
)

// DefaultTokens are used for any token the theme does not define.
func DefaultTokens() map[string]string {
	return map[string]string{
		TokenError:   "hsla(16, 100%, 40%, .8)",
		TokenSuccess: "hsla(120, 60%, 40%, .8)",
		TokenRadius:  "5",
		TokenFocus:   "hsl(231, 48%, 48%)",
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPrefix sets the class and keyframe name prefix. Defaults to "fw".
func WithPrefix(prefix string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			r.prefix = trimmed
		}
	}
}

// WithThemeSelector resolves tokens through a go-theme selector.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.selector = selector
		r.themeName = strings.TrimSpace(name)
		r.variant = strings.TrimSpace(variant)
	}
}

// WithManifest reads tokens straight from a manifest and optional variant.
func WithManifest(manifest *theme.Manifest, variant string) Option {
	return func(r *Renderer) {
		r.manifest = manifest
		r.variant = strings.TrimSpace(variant)
	}
}

// Renderer renders snapshots to CSS.
type Renderer struct {
	tpl       *pongo2.Template
	prefix    string
	selector  theme.ThemeSelector
	themeName string
	variant   string
	manifest  *theme.Manifest
}

// New compiles the embedded template.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{prefix: "fw"}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	set := pongo2.NewSet("formwizard-keyframes", pongo2.NewFSLoader(templates))
	tpl, err := set.FromFile("templates/" + templateName)
	if err != nil {
		return nil, fmt.Errorf("keyframes: load template: %w", err)
	}
	r.tpl = tpl
	return r, nil
}

// Tokens resolves the effective token map: defaults, then manifest tokens,
// then variant tokens.
func (r *Renderer) Tokens() (map[string]string, error) {
	tokens := DefaultTokens()
	manifest, variant := r.manifest, r.variant
	if r.selector != nil {
		selection, err := r.selector.Select(r.themeName, r.variant)
		if err != nil {
			return nil, fmt.Errorf("keyframes: select theme %q: %w", r.themeName, err)
		}
		if selection == nil || selection.Manifest == nil {
			return nil, errors.New("keyframes: theme selection has no manifest")
		}
		manifest, variant = selection.Manifest, selection.Variant
	}
	if manifest == nil {
		return tokens, nil
	}
	merge(tokens, manifest.Tokens)
	if v, ok := manifest.Variants[variant]; ok {
		merge(tokens, v.Tokens)
	}
	return tokens, nil
}

// Render produces the CSS for the snapshot's current transition.
func (r *Renderer) Render(snap wizard.Snapshot) (string, error) {
	tokens, err := r.Tokens()
	if err != nil {
		return "", err
	}
	radius, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(tokens[TokenRadius]), "px"), 64)
	if err != nil || radius < 0 {
		return "", fmt.Errorf("keyframes: invalid radius token %q", tokens[TokenRadius])
	}

	params := snap.Animation
	shadowColor := tokens[TokenSuccess]
	if snap.Error.Active {
		shadowColor = tokens[TokenError]
	}
	cfg := snap.Config.Normalize()

	ctx := pongo2.Context{
		"prefix":        r.prefix,
		"id":            shortID(snap.ID),
		"index":         snap.ActiveIndex,
		"outer":         frames(params.Outer),
		"inverse":       frames(params.Inverse),
		"duration":      params.Outer.Duration.Milliseconds(),
		"timing":        params.Outer.Timing,
		"fill":          params.Outer.FillMode,
		"base_height":   format(cfg.BaseHeight),
		"radius":        format(radius),
		"radius_x":      format(safeDiv(radius, params.WidthScale)),
		"radius_y":      format(safeDiv(radius, params.HeightScale)),
		"shadow":        format(safeDiv(5, params.HeightScale)),
		"shadow_color":  shadowColor,
		"focus_color":   tokens[TokenFocus],
		"submit":        snap.IsSubmitPage,
		"submit_width":  format(cfg.SubmitWidth),
		"submit_height": format(cfg.SubmitHeight),
		"error":         snap.Error.Active,
	}
	if params.Outer.Duration == 0 {
		ctx["duration"] = animation.Duration.Milliseconds()
		ctx["timing"] = animation.Timing
		ctx["fill"] = animation.FillMode
	}

	out, err := r.tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("keyframes: render: %w", err)
	}
	return out, nil
}

func frames(k animation.Keyframes) map[string]any {
	return map[string]any{
		"origin": string(k.Origin),
		"from_x": format(k.From.X),
		"from_y": format(k.From.Y),
		"to_x":   format(k.To.X),
		"to_y":   format(k.To.Y),
	}
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		if strings.TrimSpace(value) != "" {
			dst[key] = value
		}
	}
}

func safeDiv(v, scale float64) float64 {
	if scale <= 0 {
		return v
	}
	return v / scale
}

func format(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "0"
	}
	return id
}
