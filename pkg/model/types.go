package model

import "strings"

// ControlKind is the discriminator used to dispatch a step to the control
// implementation that collects its value.
type ControlKind string

const (
	ControlText     ControlKind = "text"
	ControlRadio    ControlKind = "radio"
	ControlCheckbox ControlKind = "checkbox"
	ControlSelect   ControlKind = "select"
)

// ParseControlKind normalises a raw kind. Unknown or blank values resolve to
// ControlText.
func ParseControlKind(raw string) ControlKind {
	switch ControlKind(strings.ToLower(strings.TrimSpace(raw))) {
	case ControlRadio:
		return ControlRadio
	case ControlCheckbox:
		return ControlCheckbox
	case ControlSelect:
		return ControlSelect
	default:
		return ControlText
	}
}

// ValidationMode selects the strategy used to validate a step.
type ValidationMode string

const (
	// ValidationCustom evaluates the step's Rules against its Value.
	ValidationCustom ValidationMode = "custom"
	// ValidationBuiltin delegates to the rendering layer's native constraint
	// check for the bound node.
	ValidationBuiltin ValidationMode = "builtin"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
	ValidationRuleURL       = "url"
	ValidationRuleOneOf     = "oneOf"
)

// ValidationRule represents a single validation constraint applied to a step.
// Thresholds live in Params["value"], expressions in Params["pattern"], and
// Params["message"] overrides the rule's default message template.
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind" toml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// Rule is a small constructor for ValidationRule literals.
func Rule(kind string, params ...string) ValidationRule {
	rule := ValidationRule{Kind: kind}
	for i := 0; i+1 < len(params); i += 2 {
		if rule.Params == nil {
			rule.Params = make(map[string]string, len(params)/2)
		}
		rule.Params[params[i]] = params[i+1]
	}
	return rule
}

// Option is a selectable choice for radio, select and checkbox controls.
type Option struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// Display returns the label, falling back to the value.
func (o Option) Display() string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return o.Value
}

// NodeRef is a non-owning handle to the rendering layer's live element for a
// step. The engine only hands it back to rendering capabilities.
type NodeRef any

// Size is a measured or declared width/height pair in pixels (or cells for
// terminal renderers).
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Known reports whether both dimensions are positive.
func (s Size) Known() bool {
	return s.Width > 0 && s.Height > 0
}

// Input describes one wizard step.
type Input struct {
	Name        string           `json:"name"`
	Kind        ControlKind      `json:"kind,omitempty"`
	Label       string           `json:"label,omitempty"`
	Caption     string           `json:"caption,omitempty"`
	Icon        string           `json:"icon,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []Option         `json:"options,omitempty"`
	Height      *float64         `json:"height,omitempty"`
	Rules       []ValidationRule `json:"rules,omitempty"`
	Validation  ValidationMode   `json:"validation,omitempty"`
	Node        NodeRef          `json:"-"`
	Value       any              `json:"value,omitempty"`
}

// HasRule reports whether a rule of the given kind is declared.
func (in Input) HasRule(kind string) bool {
	for _, rule := range in.Rules {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share rule, option, height or value
// storage with the receiver. Node is copied by reference.
func (in Input) Clone() Input {
	out := in
	out.Value = CloneValue(in.Value)
	if in.Height != nil {
		h := *in.Height
		out.Height = &h
	}
	if len(in.Options) > 0 {
		out.Options = append([]Option(nil), in.Options...)
	}
	if len(in.Rules) > 0 {
		out.Rules = make([]ValidationRule, len(in.Rules))
		for i, rule := range in.Rules {
			out.Rules[i] = ValidationRule{Kind: rule.Kind}
			if len(rule.Params) > 0 {
				params := make(map[string]string, len(rule.Params))
				for k, v := range rule.Params {
					params[k] = v
				}
				out.Rules[i].Params = params
			}
		}
	}
	return out
}

// Float returns a pointer to v, handy when declaring Input.Height.
func Float(v float64) *float64 {
	return &v
}

// CloneValue deep copies the value shapes controls produce (maps and slices);
// scalars are returned as is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = CloneValue(v)
		}
		return clone
	case map[string]bool:
		clone := make(map[string]bool, len(typed))
		for k, v := range typed {
			clone[k] = v
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = CloneValue(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
