package controls

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

func textControl() Control {
	return Control{
		Kind: model.ControlText,
		Zero: func(model.Input) any { return "" },
		Coerce: func(_ model.Input, raw any) (any, error) {
			switch typed := raw.(type) {
			case nil:
				return "", nil
			case string:
				return typed, nil
			case fmt.Stringer:
				return typed.String(), nil
			case bool, int, int64, float64:
				return fmt.Sprint(typed), nil
			default:
				return nil, fmt.Errorf("%w: %T for text", ErrUnsupportedValue, raw)
			}
		},
		Format: func(_ model.Input, value any) string {
			if value == nil {
				return ""
			}
			return fmt.Sprint(value)
		},
	}
}

func radioControl(kind model.ControlKind) Control {
	return Control{
		Kind: kind,
		Zero: func(model.Input) any { return "" },
		Coerce: func(in model.Input, raw any) (any, error) {
			text, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %T for %s", ErrUnsupportedValue, raw, kind)
			}
			if strings.TrimSpace(text) == "" {
				return "", nil
			}
			option, ok := findOption(in.Options, text)
			if !ok {
				return nil, fmt.Errorf("%w %q", ErrUnknownOption, text)
			}
			return option.Value, nil
		},
		Format: func(in model.Input, value any) string {
			text, _ := value.(string)
			if option, ok := findOption(in.Options, text); ok {
				return option.Display()
			}
			return text
		},
	}
}

func checkboxControl() Control {
	return Control{
		Kind:     model.ControlCheckbox,
		Multiple: true,
		Zero: func(in model.Input) any {
			values := make(map[string]bool, len(in.Options))
			for _, option := range in.Options {
				values[option.Value] = false
			}
			return values
		},
		Coerce: coerceCheckbox,
		Format: func(in model.Input, value any) string {
			selected := Selected(value)
			labels := make([]string, 0, len(selected))
			for _, name := range selected {
				if option, ok := findOption(in.Options, name); ok {
					labels = append(labels, option.Display())
					continue
				}
				labels = append(labels, name)
			}
			return strings.Join(labels, ", ")
		},
	}
}

func coerceCheckbox(in model.Input, raw any) (any, error) {
	values := make(map[string]bool, len(in.Options))
	for _, option := range in.Options {
		values[option.Value] = false
	}
	mark := func(name string) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}
		if len(in.Options) == 0 {
			values[name] = true
			return nil
		}
		option, ok := findOption(in.Options, name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownOption, name)
		}
		values[option.Value] = true
		return nil
	}

	switch typed := raw.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(typed, ",") {
			if err := mark(part); err != nil {
				return nil, err
			}
		}
	case []string:
		for _, item := range typed {
			if err := mark(item); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %T in checkbox list", ErrUnsupportedValue, item)
			}
			if err := mark(text); err != nil {
				return nil, err
			}
		}
	case map[string]bool:
		for name, on := range typed {
			if !on {
				continue
			}
			if err := mark(name); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		for name, on := range typed {
			if flag, ok := on.(bool); ok && flag {
				if err := mark(name); err != nil {
					return nil, err
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T for checkbox", ErrUnsupportedValue, raw)
	}
	return values, nil
}

// Selected returns the sorted option values set to true in a checkbox value.
// Lists are returned sorted; other shapes yield nil.
func Selected(value any) []string {
	var out []string
	switch typed := value.(type) {
	case map[string]bool:
		for name, on := range typed {
			if on {
				out = append(out, name)
			}
		}
	case map[string]any:
		for name, on := range typed {
			if flag, ok := on.(bool); ok && flag {
				out = append(out, name)
			}
		}
	case []string:
		out = append(out, typed...)
	case []any:
		for _, item := range typed {
			if text, ok := item.(string); ok {
				out = append(out, text)
			}
		}
	default:
		return nil
	}
	sort.Strings(out)
	return out
}

func findOption(options []model.Option, raw string) (model.Option, bool) {
	needle := strings.TrimSpace(raw)
	for _, option := range options {
		if option.Value == needle {
			return option, true
		}
	}
	for _, option := range options {
		if strings.EqualFold(option.Display(), needle) {
			return option, true
		}
	}
	return model.Option{}, false
}
