package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Rule is a predicate plus the message template reported when it fails.
// Check returns an error when the rule's params are malformed; the gate then
// skips the rule. SkipEmpty rules are not evaluated against empty values.
type Rule struct {
	Check     func(value any, params map[string]string) (bool, error)
	Message   string
	SkipEmpty bool
}

var errMissingParam = errors.New("validation: missing rule parameter")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var patternCache sync.Map

func defaultRules() map[string]Rule {
	return map[string]Rule{
		model.ValidationRuleRequired: {
			Check: func(value any, _ map[string]string) (bool, error) {
				return !IsEmpty(value), nil
			},
			Message: "This field is required",
		},
		model.ValidationRuleMinLength: {
			Check: func(value any, params map[string]string) (bool, error) {
				limit, err := intParam(params)
				if err != nil {
					return false, err
				}
				return Length(value) >= limit, nil
			},
			Message:   "Must be at least {value} characters",
			SkipEmpty: true,
		},
		model.ValidationRuleMaxLength: {
			Check: func(value any, params map[string]string) (bool, error) {
				limit, err := intParam(params)
				if err != nil {
					return false, err
				}
				return Length(value) <= limit, nil
			},
			Message:   "Must be at most {value} characters",
			SkipEmpty: true,
		},
		model.ValidationRulePattern: {
			Check: func(value any, params map[string]string) (bool, error) {
				re, err := compilePattern(params["pattern"])
				if err != nil {
					return false, err
				}
				return re.MatchString(stringValue(value)), nil
			},
			Message:   "Invalid format",
			SkipEmpty: true,
		},
		model.ValidationRuleMin: {
			Check: func(value any, params map[string]string) (bool, error) {
				limit, err := floatParam(params)
				if err != nil {
					return false, err
				}
				num, ok := Number(value)
				return ok && num >= limit, nil
			},
			Message:   "Must be at least {value}",
			SkipEmpty: true,
		},
		model.ValidationRuleMax: {
			Check: func(value any, params map[string]string) (bool, error) {
				limit, err := floatParam(params)
				if err != nil {
					return false, err
				}
				num, ok := Number(value)
				return ok && num <= limit, nil
			},
			Message:   "Must be at most {value}",
			SkipEmpty: true,
		},
		model.ValidationRuleEmail: {
			Check: func(value any, _ map[string]string) (bool, error) {
				return emailPattern.MatchString(strings.TrimSpace(stringValue(value))), nil
			},
			Message:   "Please enter a valid email address",
			SkipEmpty: true,
		},
		model.ValidationRuleURL: {
			Check: func(value any, _ map[string]string) (bool, error) {
				return isHTTPURL(stringValue(value)), nil
			},
			Message:   "Please enter a valid URL",
			SkipEmpty: true,
		},
		model.ValidationRuleOneOf: {
			Check: func(value any, params map[string]string) (bool, error) {
				raw := strings.TrimSpace(params["value"])
				if raw == "" {
					return false, errMissingParam
				}
				current := strings.TrimSpace(stringValue(value))
				for _, candidate := range strings.Split(raw, ",") {
					if strings.TrimSpace(candidate) == current {
						return true, nil
					}
				}
				return false, nil
			},
			Message:   "Must be one of {value}",
			SkipEmpty: true,
		},
	}
}

// IsEmpty reports whether a step value counts as missing: nil, blank strings,
// empty collections, and checkbox maps without a checked entry.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case map[string]bool:
		for _, checked := range typed {
			if checked {
				return false
			}
		}
		return true
	case map[string]any:
		return len(typed) == 0
	default:
		return false
	}
}

// Length measures strings in runes and collections by selected entries.
func Length(value any) int {
	switch typed := value.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(typed)
	case []string:
		return len(typed)
	case []any:
		return len(typed)
	case map[string]bool:
		n := 0
		for _, checked := range typed {
			if checked {
				n++
			}
		}
		return n
	case map[string]any:
		return len(typed)
	default:
		return utf8.RuneCountInString(fmt.Sprint(typed))
	}
}

// Number coerces numeric values and numeric strings.
func Number(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return num, err == nil
	default:
		return 0, false
	}
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func intParam(params map[string]string) (int, error) {
	raw := strings.TrimSpace(params["value"])
	if raw == "" {
		return 0, errMissingParam
	}
	return strconv.Atoi(raw)
}

func floatParam(params map[string]string) (float64, error) {
	raw := strings.TrimSpace(params["value"])
	if raw == "" {
		return 0, errMissingParam
	}
	return strconv.ParseFloat(raw, 64)
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, errMissingParam
	}
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
