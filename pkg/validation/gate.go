package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Error describes a failed rule. It is surfaced through Result, never raised.
type Error struct {
	Rule    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Rule == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Result is the outcome of validating one step.
type Result struct {
	Valid   bool
	Rule    string
	Message string
}

// Err returns the failure as an *Error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Rule: r.Rule, Message: r.Message}
}

// Checker is the rendering layer capability behind builtin validation.
type Checker interface {
	CheckValidity(node model.NodeRef) (valid bool, message string)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(node model.NodeRef) (bool, string)

// CheckValidity implements Checker.
func (f CheckerFunc) CheckValidity(node model.NodeRef) (bool, string) {
	return f(node)
}

// Translator localises message keys of the form "validation.<rule>".
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Option configures a Gate.
type Option func(*Gate)

// WithChecker installs the builtin validity capability.
func WithChecker(checker Checker) Option {
	return func(g *Gate) {
		g.checker = checker
	}
}

// WithTranslator localises failure messages.
func WithTranslator(t Translator, locale string) Option {
	return func(g *Gate) {
		g.translator = t
		g.locale = strings.TrimSpace(locale)
	}
}

// WithLogger sets the logger used to report skipped rules.
func WithLogger(logger logr.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithRule registers or overrides a rule at construction time.
func WithRule(name string, rule Rule) Option {
	return func(g *Gate) {
		g.Register(name, rule)
	}
}

// Gate evaluates steps. The zero value is not usable; call NewGate.
type Gate struct {
	mu         sync.RWMutex
	rules      map[string]Rule
	checker    Checker
	translator Translator
	locale     string
	logger     logr.Logger
}

// NewGate constructs a gate with the builtin rule vocabulary.
func NewGate(options ...Option) *Gate {
	g := &Gate{
		rules:  defaultRules(),
		logger: logr.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Register adds a rule to the vocabulary. Blank names and rules without a
// Check function are ignored.
func (g *Gate) Register(name string, rule Rule) {
	name = strings.TrimSpace(name)
	if g == nil || name == "" || rule.Check == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rules == nil {
		g.rules = make(map[string]Rule)
	}
	g.rules[name] = rule
}

// Rules lists the registered rule names.
func (g *Gate) Rules() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate evaluates input with the strategy it selects.
func (g *Gate) Validate(input model.Input) Result {
	if g == nil {
		return Result{Valid: true}
	}
	if input.Validation == model.ValidationBuiltin && g.checker != nil && input.Node != nil {
		return g.validateBuiltin(input)
	}
	return g.validateCustom(input)
}

func (g *Gate) validateBuiltin(input model.Input) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.Error(fmt.Errorf("%v", rec), "validity check panicked", "input", input.Name)
			result = Result{Valid: true}
		}
	}()
	valid, message := g.checker.CheckValidity(input.Node)
	if valid {
		return Result{Valid: true}
	}
	return Result{Rule: string(model.ValidationBuiltin), Message: strings.TrimSpace(message)}
}

func (g *Gate) validateCustom(input model.Input) Result {
	if len(input.Rules) == 0 {
		return Result{Valid: true}
	}

	g.mu.RLock()
	rules := make(map[string]Rule, len(g.rules))
	for name, rule := range g.rules {
		rules[name] = rule
	}
	g.mu.RUnlock()

	for _, declared := range input.Rules {
		rule, ok := rules[declared.Kind]
		if !ok {
			g.logger.V(1).Info("skipping unknown rule", "input", input.Name, "rule", declared.Kind)
			continue
		}
		if rule.SkipEmpty && IsEmpty(input.Value) {
			continue
		}
		passed, err := evaluate(rule, input.Value, declared.Params)
		if err != nil {
			g.logger.V(1).Info("skipping malformed rule", "input", input.Name, "rule", declared.Kind, "error", err.Error())
			continue
		}
		if passed {
			continue
		}
		return Result{
			Rule:    declared.Kind,
			Message: g.message(input, declared, rule),
		}
	}
	return Result{Valid: true}
}

func evaluate(rule Rule, value any, params map[string]string) (passed bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			passed, err = false, fmt.Errorf("rule panicked: %v", rec)
		}
	}()
	return rule.Check(value, params)
}

func (g *Gate) message(input model.Input, declared model.ValidationRule, rule Rule) string {
	template := rule.Message
	if custom := strings.TrimSpace(declared.Params["message"]); custom != "" {
		template = custom
	} else if g.translator != nil {
		translated, err := g.translator.Translate(g.locale, "validation."+declared.Kind, declared.Params)
		if err == nil && strings.TrimSpace(translated) != "" {
			template = translated
		}
	}
	return expand(template, input, declared.Params)
}

func expand(template string, input model.Input, params map[string]string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = input.Name
	}
	pairs := []string{"{name}", input.Name, "{label}", label}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", params[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
