package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-logr/logr"

	"github.com/goliatone/go-formwizard/pkg/controls"
	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrOperationNotFound is returned when the operation id is not declared.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no object request
	// body to derive steps from.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

// Extension keys read from request body properties.
const (
	extensionOrder       = "x-order"
	extensionLabel       = "x-label"
	extensionIcon        = "x-icon"
	extensionHeight      = "x-height"
	extensionPlaceholder = "x-placeholder"
	extensionKind        = "x-control"
)

var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Option customises step derivation.
type Option func(*importer)

type importer struct {
	externalRefs bool
	controls     *controls.Table
	logger       logr.Logger
}

// WithExternalRefs allows the loader to follow external references.
func WithExternalRefs(enabled bool) Option {
	return func(i *importer) {
		i.externalRefs = enabled
	}
}

// WithControls resolves step kinds through table.
func WithControls(table *controls.Table) Option {
	return func(i *importer) {
		if table != nil {
			i.controls = table
		}
	}
}

// WithLogger reports skipped properties at V(1).
func WithLogger(logger logr.Logger) Option {
	return func(i *importer) {
		i.logger = logger
	}
}

func newImporter(options []Option) *importer {
	i := &importer{controls: controls.Default(), logger: logr.Discard()}
	for _, opt := range options {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Operations lists the operation ids declared in the document.
func Operations(ctx context.Context, raw []byte, options ...Option) ([]string, error) {
	i := newImporter(options)
	doc, err := i.load(ctx, raw)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID != "" {
				ids = append(ids, op.OperationID)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Steps loads the document and maps the request body properties of
// operationID to steps. Properties are ordered by x-order, then by name.
func Steps(ctx context.Context, raw []byte, operationID string, options ...Option) ([]model.Input, error) {
	i := newImporter(options)
	doc, err := i.load(ctx, raw)
	if err != nil {
		return nil, err
	}

	operation := findOperation(doc, strings.TrimSpace(operationID))
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(operation.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := orderedProperties(schema.Properties)
	steps := make([]model.Input, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			i.logger.V(1).Info("skipping unresolved property", "operation", operationID, "property", name)
			continue
		}
		step, err := i.controls.Prepare(convertProperty(name, ref.Value, required[name]))
		if err != nil {
			return nil, fmt.Errorf("openapi: operation %q property %q: %w", operationID, name, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (i *importer) load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.externalRefs,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return doc, nil
}

func findOperation(doc *openapi3.T, id string) *openapi3.Operation {
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) (float64, bool) {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		return number(ref.Value.Extensions[extensionOrder])
	}
	sort.SliceStable(names, func(a, b int) bool {
		oa, okA := order(names[a])
		ob, okB := order(names[b])
		switch {
		case okA && okB && oa != ob:
			return oa < ob
		case okA != okB:
			return okA
		default:
			return names[a] < names[b]
		}
	})
	return names
}

func convertProperty(name string, schema *openapi3.Schema, required bool) model.Input {
	input := model.Input{
		Name:        name,
		Label:       firstNonEmpty(text(schema.Extensions[extensionLabel]), schema.Title, humanize(name)),
		Caption:     strings.TrimSpace(schema.Description),
		Icon:        text(schema.Extensions[extensionIcon]),
		Placeholder: text(schema.Extensions[extensionPlaceholder]),
		Kind:        model.ControlKind(text(schema.Extensions[extensionKind])),
		Value:       schema.Default,
	}
	if height, ok := number(schema.Extensions[extensionHeight]); ok && height > 0 {
		input.Height = model.Float(height)
	}

	switch {
	case schema.Type.Is(openapi3.TypeArray) && schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0:
		input.Options = enumOptions(schema.Items.Value.Enum)
		if input.Kind == "" {
			input.Kind = model.ControlCheckbox
		}
		if schema.MinItems > 0 {
			required = true
		}
	case len(schema.Enum) > 0:
		input.Options = enumOptions(schema.Enum)
	case schema.Type.Is(openapi3.TypeBoolean):
		input.Kind = model.ControlRadio
		input.Options = []model.Option{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}
		if value, ok := schema.Default.(bool); ok {
			input.Value = strconv.FormatBool(value)
		}
	}

	if required {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleRequired))
	}
	if schema.MinLength > 0 {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleMinLength, "value", strconv.FormatUint(schema.MinLength, 10)))
	}
	if schema.MaxLength != nil {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleMaxLength, "value", strconv.FormatUint(*schema.MaxLength, 10)))
	}
	if schema.Pattern != "" {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRulePattern, "pattern", schema.Pattern))
	}
	if schema.Min != nil {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleMin, "value", strconv.FormatFloat(*schema.Min, 'f', -1, 64)))
	}
	if schema.Max != nil {
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleMax, "value", strconv.FormatFloat(*schema.Max, 'f', -1, 64)))
	}
	switch strings.ToLower(schema.Format) {
	case "uri", "url":
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleURL))
	case "email":
		input.Rules = append(input.Rules, model.Rule(model.ValidationRuleEmail))
	}
	return input
}

func enumOptions(values []any) []model.Option {
	options := make([]model.Option, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		raw := fmt.Sprint(value)
		options = append(options, model.Option{Value: raw, Label: humanize(raw)})
	}
	return options
}

func humanize(name string) string {
	var builder strings.Builder
	upperNext := true
	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			if builder.Len() > 0 {
				builder.WriteRune(' ')
				upperNext = false
			}
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			builder.WriteRune(' ')
			builder.WriteRune(unicode.ToLower(r))
		case upperNext:
			builder.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			builder.WriteRune(r)
		}
		prev = r
	}
	return strings.TrimSpace(builder.String())
}

func text(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func number(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
