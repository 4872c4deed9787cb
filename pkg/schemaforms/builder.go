// Package schemaforms builds forms from the request body schema of an
// OpenAPI 3 operation.
package schemaforms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

const (
	// ExtensionWidget pins the widget of a property.
	ExtensionWidget = "x-govuk-widget"
	// ExtensionOrder lists property names in display order.
	ExtensionOrder = "x-govuk-order"
	// ExtensionLabels supplies display labels aligned with enum values.
	ExtensionLabels = "x-govuk-labels"
)

var (
	// ErrUnsupportedSchema is returned for schema shapes no field kind covers.
	ErrUnsupportedSchema = errors.New("schemaforms: unsupported schema")
	// ErrNotObject is returned when the request body is not an object.
	ErrNotObject = errors.New("schemaforms: request body must be an object")
)

type config struct {
	submitName  string
	submitLabel string
	maxDepth    int
}

// Option configures Build.
type Option func(*config)

// WithSubmit appends a submit button named name with the given label.
func WithSubmit(name, label string) Option {
	return func(c *config) {
		c.submitName = strings.TrimSpace(name)
		c.submitLabel = label
	}
}

// WithMaxDepth bounds object nesting. Deeper properties are rejected.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// Build turns the request schema of op into a form.
func Build(op Operation, options ...Option) (*forms.Form, error) {
	cfg := config{maxDepth: 8}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if op.Schema == nil || schemaType(op.Schema) != "object" {
		return nil, fmt.Errorf("%w: operation %q", ErrNotObject, op.ID)
	}

	fields, err := buildFields(op.Schema, cfg, 0)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: operation %q: %w", op.ID, err)
	}
	if cfg.submitName != "" {
		label := cfg.submitLabel
		if label == "" {
			label = "Continue"
		}
		fields = append(fields, forms.NewSubmitField(cfg.submitName, label))
	}
	return forms.New(fields...), nil
}

func buildFields(schema *openapi3.Schema, cfg config, depth int) ([]forms.Field, error) {
	if depth >= cfg.maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrUnsupportedSchema, cfg.maxDepth)
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var fields []forms.Field
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := buildField(name, ref.Value, required[name], cfg, depth)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func buildField(name string, prop *openapi3.Schema, required bool, cfg config, depth int) (forms.Field, error) {
	label := prop.Title
	if label == "" {
		label = humanize(name)
	}

	var opts []forms.FieldOption
	if prop.Description != "" {
		opts = append(opts, forms.WithDescription(prop.Description))
	}
	if widget := stringExtension(prop, ExtensionWidget); widget != "" {
		opts = append(opts, forms.WithWidget(widget))
	}
	var validators []forms.Validator
	if required {
		validators = append(validators, forms.InputRequired(label+" is required"))
	} else {
		validators = append(validators, forms.Optional())
	}

	typ := schemaType(prop)
	if len(prop.Enum) > 0 && typ != "array" {
		choices := enumChoices(prop, prop.Enum)
		opts = appendDefault(opts, prop.Default, func(v any) any { return fmt.Sprint(v) })
		opts = append(opts, forms.WithValidators(validators...))
		if stringExtension(prop, ExtensionWidget) == widgets.NameRadios {
			return forms.NewRadioField(name, label, choices, opts...), nil
		}
		return forms.NewSelectField(name, label, choices, opts...), nil
	}

	switch typ {
	case "string":
		if prop.MaxLength != nil || prop.MinLength > 0 {
			validators = append(validators, lengthValidator(prop))
		}
		switch prop.Format {
		case "date":
			opts = appendDefault(opts, prop.Default, parseDate)
			return forms.NewDateField(name, label, append(opts, forms.WithValidators(validators...))...), nil
		case "binary":
			return forms.NewFileField(name, label, append(opts, forms.WithValidators(validators...))...), nil
		case "password":
			return forms.NewPasswordField(name, label, append(opts, forms.WithValidators(validators...))...), nil
		case "email":
			validators = append(validators, forms.Email(""))
			opts = appendDefault(opts, prop.Default, identity)
			return forms.NewEmailField(name, label, append(opts, forms.WithValidators(validators...))...), nil
		}
		opts = appendDefault(opts, prop.Default, identity)
		opts = append(opts, forms.WithValidators(validators...))
		if widget := stringExtension(prop, ExtensionWidget); widget == widgets.NameTextArea || widget == widgets.NameCharacterCount {
			return forms.NewTextAreaField(name, label, opts...), nil
		}
		return forms.NewStringField(name, label, opts...), nil

	case "integer":
		opts = appendDefault(opts, prop.Default, toInt64)
		return forms.NewIntegerField(name, label, append(opts, forms.WithValidators(validators...))...), nil

	case "number":
		opts = appendDefault(opts, prop.Default, identity)
		return forms.NewFloatField(name, label, append(opts, forms.WithValidators(validators...))...), nil

	case "boolean":
		opts = appendDefault(opts, prop.Default, identity)
		return forms.NewBooleanField(name, label, opts...), nil

	case "object":
		fields, err := buildFields(prop, cfg, depth+1)
		if err != nil {
			return nil, err
		}
		return forms.NewFormField(name, label, forms.New(fields...), opts...), nil

	case "array":
		return buildArray(name, label, prop, validators, opts, cfg, depth)
	}
	return nil, fmt.Errorf("%w: type %q", ErrUnsupportedSchema, typ)
}

func buildArray(name, label string, prop *openapi3.Schema, validators []forms.Validator, opts []forms.FieldOption, cfg config, depth int) (forms.Field, error) {
	if prop.Items == nil || prop.Items.Value == nil {
		return nil, fmt.Errorf("%w: array without items", ErrUnsupportedSchema)
	}
	items := prop.Items.Value

	switch {
	case len(items.Enum) > 0:
		opts = appendDefault(opts, prop.Default, toStrings)
		opts = append(opts, forms.WithValidators(validators...))
		return forms.NewSelectMultipleField(name, label, enumChoices(items, items.Enum), opts...), nil

	case schemaType(items) == "string" && items.Format == "binary":
		return forms.NewMultipleFileField(name, label, append(opts, forms.WithValidators(validators...))...), nil

	case schemaType(items) == "object":
		// Validate the entry shape once so the factory cannot fail later.
		if _, err := buildFields(items, cfg, depth+1); err != nil {
			return nil, err
		}
		factory := func() *forms.Form {
			fields, _ := buildFields(items, cfg, depth+1)
			return forms.New(fields...)
		}
		return forms.NewFieldList(name, label, int(prop.MinItems), factory, opts...), nil
	}
	return nil, fmt.Errorf("%w: array of %q", ErrUnsupportedSchema, schemaType(items))
}

func lengthValidator(prop *openapi3.Schema) forms.Validator {
	maxLen := -1
	if prop.MaxLength != nil {
		maxLen = int(*prop.MaxLength)
	}
	minLen := -1
	if prop.MinLength > 0 {
		minLen = int(prop.MinLength)
	}
	return forms.Length(minLen, maxLen, "")
}

// propertyOrder lists x-govuk-order names first, then the rest sorted.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	if raw, ok := schema.Extensions[ExtensionOrder].([]any); ok {
		for _, item := range raw {
			name, ok := item.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func enumChoices(schema *openapi3.Schema, values []any) []forms.Choice {
	var labels []any
	if raw, ok := schema.Extensions[ExtensionLabels].([]any); ok {
		labels = raw
	}
	choices := make([]forms.Choice, 0, len(values))
	for i, value := range values {
		v := fmt.Sprint(value)
		label := v
		if i < len(labels) {
			if text, ok := labels[i].(string); ok && text != "" {
				label = text
			}
		}
		choices = append(choices, forms.Choice{Value: v, Label: label})
	}
	return choices
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		if schema != nil && len(schema.Properties) > 0 {
			return "object"
		}
		return ""
	}
	for _, typ := range schema.Type.Slice() {
		if typ != "null" {
			return typ
		}
	}
	return ""
}

func stringExtension(schema *openapi3.Schema, key string) string {
	value, _ := schema.Extensions[key].(string)
	return strings.TrimSpace(value)
}

func appendDefault(opts []forms.FieldOption, value any, convert func(any) any) []forms.FieldOption {
	if value == nil {
		return opts
	}
	if converted := convert(value); converted != nil {
		return append(opts, forms.WithDefault(converted))
	}
	return opts
}

func identity(v any) any { return v }

func toInt64(v any) any {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	return nil
}

func toStrings(v any) any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func parseDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return t
}

// humanize turns snake_case and camelCase names into a sentence-case label.
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ")
}
