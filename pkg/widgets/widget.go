// Package widgets maps form fields onto the parameter blocks consumed by the
// GOV.UK Frontend component templates. Each adapter is a small value type that
// builds fresh params on every call.
package widgets

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

var (
	// ErrMissingID is returned when neither the options nor the field provide
	// an element id.
	ErrMissingID = errors.New("widgets: field id is required")
	// ErrMultipleSelect is returned when a multi-valued field is rendered as a
	// select box. Use checkboxes instead.
	ErrMultipleSelect = errors.New("widgets: multiple select boxes are not supported, render the field as checkboxes")
	// ErrUnsupportedField is returned when a field lacks the capability a
	// widget needs (choices, checked state, date parts).
	ErrUnsupportedField = errors.New("widgets: field not supported by widget")
)

// Widget builds template params for a field.
type Widget interface {
	// Name is the registry key, for example "text-input".
	Name() string
	// Template names the component template the params feed.
	Template() string
	Params(field forms.Field, opts Options) (params.Params, error)
}

// Options are the per-render adjustments a caller may pass alongside the
// field.
type Options struct {
	// ID overrides the field id.
	ID string
	// Type overrides the input type.
	Type string
	// Value overrides the value derived from the field when non-nil.
	Value *string
	// Required overrides the field's required flag when non-nil.
	Required *bool
	// Params is deep merged over the generated params.
	Params params.Params
	// Attributes are extra HTML attributes merged into params["attributes"].
	Attributes params.Params
	// Errors are shown after the field's own messages, for this render only.
	Errors []string
}

// String returns a pointer to s, for Options.Value.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for Options.Required.
func Bool(b bool) *bool { return &b }

func (o Options) resolveID(field forms.Field) (string, error) {
	if o.ID != "" {
		return o.ID, nil
	}
	if field != nil && field.ID() != "" {
		return field.ID(), nil
	}
	name := ""
	if field != nil {
		name = field.Name()
	}
	return "", fmt.Errorf("widgets: render %q: %w", name, ErrMissingID)
}

// errors returns the field's messages followed by the option errors.
func (o Options) errors(field forms.Field) []string {
	if len(o.Errors) == 0 {
		return field.Errors()
	}
	return slices.Concat(field.Errors(), o.Errors)
}

func (o Options) required(field forms.Field) bool {
	if o.Required != nil {
		return *o.Required
	}
	return field.Flags().Required
}

// attributes returns the caller attributes plus the required marker.
func (o Options) attributes(field forms.Field) params.Params {
	attrs := params.Clone(o.Attributes)
	if attrs == nil {
		attrs = params.Params{}
	}
	if _, set := attrs["required"]; !set && o.required(field) {
		attrs["required"] = true
	}
	return attrs
}

// base carries the values resolved before the shared mapping runs.
type base struct {
	id        string
	value     any
	hasValue  bool
	inputType string
}

// mapBaseParams builds the params shared by every single-input widget: id,
// name, label, hint, optional value and type, caller params, the first error
// and normalised attributes, applied in that order.
func mapBaseParams(field forms.Field, b base, opts Options) params.Params {
	out := params.Params{
		"id":         b.id,
		"name":       field.Name(),
		"label":      params.Text(field.Label()),
		"attributes": params.Params{},
		"hint":       params.Text(field.Description()),
	}
	if b.hasValue {
		out["value"] = b.value
	}
	if b.inputType != "" {
		out["type"] = b.inputType
	}

	if overrides := withoutItems(opts.Params); len(overrides) > 0 {
		out = params.Merge(out, overrides)
	}

	if errs := opts.errors(field); len(errs) > 0 {
		out["errorMessage"] = params.Text(errs[0])
	}

	attrs := params.Merge(out.Map("attributes"), opts.attributes(field))
	out["attributes"] = params.NormalizeAttributes(attrs)
	return out
}

// withoutItems drops the items override, which widgets with items merge per
// index instead of appending.
func withoutItems(overrides params.Params) params.Params {
	if _, ok := overrides["items"]; !ok {
		return overrides
	}
	out := make(params.Params, len(overrides))
	for key, value := range overrides {
		if key != "items" {
			out[key] = value
		}
	}
	return out
}

func itemOverrides(overrides params.Params) []params.Params {
	return params.ItemList(overrides["items"])
}

func unsupported(widget Widget, field forms.Field, need string) error {
	return fmt.Errorf("widgets: %s cannot render %q (%s): needs %s: %w",
		widget.Name(), field.Name(), field.Kind(), need, ErrUnsupportedField)
}
