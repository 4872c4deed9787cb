package widgets

import (
	"fmt"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

// iterableParams builds the {name, items, hint} block shared by checkbox and
// radio groups. Item overrides adjust the generated items by index.
func iterableParams(field forms.Field, options []forms.Option, opts Options) params.Params {
	items := make([]params.Params, 0, len(options))
	for _, option := range options {
		item := params.Params{"text": option.Label, "value": option.Value}
		if option.Checked {
			item["checked"] = true
		}
		items = append(items, item)
	}

	out := params.Params{
		"name": field.Name(),
		"hint": params.Text(field.Description()),
	}
	if overrides := withoutItems(opts.Params); len(overrides) > 0 {
		out = params.Merge(out, overrides)
	}
	out["items"] = itemsValue(params.MergeItems(items, itemOverrides(opts.Params)))

	if errs := opts.errors(field); len(errs) > 0 {
		out["errorMessage"] = params.Text(errs[0])
	}
	return out
}

func legend(field forms.Field) params.Params {
	return params.Params{"legend": params.Text(field.Label())}
}

func itemsValue(items []params.Params) []any {
	out := make([]any, len(items))
	for idx, item := range items {
		out[idx] = item
	}
	return out
}

// Checkboxes renders a multi-valued choice field as a checkbox group with the
// label as fieldset legend.
type Checkboxes struct{}

func (Checkboxes) Name() string     { return NameCheckboxes }
func (Checkboxes) Template() string { return "checkboxes" }

func (w Checkboxes) Params(field forms.Field, opts Options) (params.Params, error) {
	chooser, ok := field.(forms.Chooser)
	if !ok {
		return nil, unsupported(w, field, "choices")
	}
	out := iterableParams(field, chooser.Options(), opts)
	out.SetDefault("fieldset", legend(field))
	return out, nil
}

// Checkbox renders a boolean field as a group holding a single checkbox,
// without a fieldset.
type Checkbox struct{}

func (Checkbox) Name() string     { return NameCheckbox }
func (Checkbox) Template() string { return "checkboxes" }

func (w Checkbox) Params(field forms.Field, opts Options) (params.Params, error) {
	checkable, ok := field.(forms.Checkable)
	if !ok {
		return nil, unsupported(w, field, "checked state")
	}
	single := []forms.Option{{
		Label:   field.Label(),
		Value:   field.Value(),
		Checked: checkable.Checked(),
	}}
	out := iterableParams(field, single, opts)
	delete(out, "fieldset")
	return out, nil
}

// Radios renders a single-choice field as a radio group with the label as
// fieldset legend.
type Radios struct{}

func (Radios) Name() string     { return NameRadios }
func (Radios) Template() string { return "radios" }

func (w Radios) Params(field forms.Field, opts Options) (params.Params, error) {
	chooser, ok := field.(forms.Chooser)
	if !ok {
		return nil, unsupported(w, field, "choices")
	}
	out := iterableParams(field, chooser.Options(), opts)
	out.SetDefault("fieldset", legend(field))
	return out, nil
}

// Select renders a drop-down. Multi-valued fields are rejected.
type Select struct {
	Multiple bool
}

func (Select) Name() string     { return NameSelect }
func (Select) Template() string { return "select" }

func (w Select) Params(field forms.Field, opts Options) (params.Params, error) {
	if m, ok := field.(forms.Multiple); w.Multiple || (ok && m.Multiple()) {
		return nil, fmt.Errorf("widgets: select %q: %w", field.Name(), ErrMultipleSelect)
	}
	chooser, ok := field.(forms.Chooser)
	if !ok {
		return nil, unsupported(w, field, "choices")
	}
	id, err := opts.resolveID(field)
	if err != nil {
		return nil, err
	}

	choices := chooser.Options()
	items := make([]params.Params, 0, len(choices))
	for _, choice := range choices {
		items = append(items, params.Params{
			"text":     choice.Label,
			"value":    choice.Value,
			"selected": choice.Checked,
		})
	}

	out := mapBaseParams(field, base{id: id}, opts)
	out["items"] = itemsValue(params.MergeItems(items, itemOverrides(opts.Params)))
	return out, nil
}
