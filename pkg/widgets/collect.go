package widgets

import (
	"fmt"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

// FieldParams is the resolved widget and params of one leaf field.
type FieldParams struct {
	Name     string        `json:"name" yaml:"name"`
	Widget   string        `json:"widget" yaml:"widget"`
	Template string        `json:"template" yaml:"template"`
	Params   params.Params `json:"params" yaml:"params"`
}

// Collect resolves and builds params for fields, descending into sub-forms
// and field list entries. opts is keyed by full input name.
func Collect(reg *Registry, fields []forms.Field, opts map[string]Options) ([]FieldParams, error) {
	var out []FieldParams
	for _, field := range fields {
		switch v := field.(type) {
		case *forms.FormField:
			nested, err := Collect(reg, v.Form().Fields(), opts)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		case *forms.FieldList:
			for _, entry := range v.Entries() {
				nested, err := Collect(reg, entry.Form().Fields(), opts)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
			}
			continue
		}

		widget, err := reg.Resolve(field)
		if err != nil {
			return nil, err
		}
		p, err := widget.Params(field, opts[field.Name()])
		if err != nil {
			return nil, fmt.Errorf("widgets: %s params for %q: %w", widget.Name(), field.Name(), err)
		}
		out = append(out, FieldParams{
			Name:     field.Name(),
			Widget:   widget.Name(),
			Template: widget.Template(),
			Params:   p,
		})
	}
	return out, nil
}
