package widgets

import (
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

const errorInputClass = "govuk-input--error"

// DateInput renders day, month and year inputs sharing the field name under a
// fieldset whose legend is the label.
type DateInput struct{}

func (DateInput) Name() string     { return NameDateInput }
func (DateInput) Template() string { return "date-input" }

func (w DateInput) Params(field forms.Field, opts Options) (params.Params, error) {
	dated, ok := field.(forms.DateValuer)
	if !ok {
		return nil, unsupported(w, field, "date parts")
	}
	id, err := opts.resolveID(field)
	if err != nil {
		return nil, err
	}
	b := base{id: id, hasValue: true, value: field.Value()}
	if opts.Value != nil {
		b.value = *opts.Value
	}

	out := mapBaseParams(field, b, opts)
	out.SetDefault("fieldset", legend(field))

	day, month, year, _ := dated.DateParts()
	hasErrors := len(opts.errors(field)) > 0
	items := []params.Params{
		dateItem(field, "Day", "day", "govuk-input--width-2", day, hasErrors),
		dateItem(field, "Month", "month", "govuk-input--width-2", month, hasErrors),
		dateItem(field, "Year", "year", "govuk-input--width-4", year, hasErrors),
	}
	out["items"] = itemsValue(params.MergeItems(items, itemOverrides(opts.Params)))
	return out, nil
}

func dateItem(field forms.Field, label, part, width, value string, hasErrors bool) params.Params {
	classes := []string{width}
	if hasErrors {
		classes = append(classes, errorInputClass)
	}
	return params.Params{
		"label":   label,
		"id":      field.Name() + "-" + part,
		"name":    field.Name(),
		"classes": strings.Join(classes, " "),
		"value":   value,
	}
}
