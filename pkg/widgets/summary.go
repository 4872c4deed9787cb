package widgets

import (
	"github.com/goliatone/go-govuk-forms/pkg/errortree"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

// DefaultSummaryTitle heads the error summary unless overridden.
const DefaultSummaryTitle = "There is a problem"

// FormErrors is the form surface the error summary needs. *forms.Form
// satisfies it.
type FormErrors interface {
	Errors() *errortree.Tree
	FieldIDs() map[string]string
}

// ErrorSummaryParams builds the error summary params for form: a title and one
// {text, href} entry per failing field linking to the field id. overrides are
// deep merged last, so extra errorList entries are appended.
func ErrorSummaryParams(form FormErrors, overrides params.Params) params.Params {
	var items []errortree.Item
	if form != nil {
		items = errortree.Flatten(form.Errors(), "", form.FieldIDs())
	}
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, params.Params(item.Params()))
	}

	out := params.Params{
		"titleText": DefaultSummaryTitle,
		"errorList": list,
	}
	return params.Merge(out, overrides)
}
