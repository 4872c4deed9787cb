package render

import (
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// RenderOptions describe per-request data that renderers use to customise
// their output without mutating the form.
type RenderOptions struct {
	// Action and Method end up on the <form> element. Method defaults to POST.
	Action string
	Method string
	// Title heads the rendered page.
	Title string
	// Fields carries per-field widget options keyed by full input name.
	Fields map[string]widgets.Options
	// Summary is deep merged over the generated error summary params.
	Summary params.Params
	// Errors surfaces upstream validation feedback keyed by field path. See
	// MapErrorPayload for the accepted path shapes.
	Errors map[string][]string
	// Only restricts rendering to the named top-level fields, in form order.
	Only []string
	// Theme and ThemeVariant pick a go-theme manifest for template overrides
	// and tokens. Empty values use the renderer defaults.
	Theme        string
	ThemeVariant string
	// Locale and Translator localise labels, hints and the summary title.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// FieldOptions returns the widget options for the field named name.
func (o RenderOptions) FieldOptions(name string) widgets.Options {
	if o.Fields == nil {
		return widgets.Options{}
	}
	return o.Fields[name]
}

// FormMethod returns the HTML form method, POST unless GET was asked for.
func (o RenderOptions) FormMethod() string {
	if strings.EqualFold(o.Method, "get") {
		return "get"
	}
	return "post"
}
