package render

import (
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// SelectFields returns the top-level fields of form to render. An empty only
// list selects every field. Names are matched by declared name, unknown names
// are ignored and form order is preserved.
func SelectFields(form *forms.Form, only []string) []forms.Field {
	if form == nil {
		return nil
	}
	fields := form.Fields()
	if len(only) == 0 {
		return fields
	}

	wanted := make(map[string]struct{}, len(only))
	for _, name := range only {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return fields
	}

	out := make([]forms.Field, 0, len(wanted))
	for _, field := range fields {
		if _, ok := wanted[field.ShortName()]; ok {
			out = append(out, field)
		}
	}
	return out
}

// ParseOnly splits a comma separated field list as accepted by the CLI and
// the ?only= query parameter.
func ParseOnly(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
