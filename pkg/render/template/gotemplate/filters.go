package gotemplate

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("html_attributes") {
		_ = pongo2.RegisterFilter("html_attributes", filterHTMLAttributes)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterHTMLAttributes renders a mapping as ` name="value"` pairs sorted by
// name. Values are escaped; the result is marked safe.
func filterHTMLAttributes(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	attrs, ok := in.Interface().(map[string]any)
	if !ok || len(attrs) == 0 {
		return pongo2.AsSafeValue(""), nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		value := attrs[name]
		if value == nil {
			continue
		}
		fmt.Fprintf(&b, ` %s="%s"`, html.EscapeString(name), html.EscapeString(fmt.Sprint(value)))
	}
	return pongo2.AsSafeValue(b.String()), nil
}
