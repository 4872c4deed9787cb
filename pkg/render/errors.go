package render

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/errortree"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// ErrorMapping splits an upstream error payload into field-level messages,
// keyed by full input name, and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// Upstream holds errors reported outside the form, such as by a backing API,
// resolved against one form. It is meant for a single render and never
// modifies the form.
type Upstream struct {
	form *forms.Form
	// Fields holds messages for leaf fields, keyed by full input name.
	Fields map[string][]string
	// Form holds messages that belong to no leaf field.
	Form []string
}

// ResolveErrors maps payload onto form. Messages aimed at sub-forms, lists or
// unknown paths end up in Upstream.Form so they still reach the summary.
func ResolveErrors(form *forms.Form, payload map[string][]string) Upstream {
	mapping := MapErrorPayload(form, payload)
	up := Upstream{form: form, Form: mapping.Form}
	for _, name := range sortedNames(mapping.Fields) {
		messages := mapping.Fields[name]
		field, ok := form.Lookup(name)
		if !ok || field.Kind() == forms.KindForm || field.Kind() == forms.KindList {
			up.Form = append(up.Form, messages...)
			continue
		}
		if up.Fields == nil {
			up.Fields = make(map[string][]string)
		}
		up.Fields[name] = messages
	}
	up.Form = normalizeMessages(up.Form)
	return up
}

// Errors returns the form's own errors merged with the upstream field
// messages. It satisfies widgets.FormErrors.
func (u Upstream) Errors() *errortree.Tree {
	if u.form == nil {
		return errortree.New()
	}
	return u.form.ErrorsWith(u.Fields)
}

// FieldIDs satisfies widgets.FormErrors.
func (u Upstream) FieldIDs() map[string]string {
	if u.form == nil {
		return nil
	}
	return u.form.FieldIDs()
}

// FieldOptions returns a copy of base with the upstream messages added to
// each field's Options.Errors.
func (u Upstream) FieldOptions(base map[string]widgets.Options) map[string]widgets.Options {
	out := make(map[string]widgets.Options, len(base)+len(u.Fields))
	for name, opts := range base {
		out[name] = opts
	}
	for name, messages := range u.Fields {
		opts := out[name]
		opts.Errors = append(slices.Clone(opts.Errors), messages...)
		out[name] = opts
	}
	return out
}

// SummaryItems returns the form-level messages as error summary entries.
func (u Upstream) SummaryItems() []any {
	if len(u.Form) == 0 {
		return nil
	}
	list := make([]any, 0, len(u.Form))
	for _, message := range u.Form {
		list = append(list, params.Params{"text": message})
	}
	return list
}

// ApplyErrors maps payload onto form and records every field-level message
// with Form.AddError, so the messages stay until the next Validate. The
// form-level leftovers are returned for the error summary. Renderers use
// ResolveErrors instead.
func ApplyErrors(form *forms.Form, payload map[string][]string) []string {
	up := ResolveErrors(form, payload)
	for _, name := range sortedNames(up.Fields) {
		form.AddError(name, up.Fields[name]...)
	}
	return up.Form
}

func sortedNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MapErrorPayload normalises upstream error payloads (JSON pointers, dotted
// paths, bracketed indexes) into full input names such as
// "nested_form-0-string_field". Unknown paths are treated as form-level
// errors so messages are not lost.
func MapErrorPayload(form *forms.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	fieldPaths := make(map[string]struct{})
	if form != nil {
		form.Walk(func(field forms.Field) bool {
			fieldPaths[field.Name()] = struct{}{}
			return true
		})
	}

	for rawPath, messages := range payload {
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths)
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalizedMessages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range buildSegmentVariants(segments) {
		if path := longestMatchingPath(variant, fieldPaths); path != "" {
			if len(pathSegments(path)) > len(pathSegments(best)) {
				best = path
			}
		}
	}

	if best != "" {
		return best, false
	}

	return "", true
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func buildSegmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)

	appendVariant := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		var copyCandidate []string
		copyCandidate = append(copyCandidate, candidate...)
		variants = append(variants, copyCandidate)
	}

	appendVariant(segments)

	noWrappers := dropWrapperSegments(segments)
	appendVariant(noWrappers)
	appendVariant(stripNumericSegments(segments))
	appendVariant(stripNumericSegments(noWrappers))

	return variants
}

func dropWrapperSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	if len(segments) == 0 || len(fieldPaths) == 0 {
		return ""
	}

	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], errortree.Separator)
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func pathSegments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, errortree.Separator)
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
