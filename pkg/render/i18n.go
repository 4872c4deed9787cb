package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/errortree"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// Translation keys. Field keys are built from the declared field path with
// list indexes dropped, e.g. "fields.nested_form.string_field.label".
const (
	SummaryTitleKey  = "errorSummary.title"
	fieldKeyPrefix   = "fields."
	fieldLabelSuffix = ".label"
	fieldHintSuffix  = ".hint"
)

// ErrMissingTranslator is passed to the missing handler when no Translator
// was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. args carries a {"default": fallback} map when a fallback exists.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		m, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
			return fallback
		}
	}
	return key
}

// SummaryTitle returns the localised error summary title.
func SummaryTitle(opts RenderOptions) string {
	return translate(opts.Locale, SummaryTitleKey, widgets.DefaultSummaryTitle, opts.Translator, opts.OnMissing)
}

// LocalizeFields returns widget options carrying translated labels and hints
// for every field of form, with the caller's opts.Fields merged on top.
// Keys without a translation keep the declared text. Without a Translator it
// returns opts.Fields unchanged.
func LocalizeFields(form *forms.Form, opts RenderOptions) map[string]widgets.Options {
	if opts.Translator == nil || form == nil {
		return opts.Fields
	}

	out := make(map[string]widgets.Options)
	form.Walk(func(field forms.Field) bool {
		if field.Kind() == forms.KindForm || field.Kind() == forms.KindList {
			return true
		}
		key := fieldKey(field.Name())
		overrides := params.Params{}
		if label, ok := lookup(opts, key+fieldLabelSuffix); ok {
			overrides["label"] = params.Params{"text": label}
		}
		if hint, ok := lookup(opts, key+fieldHintSuffix); ok {
			overrides["hint"] = params.Params{"text": hint}
		}
		if len(overrides) > 0 {
			out[field.Name()] = widgets.Options{Params: overrides}
		}
		return true
	})

	for name, caller := range opts.Fields {
		localized, ok := out[name]
		if !ok {
			out[name] = caller
			continue
		}
		caller.Params = params.Merge(localized.Params, caller.Params)
		out[name] = caller
	}
	return out
}

// fieldKey turns "nested_form-0-string_field" into
// "fields.nested_form.string_field".
func fieldKey(name string) string {
	parts := strings.Split(name, errortree.Separator)
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || isIndex(part) {
			continue
		}
		kept = append(kept, part)
	}
	return fieldKeyPrefix + strings.Join(kept, ".")
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func lookup(opts RenderOptions, key string) (string, bool) {
	msg, err := opts.Translator.Translate(opts.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}
