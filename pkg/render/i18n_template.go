package render

import "strings"

// ErrorPrefixKey translates the visually hidden "Error" prefix used in page
// titles and inline error messages.
const ErrorPrefixKey = "errorMessage.prefix"

// TemplateI18nFuncs returns the template helpers for one render:
//
//	t(key, fallback) string
//	current_locale() string
//
// t resolves key for opts.Locale through opts.Translator and hands misses to
// opts.OnMissing with fallback as the default.
func TemplateI18nFuncs(opts RenderOptions) map[string]any {
	locale := strings.TrimSpace(opts.Locale)
	return map[string]any{
		"t": func(key, fallback string) string {
			return translate(locale, key, fallback, opts.Translator, opts.OnMissing)
		},
		"current_locale": func() string {
			return locale
		},
	}
}
