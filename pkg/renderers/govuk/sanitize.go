package govuk

import (
	"bytes"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-govuk-forms/pkg/params"
)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy

	markdown = goldmark.New()
)

// htmlKeys are the params that templates print without escaping.
var htmlKeys = map[string]struct{}{
	"html":      {},
	"titleHtml": {},
}

func sanitizer() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		htmlPolicy = policy
	})
	return htmlPolicy
}

func sanitizeHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(trimmed))
}

// sanitizeParams cleans every html-bearing value in p in place.
func sanitizeParams(p params.Params) {
	sanitizeValue(map[string]any(p))
}

func sanitizeValue(value any) {
	switch v := value.(type) {
	case params.Params:
		sanitizeValue(map[string]any(v))
	case map[string]any:
		for key, child := range v {
			if _, ok := htmlKeys[key]; ok {
				if s, isString := child.(string); isString {
					v[key] = sanitizeHTML(s)
					continue
				}
			}
			sanitizeValue(child)
		}
	case []any:
		for _, child := range v {
			sanitizeValue(child)
		}
	case []params.Params:
		for _, child := range v {
			sanitizeValue(map[string]any(child))
		}
	case []map[string]any:
		for _, child := range v {
			sanitizeValue(child)
		}
	}
}

// markdownHint renders hint.text as markdown into hint.html unless the
// caller already supplied html.
func markdownHint(p params.Params) error {
	hint := params.AsParams(p["hint"])
	if hint == nil {
		return nil
	}
	text := strings.TrimSpace(hint.String("text"))
	if text == "" || hint.String("html") != "" {
		return nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return err
	}
	rendered := strings.TrimSpace(buf.String())
	if inner, ok := singleParagraph(rendered); ok {
		rendered = inner
	}
	hint["html"] = rendered
	p["hint"] = hint
	return nil
}

func singleParagraph(html string) (string, bool) {
	inner, ok := strings.CutPrefix(html, "<p>")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return "", false
	}
	return inner, true
}
