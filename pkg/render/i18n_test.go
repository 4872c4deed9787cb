package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeFields_UsesKeysAndKeepsCallerOverrides(t *testing.T) {
	form := forms.New(
		forms.NewStringField("name", "Name", forms.WithDescription("Full name")),
		forms.NewFieldList("children", "Children", 2, func() *forms.Form {
			return forms.New(forms.NewStringField("age", "Age"))
		}),
	)

	opts := render.RenderOptions{
		Locale: "cy",
		Translator: stubTranslator{
			"fields.name.label":         "Enw",
			"fields.children.age.label": "Oed",
		},
		Fields: map[string]widgets.Options{
			"name": {Params: params.Params{"hint": params.Params{"text": "Caller hint"}}},
		},
	}

	got := render.LocalizeFields(form, opts)

	name := got["name"]
	if name.Params.Map("label")["text"] != "Enw" {
		t.Fatalf("expected translated label, got %v", name.Params)
	}
	if name.Params.Map("hint")["text"] != "Caller hint" {
		t.Fatalf("expected caller hint to win, got %v", name.Params)
	}
	for _, entry := range []string{"children-0-age", "children-1-age"} {
		if got[entry].Params.Map("label")["text"] != "Oed" {
			t.Fatalf("expected %s label translated, got %v", entry, got[entry].Params)
		}
		if _, ok := got[entry].Params["hint"]; ok {
			t.Fatalf("untranslated hint should not be overridden for %s", entry)
		}
	}
}

func TestLocalizeFields_NoTranslator(t *testing.T) {
	fields := map[string]widgets.Options{"x": {ID: "custom"}}
	got := render.LocalizeFields(forms.New(forms.NewStringField("x", "X")), render.RenderOptions{Fields: fields})
	if diff := cmp.Diff(fields, got); diff != "" {
		t.Fatalf("expected options unchanged (-want +got):\n%s", diff)
	}
}

func TestSummaryTitle(t *testing.T) {
	if got := render.SummaryTitle(render.RenderOptions{}); got != widgets.DefaultSummaryTitle {
		t.Fatalf("expected default title, got %q", got)
	}

	opts := render.RenderOptions{Translator: stubTranslator{render.SummaryTitleKey: "Mae problem"}}
	if got := render.SummaryTitle(opts); got != "Mae problem" {
		t.Fatalf("expected translated title, got %q", got)
	}

	var seen string
	opts = render.RenderOptions{
		Translator: stubTranslator{},
		OnMissing: func(locale, key string, _ []any, _ error) string {
			seen = key
			return strings.ToUpper(key)
		},
	}
	if got := render.SummaryTitle(opts); got != "ERRORSUMMARY.TITLE" || seen != render.SummaryTitleKey {
		t.Fatalf("expected missing handler output, got %q (key %q)", got, seen)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(render.RenderOptions{
		Locale:     "cy",
		Translator: stubTranslator{render.ErrorPrefixKey: "Gwall"},
	})

	translate, ok := funcs["t"].(func(string, string) string)
	if !ok {
		t.Fatalf("unexpected t helper %T", funcs["t"])
	}
	if got := translate(render.ErrorPrefixKey, "Error"); got != "Gwall" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := translate("page.missing", "Fallback"); got != "Fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	current := funcs["current_locale"].(func() string)
	if got := current(); got != "cy" {
		t.Fatalf("unexpected locale %q", got)
	}

	bare := render.TemplateI18nFuncs(render.RenderOptions{})["t"].(func(string, string) string)
	if got := bare(render.SummaryTitleKey, "There is a problem"); got != "There is a problem" {
		t.Fatalf("expected fallback without translator, got %q", got)
	}
}
