package govuk

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-govuk-forms/internal/fixtures"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func submitted(values url.Values) *forms.Form {
	form := fixtures.ExampleForm()
	form.Process(forms.NewSubmission(values))
	form.Validate()
	return form
}

func TestRenderField_TextInputWithError(t *testing.T) {
	r := newRenderer(t)
	form := submitted(url.Values{"string_field": {"Jane"}})
	field, _ := form.Field("string_field")

	html, err := r.RenderField(context.Background(), field, "", widgets.Options{
		Attributes: params.Params{"autocomplete": "name"},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, html,
		`govuk-form-group--error`,
		`<label class="govuk-label" for="string_field">StringField</label>`,
		`<div id="string_field-hint" class="govuk-hint">StringFieldHint</div>`,
		`<p id="string_field-error" class="govuk-error-message">`,
		`class="govuk-input govuk-input--error" id="string_field" name="string_field" type="text" value="Jane"`,
		`aria-describedby="string_field-hint string_field-error"`,
		` autocomplete="name" required="required">`,
	)
}

func TestRenderField_ExplicitWidget(t *testing.T) {
	r := newRenderer(t)
	field := forms.NewTextAreaField("notes", "Notes", forms.WithValidators(forms.Length(-1, 50, "")))
	forms.New(field)

	html, err := r.RenderField(context.Background(), field, widgets.NameCharacterCount, widgets.Options{
		Params: params.Params{"maxlength": 50},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, html,
		`data-module="govuk-character-count" data-maxlength="50"`,
		`You can enter up to 50 characters`,
	)

	if _, err := r.RenderField(context.Background(), field, "rich-text", widgets.Options{}); !errors.Is(err, widgets.ErrNoWidget) {
		t.Fatalf("expected ErrNoWidget, got %v", err)
	}
}

func TestRenderField_CheckboxItemIDs(t *testing.T) {
	r := newRenderer(t)
	form := submitted(url.Values{"select_multiple_field": {"two"}})
	field, _ := form.Field("select_multiple_field")

	html, err := r.RenderField(context.Background(), field, "", widgets.Options{})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, html,
		`<legend class="govuk-fieldset__legend">SelectMultipleField</legend>`,
		`id="select_multiple_field" name="select_multiple_field" type="checkbox" value="one">`,
		`id="select_multiple_field-2" name="select_multiple_field" type="checkbox" value="two" checked>`,
		`for="select_multiple_field-3"`,
	)
}

func TestRenderField_DateInput(t *testing.T) {
	r := newRenderer(t)
	form := submitted(url.Values{"date_field": {"31", "2", "2021"}})
	field, _ := form.Field("date_field")

	html, err := r.RenderField(context.Background(), field, "", widgets.Options{})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, html,
		`role="group" aria-describedby="date_field-hint date_field-error"`,
		`<label class="govuk-label govuk-date-input__label" for="date_field-day">Day</label>`,
		`class="govuk-input govuk-date-input__input govuk-input--width-2 govuk-input--error" id="date_field-day" name="date_field" type="text" inputmode="numeric" value="31"`,
		`Not a valid date value.`,
	)
}

func TestRenderField_SanitizesHTMLAndMarkdownHints(t *testing.T) {
	r := newRenderer(t, WithMarkdownHints(true))
	field := forms.NewStringField("name", "Name", forms.WithDescription("Use **full** name"))
	forms.New(field)

	html, err := r.RenderField(context.Background(), field, "", widgets.Options{})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, html, `<div id="name-hint" class="govuk-hint">Use <strong>full</strong> name</div>`)

	html, err = r.RenderField(context.Background(), field, "", widgets.Options{
		Params: params.Params{"label": params.Params{"html": `<b>Name</b><script>alert(1)</script>`}},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script survived sanitising:\n%s", html)
	}
	assertContains(t, html, `for="name"><b>Name</b></label>`)
}

func TestRenderErrorSummary(t *testing.T) {
	r := newRenderer(t)

	empty, err := r.RenderErrorSummary(context.Background(), fixtures.ExampleForm(), nil)
	if err != nil || empty != "" {
		t.Fatalf("expected no summary before validation, got %q (%v)", empty, err)
	}

	html, err := r.RenderErrorSummary(context.Background(), submitted(url.Values{}), params.Params{
		"titleText": "Check your answers",
	})
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}
	assertContains(t, html,
		`<h2 class="govuk-error-summary__title">Check your answers</h2>`,
		`<li><a href="#string_field">StringField is required</a></li>`,
		`<li><a href="#nested_form-0-string_field">StringField is required</a></li>`,
	)
}

func TestRenderWidget(t *testing.T) {
	r := newRenderer(t)
	html, err := r.RenderWidget(context.Background(), "button", params.Params{
		"text":    "Start now",
		"element": "input",
	})
	if err != nil {
		t.Fatalf("render widget: %v", err)
	}
	assertContains(t, html, `<input value="Start now" type="submit" class="govuk-button" data-module="govuk-button">`)
}

func TestRender_Page(t *testing.T) {
	r := newRenderer(t)
	form := submitted(url.Values{})
	form.SetHidden(forms.CSRFToken("csrf_token", "tok-123"))

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Title:  "Example form",
		Action: "/submit",
		Errors: map[string][]string{"__all__": {"Service unavailable"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`<title>Error: Example form</title>`,
		`<form action="/submit" method="post" enctype="multipart/form-data" novalidate>`,
		`<input type="hidden" name="csrf_token" value="tok-123">`,
		`<h2 class="govuk-error-summary__title">There is a problem</h2>`,
		`<li>Service unavailable</li>`,
		`<fieldset class="govuk-fieldset" id="nested_form">`,
		`name="nested_form-0-string_field"`,
		`<button type="submit" name="submit_button" value="y" class="govuk-button" data-module="govuk-button">SubmitField</button>`,
	)
}

func TestRender_UpstreamErrorsApplyToOneRenderOnly(t *testing.T) {
	r := newRenderer(t)
	email := forms.NewEmailField("email", "Email")
	form := forms.New(email)
	form.Process(forms.NewSubmission(url.Values{"email": {"ada@example.com"}}))
	form.Validate()

	withErrors := render.RenderOptions{Errors: map[string][]string{"email": {"Already taken"}}}
	for i := 0; i < 2; i++ {
		out, err := r.Render(context.Background(), form, withErrors)
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		html := string(out)
		if n := strings.Count(html, `<li><a href="#email">Already taken</a></li>`); n != 1 {
			t.Fatalf("render %d: want one summary entry, got %d\n%s", i, n, html)
		}
		if n := strings.Count(html, `<span class="govuk-visually-hidden">Error:</span> Already taken`); n != 1 {
			t.Fatalf("render %d: want one inline error, got %d\n%s", i, n, html)
		}
	}
	if errs := email.Errors(); len(errs) != 0 {
		t.Fatalf("upstream errors were stored on the field: %v", errs)
	}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render without errors: %v", err)
	}
	html := string(out)
	for _, fragment := range []string{`href="#email"`, "Already taken", "govuk-error-summary"} {
		if strings.Contains(html, fragment) {
			t.Fatalf("stale upstream error %q in output\n%s", fragment, html)
		}
	}
}

func TestRender_OnlyAndTranslator(t *testing.T) {
	r := newRenderer(t)
	translator := render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
		switch key {
		case render.SummaryTitleKey:
			return "Mae problem", nil
		case "fields.email_field.label":
			return "E-bost", nil
		}
		return "", errors.New("missing")
	})

	out, err := r.Render(context.Background(), submitted(url.Values{}), render.RenderOptions{
		Only:       []string{"email_field"},
		Locale:     "cy",
		Translator: translator,
		Method:     "GET",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`<html lang="cy"`,
		`method="get"`,
		`Mae problem`,
		`for="email_field">E-bost</label>`,
	)
	if strings.Contains(html, `name="string_field"`) {
		t.Fatal("fields outside the subset were rendered")
	}
}

func TestRender_TranslatesErrorPrefix(t *testing.T) {
	r := newRenderer(t)
	form := forms.New(forms.NewStringField("name", "Name", forms.WithValidators(forms.InputRequired("Enter your name"))))
	form.Process(forms.NewSubmission(url.Values{"name": {""}}))
	form.Validate()

	translator := render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
		if key == render.ErrorPrefixKey {
			return "Gwall", nil
		}
		return "", errors.New("missing")
	})
	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Title:      "Ffurflen",
		Locale:     "cy",
		Translator: translator,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`<title>Gwall: Ffurflen</title>`,
		`<span class="govuk-visually-hidden">Gwall:</span> Enter your name`,
		`<h2 class="govuk-error-summary__title">There is a problem</h2>`,
	)
}

func TestRender_ThemeOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "acme"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "acme", "input.tpl"), []byte(`<acme-input name="{{ params.name }}">`), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	themes := NewThemes("acme", &theme.Manifest{
		Name:      "acme",
		Version:   "1.0.0",
		Tokens:    map[string]string{"brand": "#123456"},
		Templates: map[string]string{"govuk.input": "acme/input.tpl"},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files:  map[string]string{themeAssetStylesheet: "acme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#000000"}},
		},
	})
	r := newRenderer(t, WithTemplatesDir(dir), WithTheme(themes, "acme", "dark"))

	out, err := r.Render(context.Background(), fixtures.ExampleForm(), render.RenderOptions{Only: []string{"string_field", "radio_field"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`<acme-input name="string_field">`,
		`<link rel="stylesheet" href="/assets/acme/acme.css">`,
		`--brand: #000000;`,
		`class="govuk-radios__input"`,
	)

	out, err = r.Render(context.Background(), fixtures.ExampleForm(), render.RenderOptions{
		Only:  []string{"string_field"},
		Theme: "missing",
	})
	if err != nil {
		t.Fatalf("render with unknown theme: %v", err)
	}
	assertContains(t, string(out), `class="govuk-input"`)
}

func TestRender_RequiresForm(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatal("expected error for nil form")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, fixtures.ExampleForm(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestNew_MissingTemplatesDir(t *testing.T) {
	if _, err := New(WithTemplatesDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatal("expected error for missing templates dir")
	}
}
