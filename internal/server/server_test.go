package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

var csrfInput = regexp.MustCompile(`<input type="hidden" name="csrf_token" value="([0-9a-f-]{36})">`)

func newTestServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	srv, err := New(DefaultConfig(), options...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func nameForm() *forms.Form {
	return forms.New(
		forms.NewStringField("name", "Name", forms.WithValidators(forms.InputRequired("Enter your name"))),
		forms.NewSubmitField("send", "Send"),
	)
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "csrf_token" {
			return cookie
		}
	}
	t.Fatal("csrf cookie not set")
	return nil
}

func postForm(values url.Values, cookie *http.Cookie, accept string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestServer_ShowIssuesToken(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	match := csrfInput.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("csrf input missing:\n%s", body)
	}
	if cookie := csrfCookie(t, rec); cookie.Value != match[1] || !cookie.HttpOnly {
		t.Fatalf("cookie %+v does not match token %s", cookie, match[1])
	}
	if !strings.Contains(body, `name="nested_form-0-string_field"`) {
		t.Fatal("expected nested field list entry")
	}
	if strings.Contains(body, "govuk-error-summary") {
		t.Fatal("fresh form should not render an error summary")
	}
}

func TestServer_ShowKeepsExistingToken(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "11111111-2222-3333-4444-555555555555"})
	rec := serve(srv, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie")
	}
	if !strings.Contains(rec.Body.String(), `value="11111111-2222-3333-4444-555555555555"`) {
		t.Fatal("expected token from cookie in the page")
	}
}

func TestServer_SubmitRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, postForm(url.Values{"string_field": {"x"}}, nil, ""))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	cookie := &http.Cookie{Name: "csrf_token", Value: "a"}
	rec = serve(srv, postForm(url.Values{"csrf_token": {"b"}}, cookie, ""))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched token, got %d", rec.Code)
	}
}

func TestServer_SubmitInvalidShowsErrors(t *testing.T) {
	srv := newTestServer(t)
	cookie := &http.Cookie{Name: "csrf_token", Value: "token"}
	rec := serve(srv, postForm(url.Values{"csrf_token": {"token"}}, cookie, ""))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, fragment := range []string{
		"<title>Error: " + DefaultTitle + "</title>",
		"There is a problem",
		`<a href="#string_field">StringField is required</a>`,
		`<a href="#nested_form-0-string_field">StringField is required</a>`,
		`value="token"`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("missing %q in:\n%s", fragment, body)
		}
	}
}

func TestServer_SubmitValidRedirects(t *testing.T) {
	srv := newTestServer(t, WithFormFactory(nameForm))
	cookie := &http.Cookie{Name: "csrf_token", Value: "token"}
	rec := serve(srv, postForm(url.Values{"csrf_token": {"token"}, "name": {"Ada"}}, cookie, "text/html"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?submitted=1" {
		t.Fatalf("unexpected location %q", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/?submitted=1", nil)
	req.AddCookie(cookie)
	if body := serve(srv, req).Body.String(); !strings.Contains(body, "<h1 class=\"govuk-heading-l\">Form submitted</h1>") {
		t.Fatalf("expected submitted heading:\n%s", body)
	}
}

func TestServer_SubmitValidJSON(t *testing.T) {
	srv := newTestServer(t, WithFormFactory(nameForm))
	cookie := &http.Cookie{Name: "csrf_token", Value: "token"}
	rec := serve(srv, postForm(url.Values{"csrf_token": {"token"}, "name": {"Ada"}}, cookie, "application/json"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, got); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_ParamsNegotiationAndOnly(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/?only=email_field,submit_button", nil)
	req.Header.Set("Accept", "application/json")
	rec := serve(srv, req)

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	var doc struct {
		Fields []struct {
			Name   string `json:"name"`
			Widget string `json:"widget"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var names []string
	for _, field := range doc.Fields {
		names = append(names, field.Name+"="+field.Widget)
	}
	if diff := cmp.Diff([]string{"email_field=email-input", "submit_button=button"}, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "image/png")
	if rec := serve(srv, req); rec.Code != http.StatusNotAcceptable {
		t.Fatalf("expected 406, got %d", rec.Code)
	}
}

func TestServer_MetricsAndHealth(t *testing.T) {
	srv := newTestServer(t)
	serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	serve(srv, postForm(url.Values{}, nil, ""))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, line := range []string{
		`govuk_forms_renders_total{renderer="govuk",result="ok"} 1`,
		`govuk_forms_submissions_total{outcome="csrf"} 1`,
	} {
		if !strings.Contains(string(body), line) {
			t.Fatalf("missing metric %q in:\n%s", line, body)
		}
	}

	if rec := serve(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Body.String() != "ok" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}
}

func TestServer_TemplatesDirOverridesAndReloads(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "button.tpl")
	if err := os.WriteFile(tpl, []byte(`<button id="v1"></button>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := DefaultConfig()
	cfg.TemplatesDir = dir
	srv, err := New(cfg, WithFormFactory(nameForm))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if body := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String(); !strings.Contains(body, `id="v1"`) {
		t.Fatalf("expected override:\n%s", body)
	}
	if err := os.WriteFile(tpl, []byte(`<button id="v2"></button>`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	srv.ReloadTemplates()
	if body := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String(); !strings.Contains(body, `id="v2"`) {
		t.Fatalf("expected reloaded override:\n%s", body)
	}
}

func TestServer_MissingTemplatesDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TemplatesDir = filepath.Join(t.TempDir(), "missing")
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing templates dir")
	}
}

func TestTemplateWatcher_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 4)
	watcher, err := NewTemplateWatcher(dir, 10*time.Millisecond, func() { changed <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	defer watcher.Stop()

	if err := os.WriteFile(filepath.Join(dir, "input.tpl"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GOVUK_FORMS_ADDR", ":9999")
	t.Setenv("GOVUK_FORMS_RELOAD_DEBOUNCE", "1s")
	os.Unsetenv("GOVUK_FORMS_THEME_VARIANT")
	t.Cleanup(func() { os.Unsetenv("GOVUK_FORMS_THEME_VARIANT") })

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "GOVUK_FORMS_THEME_VARIANT=dark\nGOVUK_FORMS_ADDR=:1111\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := LoadConfig(envFile, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("environment should win over .env, got %q", cfg.Addr)
	}
	if cfg.ThemeVariant != "dark" || cfg.ReloadDebounce != time.Second || cfg.CSRFCookie != "csrf_token" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
