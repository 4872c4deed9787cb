// Package govuk renders forms with GOV.UK Frontend markup. Widget params come
// from pkg/widgets and feed pongo2 ports of the component templates.
package govuk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	rendertemplate "github.com/goliatone/go-govuk-forms/pkg/render/template"
	"github.com/goliatone/go-govuk-forms/pkg/render/template/gotemplate"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// Name is the registry key of the HTML renderer.
const Name = "govuk"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	widgets          *widgets.Registry
	logger           *slog.Logger
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	markdownHints    bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk, falling back to
// the embedded bundle for files the directory does not provide.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgets replaces the widget registry.
func WithWidgets(reg *widgets.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.widgets = reg
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTheme selects template overrides, tokens and the stylesheet from a
// go-theme selector. name and variant are the defaults used when the render
// options do not pick a theme.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithMarkdownHints renders field hints as markdown.
func WithMarkdownHints(enabled bool) Option {
	return func(cfg *config) {
		cfg.markdownHints = enabled
	}
}

// Renderer renders fields, error summaries and whole form pages.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	widgets       *widgets.Registry
	logger        *slog.Logger
	selector      theme.ThemeSelector
	themeName     string
	themeVariant  string
	markdownHints bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		files := cfg.templateFS
		if cfg.templateDir != "" {
			if _, err := os.Stat(cfg.templateDir); err != nil {
				return nil, fmt.Errorf("govuk renderer: templates dir: %w", err)
			}
			files = overlayFS{os.DirFS(cfg.templateDir), files}
		}
		engine, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("govuk renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:     renderer,
		widgets:       cfg.widgets,
		logger:        cfg.logger,
		selector:      cfg.selector,
		themeName:     cfg.themeName,
		themeVariant:  cfg.themeVariant,
		markdownHints: cfg.markdownHints,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Widgets returns the registry used to resolve field widgets.
func (r *Renderer) Widgets() *widgets.Registry {
	return r.widgets
}

// Reset drops cached templates when the engine supports it.
func (r *Renderer) Reset() {
	if resetter, ok := r.templates.(rendertemplate.Resetter); ok {
		resetter.Reset()
	}
}

// RenderField renders one leaf field. An empty widgetName resolves the widget
// from the field.
func (r *Renderer) RenderField(ctx context.Context, field forms.Field, widgetName string, opts widgets.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.renderField(field, widgetName, opts, r.newPass(render.RenderOptions{}))
}

// RenderWidget renders a component template such as "input" or
// "error-summary" straight from params.
func (r *Renderer) RenderWidget(ctx context.Context, template string, p params.Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p = params.Clone(p)
	if p == nil {
		p = params.Params{}
	}
	sanitizeParams(p)
	return r.execute(r.newPass(render.RenderOptions{}), template, componentContext(p))
}

// RenderErrorSummary renders the error summary for form, or "" when there is
// nothing to report.
func (r *Renderer) RenderErrorSummary(ctx context.Context, form *forms.Form, overrides params.Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var source widgets.FormErrors
	if form != nil {
		source = form
	}
	return r.renderSummary(source, overrides, r.newPass(render.RenderOptions{}))
}

// Render implements render.Renderer and produces a complete page.
func (r *Renderer) Render(ctx context.Context, form *forms.Form, opts render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, errors.New("govuk renderer: form is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rp := r.newPass(opts)
	themeCfg := rp.theme
	upstream := render.ResolveErrors(form, opts.Errors)
	fieldOptions := upstream.FieldOptions(render.LocalizeFields(form, opts))

	summaryOverrides := params.Params{"titleText": render.SummaryTitle(opts)}
	if items := upstream.SummaryItems(); len(items) > 0 {
		summaryOverrides["errorList"] = items
	}
	summary, err := r.renderSummary(upstream, params.Merge(summaryOverrides, opts.Summary), rp)
	if err != nil {
		return nil, err
	}

	var fields []string
	for _, field := range render.SelectFields(form, opts.Only) {
		html, err := r.renderAny(field, fieldOptions, rp)
		if err != nil {
			return nil, err
		}
		fields = append(fields, html)
	}

	hidden := make([]map[string]any, 0)
	for _, h := range form.Hidden() {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	page := map[string]any{
		"title":   opts.Title,
		"locale":  opts.Locale,
		"action":  opts.Action,
		"method":  opts.FormMethod(),
		"enctype": enctype(form),
		"hidden":  hidden,
		"summary": summary,
		"fields":  fields,
	}
	if themeCfg.AssetURL != nil {
		page["stylesheet"] = themeCfg.AssetURL(themeAssetStylesheet)
	}
	if len(themeCfg.CSSVars) > 0 {
		page["cssVars"] = themeCfg.CSSVars
	}

	out, err := r.execute(rp, "page", page)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("govuk form rendered",
		slog.Int("fields", len(fields)),
		slog.Bool("summary", summary != ""),
		slog.String("theme", themeCfg.Theme),
	)
	return []byte(out), nil
}

func (r *Renderer) renderAny(field forms.Field, opts map[string]widgets.Options, rp pass) (string, error) {
	switch v := field.(type) {
	case *forms.FormField:
		return r.renderFieldset(v.ID(), v.Label(), v.Form().Fields(), opts, rp)
	case *forms.FieldList:
		var children []forms.Field
		for _, entry := range v.Entries() {
			children = append(children, entry.Form().Fields()...)
		}
		return r.renderFieldset(v.ID(), v.Label(), children, opts, rp)
	default:
		return r.renderField(field, "", opts[field.Name()], rp)
	}
}

func (r *Renderer) renderFieldset(id, legend string, children []forms.Field, opts map[string]widgets.Options, rp pass) (string, error) {
	html := make([]string, 0, len(children))
	for _, child := range children {
		out, err := r.renderAny(child, opts, rp)
		if err != nil {
			return "", err
		}
		html = append(html, out)
	}
	return r.execute(rp, "fieldset", map[string]any{
		"id":     id,
		"legend": map[string]any{"text": legend, "classes": "govuk-fieldset__legend--m"},
		"fields": html,
	})
}

func (r *Renderer) renderField(field forms.Field, widgetName string, opts widgets.Options, rp pass) (string, error) {
	widget, err := r.resolve(field, widgetName)
	if err != nil {
		return "", fmt.Errorf("govuk renderer: %w", err)
	}
	p, err := widget.Params(field, opts)
	if err != nil {
		return "", fmt.Errorf("govuk renderer: %w", err)
	}
	if r.markdownHints {
		if err := markdownHint(p); err != nil {
			return "", fmt.Errorf("govuk renderer: markdown hint for %q: %w", field.Name(), err)
		}
	}
	sanitizeParams(p)
	return r.execute(rp, widget.Template(), componentContext(p))
}

func (r *Renderer) resolve(field forms.Field, widgetName string) (widgets.Widget, error) {
	if name := strings.TrimSpace(widgetName); name != "" {
		widget, ok := r.widgets.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("widget %q: %w", name, widgets.ErrNoWidget)
		}
		return widget, nil
	}
	return r.widgets.Resolve(field)
}

func (r *Renderer) renderSummary(source widgets.FormErrors, overrides params.Params, rp pass) (string, error) {
	p := widgets.ErrorSummaryParams(source, overrides)
	if list, _ := params.AsList(p["errorList"]); len(list) == 0 {
		return "", nil
	}
	sanitizeParams(p)
	return r.execute(rp, "error-summary", map[string]any{"params": p})
}

// pass carries the per-render theme and template helpers.
type pass struct {
	theme *theme.RendererConfig
	i18n  map[string]any
}

func (r *Renderer) newPass(opts render.RenderOptions) pass {
	return pass{theme: r.theme(opts), i18n: render.TemplateI18nFuncs(opts)}
}

func (r *Renderer) execute(rp pass, name string, data map[string]any) (string, error) {
	if r.templates == nil {
		return "", errors.New("govuk renderer: template renderer is nil")
	}
	for key, fn := range rp.i18n {
		if _, ok := data[key]; !ok {
			data[key] = fn
		}
	}
	template := partial(rp.theme, name)
	out, err := r.templates.RenderTemplate(template, data)
	if err != nil {
		return "", fmt.Errorf("govuk renderer: render %s: %w", template, err)
	}
	return out, nil
}

// theme resolves the renderer config for opts. Selection failures are logged
// and fall back to the embedded templates.
func (r *Renderer) theme(opts render.RenderOptions) *theme.RendererConfig {
	if r.selector == nil {
		return rendererConfig(nil)
	}
	name, variant := r.themeName, r.themeVariant
	if opts.Theme != "" {
		name, variant = opts.Theme, opts.ThemeVariant
	}
	sel, err := r.selector.Select(name, variant)
	if err != nil {
		r.logger.Warn("govuk theme selection failed", slog.String("theme", name), slog.String("variant", variant), slog.Any("error", err))
		return rendererConfig(nil)
	}
	return rendererConfig(sel)
}

// componentContext adds the ids templates need for aria-describedby and
// item ids.
func componentContext(p params.Params) map[string]any {
	id := p.String("id")
	idPrefix := p.String("idPrefix")
	if idPrefix == "" {
		idPrefix = id
	}
	if idPrefix == "" {
		idPrefix = p.String("name")
	}

	hintID := idPrefix + "-hint"
	errorID := idPrefix + "-error"

	var describedBy []string
	if extra := p.String("describedBy"); extra != "" {
		describedBy = append(describedBy, extra)
	}
	if hint := p.Map("hint"); hint.String("text") != "" || hint.String("html") != "" {
		describedBy = append(describedBy, hintID)
	}
	if p["errorMessage"] != nil {
		describedBy = append(describedBy, errorID)
	}

	return map[string]any{
		"params":      p,
		"idPrefix":    idPrefix,
		"hintID":      hintID,
		"errorID":     errorID,
		"describedBy": strings.Join(describedBy, " "),
	}
}

func enctype(form *forms.Form) string {
	multipart := false
	form.Walk(func(field forms.Field) bool {
		if field.Kind() == forms.KindFile {
			multipart = true
		}
		return !multipart
	})
	if multipart {
		return "multipart/form-data"
	}
	return ""
}
