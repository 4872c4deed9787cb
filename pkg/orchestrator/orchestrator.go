package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	"github.com/goliatone/go-govuk-forms/pkg/renderers/govuk"
	paramsrenderer "github.com/goliatone/go-govuk-forms/pkg/renderers/params"
	"github.com/goliatone/go-govuk-forms/pkg/schemaforms"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

const defaultRendererName = govuk.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the document loader.
func WithLoader(loader *schemaforms.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithBuildOptions forwards options to schemaforms.Build.
func WithBuildOptions(options ...schemaforms.Option) Option {
	return func(o *Orchestrator) {
		o.buildOptions = append(o.buildOptions, options...)
	}
}

// WithTransformers registers transformers run in order on every built form.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithThemeSelector passes a go-theme selector to the default GOV.UK
// renderer. It has no effect together with WithRegistry.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.htmlOptions = append(o.htmlOptions, govuk.WithTheme(selector, name, variant))
	}
}

// WithRendererOptions forwards options to the default GOV.UK renderer. It has
// no effect together with WithRegistry.
func WithRendererOptions(options ...govuk.Option) Option {
	return func(o *Orchestrator) {
		o.htmlOptions = append(o.htmlOptions, options...)
	}
}

// WithLogger sets the logger, slog.Default otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from OpenAPI document to rendered
// output. Missing dependencies get the built-in implementations: a file
// loader and a registry holding the GOV.UK, JSON and YAML renderers.
type Orchestrator struct {
	loader          *schemaforms.Loader
	registry        *render.Registry
	defaultRenderer string
	buildOptions    []schemaforms.Option
	transformers    []Transformer
	htmlOptions     []govuk.Option
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form from an OpenAPI
// operation.
type Request struct {
	// Location is a file path or URL of the OpenAPI document. Optional when
	// Document is supplied.
	Location string

	// Document holds an already read OpenAPI payload.
	Document []byte

	// OperationID selects which operation's request body becomes the form.
	OperationID string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Submission, when set, is processed and validated before rendering so the
	// output carries values and errors.
	Submission *forms.Submission

	// RenderOptions carries per-request instructions such as the action,
	// upstream errors, or the field subset to render.
	RenderOptions render.RenderOptions
}

// Form loads the document and builds the form for req.OperationID, running
// the registered transformers. The submission, if any, is not applied.
func (o *Orchestrator) Form(ctx context.Context, req Request) (*forms.Form, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.OperationID == "" {
		return nil, errors.New("orchestrator: operation id is required")
	}

	data, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	operations, err := schemaforms.ParseOperations(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := operations[req.OperationID]
	if !ok {
		return nil, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}

	form, err := schemaforms.Build(op, o.buildOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form: %w", err)
	}
	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, form); err != nil {
			return nil, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	return form, nil
}

// Generate builds the form, applies the submission when present and returns
// the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Submission != nil {
		form.Process(*req.Submission)
		valid := form.Validate()
		o.logger.Debug("submission applied", "operation", req.OperationID, "valid", valid)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry returns the renderer registry in use.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) ([]byte, error) {
	if len(req.Document) > 0 {
		return req.Document, nil
	}
	if req.Location == "" {
		return nil, errors.New("orchestrator: location or document is required")
	}
	data, err := o.loader.Load(ctx, req.Location)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return data, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.loader == nil {
		o.loader = schemaforms.NewLoader()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.registry != nil {
		return
	}

	reg := widgets.NewRegistry()
	o.registry = render.NewRegistry()
	html, err := govuk.New(append([]govuk.Option{govuk.WithWidgets(reg), govuk.WithLogger(o.logger)}, o.htmlOptions...)...)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry.MustRegister(html)
	for _, format := range []paramsrenderer.Format{paramsrenderer.FormatJSON, paramsrenderer.FormatYAML} {
		renderer, err := paramsrenderer.New(format, reg)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: %s renderer: %w", format, err)
			return
		}
		o.registry.MustRegister(renderer)
	}
}
