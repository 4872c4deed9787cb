// Package govukforms renders server-side forms with the GOV.UK Design System
// components. Fields from pkg/forms are mapped onto component parameters by
// pkg/widgets and rendered through the pongo2 templates embedded in
// pkg/renderers/govuk. Forms can also be built from OpenAPI request bodies.
package govukforms

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-govuk-forms/pkg/orchestrator"
	"github.com/goliatone/go-govuk-forms/pkg/render"
)

// RenderOptions describes per-request overrides that renderers use to surface
// upstream errors, translations and field subsets.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the OpenAPI document at location, builds the form for
// the operation and renders it with the GOV.UK renderer.
func GenerateHTML(ctx context.Context, location, operationID string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Location:      location,
		OperationID:   operationID,
		RenderOptions: opts,
	})
}

// GenerateHTMLFromDocument renders a form from an already read document.
func GenerateHTMLFromDocument(ctx context.Context, document []byte, operationID string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document:      document,
		OperationID:   operationID,
		RenderOptions: opts,
	})
}

// WithThemeSelector passes a go-theme selector through to the GOV.UK renderer
// so template overrides, tokens and the stylesheet follow the chosen theme.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, defaultTheme, defaultVariant)
}
