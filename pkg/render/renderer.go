package render

import (
	"context"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// Renderer turns a processed form into a byte representation (HTML page,
// widget params as JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *forms.Form, options RenderOptions) ([]byte, error)
}
