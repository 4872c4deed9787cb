package orchestrator

import (
	"context"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// Transformer mutates a built form before it is processed and rendered, for
// example to add hidden fields or extra validators.
type Transformer interface {
	Transform(ctx context.Context, form *forms.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *forms.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *forms.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}
