package govukforms

import (
	"context"

	"github.com/goliatone/go-govuk-forms/pkg/schemaforms"
)

// NewLoader constructs an OpenAPI document loader.
func NewLoader(options ...schemaforms.LoaderOption) *schemaforms.Loader {
	return schemaforms.NewLoader(options...)
}

// ParseOperations returns the operations of an OpenAPI document that carry a
// request body, keyed by operation id.
func ParseOperations(ctx context.Context, document []byte) (map[string]schemaforms.Operation, error) {
	return schemaforms.ParseOperations(ctx, document)
}
