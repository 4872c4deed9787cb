package govukforms

import (
	"io/fs"

	"github.com/goliatone/go-govuk-forms/pkg/renderers/govuk"
)

// EmbeddedTemplates exposes the built-in GOV.UK component templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return govuk.TemplatesFS()
}
