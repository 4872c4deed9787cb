package template

import (
	"io"
)

// TemplateRenderer is the engine contract renderers rely on. Data is converted
// to plain maps, slices and scalars before execution, so templates only see
// exported values.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Resetter is implemented by engines that cache compiled templates and can
// drop them, for example after template files change on disk.
type Resetter interface {
	Reset()
}
