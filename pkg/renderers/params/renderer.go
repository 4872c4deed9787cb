// Package params renders the widget parameter mapping of a form instead of
// HTML. It backs the JSON/YAML API of the demo server and the CLI dump.
package params

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
	pkgparams "github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/render"
	"github.com/goliatone/go-govuk-forms/pkg/widgets"
)

// Format selects the encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the rendered payload.
type Document struct {
	Fields       []widgets.FieldParams `json:"fields" yaml:"fields"`
	ErrorSummary pkgparams.Params      `json:"errorSummary,omitempty" yaml:"errorSummary,omitempty"`
	Hidden       []forms.HiddenField   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

type Renderer struct {
	format  Format
	widgets *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer for format. A nil registry uses the built-in
// widgets.
func New(format Format, reg *widgets.Registry) (*Renderer, error) {
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("params renderer: unsupported format %q", format)
	}
	if reg == nil {
		reg = widgets.NewRegistry()
	}
	return &Renderer{format: format, widgets: reg}, nil
}

func (r *Renderer) Name() string { return string(r.format) }

func (r *Renderer) ContentType() string {
	if r.format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Build collects the document without encoding it.
func (r *Renderer) Build(form *forms.Form, opts render.RenderOptions) (Document, error) {
	if form == nil {
		return Document{}, errors.New("params renderer: form is required")
	}

	upstream := render.ResolveErrors(form, opts.Errors)
	fieldOptions := upstream.FieldOptions(render.LocalizeFields(form, opts))
	fields, err := widgets.Collect(r.widgets, render.SelectFields(form, opts.Only), fieldOptions)
	if err != nil {
		return Document{}, fmt.Errorf("params renderer: %w", err)
	}

	doc := Document{Fields: fields, Hidden: form.Hidden()}
	overrides := pkgparams.Params{"titleText": render.SummaryTitle(opts)}
	if items := upstream.SummaryItems(); len(items) > 0 {
		overrides["errorList"] = items
	}
	summary := widgets.ErrorSummaryParams(upstream, pkgparams.Merge(overrides, opts.Summary))
	if list, _ := pkgparams.AsList(summary["errorList"]); len(list) > 0 {
		doc.ErrorSummary = summary
	}
	return doc, nil
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, form *forms.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := r.Build(form, opts)
	if err != nil {
		return nil, err
	}
	return Encode(doc, r.format)
}

// Encode serialises v in the given format.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("params renderer: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("params renderer: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("params renderer: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}
