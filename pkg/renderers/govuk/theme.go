package govuk

import (
	"fmt"
	"path"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	partialPrefix        = "govuk."
	themeAssetStylesheet = "govuk.stylesheet"
)

// Themes is a ThemeSelector over a fixed set of manifests.
type Themes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests; fallback names the theme used when Select
// receives an empty name.
func NewThemes(fallback string, manifests ...*theme.Manifest) *Themes {
	t := &Themes{manifests: make(map[string]*theme.Manifest), fallback: fallback}
	for _, manifest := range manifests {
		t.Add(manifest)
	}
	return t
}

// Add registers or replaces a manifest by name.
func (t *Themes) Add(manifest *theme.Manifest) {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return
	}
	t.mu.Lock()
	t.manifests[manifest.Name] = manifest
	t.mu.Unlock()
}

// Select implements theme.ThemeSelector. Unknown variants resolve to the base
// manifest.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = t.fallback
	}
	t.mu.RLock()
	manifest, ok := t.manifests[name]
	t.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("govuk: theme %q not registered", name)
	}
	if _, known := manifest.Variants[variant]; !known {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// defaultPartials maps every overridable partial to its embedded template.
func defaultPartials() map[string]string {
	names := []string{
		"page", "fieldset", "error-summary", "input", "textarea",
		"character-count", "checkboxes", "radios", "select", "date-input",
		"file-upload", "button",
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[partialPrefix+name] = name + ".tpl"
	}
	return out
}

// rendererConfig flattens a selection into the renderer view: variant
// templates, tokens and asset files override the manifest's own.
func rendererConfig(sel *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{Partials: defaultPartials()}
	if sel == nil || sel.Manifest == nil {
		return cfg
	}
	manifest := sel.Manifest
	cfg.Theme = sel.Theme
	cfg.Variant = sel.Variant

	tokens := make(map[string]string)
	files := make(map[string]string)
	prefix := manifest.Assets.Prefix
	apply := func(templates, toks map[string]string, assets theme.Assets) {
		for key, value := range templates {
			cfg.Partials[key] = value
		}
		for key, value := range toks {
			tokens[key] = value
		}
		for key, value := range assets.Files {
			files[key] = value
		}
		if assets.Prefix != "" {
			prefix = assets.Prefix
		}
	}
	apply(manifest.Templates, manifest.Tokens, manifest.Assets)
	if variant, ok := manifest.Variants[sel.Variant]; ok && sel.Variant != "" {
		apply(variant.Templates, variant.Tokens, variant.Assets)
	}

	if len(tokens) > 0 {
		cfg.Tokens = tokens
		cfg.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
		}
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return path.Join("/", prefix, file)
	}
	return cfg
}

// partial returns the template for a widget template name.
func partial(cfg *theme.RendererConfig, name string) string {
	if cfg != nil {
		if tpl := strings.TrimSpace(cfg.Partials[partialPrefix+name]); tpl != "" {
			return tpl
		}
	}
	return name + ".tpl"
}
