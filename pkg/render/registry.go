package render

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/elnormous/contenttype"
)

// ErrNotAcceptable is returned by Negotiate when no registered renderer
// produces a media type the client accepts.
var ErrNotAcceptable = errors.New("render: no acceptable renderer")

// Registry stores renderers by name so the server and CLI can pick an output
// format at runtime.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// MustGet panics if the renderer is missing.
func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

// Negotiate picks the renderer whose content type best matches the request
// Accept header. Content type parameters are ignored, ties and a missing
// Accept header go to the renderer with the lowest name.
func (r *Registry) Negotiate(req *http.Request) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)

	available := make([]contenttype.MediaType, 0, len(names))
	byType := make(map[string]Renderer, len(names))
	for _, name := range names {
		renderer := r.renderers[name]
		parsed := contenttype.NewMediaType(renderer.ContentType())
		mediaType := contenttype.MediaType{Type: parsed.Type, Subtype: parsed.Subtype}
		key := mediaKey(mediaType)
		if _, seen := byType[key]; seen {
			continue
		}
		byType[key] = renderer
		available = append(available, mediaType)
	}
	if len(available) == 0 {
		return nil, ErrNotAcceptable
	}

	accepted, _, err := contenttype.GetAcceptableMediaType(req, available)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAcceptable, err)
	}
	renderer, ok := byType[mediaKey(accepted)]
	if !ok {
		return nil, ErrNotAcceptable
	}
	return renderer, nil
}

func mediaKey(mediaType contenttype.MediaType) string {
	return strings.ToLower(mediaType.Type + "/" + mediaType.Subtype)
}
