package widgets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// ErrNoWidget is returned when no widget matches a field.
var ErrNoWidget = errors.New("widgets: no widget resolved")

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field forms.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]Widget
	rules   []rule
}

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds widget under its name. A nil matcher makes the widget
// reachable only through an explicit field hint. Registering a name again
// replaces the widget.
func (r *Registry) Register(widget Widget, priority int, matcher Matcher) {
	if r == nil || widget == nil {
		return
	}
	name := strings.TrimSpace(widget.Name())
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.widgets == nil {
		r.widgets = make(map[string]Widget)
	}
	r.widgets[name] = widget
	if matcher == nil {
		return
	}
	r.rules = append(r.rules, rule{
		name:     name,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Lookup returns the widget registered under name.
func (r *Registry) Lookup(name string) (Widget, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	widget, ok := r.widgets[strings.TrimSpace(name)]
	return widget, ok
}

// Names lists registered widget names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.widgets))
	for name := range r.widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the widget for a field. An explicit field hint is honoured
// before matcher evaluation and must name a registered widget.
func (r *Registry) Resolve(field forms.Field) (Widget, error) {
	if field == nil {
		return nil, fmt.Errorf("widgets: resolve nil field: %w", ErrNoWidget)
	}
	if hint := strings.TrimSpace(field.Widget()); hint != "" {
		if widget, ok := r.Lookup(hint); ok {
			return widget, nil
		}
		return nil, fmt.Errorf("widgets: field %q requests unknown widget %q: %w", field.Name(), hint, ErrNoWidget)
	}
	if r == nil {
		return nil, fmt.Errorf("widgets: field %q: %w", field.Name(), ErrNoWidget)
	}

	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if !entry.match(field) {
			continue
		}
		if widget, ok := r.Lookup(entry.name); ok {
			return widget, nil
		}
	}
	return nil, fmt.Errorf("widgets: field %q (%s): %w", field.Name(), field.Kind(), ErrNoWidget)
}

func kindIs(kinds ...forms.Kind) Matcher {
	return func(field forms.Field) bool {
		for _, kind := range kinds {
			if field.Kind() == kind {
				return true
			}
		}
		return false
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(Submit{}, 100, kindIs(forms.KindSubmit))
	r.Register(Checkbox{}, 90, kindIs(forms.KindBoolean))
	r.Register(Checkboxes{}, 80, kindIs(forms.KindSelectMultiple))
	r.Register(Radios{}, 80, kindIs(forms.KindRadio))
	r.Register(Select{}, 70, kindIs(forms.KindSelect))
	r.Register(DateInput{}, 70, kindIs(forms.KindDate))
	r.Register(FileInput{}, 70, kindIs(forms.KindFile))
	r.Register(PasswordInput{}, 60, kindIs(forms.KindPassword))
	r.Register(Input{InputType: "email"}, 60, kindIs(forms.KindEmail))
	r.Register(TextArea{}, 60, kindIs(forms.KindTextArea))
	r.Register(TextInput{}, 10, kindIs(forms.KindText, forms.KindInteger, forms.KindFloat))
	r.Register(CharacterCount{}, 0, nil)
}
