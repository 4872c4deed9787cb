package forms

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is an <input type="hidden"> rendered before the visible fields.
type HiddenField struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken carries a request forgery token under the given input name, for
// example "csrf_token".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SetHidden adds or replaces hidden fields on the form. Empty names are
// ignored; later fields win on name collisions.
func (f *Form) SetHidden(fields ...HiddenField) *Form {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if f.hidden == nil {
			f.hidden = make(map[string]string)
		}
		f.hidden[name] = field.Value
	}
	return f
}

// HiddenValue returns the value of a hidden field.
func (f *Form) HiddenValue(name string) (string, bool) {
	value, ok := f.hidden[strings.TrimSpace(name)]
	return value, ok
}

// Hidden returns the hidden fields sorted by name.
func (f *Form) Hidden() []HiddenField {
	if len(f.hidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.hidden))
	for name := range f.hidden {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: f.hidden[name]})
	}
	return result
}
