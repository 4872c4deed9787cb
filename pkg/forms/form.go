package forms

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/errortree"
)

// Form is an ordered collection of fields processed and validated together.
type Form struct {
	prefix    string
	fields    []Field
	index     map[string]Field
	hidden    map[string]string
	submitted bool
}

// New builds a form from fields in display order. Duplicate short names
// panic since they would shadow each other on submission.
func New(fields ...Field) *Form {
	form := &Form{index: make(map[string]Field, len(fields))}
	for _, field := range fields {
		if field == nil {
			continue
		}
		name := field.ShortName()
		if _, exists := form.index[name]; exists {
			panic(fmt.Sprintf("forms: duplicate field %q", name))
		}
		form.fields = append(form.fields, field)
		form.index[name] = field
	}
	return form
}

// Fields returns the fields in declaration order.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// Field looks up a top-level field by its declared name.
func (f *Form) Field(name string) (Field, bool) {
	field, ok := f.index[name]
	return field, ok
}

// Prefix is prepended to every field name, empty for top-level forms.
func (f *Form) Prefix() string { return f.prefix }

// Submitted reports whether Process has been called.
func (f *Form) Submitted() bool { return f.submitted }

func (f *Form) bind(prefix string) {
	f.prefix = prefix
	for _, field := range f.fields {
		field.bind(prefix)
	}
}

// Process loads sub into every field, replacing previous data and errors.
func (f *Form) Process(sub Submission) {
	f.submitted = true
	for _, field := range f.fields {
		field.process(sub)
	}
}

// Validate runs each field's validator chain and reports whether all passed.
func (f *Form) Validate() bool {
	ok := true
	for _, field := range f.fields {
		if !field.validate(f) {
			ok = false
		}
	}
	return ok
}

// Errors returns the failures of the last Validate keyed by declared field
// name, in field order. Sub-forms nest as trees and field lists as a tree
// keyed by entry index.
func (f *Form) Errors() *errortree.Tree {
	return f.ErrorsWith(nil)
}

// ErrorsWith is Errors with extra messages appended to the leaf fields they
// name. extra is keyed by full input name; the form is not modified.
func (f *Form) ErrorsWith(extra map[string][]string) *errortree.Tree {
	tree := errortree.New()
	for _, field := range f.fields {
		switch v := field.(type) {
		case *FormField:
			if child := v.form.ErrorsWith(extra); !child.Empty() {
				tree.Set(v.ShortName(), child)
			}
		case *FieldList:
			if entries := v.entryErrors(extra); !entries.Empty() {
				tree.Set(v.ShortName(), entries)
			}
		default:
			messages := field.Errors()
			if more := extra[field.Name()]; len(more) > 0 {
				messages = append(messages, more...)
			}
			if len(messages) > 0 {
				tree.Set(field.ShortName(), messages)
			}
		}
	}
	return tree
}

// FieldIDs maps each top-level declared name to the element id, for building
// error summary links.
func (f *Form) FieldIDs() map[string]string {
	ids := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		ids[field.ShortName()] = field.ID()
	}
	return ids
}

// Data returns the processed values keyed by declared name. Sub-forms become
// nested maps and field lists slices of maps.
func (f *Form) Data() map[string]any {
	out := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		if field.Kind() == KindSubmit {
			continue
		}
		out[field.ShortName()] = field.Data()
	}
	return out
}

// Walk visits every field depth first, descending into sub-forms and field
// list entries. Returning false from fn skips the field's children.
func (f *Form) Walk(fn func(Field) bool) {
	for _, field := range f.fields {
		if !fn(field) {
			continue
		}
		switch v := field.(type) {
		case *FormField:
			v.form.Walk(fn)
		case *FieldList:
			for _, entry := range v.entries {
				if fn(entry) {
					entry.form.Walk(fn)
				}
			}
		}
	}
}

// Lookup finds a field by its full input name, e.g. "nested_form-0-city".
func (f *Form) Lookup(name string) (Field, bool) {
	var found Field
	f.Walk(func(field Field) bool {
		if found != nil {
			return false
		}
		if field.Name() == name {
			found = field
			return false
		}
		return strings.HasPrefix(name, field.Name()+errortree.Separator)
	})
	return found, found != nil
}

// AddError appends messages to the field named name, as if a validator had
// failed. Call it after Validate, which resets errors. It reports false when
// no such leaf field exists; sub-forms and lists only carry their children's
// errors.
func (f *Form) AddError(name string, messages ...string) bool {
	field, ok := f.Lookup(name)
	if !ok || field.Kind() == KindForm || field.Kind() == KindList {
		return false
	}
	b := field.core()
	for _, message := range messages {
		if message = strings.TrimSpace(message); message != "" {
			b.errors = append(b.errors, message)
		}
	}
	return true
}
