package forms

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var falseValues = []string{"false", ""}

// BooleanField is a single checkbox. SubmitField shares the same behaviour.
type BooleanField struct {
	base
	data bool
}

// NewBooleanField declares a single checkbox field.
func NewBooleanField(name, label string, opts ...FieldOption) *BooleanField {
	f := &BooleanField{base: newBase(KindBoolean, name, label, opts)}
	f.reset()
	return f
}

// NewSubmitField declares a submit button. Its data reports whether the
// button was the one used to submit the form.
func NewSubmitField(name, label string, opts ...FieldOption) *BooleanField {
	f := &BooleanField{base: newBase(KindSubmit, name, label, opts)}
	f.reset()
	return f
}

func (f *BooleanField) reset() {
	f.data, _ = f.def.(bool)
}

func (f *BooleanField) Data() any { return f.data }

// Checked reports the processed state.
func (f *BooleanField) Checked() bool { return f.data }

func (f *BooleanField) Value() string {
	if raw, ok := f.firstRaw(); ok {
		return raw
	}
	return "y"
}

func (f *BooleanField) process(sub Submission) {
	f.capture(sub)
	raw, ok := f.firstRaw()
	f.data = ok && !slices.Contains(falseValues, raw)
}

func (f *BooleanField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}

// SelectField holds one value out of a fixed set of choices. It backs both
// select and radio fields.
type SelectField struct {
	base
	choices []Choice
	data    string
}

// NewSelectField declares a drop-down field.
func NewSelectField(name, label string, choices []Choice, opts ...FieldOption) *SelectField {
	return newSelect(KindSelect, name, label, choices, opts)
}

// NewRadioField declares a radio group.
func NewRadioField(name, label string, choices []Choice, opts ...FieldOption) *SelectField {
	return newSelect(KindRadio, name, label, choices, opts)
}

func newSelect(kind Kind, name, label string, choices []Choice, opts []FieldOption) *SelectField {
	f := &SelectField{base: newBase(kind, name, label, opts), choices: slices.Clone(choices)}
	f.reset()
	return f
}

func (f *SelectField) reset() {
	f.data = ""
	if f.def != nil {
		f.data = fmt.Sprint(f.def)
	}
}

func (f *SelectField) Data() any     { return f.data }
func (f *SelectField) Value() string { return f.data }

// Choices returns the declared choices.
func (f *SelectField) Choices() []Choice { return slices.Clone(f.choices) }

// Options returns the choices with the selected one marked.
func (f *SelectField) Options() []Option {
	out := make([]Option, 0, len(f.choices))
	for _, choice := range f.choices {
		out = append(out, Option{Label: choice.Label, Value: choice.Value, Checked: choice.Value == f.data})
	}
	return out
}

func (f *SelectField) process(sub Submission) {
	f.capture(sub)
	f.reset()
	if raw, ok := f.firstRaw(); ok {
		f.data = raw
	}
}

func (f *SelectField) validate(form *Form) bool {
	return f.runValidation(form, f, func() error {
		if f.data == "" {
			return nil
		}
		for _, choice := range f.choices {
			if choice.Value == f.data {
				return nil
			}
		}
		return errors.New("Not a valid choice.")
	})
}

// SelectMultipleField holds any subset of its choices. It renders as a
// checkbox group.
type SelectMultipleField struct {
	base
	choices []Choice
	data    []string
}

// NewSelectMultipleField declares a multi-valued choice field.
func NewSelectMultipleField(name, label string, choices []Choice, opts ...FieldOption) *SelectMultipleField {
	f := &SelectMultipleField{base: newBase(KindSelectMultiple, name, label, opts), choices: slices.Clone(choices)}
	f.reset()
	return f
}

func (f *SelectMultipleField) reset() {
	f.data = nil
	switch v := f.def.(type) {
	case []string:
		f.data = slices.Clone(v)
	case string:
		f.data = []string{v}
	}
}

// Data returns the selected values.
func (f *SelectMultipleField) Data() any { return slices.Clone(f.data) }

// Values returns the selected values.
func (f *SelectMultipleField) Values() []string { return slices.Clone(f.data) }

func (f *SelectMultipleField) Value() string { return strings.Join(f.data, ",") }

func (f *SelectMultipleField) Multiple() bool { return true }

// Choices returns the declared choices.
func (f *SelectMultipleField) Choices() []Choice { return slices.Clone(f.choices) }

// Options returns the choices with every selected one marked.
func (f *SelectMultipleField) Options() []Option {
	out := make([]Option, 0, len(f.choices))
	for _, choice := range f.choices {
		out = append(out, Option{
			Label:   choice.Label,
			Value:   choice.Value,
			Checked: slices.Contains(f.data, choice.Value),
		})
	}
	return out
}

func (f *SelectMultipleField) process(sub Submission) {
	f.capture(sub)
	if f.submitted {
		f.data = slices.Clone(f.raw)
		return
	}
	f.data = nil
}

func (f *SelectMultipleField) validate(form *Form) bool {
	return f.runValidation(form, f, func() error {
		for _, value := range f.data {
			if !f.hasChoice(value) {
				return fmt.Errorf("'%s' is not a valid choice for this field.", value)
			}
		}
		return nil
	})
}

func (f *SelectMultipleField) hasChoice(value string) bool {
	for _, choice := range f.choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
