package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// StringField is a free-text input. The same type backs email, password and
// textarea fields, distinguished by Kind.
type StringField struct {
	base
	data string
}

// NewStringField declares a single-line text field.
func NewStringField(name, label string, opts ...FieldOption) *StringField {
	return newString(KindText, name, label, opts)
}

// NewEmailField declares a text field rendered with type="email".
func NewEmailField(name, label string, opts ...FieldOption) *StringField {
	return newString(KindEmail, name, label, opts)
}

// NewPasswordField declares a password field.
func NewPasswordField(name, label string, opts ...FieldOption) *StringField {
	return newString(KindPassword, name, label, opts)
}

// NewTextAreaField declares a multi-line text field.
func NewTextAreaField(name, label string, opts ...FieldOption) *StringField {
	return newString(KindTextArea, name, label, opts)
}

func newString(kind Kind, name, label string, opts []FieldOption) *StringField {
	f := &StringField{base: newBase(kind, name, label, opts)}
	f.reset()
	return f
}

func (f *StringField) reset() {
	f.data = ""
	if f.def != nil {
		f.data = fmt.Sprint(f.def)
	}
}

func (f *StringField) Data() any { return f.data }

// Text returns the processed string.
func (f *StringField) Text() string { return f.data }

func (f *StringField) Value() string {
	if raw, ok := f.firstRaw(); ok {
		return raw
	}
	return f.data
}

func (f *StringField) process(sub Submission) {
	f.capture(sub)
	f.reset()
	if raw, ok := f.firstRaw(); ok {
		f.data = raw
	}
}

func (f *StringField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}

// IntegerField parses a whole number.
type IntegerField struct {
	base
	data *int64
}

// NewIntegerField declares an integer field.
func NewIntegerField(name, label string, opts ...FieldOption) *IntegerField {
	f := &IntegerField{base: newBase(KindInteger, name, label, opts)}
	f.reset()
	return f
}

func (f *IntegerField) reset() {
	f.data = nil
	switch v := f.def.(type) {
	case int:
		n := int64(v)
		f.data = &n
	case int64:
		n := v
		f.data = &n
	}
}

// Data returns the parsed integer or nil.
func (f *IntegerField) Data() any {
	if f.data == nil {
		return nil
	}
	return *f.data
}

func (f *IntegerField) Value() string {
	if raw, ok := f.firstRaw(); ok {
		return raw
	}
	if f.data == nil {
		return ""
	}
	return strconv.FormatInt(*f.data, 10)
}

func (f *IntegerField) process(sub Submission) {
	f.capture(sub)
	f.reset()
	raw, ok := f.firstRaw()
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		f.data = nil
		f.processErrors = append(f.processErrors, "Not a valid integer value.")
		return
	}
	f.data = &n
}

func (f *IntegerField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}

// FloatField parses a decimal number.
type FloatField struct {
	base
	data *float64
}

// NewFloatField declares a decimal field.
func NewFloatField(name, label string, opts ...FieldOption) *FloatField {
	f := &FloatField{base: newBase(KindFloat, name, label, opts)}
	f.reset()
	return f
}

func (f *FloatField) reset() {
	f.data = nil
	switch v := f.def.(type) {
	case float64:
		n := v
		f.data = &n
	case int:
		n := float64(v)
		f.data = &n
	}
}

// Data returns the parsed number or nil.
func (f *FloatField) Data() any {
	if f.data == nil {
		return nil
	}
	return *f.data
}

func (f *FloatField) Value() string {
	if raw, ok := f.firstRaw(); ok {
		return raw
	}
	if f.data == nil {
		return ""
	}
	return strconv.FormatFloat(*f.data, 'f', -1, 64)
}

func (f *FloatField) process(sub Submission) {
	f.capture(sub)
	f.reset()
	raw, ok := f.firstRaw()
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		f.data = nil
		f.processErrors = append(f.processErrors, "Not a valid float value.")
		return
	}
	f.data = &n
}

func (f *FloatField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}
