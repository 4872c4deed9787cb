package forms

import (
	"strings"
	"time"
)

// DateLayout parses the day, month and year parts joined by spaces.
const DateLayout = "2 1 2006"

// DateField is split over separate day, month and year inputs that share the
// field name, so a submission carries up to three values in that order.
type DateField struct {
	base
	data *time.Time
}

// NewDateField declares a date field.
func NewDateField(name, label string, opts ...FieldOption) *DateField {
	f := &DateField{base: newBase(KindDate, name, label, opts)}
	f.reset()
	return f
}

func (f *DateField) reset() {
	f.data = nil
	if t, ok := f.def.(time.Time); ok {
		f.data = &t
	}
}

// Data returns the parsed date or nil.
func (f *DateField) Data() any {
	if f.data == nil {
		return nil
	}
	return *f.data
}

// Time returns the parsed date.
func (f *DateField) Time() (time.Time, bool) {
	if f.data == nil {
		return time.Time{}, false
	}
	return *f.data, true
}

func (f *DateField) Value() string {
	if f.submitted && len(f.raw) > 0 {
		return strings.Join(f.raw, " ")
	}
	if f.data == nil {
		return ""
	}
	return f.data.Format("02 01 2006")
}

// DateParts prefers the submitted parts over the processed date so invalid
// input is shown back as typed.
func (f *DateField) DateParts() (day, month, year string, ok bool) {
	if f.submitted && len(f.raw) > 0 {
		parts := f.raw
		if len(parts) == 1 {
			parts = strings.Fields(parts[0])
		}
		padded := make([]string, 3)
		copy(padded, parts)
		return padded[0], padded[1], padded[2], true
	}
	if f.data == nil {
		return "", "", "", false
	}
	return f.data.Format("02"), f.data.Format("01"), f.data.Format("2006"), true
}

func (f *DateField) process(sub Submission) {
	f.capture(sub)
	f.reset()
	if !f.submitted || len(f.raw) == 0 {
		return
	}
	joined := strings.TrimSpace(strings.Join(f.raw, " "))
	if joined == "" {
		f.data = nil
		return
	}
	parsed, err := time.Parse(DateLayout, strings.Join(strings.Fields(joined), " "))
	if err != nil {
		f.data = nil
		f.processErrors = append(f.processErrors, "Not a valid date value.")
		return
	}
	f.data = &parsed
}

func (f *DateField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}
