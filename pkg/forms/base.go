package forms

import "strings"

type base struct {
	name        string
	shortName   string
	id          string
	explicitID  bool
	label       string
	description string
	widget      string
	kind        Kind
	validators  []Validator
	flags       Flags
	def         any

	raw           []string
	submitted     bool
	processErrors []string
	errors        []string
}

// FieldOption configures a field at construction.
type FieldOption func(*base)

// WithDescription sets the hint text shown under the label.
func WithDescription(description string) FieldOption {
	return func(b *base) {
		b.description = description
	}
}

// WithID overrides the element id, which otherwise follows the name.
func WithID(id string) FieldOption {
	return func(b *base) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			b.id = trimmed
			b.explicitID = true
		}
	}
}

// WithValidators appends validators run by Form.Validate in order.
func WithValidators(validators ...Validator) FieldOption {
	return func(b *base) {
		for _, validator := range validators {
			if validator == nil {
				continue
			}
			b.validators = append(b.validators, validator)
			if flagger, ok := validator.(flagger); ok {
				flags := flagger.flags()
				b.flags.Required = b.flags.Required || flags.Required
				b.flags.Optional = b.flags.Optional || flags.Optional
			}
		}
	}
}

// WithWidget pins the widget used to render the field.
func WithWidget(name string) FieldOption {
	return func(b *base) {
		b.widget = strings.TrimSpace(name)
	}
}

// WithDefault sets the value used when nothing was submitted.
func WithDefault(value any) FieldOption {
	return func(b *base) {
		b.def = value
	}
}

func newBase(kind Kind, name, label string, options []FieldOption) base {
	b := base{
		name:      name,
		shortName: name,
		id:        name,
		label:     label,
		kind:      kind,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&b)
		}
	}
	return b
}

func (b *base) Name() string        { return b.name }
func (b *base) ShortName() string   { return b.shortName }
func (b *base) ID() string          { return b.id }
func (b *base) Label() string       { return b.label }
func (b *base) Description() string { return b.description }
func (b *base) Flags() Flags        { return b.flags }
func (b *base) Kind() Kind          { return b.kind }
func (b *base) Widget() string      { return b.widget }
func (b *base) core() *base         { return b }

// Errors returns a copy of the validation messages.
func (b *base) Errors() []string {
	if len(b.errors) == 0 {
		return nil
	}
	return append([]string(nil), b.errors...)
}

// RawData returns the submitted values, nil when the field was not part of
// the submission.
func (b *base) RawData() []string {
	if !b.submitted {
		return nil
	}
	return append([]string(nil), b.raw...)
}

func (b *base) bind(prefix string) {
	b.name = prefix + b.shortName
	if !b.explicitID {
		b.id = b.name
	}
}

func (b *base) capture(sub Submission) {
	b.raw, b.submitted = sub.lookup(b.name)
	b.processErrors = nil
	b.errors = nil
}

func (b *base) firstRaw() (string, bool) {
	if !b.submitted || len(b.raw) == 0 {
		return "", false
	}
	return b.raw[0], true
}

func (b *base) runValidation(form *Form, field Field, preValidate func() error) bool {
	b.errors = append([]string(nil), b.processErrors...)

	stop := false
	if preValidate != nil {
		if err := preValidate(); err != nil {
			stop = b.record(err)
		}
	}
	if !stop {
		for _, validator := range b.validators {
			if err := validator.Validate(form, field); err != nil {
				if b.record(err) {
					break
				}
			}
		}
	}
	return len(b.errors) == 0
}

// record appends the error message and reports whether the chain must stop.
func (b *base) record(err error) bool {
	var stop *StopValidation
	if asStop(err, &stop) {
		if stop.Message != "" {
			b.errors = append(b.errors, stop.Message)
		} else if stop.Clear {
			b.errors = nil
		}
		return true
	}
	b.errors = append(b.errors, err.Error())
	return false
}
