// Package forms provides the server-side field and form types whose values,
// labels and validation errors the GOV.UK widgets map onto component
// parameters. Each field kind is a concrete type; shared accessors live on the
// Field interface and kind-specific capabilities (checked state, choices, date
// parts, multiple values) are exposed through narrower interfaces.
package forms

// Kind identifies the concrete field variant.
type Kind string

const (
	KindText           Kind = "text"
	KindEmail          Kind = "email"
	KindInteger        Kind = "integer"
	KindFloat          Kind = "float"
	KindPassword       Kind = "password"
	KindTextArea       Kind = "textarea"
	KindBoolean        Kind = "boolean"
	KindSelect         Kind = "select"
	KindSelectMultiple Kind = "select-multiple"
	KindRadio          Kind = "radio"
	KindDate           Kind = "date"
	KindFile           Kind = "file"
	KindSubmit         Kind = "submit"
	KindForm           Kind = "form"
	KindList           Kind = "list"
)

// Flags carries validator-derived markers renderers care about.
type Flags struct {
	Required bool
	Optional bool
}

// Field is the read surface every field kind exposes to widgets.
type Field interface {
	// Name is the submitted input name, including any parent prefixes.
	Name() string
	// ShortName is the name the field was declared with.
	ShortName() string
	ID() string
	Label() string
	Description() string
	// Errors lists validation messages in the order they were raised.
	Errors() []string
	// Value is the string rendition used to fill the input back in.
	Value() string
	// Data is the processed, typed value.
	Data() any
	Flags() Flags
	Kind() Kind
	// Widget is an explicit widget hint, empty when the default applies.
	Widget() string

	core() *base
	bind(prefix string)
	process(sub Submission)
	validate(form *Form) bool
}

// Option describes one selectable entry of a multi-valued field.
type Option struct {
	Label   string
	Value   string
	Checked bool
}

// Choice is a declared value/label pair for select, radio and multi-select
// fields.
type Choice struct {
	Value string
	Label string
}

// Checkable is implemented by single boolean fields.
type Checkable interface {
	Field
	Checked() bool
}

// Chooser is implemented by fields offering a fixed set of choices.
type Chooser interface {
	Field
	Options() []Option
}

// DateValuer is implemented by date fields split over day/month/year inputs.
type DateValuer interface {
	Field
	// DateParts returns the day, month and year strings to display. ok is
	// false when the field holds neither submitted nor default data.
	DateParts() (day, month, year string, ok bool)
}

// Multiple is implemented by fields that can accept more than one value.
type Multiple interface {
	Field
	Multiple() bool
}
