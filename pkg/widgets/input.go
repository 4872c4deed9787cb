package widgets

import (
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
)

// Widget names used by the registry.
const (
	NameTextInput      = "text-input"
	NameEmailInput     = "email-input"
	NamePasswordInput  = "password-input"
	NameTextArea       = "textarea"
	NameCharacterCount = "character-count"
	NameCheckboxes     = "checkboxes"
	NameCheckbox       = "checkbox"
	NameRadios         = "radios"
	NameDateInput      = "date-input"
	NameFileUpload     = "file-upload"
	NameButton         = "button"
	NameSelect         = "select"
)

// Input renders a single <input> of the given type.
type Input struct {
	// InputType defaults to "text".
	InputType string
	// WidgetName overrides the registry name, defaulting to "<type>-input".
	WidgetName string
}

func (w Input) Name() string {
	if w.WidgetName != "" {
		return w.WidgetName
	}
	return w.inputType() + "-input"
}

func (Input) Template() string { return "input" }

func (w Input) inputType() string {
	if w.InputType == "" {
		return "text"
	}
	return w.InputType
}

func (w Input) Params(field forms.Field, opts Options) (params.Params, error) {
	return inputParams(field, opts, w.inputType())
}

func inputParams(field forms.Field, opts Options, inputType string) (params.Params, error) {
	id, err := opts.resolveID(field)
	if err != nil {
		return nil, err
	}
	b := base{id: id, inputType: inputType, hasValue: true, value: field.Value()}
	if opts.Type != "" {
		b.inputType = opts.Type
	}
	if opts.Value != nil {
		b.value = *opts.Value
	}
	return mapBaseParams(field, b, opts), nil
}

// TextInput renders a single-line text input.
type TextInput struct{}

func (TextInput) Name() string     { return NameTextInput }
func (TextInput) Template() string { return "input" }

func (TextInput) Params(field forms.Field, opts Options) (params.Params, error) {
	return inputParams(field, opts, "text")
}

// PasswordInput renders a password input. The submitted value is not echoed
// back unless ShowValue is set.
type PasswordInput struct {
	ShowValue bool
}

func (PasswordInput) Name() string     { return NamePasswordInput }
func (PasswordInput) Template() string { return "input" }

func (w PasswordInput) Params(field forms.Field, opts Options) (params.Params, error) {
	if !w.ShowValue {
		opts.Value = String("")
	}
	return inputParams(field, opts, "password")
}

// TextArea renders a multi-line text area.
type TextArea struct{}

func (TextArea) Name() string     { return NameTextArea }
func (TextArea) Template() string { return "textarea" }

func (TextArea) Params(field forms.Field, opts Options) (params.Params, error) {
	return textAreaParams(field, opts)
}

func textAreaParams(field forms.Field, opts Options) (params.Params, error) {
	id, err := opts.resolveID(field)
	if err != nil {
		return nil, err
	}
	b := base{id: id, hasValue: true, value: field.Value()}
	if opts.Value != nil {
		b.value = *opts.Value
	}
	return mapBaseParams(field, b, opts), nil
}

// CharacterCount renders a text area with a live character or word count.
// Zero limits are left out of the params.
type CharacterCount struct {
	MaxLength int
	MaxWords  int
	// Threshold is the percentage of the limit at which the count shows.
	Threshold int
}

func (CharacterCount) Name() string     { return NameCharacterCount }
func (CharacterCount) Template() string { return "character-count" }

func (w CharacterCount) Params(field forms.Field, opts Options) (params.Params, error) {
	limits := params.Params{}
	if w.MaxLength > 0 {
		limits["maxlength"] = w.MaxLength
	}
	if w.MaxWords > 0 {
		limits["maxwords"] = w.MaxWords
	}
	if w.Threshold > 0 {
		limits["threshold"] = w.Threshold
	}
	opts.Params = params.Merge(limits, opts.Params)
	return textAreaParams(field, opts)
}

// FileInput renders a file chooser. Browsers never prefill file inputs, so the
// value is always false.
type FileInput struct {
	Multiple bool
}

func (FileInput) Name() string     { return NameFileUpload }
func (FileInput) Template() string { return "file-upload" }

func (w FileInput) Params(field forms.Field, opts Options) (params.Params, error) {
	id, err := opts.resolveID(field)
	if err != nil {
		return nil, err
	}
	multiple := w.Multiple
	if m, ok := field.(forms.Multiple); ok && m.Multiple() {
		multiple = true
	}
	if multiple {
		attrs := params.Clone(opts.Attributes)
		if attrs == nil {
			attrs = params.Params{}
		}
		attrs["multiple"] = true
		opts.Attributes = attrs
	}
	inputType := "file"
	if opts.Type != "" {
		inputType = opts.Type
	}
	return mapBaseParams(field, base{id: id, inputType: inputType, hasValue: true, value: false}, opts), nil
}

// Submit renders a button whose text defaults to the field label.
type Submit struct{}

func (Submit) Name() string     { return NameButton }
func (Submit) Template() string { return "button" }

func (Submit) Params(field forms.Field, opts Options) (params.Params, error) {
	out, err := inputParams(field, opts, "submit")
	if err != nil {
		return nil, err
	}
	out.SetDefault("text", field.Label())
	out.SetDefault("element", "button")
	return out, nil
}
