// Package fixtures holds the example form used by the demo server, the CLI and
// package tests. It covers every field kind the widgets render.
package fixtures

import (
	"errors"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// ServerSideName is the only value the string field accepts.
const ServerSideName = "John Smith"

// ChildForm is the entry form repeated by the nested_form field list.
func ChildForm() *forms.Form {
	return forms.New(
		forms.NewStringField("string_field", "StringField",
			forms.WithValidators(forms.InputRequired("StringField is required")),
		),
	)
}

var defaultChoices = []forms.Choice{
	{Value: "one", Label: "One"},
	{Value: "two", Label: "Two"},
	{Value: "three", Label: "Three"},
}

// ExampleForm returns a fresh form with one field of every kind.
func ExampleForm() *forms.Form {
	return forms.New(
		forms.NewStringField("string_field", "StringField",
			forms.WithDescription("StringFieldHint"),
			forms.WithValidators(
				forms.InputRequired("StringField is required"),
				forms.ValidatorFunc(requireServerSideName),
			),
		),
		forms.NewDateField("date_field", "DateField",
			forms.WithDescription("DateFieldHint"),
			forms.WithValidators(forms.InputRequired("Date is required")),
		),
		forms.NewEmailField("email_field", "EmailField",
			forms.WithDescription("EmailFieldHint"),
			forms.WithValidators(forms.InputRequired("EmailField is required"), forms.Email("")),
		),
		forms.NewFloatField("float_field", "FloatField",
			forms.WithDescription("FloatFieldHint"),
			forms.WithValidators(forms.InputRequired("FloatField is required")),
		),
		forms.NewIntegerField("integer_field", "IntegerField",
			forms.WithDescription("IntegerFieldHint"),
			forms.WithValidators(forms.InputRequired("IntegerField is required")),
		),
		forms.NewTextAreaField("textarea_field", "TextAreaField",
			forms.WithDescription("TextAreaFieldHint"),
			forms.WithValidators(forms.InputRequired("TextAreaField is required")),
		),
		forms.NewTextAreaField("charactercount_field", "CharacterCountField",
			forms.WithDescription("CharacterCountFieldHint"),
			forms.WithWidget("character-count"),
			forms.WithValidators(forms.Length(-1, 200, "CharacterCountField must be 200 characters or fewer")),
		),
		forms.NewBooleanField("boolean_field", "BooleanField",
			forms.WithDescription("BooleanFieldHint"),
			forms.WithValidators(forms.InputRequired("Please tick the box")),
		),
		forms.NewSelectField("select_field", "SelectField",
			append([]forms.Choice{{Value: "", Label: "Please select"}}, defaultChoices...),
			forms.WithDescription("SelectFieldHint"),
			forms.WithDefault(""),
			forms.WithValidators(forms.InputRequired("Please select an option")),
		),
		forms.NewSelectMultipleField("select_multiple_field", "SelectMultipleField", defaultChoices,
			forms.WithDescription("SelectMultipleFieldHint"),
			forms.WithValidators(forms.InputRequired("Please select an option")),
		),
		forms.NewRadioField("radio_field", "RadioField", defaultChoices,
			forms.WithDescription("RadioFieldHint"),
			forms.WithValidators(forms.InputRequired("Please select an option")),
		),
		forms.NewFileField("file_field", "FileField",
			forms.WithDescription("FileFieldHint"),
			forms.WithValidators(forms.InputRequired("Please upload a file")),
		),
		forms.NewMultipleFileField("multiple_file_field", "MultipleFileField",
			forms.WithDescription("MultipleFileFieldHint"),
			forms.WithValidators(forms.InputRequired("Please upload a file")),
		),
		forms.NewPasswordField("password_field", "PasswordField",
			forms.WithDescription("PasswordFieldHint"),
			forms.WithValidators(
				forms.InputRequired("Password is required"),
				forms.EqualTo("password_retype_field", "Please ensure both password fields match"),
			),
		),
		forms.NewPasswordField("password_retype_field", "Re-type your password",
			forms.WithDescription("PasswordFieldHint"),
			forms.WithValidators(forms.InputRequired("Please retype your password")),
		),
		forms.NewFieldList("nested_form", "NestedForm", 1, ChildForm),
		forms.NewSubmitField("submit_button", "SubmitField"),
	)
}

func requireServerSideName(_ *forms.Form, field forms.Field) error {
	if field.Value() != ServerSideName {
		return errors.New(`Example serverside error - type "John Smith" into this field to suppress it`)
	}
	return nil
}
