package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"
)

// Validator checks a field after processing. Returning *StopValidation ends
// the chain for that field; any other error is recorded and the chain goes on.
type Validator interface {
	Validate(form *Form, field Field) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(form *Form, field Field) error

// Validate implements Validator.
func (fn ValidatorFunc) Validate(form *Form, field Field) error {
	if fn == nil {
		return nil
	}
	return fn(form, field)
}

// StopValidation halts the validator chain of a field. A non-empty Message is
// recorded; Clear drops messages collected so far.
type StopValidation struct {
	Message string
	Clear   bool
}

func (e *StopValidation) Error() string {
	if e.Message == "" {
		return "forms: validation stopped"
	}
	return e.Message
}

func asStop(err error, target **StopValidation) bool {
	return errors.As(err, target)
}

type flagger interface {
	flags() Flags
}

const (
	defaultRequiredMessage = "This field is required."
	defaultEmailMessage    = "Invalid email address."
)

type inputRequired struct {
	message string
}

// InputRequired fails when the field was not submitted or its first submitted
// value is empty. It marks the field as required.
func InputRequired(message string) Validator {
	return inputRequired{message: message}
}

func (v inputRequired) Validate(_ *Form, field Field) error {
	raw := rawOf(field)
	if len(raw) > 0 && raw[0] != "" {
		return nil
	}
	return &StopValidation{Message: orDefault(v.message, defaultRequiredMessage)}
}

func (inputRequired) flags() Flags { return Flags{Required: true} }

type dataRequired struct {
	message string
}

// DataRequired fails when the processed data is the zero value of its type.
// It marks the field as required.
func DataRequired(message string) Validator {
	return dataRequired{message: message}
}

func (v dataRequired) Validate(_ *Form, field Field) error {
	if !isZero(field.Data()) {
		return nil
	}
	return &StopValidation{Message: orDefault(v.message, defaultRequiredMessage)}
}

func (dataRequired) flags() Flags { return Flags{Required: true} }

type optional struct{}

// Optional stops the chain without errors when nothing meaningful was
// submitted, clearing messages raised during processing.
func Optional() Validator {
	return optional{}
}

func (optional) Validate(_ *Form, field Field) error {
	raw := rawOf(field)
	if len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		return &StopValidation{Clear: true}
	}
	return nil
}

func (optional) flags() Flags { return Flags{Optional: true} }

// Email checks the value parses as a single address with a dotted domain.
func Email(message string) Validator {
	return ValidatorFunc(func(_ *Form, field Field) error {
		value := strings.TrimSpace(field.Value())
		addr, err := mail.ParseAddress(value)
		if err == nil && addr.Address == value {
			at := strings.LastIndex(value, "@")
			if at > 0 && strings.Contains(value[at+1:], ".") {
				return nil
			}
		}
		return errors.New(orDefault(message, defaultEmailMessage))
	})
}

// EqualTo compares the field with another top-level field of the same form.
func EqualTo(other, message string) Validator {
	return ValidatorFunc(func(form *Form, field Field) error {
		target, ok := form.Field(other)
		if !ok {
			return fmt.Errorf("Invalid field name '%s'.", other)
		}
		if field.Value() == target.Value() {
			return nil
		}
		return errors.New(orDefault(message, fmt.Sprintf("Field must be equal to %s.", other)))
	})
}

// Length bounds the character count of the value. A negative bound is
// ignored.
func Length(minLen, maxLen int, message string) Validator {
	return ValidatorFunc(func(_ *Form, field Field) error {
		count := utf8.RuneCountInString(field.Value())
		if (minLen < 0 || count >= minLen) && (maxLen < 0 || count <= maxLen) {
			return nil
		}
		if message != "" {
			return errors.New(message)
		}
		switch {
		case maxLen < 0:
			return fmt.Errorf("Field must be at least %d character long.", minLen)
		case minLen < 0:
			return fmt.Errorf("Field cannot be longer than %d character.", maxLen)
		case minLen == maxLen:
			return fmt.Errorf("Field must be exactly %d characters long.", maxLen)
		default:
			return fmt.Errorf("Field must be between %d and %d characters long.", minLen, maxLen)
		}
	})
}

// AnyOf accepts only the listed values.
func AnyOf(values []string, message string) Validator {
	allowed := slices.Clone(values)
	return ValidatorFunc(func(_ *Form, field Field) error {
		if slices.Contains(allowed, field.Value()) {
			return nil
		}
		return errors.New(orDefault(message, "Invalid value, must be one of: "+strings.Join(allowed, ", ")+"."))
	})
}

func rawOf(field Field) []string {
	if field == nil {
		return nil
	}
	return field.core().RawData()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isZero(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}
