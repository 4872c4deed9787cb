// Package prompt fills forms interactively in a terminal.
package prompt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

// noneOption is offered first for optional single selects.
const noneOption = "(none)"

// Fill asks driver for a value for every field of form and returns them as a
// submission ready for form.Process. Uploads cannot be prompted for and are
// reported through Info. Fields of a FieldList are asked for per existing
// entry, then further entries are offered until declined.
func Fill(ctx context.Context, form *forms.Form, driver PromptDriver) (forms.Submission, error) {
	if form == nil {
		return forms.Submission{}, ErrNilForm
	}
	f := filler{driver: driver, values: url.Values{}}
	if err := f.fields(ctx, form.Fields(), identityName); err != nil {
		return forms.Submission{}, err
	}
	return forms.NewSubmission(f.values), nil
}

type filler struct {
	driver PromptDriver
	values url.Values
}

func identityName(name string) string { return name }

func (f *filler) fields(ctx context.Context, fields []forms.Field, rename func(string) string) error {
	for _, field := range fields {
		if err := f.field(ctx, field, rename); err != nil {
			return fmt.Errorf("prompt: %s: %w", rename(field.Name()), err)
		}
	}
	return nil
}

func (f *filler) field(ctx context.Context, field forms.Field, rename func(string) string) error {
	name := rename(field.Name())
	message := field.Label()

	switch field.Kind() {
	case forms.KindSubmit:
		f.values.Set(name, field.Label())
		return nil

	case forms.KindForm:
		sub, ok := field.(*forms.FormField)
		if !ok {
			return nil
		}
		return f.fields(ctx, sub.Form().Fields(), rename)

	case forms.KindList:
		list, ok := field.(*forms.FieldList)
		if !ok {
			return nil
		}
		return f.list(ctx, list, rename)

	case forms.KindFile:
		return f.driver.Info(ctx, fmt.Sprintf("%s: uploads are not supported here, skipped", message))

	case forms.KindBoolean:
		checked := false
		if c, ok := field.(forms.Checkable); ok {
			checked = c.Checked()
		}
		yes, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: field.Description()})
		if err != nil {
			return err
		}
		if yes {
			f.values.Set(name, "y")
		}
		return nil

	case forms.KindPassword:
		answer, err := f.driver.Password(ctx, InputConfig{Message: message, Help: field.Description()})
		if err != nil {
			return err
		}
		f.set(name, answer)
		return nil

	case forms.KindTextArea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Value(), Help: field.Description()})
		if err != nil {
			return err
		}
		f.set(name, answer)
		return nil

	case forms.KindSelect, forms.KindRadio:
		return f.single(ctx, field, name)

	case forms.KindSelectMultiple:
		return f.multiple(ctx, field, name)

	case forms.KindDate:
		return f.date(ctx, field, name)
	}

	cfg := InputConfig{Message: message, Default: field.Value(), Help: field.Description()}
	switch field.Kind() {
	case forms.KindInteger:
		cfg.Validator = blankOr(func(s string) error {
			_, err := strconv.ParseInt(s, 10, 64)
			return err
		})
	case forms.KindFloat:
		cfg.Validator = blankOr(func(s string) error {
			_, err := strconv.ParseFloat(s, 64)
			return err
		})
	}
	answer, err := f.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	f.set(name, answer)
	return nil
}

func (f *filler) single(ctx context.Context, field forms.Field, name string) error {
	chooser, ok := field.(forms.Chooser)
	if !ok {
		return nil
	}
	options := chooser.Options()
	labels := make([]string, 0, len(options)+1)
	offset := 0
	if !field.Flags().Required {
		labels = append(labels, noneOption)
		offset = 1
	}
	defaultIndex := 0
	for i, option := range options {
		labels = append(labels, option.Label)
		if option.Checked {
			defaultIndex = i + offset
		}
	}

	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      field.Label(),
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         field.Description(),
	})
	if err != nil {
		return err
	}
	if idx -= offset; idx >= 0 && idx < len(options) {
		f.values.Set(name, options[idx].Value)
	}
	return nil
}

func (f *filler) multiple(ctx context.Context, field forms.Field, name string) error {
	chooser, ok := field.(forms.Chooser)
	if !ok {
		return nil
	}
	options := chooser.Options()
	labels := make([]string, 0, len(options))
	var defaults []int
	for i, option := range options {
		labels = append(labels, option.Label)
		if option.Checked {
			defaults = append(defaults, i)
		}
	}

	picked, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message:  field.Label(),
		Options:  labels,
		Defaults: defaults,
		Help:     field.Description(),
	})
	if err != nil {
		return err
	}
	for _, idx := range picked {
		if idx >= 0 && idx < len(options) {
			f.values.Add(name, options[idx].Value)
		}
	}
	return nil
}

func (f *filler) date(ctx context.Context, field forms.Field, name string) error {
	var defaults [3]string
	if dated, ok := field.(forms.DateValuer); ok {
		if day, month, year, ok := dated.DateParts(); ok {
			defaults = [3]string{day, month, year}
		}
	}

	numeric := blankOr(func(s string) error {
		_, err := strconv.Atoi(s)
		return err
	})
	var parts []string
	for i, part := range []string{"Day", "Month", "Year"} {
		answer, err := f.driver.Input(ctx, InputConfig{
			Message:   field.Label() + " (" + part + ")",
			Default:   defaults[i],
			Help:      field.Description(),
			Validator: numeric,
		})
		if err != nil {
			return err
		}
		parts = append(parts, strings.TrimSpace(answer))
	}
	if strings.Join(parts, "") == "" {
		return nil
	}
	f.values[name] = parts
	return nil
}

func (f *filler) list(ctx context.Context, list *forms.FieldList, rename func(string) string) error {
	entries := list.Entries()
	for _, entry := range entries {
		if err := f.fields(ctx, entry.Form().Fields(), rename); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}

	template := entries[0]
	for next := len(entries); ; next++ {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Add another " + strings.ToLower(list.Label()) + "?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		from := template.Name() + "-"
		to := fmt.Sprintf("%s-%d-", rename(list.Name()), next)
		entryName := func(name string) string {
			return to + strings.TrimPrefix(name, from)
		}
		if err := f.fields(ctx, template.Form().Fields(), entryName); err != nil {
			return err
		}
	}
}

func (f *filler) set(name, answer string) {
	if answer = strings.TrimSpace(answer); answer != "" {
		f.values.Set(name, answer)
	}
}

func blankOr(check func(string) error) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if err := check(s); err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		return nil
	}
}
