package widgets

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-govuk-forms/internal/fixtures"
	"github.com/goliatone/go-govuk-forms/pkg/forms"
	"github.com/goliatone/go-govuk-forms/pkg/params"
	"github.com/goliatone/go-govuk-forms/pkg/testsupport"
)

type widgetCase struct {
	Name       string              `yaml:"name"`
	Field      string              `yaml:"field"`
	Widget     string              `yaml:"widget"`
	Submit     map[string][]string `yaml:"submit"`
	Validate   bool                `yaml:"validate"`
	Params     map[string]any      `yaml:"params"`
	Attributes map[string]any      `yaml:"attributes"`
	Expect     map[string]any      `yaml:"expect"`
}

func TestWidgets_FixtureCases(t *testing.T) {
	cases := testsupport.MustLoadYAML[[]widgetCase](t, "testdata/widgets.yaml")
	if len(cases) == 0 {
		t.Fatal("no widget cases loaded")
	}
	reg := NewRegistry()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			form := fixtures.ExampleForm()
			if tc.Submit != nil {
				form.Process(forms.NewSubmission(url.Values(tc.Submit)))
			}
			if tc.Validate {
				form.Validate()
			}

			field, ok := form.Field(tc.Field)
			if !ok {
				t.Fatalf("fixture field %q not found", tc.Field)
			}

			var widget Widget
			if tc.Widget != "" {
				widget, ok = reg.Lookup(tc.Widget)
				if !ok {
					t.Fatalf("widget %q not registered", tc.Widget)
				}
			} else {
				var err error
				if widget, err = reg.Resolve(field); err != nil {
					t.Fatalf("resolve: %v", err)
				}
			}

			got, err := widget.Params(field, Options{
				Params:     params.AsParams(tc.Params),
				Attributes: params.AsParams(tc.Attributes),
			})
			if err != nil {
				t.Fatalf("params: %v", err)
			}
			if diff := testsupport.DiffNormalized(t, tc.Expect, got); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWidgets_MissingID(t *testing.T) {
	field := forms.NewStringField("", "Nameless")

	_, err := TextInput{}.Params(field, Options{})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	got, err := TextInput{}.Params(field, Options{ID: "explicit"})
	if err != nil {
		t.Fatalf("unexpected error with explicit id: %v", err)
	}
	if got["id"] != "explicit" {
		t.Fatalf("expected explicit id, got %v", got["id"])
	}
}

func TestSelect_RejectsMultiple(t *testing.T) {
	field := forms.NewSelectMultipleField("tags", "Tags", []forms.Choice{{Value: "a", Label: "A"}})
	_, err := (Select{}).Params(field, Options{})
	if !errors.Is(err, ErrMultipleSelect) {
		t.Fatalf("expected ErrMultipleSelect, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), `widgets: select "tags": `) {
		t.Fatalf("expected error to name the field, got %q", err)
	}

	single := forms.NewSelectField("tag", "Tag", []forms.Choice{{Value: "a", Label: "A"}})
	if _, err := (Select{Multiple: true}).Params(single, Options{}); !errors.Is(err, ErrMultipleSelect) {
		t.Fatalf("expected ErrMultipleSelect for multiple widget, got %v", err)
	}
}

func TestWidgets_UnsupportedField(t *testing.T) {
	text := forms.NewStringField("s", "S")
	for _, widget := range []Widget{Checkboxes{}, Checkbox{}, Radios{}, DateInput{}, Select{}} {
		if _, err := widget.Params(text, Options{}); !errors.Is(err, ErrUnsupportedField) {
			t.Fatalf("%s: expected ErrUnsupportedField, got %v", widget.Name(), err)
		}
	}
}

func TestPasswordInput_ShowValue(t *testing.T) {
	field := forms.NewPasswordField("pw", "Password")
	forms.New(field).Process(forms.NewSubmission(url.Values{"pw": {"secret"}}))

	hidden, _ := PasswordInput{}.Params(field, Options{})
	shown, _ := PasswordInput{ShowValue: true}.Params(field, Options{})
	if hidden["value"] != "" || shown["value"] != "secret" {
		t.Fatalf("hidden=%v shown=%v", hidden["value"], shown["value"])
	}
}

func TestOptions_OverrideValueAndRequired(t *testing.T) {
	field := forms.NewStringField("s", "S", forms.WithValidators(forms.InputRequired("")))

	got, err := TextInput{}.Params(field, Options{
		Value:    String("forced"),
		Required: Bool(false),
		Type:     "tel",
	})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if got["value"] != "forced" || got["type"] != "tel" {
		t.Fatalf("unexpected value/type: %v %v", got["value"], got["type"])
	}
	if _, ok := got.Map("attributes")["required"]; ok {
		t.Fatal("required attribute should be suppressed")
	}
}

func TestCharacterCount_Limits(t *testing.T) {
	form := fixtures.ExampleForm()
	field, _ := form.Field("charactercount_field")

	got, err := CharacterCount{MaxLength: 200, Threshold: 75}.Params(field, Options{
		Params: params.Params{"maxlength": 150, "rows": 8},
	})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	want := map[string]any{
		"id":         "charactercount_field",
		"name":       "charactercount_field",
		"label":      map[string]any{"text": "CharacterCountField"},
		"hint":       map[string]any{"text": "CharacterCountFieldHint"},
		"attributes": map[string]any{},
		"value":      "",
		"maxlength":  150,
		"threshold":  75,
		"rows":       8,
	}
	if diff := testsupport.DiffNormalized(t, want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestParams_FreshMapsPerCall(t *testing.T) {
	field := forms.NewStringField("s", "S")
	first, _ := TextInput{}.Params(field, Options{})
	first.Map("attributes")["mutated"] = "yes"
	first.Map("label")["text"] = "changed"

	second, _ := TextInput{}.Params(field, Options{})
	if _, ok := second.Map("attributes")["mutated"]; ok {
		t.Fatal("attributes shared between calls")
	}
	if second.Map("label")["text"] != "S" {
		t.Fatal("label shared between calls")
	}
}

func TestErrorSummaryParams(t *testing.T) {
	form := fixtures.ExampleForm()
	form.Process(forms.NewSubmission(url.Values{}))
	form.Validate()

	got := ErrorSummaryParams(form, params.Params{
		"errorList": []any{params.Params{"text": "Extra", "href": "#extra"}},
	})

	if got["titleText"] != DefaultSummaryTitle {
		t.Fatalf("unexpected title %v", got["titleText"])
	}
	list, ok := params.AsList(got["errorList"])
	if !ok || len(list) < 3 {
		t.Fatalf("unexpected error list %#v", got["errorList"])
	}
	first := params.AsParams(list[0])
	if first["text"] != "StringField is required" || first["href"] != "#string_field" {
		t.Fatalf("unexpected first entry %v", first)
	}
	nested := params.AsParams(list[len(list)-2])
	if nested["href"] != "#nested_form-0-string_field" {
		t.Fatalf("expected nested entry before overrides, got %v", nested)
	}
	last := params.AsParams(list[len(list)-1])
	if last["text"] != "Extra" {
		t.Fatalf("expected override entry appended, got %v", last)
	}
}

func TestErrorSummaryParams_NoErrors(t *testing.T) {
	got := ErrorSummaryParams(forms.New(), nil)
	want := map[string]any{"titleText": DefaultSummaryTitle, "errorList": []any{}}
	if diff := testsupport.DiffNormalized(t, want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_ErrorsFollowFieldErrors(t *testing.T) {
	field := forms.NewStringField("s", "S")
	forms.New(field)

	got, err := TextInput{}.Params(field, Options{Errors: []string{"Already taken"}})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if text := got.Map("errorMessage").String("text"); text != "Already taken" {
		t.Fatalf("unexpected error message %q", text)
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("option errors leaked into the field: %v", errs)
	}

	date := forms.NewDateField("d", "D")
	forms.New(date)
	p, err := DateInput{}.Params(date, Options{Errors: []string{"Too early"}})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	items, _ := params.AsList(p["items"])
	if classes := params.AsParams(items[0]).String("classes"); classes != "govuk-input--width-2 govuk-input--error" {
		t.Fatalf("unexpected day classes %q", classes)
	}

	radio := forms.NewRadioField("r", "R", []forms.Choice{{Value: "a", Label: "A"}})
	forms.New(radio)
	p, err = Radios{}.Params(radio, Options{Errors: []string{"Pick one"}})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if text := p.Map("errorMessage").String("text"); text != "Pick one" {
		t.Fatalf("unexpected radios error message %q", text)
	}
}
