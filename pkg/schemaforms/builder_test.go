package schemaforms

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-govuk-forms/pkg/forms"
)

func loadOperations(t *testing.T) map[string]Operation {
	t.Helper()
	data, err := NewLoader().Load(context.Background(), filepath.Join("testdata", "applicant.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ops, err := ParseOperations(context.Background(), data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ops
}

func TestParseOperations(t *testing.T) {
	ops := loadOperations(t)

	if diff := cmp.Diff([]string{"createApplication", "put:/notes/{id}"}, OperationIDs(ops)); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}
	create := ops["createApplication"]
	if create.Method != "POST" || create.Path != "/applications" || create.MediaType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected operation %+v", create)
	}
	if ops["put:/notes/{id}"].MediaType != "application/json" {
		t.Fatalf("expected json body fallback")
	}
}

func TestParseOperations_Errors(t *testing.T) {
	if _, err := ParseOperations(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseOperations(ctx, []byte("openapi: 3.0.3")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuild_FieldKinds(t *testing.T) {
	form, err := Build(loadOperations(t)["createApplication"], WithSubmit("submit", ""))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var names []string
	kinds := map[string]forms.Kind{}
	for _, field := range form.Fields() {
		names = append(names, field.Name())
		kinds[field.Name()] = field.Kind()
	}
	wantNames := []string{
		"full_name", "email", "date_of_birth",
		"address", "age", "agree", "children", "contact", "documents", "extras",
		"licence", "notes", "photo", "score", "secret", "submit",
	}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	wantKinds := map[string]forms.Kind{
		"full_name":     forms.KindText,
		"email":         forms.KindEmail,
		"date_of_birth": forms.KindDate,
		"address":       forms.KindForm,
		"age":           forms.KindInteger,
		"agree":         forms.KindBoolean,
		"children":      forms.KindList,
		"contact":       forms.KindSelect,
		"documents":     forms.KindFile,
		"extras":        forms.KindSelectMultiple,
		"licence":       forms.KindRadio,
		"notes":         forms.KindTextArea,
		"photo":         forms.KindFile,
		"score":         forms.KindFloat,
		"secret":        forms.KindPassword,
		"submit":        forms.KindSubmit,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_LabelsDefaultsAndValidation(t *testing.T) {
	form, err := Build(loadOperations(t)["createApplication"])
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	fullName, _ := form.Field("full_name")
	if fullName.Label() != "Full name" || fullName.Description() != "As shown on your passport" || !fullName.Flags().Required {
		t.Fatalf("unexpected full_name %q %q %+v", fullName.Label(), fullName.Description(), fullName.Flags())
	}
	dob, _ := form.Field("date_of_birth")
	if dob.Label() != "Date of birth" {
		t.Fatalf("expected humanized label, got %q", dob.Label())
	}
	contact, _ := form.Field("contact")
	if contact.Value() != "phone" {
		t.Fatalf("expected default phone, got %q", contact.Value())
	}
	age, _ := form.Field("age")
	if age.Value() != "30" {
		t.Fatalf("expected default age, got %q", age.Value())
	}
	licence, _ := form.Field("licence")
	if choices, ok := licence.(interface{ Choices() []forms.Choice }); ok {
		want := []forms.Choice{{Value: "car", Label: "Car"}, {Value: "bike", Label: "Motorbike"}}
		if diff := cmp.Diff(want, choices.Choices()); diff != "" {
			t.Fatalf("choices mismatch (-want +got):\n%s", diff)
		}
	}
	children, _ := form.Field("children")
	if list, ok := children.(*forms.FieldList); !ok || len(list.Entries()) != 2 {
		t.Fatalf("expected two list entries, got %#v", children)
	}

	form.Process(forms.NewSubmission(url.Values{
		"full_name": {"Someone with a long name"},
		"email":     {"not-an-email"},
	}))
	if form.Validate() {
		t.Fatal("expected validation to fail")
	}
	errs := map[string][]string{}
	for _, name := range []string{"full_name", "email", "licence"} {
		field, _ := form.Field(name)
		errs[name] = field.Errors()
	}
	if len(errs["full_name"]) != 1 || len(errs["email"]) != 1 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if diff := cmp.Diff([]string{"Licence is required"}, errs["licence"]); diff != "" {
		t.Fatalf("licence errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_RejectsNonObjects(t *testing.T) {
	op := Operation{ID: "scalar", Schema: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	if _, err := Build(op); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}

	arr := openapi3.NewObjectSchema().WithProperty("tags", openapi3.NewArraySchema().WithItems(openapi3.NewIntegerSchema()))
	if _, err := Build(Operation{ID: "tags", Schema: arr}); !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.yaml"), []byte("openapi: 3.0.3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewLoader(WithFileSystem(os.DirFS(dir))).Load(context.Background(), "doc.yaml")
	if err != nil || string(got) != "openapi: 3.0.3" {
		t.Fatalf("fs load: %q %v", got, err)
	}
	if _, err := NewLoader().Load(context.Background(), "https://example.com/doc.yaml"); err == nil {
		t.Fatal("expected http to be disabled by default")
	}
	if _, err := NewLoader().Load(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank location")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"date_of_birth": "Date of birth",
		"firstName":     "First name",
		"age":           "Age",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
