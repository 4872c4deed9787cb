package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMerge_DisjointKeysUnion(t *testing.T) {
	a := Params{"id": "email", "name": "email"}
	b := Params{"classes": "govuk-input--width-20"}

	got := Merge(a, b)
	want := Params{"id": "email", "name": "email", "classes": "govuk-input--width-20"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ListsConcatenate(t *testing.T) {
	a := Params{"items": []any{Params{"text": "One"}, Params{"text": "Two"}}}
	b := Params{"items": []any{Params{"text": "Two"}}}

	got := Merge(a, b)
	want := Params{"items": []any{
		Params{"text": "One"},
		Params{"text": "Two"},
		Params{"text": "Two"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_MixedListTypesConcatenate(t *testing.T) {
	a := Params{"tags": []string{"a", "b"}}
	b := Params{"tags": []any{"c"}}

	got := Merge(a, b)
	want := Params{"tags": []any{"a", "b", "c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_MappingsRecurse(t *testing.T) {
	a := Params{
		"label": Params{"text": "Email", "classes": "govuk-label--m"},
		"fieldset": map[string]any{
			"legend": map[string]any{"text": "Contact", "isPageHeading": false},
		},
	}
	b := Params{
		"label": Params{"classes": "govuk-label--l"},
		"fieldset": Params{
			"legend": Params{"isPageHeading": true},
		},
	}

	got := Merge(a, b)
	want := Params{
		"label": Params{"text": "Email", "classes": "govuk-label--l"},
		"fieldset": Params{
			"legend": Params{"text": "Contact", "isPageHeading": true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ScalarConflictOverrideWins(t *testing.T) {
	cases := []struct {
		name string
		a, b Params
		want any
	}{
		{name: "string", a: Params{"value": "old"}, b: Params{"value": "new"}, want: "new"},
		{name: "bool", a: Params{"value": true}, b: Params{"value": false}, want: false},
		{name: "map replaced by scalar", a: Params{"value": Params{"text": "x"}}, b: Params{"value": "flat"}, want: "flat"},
		{name: "list replaced by map", a: Params{"value": []any{"x"}}, b: Params{"value": Params{"text": "y"}}, want: Params{"text": "y"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.a, tc.b)
			if diff := cmp.Diff(tc.want, got["value"]); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := Params{
		"label": Params{"text": "Email"},
		"items": []any{Params{"text": "One"}},
	}
	b := Params{
		"label": Params{"text": "Email address"},
		"items": []any{Params{"text": "Two"}},
	}
	beforeA, beforeB := Clone(a), Clone(b)

	got := Merge(a, b)
	got.Map("label")["classes"] = "mutated"

	if diff := cmp.Diff(beforeA, a); diff != "" {
		t.Fatalf("base mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeB, b); diff != "" {
		t.Fatalf("overrides mutated (-want +got):\n%s", diff)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	if got := Merge(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty params, got %#v", got)
	}
	got := Merge(nil, Params{"id": "x"})
	if got.String("id") != "x" {
		t.Fatalf("expected override keys to be added, got %#v", got)
	}
}

func TestMerger_CustomStrategies(t *testing.T) {
	merger := NewMerger(Strategies{List: StrategyOverride, Fallback: StrategyKeepBase})

	got := merger.Merge(
		Params{"items": []any{"a"}, "id": "keep"},
		Params{"items": []any{"b"}, "id": "drop"},
	)
	want := Params{"items": []any{"b"}, "id": "keep"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if merger.Strategies().Map != StrategyMerge {
		t.Fatalf("expected empty map strategy to default to merge, got %q", merger.Strategies().Map)
	}
}

func TestMergeItems_PerIndex(t *testing.T) {
	items := []Params{
		{"text": "One", "value": "one"},
		{"text": "Two", "value": "two"},
	}
	overrides := []Params{
		{"hint": Params{"text": "First"}},
	}

	got := MergeItems(items, overrides)
	want := []Params{
		{"text": "One", "value": "one", "hint": Params{"text": "First"}},
		{"text": "Two", "value": "two"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeItems_ExtraOverridesAppended(t *testing.T) {
	got := MergeItems([]Params{{"text": "One"}}, []Params{{"text": "Uno"}, {"divider": "or"}})
	want := []Params{{"text": "Uno"}, {"divider": "or"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeAttributes(t *testing.T) {
	got := NormalizeAttributes(Params{
		"required":     true,
		"multiple":     false,
		"autocomplete": "email",
		"spellcheck":   nil,
	})
	want := Params{"required": "required", "autocomplete": "email"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}
