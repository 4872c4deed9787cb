package forms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-govuk-forms/pkg/errortree"
)

// FormField embeds a sub-form. Child inputs are named "<name>-<child>".
type FormField struct {
	base
	form *Form
}

// NewFormField wraps form as a single nested field.
func NewFormField(name, label string, form *Form, opts ...FieldOption) *FormField {
	if form == nil {
		form = New()
	}
	f := &FormField{base: newBase(KindForm, name, label, opts), form: form}
	f.form.bind(f.name + errortree.Separator)
	return f
}

// Form returns the nested form.
func (f *FormField) Form() *Form { return f.form }

func (f *FormField) Data() any     { return f.form.Data() }
func (f *FormField) Value() string { return "" }

// Errors flattens the sub-form failures into messages; use Form.Errors for
// the nested structure.
func (f *FormField) Errors() []string {
	var out []string
	for _, item := range errortree.Flatten(f.form.Errors(), "", nil) {
		out = append(out, item.Text)
	}
	return out
}

func (f *FormField) bind(prefix string) {
	f.base.bind(prefix)
	f.form.bind(f.name + errortree.Separator)
}

func (f *FormField) process(sub Submission) {
	f.capture(sub)
	f.form.Process(sub)
}

func (f *FormField) validate(_ *Form) bool {
	return f.form.Validate()
}

// FieldList repeats a sub-form. Entries are named "<name>-<index>" and
// created from the submitted indices, topped up to the minimum entry count.
type FieldList struct {
	base
	factory    func() *Form
	minEntries int
	entries    []*FormField
}

// NewFieldList declares a repeated sub-form built by factory.
func NewFieldList(name, label string, minEntries int, factory func() *Form, opts ...FieldOption) *FieldList {
	if factory == nil {
		factory = func() *Form { return New() }
	}
	f := &FieldList{
		base:       newBase(KindList, name, label, opts),
		factory:    factory,
		minEntries: max(minEntries, 0),
	}
	f.build(nil)
	return f
}

// Entries returns the current entries in index order.
func (f *FieldList) Entries() []*FormField {
	return append([]*FormField(nil), f.entries...)
}

// Data returns one map per entry.
func (f *FieldList) Data() any {
	out := make([]map[string]any, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, entry.form.Data())
	}
	return out
}

func (f *FieldList) Value() string { return "" }

// Errors flattens all entry failures into messages.
func (f *FieldList) Errors() []string {
	var out []string
	for _, entry := range f.entries {
		out = append(out, entry.Errors()...)
	}
	return out
}

func (f *FieldList) bind(prefix string) {
	f.base.bind(prefix)
	for _, entry := range f.entries {
		entry.bind(f.name + errortree.Separator)
	}
}

func (f *FieldList) build(indices []int) {
	f.entries = f.entries[:0]
	last := -1
	for _, idx := range indices {
		f.entries = append(f.entries, f.newEntry(idx))
		last = idx
	}
	for len(f.entries) < f.minEntries {
		last++
		f.entries = append(f.entries, f.newEntry(last))
	}
}

func (f *FieldList) newEntry(idx int) *FormField {
	entry := &FormField{
		base: newBase(KindForm, strconv.Itoa(idx), f.label, nil),
		form: f.factory(),
	}
	entry.bind(f.name + errortree.Separator)
	return entry
}

func (f *FieldList) process(sub Submission) {
	f.capture(sub)
	f.build(f.indices(sub))
	for _, entry := range f.entries {
		entry.process(sub)
	}
}

// indices extracts the distinct entry indices posted under the list name.
func (f *FieldList) indices(sub Submission) []int {
	prefix := f.name + errortree.Separator
	seen := make(map[int]struct{})
	for _, key := range sub.Keys() {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		head, _, _ := strings.Cut(rest, errortree.Separator)
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 {
			continue
		}
		seen[idx] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func (f *FieldList) validate(_ *Form) bool {
	ok := true
	for _, entry := range f.entries {
		if !entry.validate(nil) {
			ok = false
		}
	}
	return ok
}

// entryErrors keys failures by entry index so summary links match the
// submitted names even when indices are not contiguous.
func (f *FieldList) entryErrors(extra map[string][]string) *errortree.Tree {
	tree := errortree.New()
	for _, entry := range f.entries {
		if errs := entry.form.ErrorsWith(extra); !errs.Empty() {
			tree.Set(entry.ShortName(), errs)
		}
	}
	return tree
}
