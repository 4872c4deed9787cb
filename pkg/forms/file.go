package forms

import "mime/multipart"

// FileField accepts one upload, or several when declared with
// NewMultipleFileField.
type FileField struct {
	base
	multiple bool
	files    []*multipart.FileHeader
}

// NewFileField declares a single file upload.
func NewFileField(name, label string, opts ...FieldOption) *FileField {
	return &FileField{base: newBase(KindFile, name, label, opts)}
}

// NewMultipleFileField declares an upload accepting several files.
func NewMultipleFileField(name, label string, opts ...FieldOption) *FileField {
	return &FileField{base: newBase(KindFile, name, label, opts), multiple: true}
}

// Data returns the uploaded file headers.
func (f *FileField) Data() any { return f.Files() }

// Files returns the uploaded file headers.
func (f *FileField) Files() []*multipart.FileHeader {
	return append([]*multipart.FileHeader(nil), f.files...)
}

// Value is always empty; browsers never prefill file inputs.
func (f *FileField) Value() string { return "" }

func (f *FileField) Multiple() bool { return f.multiple }

func (f *FileField) process(sub Submission) {
	f.capture(sub)
	f.files = nil
	headers := sub.Files[f.name]
	if len(headers) == 0 {
		return
	}
	if !f.multiple {
		headers = headers[:1]
	}
	f.files = append(f.files, headers...)
	f.raw = f.raw[:0]
	for _, header := range headers {
		f.raw = append(f.raw, header.Filename)
	}
	f.submitted = true
}

func (f *FileField) validate(form *Form) bool {
	return f.runValidation(form, f, nil)
}
