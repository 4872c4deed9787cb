package forms

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
)

// DefaultMaxMemory bounds the in-memory part of multipart parsing.
const DefaultMaxMemory = 32 << 20

// Submission is the posted data a form is processed against.
type Submission struct {
	Values url.Values
	Files  map[string][]*multipart.FileHeader
}

// NewSubmission wraps already decoded form values.
func NewSubmission(values url.Values) Submission {
	return Submission{Values: values}
}

// FromRequest parses the body of r. Multipart bodies keep their uploads in
// Files. Query string values are not included.
func FromRequest(r *http.Request, maxMemory int64) (Submission, error) {
	if r == nil {
		return Submission{}, errors.New("forms: nil request")
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return Submission{}, fmt.Errorf("forms: parse multipart body: %w", err)
		}
		sub := Submission{Values: r.PostForm}
		if r.MultipartForm != nil {
			sub.Files = r.MultipartForm.File
		}
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		return Submission{}, fmt.Errorf("forms: parse form body: %w", err)
	}
	return Submission{Values: r.PostForm}, nil
}

// Empty reports whether nothing was posted.
func (s Submission) Empty() bool {
	return len(s.Values) == 0 && len(s.Files) == 0
}

// Keys returns every posted name, values and uploads combined, sorted.
func (s Submission) Keys() []string {
	seen := make(map[string]struct{}, len(s.Values)+len(s.Files))
	for key := range s.Values {
		seen[key] = struct{}{}
	}
	for key := range s.Files {
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s Submission) lookup(name string) ([]string, bool) {
	if values, ok := s.Values[name]; ok {
		return append([]string(nil), values...), true
	}
	if _, ok := s.Files[name]; ok {
		return []string{}, true
	}
	return nil, false
}
