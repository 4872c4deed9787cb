// Package testsupport collects helpers shared by package tests: YAML case
// tables, JSON normalisation for params comparisons and golden files.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// MustLoadYAML decodes a YAML fixture into T, failing the test on error.
func MustLoadYAML[T any](t *testing.T, path string) T {
	t.Helper()

	out, err := LoadYAML[T](path)
	if err != nil {
		t.Fatalf("load yaml fixture: %v", err)
	}
	return out
}

// LoadYAML decodes a YAML fixture without requiring testing.T.
func LoadYAML[T any](path string) (T, error) {
	var out T
	if path == "" {
		return out, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("testsupport: decode fixture %s: %w", path, err)
	}
	return out, nil
}

// Normalize round-trips value through JSON so maps built from different Go
// types (params.Params, map[string]any, YAML-decoded values) compare equal.
func Normalize(t *testing.T, value any) any {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("normalize marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("normalize unmarshal: %v", err)
	}
	return out
}

// DiffNormalized compares want and got after normalisation.
func DiffNormalized(t *testing.T, want, got any) string {
	t.Helper()
	return cmp.Diff(Normalize(t, want), Normalize(t, got))
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

var (
	markupSpace = regexp.MustCompile(`\s+`)
	markupGap   = regexp.MustCompile(`>\s+<`)
)

// CompareGolden diffs two markup strings after collapsing whitespace, so
// template indentation does not break golden comparisons.
func CompareGolden(want, got string) string {
	return cmp.Diff(normalizeMarkup(want), normalizeMarkup(got))
}

func normalizeMarkup(s string) string {
	s = markupSpace.ReplaceAllString(strings.TrimSpace(s), " ")
	return markupGap.ReplaceAllString(s, "><")
}
