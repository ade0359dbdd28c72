// Package testsupport holds shared helpers for golden files and application
// fixtures used across package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/pkg/application"
)

// MustRecord builds a record for variant and applies values by field name.
// Strings become text or choice values depending on the field kind, []string
// becomes a set and bool a flag.
func MustRecord(t *testing.T, variant application.Variant, values map[string]any) application.Record {
	t.Helper()

	rec, err := BuildRecord(variant, values)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return rec
}

// BuildRecord is the error-returning form of MustRecord for setup code that
// runs outside *testing.T.
func BuildRecord(variant application.Variant, values map[string]any) (application.Record, error) {
	rec, err := application.New(variant)
	if err != nil {
		return nil, err
	}
	for name, raw := range values {
		kind, ok := application.KindOf(rec, name)
		if !ok {
			return nil, fmt.Errorf("testsupport: %w: %s", application.ErrUnknownField, name)
		}
		value, err := coerce(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("testsupport: field %q: %w", name, err)
		}
		if err := rec.SetField(name, value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func coerce(kind application.Kind, raw any) (application.Value, error) {
	switch v := raw.(type) {
	case application.Value:
		return v, nil
	case string:
		if kind == application.KindChoice {
			return application.Choice(v), nil
		}
		return application.Text(v), nil
	case []string:
		return application.Set(v...), nil
	case bool:
		return application.Flag(v), nil
	case *application.Attachment:
		return application.File(v), nil
	default:
		return application.Value{}, fmt.Errorf("unsupported fixture value %T", raw)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
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

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
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

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
