package gateway

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-internsite/pkg/application"
)

var (
	// ErrNoEndpoint is returned when the endpoint document has no operation
	// for a variant.
	ErrNoEndpoint = errors.New("gateway: no endpoint for variant")
	// ErrNoRecord is returned for submissions without a record.
	ErrNoRecord = errors.New("gateway: submission has no record")
)

// FieldErrors is a rejection that names the offending fields. It is returned
// for 400 and 422 responses carrying an errors payload.
type FieldErrors struct {
	Status int
	Fields map[string][]string
	Form   []string
}

func (e *FieldErrors) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		return fmt.Sprintf("gateway: submission rejected (%d): %s", e.Status, strings.Join(e.Form, "; "))
	}
	return fmt.Sprintf("gateway: submission rejected (%d): invalid %s", e.Status, strings.Join(fields, ", "))
}

// FieldErrors returns the first message per field for inline display.
func (e *FieldErrors) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for field, messages := range e.Fields {
		if len(messages) > 0 {
			out[field] = messages[0]
		}
	}
	return out
}

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gateway: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("gateway: unexpected status %d: %s", e.Status, e.Body)
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429 || e.Status == 408
}

// MapErrorPayload folds a server error payload into field and form level
// messages. Keys may be plain field names, JSON pointers (`/body/email`) or
// dotted paths wrapped in request envelopes (`body.email`, `data[0].email`).
// Keys that do not resolve to a field of the schema are kept as form-level
// messages so nothing is lost.
func MapErrorPayload(schema *application.Schema, payload map[string][]string) *FieldErrors {
	out := &FieldErrors{Fields: map[string][]string{}}
	known := map[string]struct{}{}
	for _, name := range schema.FieldNames() {
		known[name] = struct{}{}
	}
	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		field := resolveField(raw, known)
		if field == "" {
			out.Form = append(out.Form, messages...)
			continue
		}
		out.Fields[field] = normalizeMessages(append(out.Fields[field], messages...))
	}
	sort.Strings(out.Form)
	out.Form = normalizeMessages(out.Form)
	return out
}

func resolveField(raw string, known map[string]struct{}) string {
	if isFormLevelKey(raw) {
		return ""
	}
	for _, segment := range dropWrapperSegments(parsePathSegments(raw)) {
		if _, ok := known[segment]; ok {
			return segment
		}
		if isIndex(segment) {
			continue
		}
		break
	}
	return ""
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data", "attributes", "application":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func isIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	}
	return false
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
