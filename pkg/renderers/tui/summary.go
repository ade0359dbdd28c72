package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-internsite/pkg/application"
)

// Summarize renders rec in the requested output format. OutputFormatNone
// returns an empty string.
func Summarize(schema *application.Schema, rec application.Record, format OutputFormat) (string, error) {
	if schema == nil || rec == nil {
		return "", fmt.Errorf("tui: summary requires a schema and record")
	}
	switch format {
	case OutputFormatNone:
		return "", nil
	case OutputFormatJSON:
		payload, err := application.MarshalPayload(rec)
		if err != nil {
			return "", fmt.Errorf("tui: marshal payload: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, payload, "", "  "); err != nil {
			return "", fmt.Errorf("tui: indent payload: %w", err)
		}
		return buf.String(), nil
	case OutputFormatFormURLEncoded:
		return formValues(schema, rec).Encode(), nil
	case OutputFormatPrettyText, "":
		return prettyText(schema, rec), nil
	default:
		return "", fmt.Errorf("tui: unknown output format %q", format)
	}
}

func formValues(schema *application.Schema, rec application.Record) url.Values {
	values := url.Values{}
	for _, name := range schema.FieldNames() {
		v, ok := rec.Field(name)
		if !ok {
			continue
		}
		switch v.Kind() {
		case application.KindSet:
			for _, item := range v.Items() {
				values.Add(name, item)
			}
		default:
			if v.Present() || v.Kind() == application.KindFlag {
				values.Set(name, v.String())
			}
		}
	}
	return values
}

func prettyText(schema *application.Schema, rec application.Record) string {
	var b strings.Builder
	for _, step := range schema.Steps {
		var lines []string
		for _, field := range step.Fields {
			v, ok := rec.Field(field.Name)
			if !ok || !v.Present() {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s: %s", field.Label, displayValue(field, v)))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n%s\n", step.Title, strings.Join(lines, "\n"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayValue(field application.FieldSpec, v application.Value) string {
	switch v.Kind() {
	case application.KindChoice:
		return field.OptionLabel(v.String())
	case application.KindSet:
		items := v.Items()
		labels := make([]string, len(items))
		for i, item := range items {
			labels[i] = field.OptionLabel(item)
		}
		return strings.Join(labels, ", ")
	case application.KindFlag:
		return "yes"
	default:
		return strings.ReplaceAll(v.String(), "\n", " ")
	}
}
