package gateway

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// SanitizeText removes every HTML element from s, keeping the text content.
func SanitizeText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

// Sanitize wraps next so that every text value of the record is stripped of
// markup before it is forwarded. The caller's record is not modified.
func Sanitize(next stepform.Gateway) stepform.Gateway {
	return stepform.GatewayFunc(func(ctx context.Context, sub stepform.Submission) (stepform.Receipt, error) {
		if sub.Record != nil {
			sub.Record = sanitizeRecord(sub.Record)
		}
		return next.Submit(ctx, sub)
	})
}

func sanitizeRecord(rec application.Record) application.Record {
	out := rec.Clone()
	schema, err := application.SchemaFor(rec.Variant())
	if err != nil {
		return out
	}
	for _, name := range schema.FieldNames() {
		v, ok := out.Field(name)
		if !ok || v.Kind() != application.KindText {
			continue
		}
		if clean := SanitizeText(v.String()); clean != v.String() {
			_ = out.SetField(name, application.Text(clean))
		}
	}
	return out
}
