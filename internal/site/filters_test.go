package site

import (
	"testing"

	"github.com/flosch/pongo2/v6"
)

func TestTemplateFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter pongo2.FilterFunction
		in     any
		param  *pongo2.Value
		want   string
	}{
		{name: "lowerfirst", filter: filterLowerFirst, in: "Email is required", want: "email is required"},
		{name: "lowerfirst empty", filter: filterLowerFirst, in: "", want: ""},
		{name: "fieldid", filter: filterFieldID, in: "fullName", want: "field-full-name"},
		{name: "fieldid option", filter: filterFieldID, in: "preferredDomains", param: pongo2.AsValue("Web Dev"), want: "field-preferred-domains-web-dev"},
		{name: "fieldid symbols", filter: filterFieldID, in: "databases", param: pongo2.AsValue("SQL Server"), want: "field-databases-sql-server"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.filter(pongo2.AsValue(tc.in), tc.param)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if got := out.String(); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}
