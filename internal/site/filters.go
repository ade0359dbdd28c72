package site

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

// templateFilters are the page template filters beyond pongo2's built-ins.
func templateFilters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{
		"lowerfirst": filterLowerFirst,
		"fieldid":    filterFieldID,
	}
}

// filterLowerFirst lowercases the first letter so labels read inside
// sentences: "Select {{ label|lowerfirst }}".
func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := in.String()
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(string(unicode.ToLower(r)) + s[size:]), nil
}

var nonIdentifier = regexp.MustCompile(`[^a-z0-9]+`)

// filterFieldID turns a field name and optional option value into a DOM id
// such as "field-preferred-domains-web-dev".
func filterFieldID(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var b strings.Builder
	b.WriteString("field-")
	for _, r := range in.String() {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	if param != nil && !param.IsNil() && param.String() != "" {
		b.WriteByte('-')
		b.WriteString(strings.ToLower(param.String()))
	}
	id := nonIdentifier.ReplaceAllString(b.String(), "-")
	return pongo2.AsValue(strings.Trim(id, "-")), nil
}
