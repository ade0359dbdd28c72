package application

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a field value.
type Kind int

const (
	// KindText is free-form text (names, dates, narratives).
	KindText Kind = iota + 1
	// KindChoice is a single selection from an option catalog.
	KindChoice
	// KindSet is an unordered set of strings backed by checkboxes.
	KindSet
	// KindFlag is a boolean flag, typically a consent checkbox.
	KindFlag
	// KindFile is an optional binary attachment reference.
	KindFile
)

// String reports a stable identifier for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	case KindSet:
		return "set"
	case KindFlag:
		return "flag"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name so schemas read well over JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a tagged union holding a single field value. The zero Value has no
// kind and is never present.
type Value struct {
	kind  Kind
	text  string
	items []string
	flag  bool
	file  *Attachment
}

// Text wraps a free-text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Choice wraps an option value selected from a catalog.
func Choice(s string) Value {
	return Value{kind: KindChoice, text: s}
}

// Set wraps a string set. Duplicates are dropped while preserving the first
// occurrence order.
func Set(items ...string) Value {
	return Value{kind: KindSet, items: dedupe(items)}
}

// Flag wraps a boolean value.
func Flag(b bool) Value {
	return Value{kind: KindFlag, flag: b}
}

// File wraps an attachment reference; nil clears the attachment.
func File(a *Attachment) Value {
	return Value{kind: KindFile, file: a}
}

// Kind reports the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the text of text and choice values.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindChoice:
		return v.text
	case KindSet:
		return strings.Join(v.items, ", ")
	case KindFlag:
		if v.flag {
			return "true"
		}
		return "false"
	case KindFile:
		if v.file == nil {
			return ""
		}
		return v.file.Name
	default:
		return ""
	}
}

// Items returns a copy of the set members.
func (v Value) Items() []string {
	if v.kind != KindSet {
		return nil
	}
	return append([]string{}, v.items...)
}

// Contains reports whether item is a member of a set value.
func (v Value) Contains(item string) bool {
	for _, existing := range v.items {
		if existing == item {
			return true
		}
	}
	return false
}

// Bool returns the flag value.
func (v Value) Bool() bool {
	return v.kind == KindFlag && v.flag
}

// Attachment returns the attached file, if any.
func (v Value) Attachment() *Attachment {
	if v.kind != KindFile {
		return nil
	}
	return v.file
}

// Present implements the presence rule used by required fields: text must be
// non-empty after trimming, choices non-empty, sets non-empty, flags true and
// files attached.
func (v Value) Present() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) != ""
	case KindChoice:
		return v.text != ""
	case KindSet:
		return len(v.items) > 0
	case KindFlag:
		return v.flag
	case KindFile:
		return v.file != nil
	default:
		return false
	}
}

// Interface exposes the value as a plain Go value for rule evaluation and
// template contexts.
func (v Value) Interface() any {
	switch v.kind {
	case KindText, KindChoice:
		return v.text
	case KindSet:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item
		}
		return out
	case KindFlag:
		return v.flag
	case KindFile:
		if v.file == nil {
			return nil
		}
		return v.file.Name
	default:
		return nil
	}
}

// Equal reports whether two values hold the same kind and content. Set
// membership is compared without regard to order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText, KindChoice:
		return v.text == other.text
	case KindSet:
		if len(v.items) != len(other.items) {
			return false
		}
		for _, item := range v.items {
			if !other.Contains(item) {
				return false
			}
		}
		return true
	case KindFlag:
		return v.flag == other.flag
	case KindFile:
		return v.file.same(other.file)
	default:
		return true
	}
}

// With returns a set value with item added; adding an existing member is a
// no-op.
func (v Value) With(item string) Value {
	if v.Contains(item) {
		return Set(v.items...)
	}
	return Set(append(append([]string{}, v.items...), item)...)
}

// Without returns a set value with item removed.
func (v Value) Without(item string) Value {
	out := make([]string, 0, len(v.items))
	for _, existing := range v.items {
		if existing != item {
			out = append(out, existing)
		}
	}
	return Set(out...)
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
