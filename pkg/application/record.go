package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a record has no field with the name.
	ErrUnknownField = errors.New("application: unknown field")
	// ErrKindMismatch is returned when a value of the wrong kind is written.
	ErrKindMismatch = errors.New("application: value kind mismatch")
)

// Record is a fixed, typed application record. Implementations are the
// variant structs of this package.
type Record interface {
	Variant() Variant
	// Field returns the current value of a named field.
	Field(name string) (Value, bool)
	// SetField replaces the value of a named field. The value kind must
	// match the field kind.
	SetField(name string, v Value) error
	// Clone returns a deep copy.
	Clone() Record

	slot(name string) (slot, bool)
}

// New returns an empty record for the variant.
func New(v Variant) (Record, error) {
	switch v {
	case VariantIndividual:
		return NewIndividual(), nil
	case VariantInstitute:
		return NewInstitute(), nil
	case VariantEnquiry:
		return NewEnquiry(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

// slot binds a field name to the typed struct member that stores it.
type slot struct {
	kind  Kind
	text  *string
	items *[]string
	flag  *bool
	file  **Attachment
}

func textSlot(p *string) slot { return slot{kind: KindText, text: p} }
func choiceSlot(p *string) slot { return slot{kind: KindChoice, text: p} }
func setSlot(p *[]string) slot { return slot{kind: KindSet, items: p} }
func flagSlot(p *bool) slot { return slot{kind: KindFlag, flag: p} }
func fileSlot(p **Attachment) slot { return slot{kind: KindFile, file: p} }

func (s slot) get() Value {
	switch s.kind {
	case KindText:
		return Text(*s.text)
	case KindChoice:
		return Choice(*s.text)
	case KindSet:
		return Set(*s.items...)
	case KindFlag:
		return Flag(*s.flag)
	case KindFile:
		return File((*s.file).clone())
	default:
		return Value{}
	}
}

func (s slot) put(v Value) error {
	if v.Kind() != s.kind {
		return fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, s.kind, v.Kind())
	}
	switch s.kind {
	case KindText, KindChoice:
		*s.text = v.text
	case KindSet:
		*s.items = v.Items()
	case KindFlag:
		*s.flag = v.flag
	case KindFile:
		if err := ValidateAttachment(v.file); err != nil {
			return err
		}
		*s.file = v.file.clone()
	}
	return nil
}

func getField(r Record, name string) (Value, bool) {
	s, ok := r.slot(name)
	if !ok {
		return Value{}, false
	}
	return s.get(), true
}

func setField(r Record, name string, v Value) error {
	s, ok := r.slot(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if err := s.put(v); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return nil
}

// KindOf reports the kind of a named field on the record.
func KindOf(r Record, name string) (Kind, bool) {
	s, ok := r.slot(name)
	if !ok {
		return 0, false
	}
	return s.kind, true
}

// Values snapshots every schema field of the record as plain Go values keyed
// by field name, suitable for rule evaluation and template contexts.
func Values(r Record) map[string]any {
	schema, err := SchemaFor(r.Variant())
	if err != nil {
		return nil
	}
	out := make(map[string]any)
	for _, name := range schema.FieldNames() {
		if v, ok := r.Field(name); ok {
			out[name] = v.Interface()
		}
	}
	return out
}

// NamedAttachment pairs a file field with its attachment.
type NamedAttachment struct {
	Field      string
	Attachment *Attachment
}

// Attachments lists the attached files of the record in schema order.
func Attachments(r Record) []NamedAttachment {
	schema, err := SchemaFor(r.Variant())
	if err != nil {
		return nil
	}
	var out []NamedAttachment
	for _, name := range schema.FieldNames() {
		v, ok := r.Field(name)
		if !ok || v.Kind() != KindFile || v.Attachment() == nil {
			continue
		}
		out = append(out, NamedAttachment{Field: name, Attachment: v.Attachment()})
	}
	return out
}

// PayloadTypeKey is the discriminator added to serialized payloads.
const PayloadTypeKey = "applicationType"

// MarshalPayload encodes the record as the JSON submission body: the record's
// camelCase fields plus the applicationType discriminator. Attachment bytes
// are not included.
func MarshalPayload(r Record) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("application: marshal payload: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("application: marshal payload: %w", err)
	}
	tag, _ := json.Marshal(string(r.Variant()))
	fields[PayloadTypeKey] = tag
	return json.Marshal(fields)
}

// DecodePayload is the inverse of MarshalPayload. Unknown fields are rejected
// so that typos in client payloads surface instead of being dropped.
func DecodePayload(data []byte) (Record, error) {
	var head struct {
		Type string `json:"applicationType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("application: decode payload: %w", err)
	}
	variant, err := ParseVariant(head.Type)
	if err != nil {
		return nil, err
	}
	return DecodeVariant(variant, data)
}

// DecodeVariant decodes a payload into a record of a known variant. The
// applicationType key, when present, must agree with the variant.
func DecodeVariant(variant Variant, data []byte) (Record, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("application: decode payload: %w", err)
	}
	if tag, ok := fields[PayloadTypeKey]; ok {
		var s string
		if err := json.Unmarshal(tag, &s); err != nil || Variant(s) != variant {
			return nil, fmt.Errorf("%w: payload tagged %s, expected %s", ErrUnknownVariant, tag, variant)
		}
		delete(fields, PayloadTypeKey)
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("application: decode payload: %w", err)
	}
	rec, err := New(variant)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return nil, fmt.Errorf("application: decode payload: %w", err)
	}
	normalize(rec)
	return rec, nil
}

// normalize replaces null sets with empty ones so encoded payloads always
// carry arrays.
func normalize(r Record) {
	schema, err := SchemaFor(r.Variant())
	if err != nil {
		return
	}
	for _, name := range schema.FieldNames() {
		s, ok := r.slot(name)
		if ok && s.kind == KindSet && *s.items == nil {
			*s.items = []string{}
		}
	}
}
