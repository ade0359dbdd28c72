package stepform

import (
	"fmt"

	"github.com/goliatone/go-internsite/pkg/application"
)

// Store holds the record of one form session and its per-field error
// mapping. It is owned by a single Controller and is not safe for concurrent
// use on its own.
type Store struct {
	schema *application.Schema
	record application.Record
	errors Errors
}

// NewStore returns an empty store for the variant.
func NewStore(variant application.Variant) (*Store, error) {
	schema, err := application.SchemaFor(variant)
	if err != nil {
		return nil, err
	}
	rec, err := application.New(variant)
	if err != nil {
		return nil, err
	}
	return &Store{schema: schema, record: rec, errors: Errors{}}, nil
}

// Variant reports the record variant.
func (s *Store) Variant() application.Variant {
	return s.schema.Variant
}

// Set replaces the value of a field. A recorded error for the field is
// cleared as a side effect; it is only recomputed by the next validation
// pass.
func (s *Store) Set(field string, v application.Value) error {
	if err := s.checkOptions(field, v); err != nil {
		return err
	}
	if err := s.record.SetField(field, v); err != nil {
		return err
	}
	delete(s.errors, field)
	return nil
}

// Toggle adds item to a set-valued field when checked, removes it otherwise.
// Adding an existing member leaves the set unchanged.
func (s *Store) Toggle(field, item string, checked bool) error {
	current, ok := s.record.Field(field)
	if !ok {
		return fmt.Errorf("%w: %q", application.ErrUnknownField, field)
	}
	if current.Kind() != application.KindSet {
		return fmt.Errorf("field %q: %w: want set, got %s", field, application.ErrKindMismatch, current.Kind())
	}
	next := current.Without(item)
	if checked {
		next = current.With(item)
	}
	return s.Set(field, next)
}

// Value returns the current value of a field.
func (s *Store) Value(field string) (application.Value, bool) {
	return s.record.Field(field)
}

// Record returns a deep copy of the current record.
func (s *Store) Record() application.Record {
	return s.record.Clone()
}

// Errors returns a copy of the error mapping.
func (s *Store) Errors() Errors {
	return s.errors.clone()
}

// Reset replaces the record wholesale and drops all errors.
func (s *Store) Reset() {
	rec, _ := application.New(s.schema.Variant)
	s.record = rec
	s.errors = Errors{}
}

func (s *Store) setErrors(errs Errors) {
	s.errors = errs.clone()
}

func (s *Store) checkOptions(field string, v application.Value) error {
	spec, _, ok := s.schema.Field(field)
	if !ok || len(spec.Options) == 0 {
		return nil
	}
	switch v.Kind() {
	case application.KindChoice:
		if v.String() != "" && !spec.HasOption(v.String()) {
			return fmt.Errorf("field %q: %w: %q", field, ErrUnknownOption, v.String())
		}
	case application.KindSet:
		for _, item := range v.Items() {
			if !spec.HasOption(item) {
				return fmt.Errorf("field %q: %w: %q", field, ErrUnknownOption, item)
			}
		}
	}
	return nil
}
