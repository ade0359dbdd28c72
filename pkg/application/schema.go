package application

import "fmt"

// FieldSpec describes one field within a step: how it is labelled, which
// value kind it carries and what the presence check reports when it is
// missing.
type FieldSpec struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Required    bool     `json:"required,omitempty"`
	Message     string   `json:"message,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	// VisibleWhen is a boolean expression over other field values, for
	// example `hasExperience == "yes"`. Empty means always visible.
	VisibleWhen string `json:"visibleWhen,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	// Format is an optional validator tag applied to non-empty values when
	// format checks are enabled.
	Format string `json:"format,omitempty"`
}

// HasOption reports whether value is in the field's catalog. Fields without a
// catalog accept any value.
func (f FieldSpec) HasOption(value string) bool {
	if len(f.Options) == 0 {
		return true
	}
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel resolves the display label for value, falling back to the value
// itself.
func (f FieldSpec) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Step groups the fields displayed on one screen. Index is 1-based.
type Step struct {
	Index       int         `json:"index"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldSpec `json:"fields"`
}

// Required returns the fields of the step that must be present.
func (s Step) Required() []FieldSpec {
	out := make([]FieldSpec, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// Schema is the ordered step layout of a variant.
type Schema struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Steps       []Step  `json:"steps"`
}

// TotalSteps reports the number of steps in the schema.
func (s *Schema) TotalSteps() int {
	if s == nil {
		return 0
	}
	return len(s.Steps)
}

// Step returns the step at the 1-based index.
func (s *Schema) Step(index int) (Step, bool) {
	if s == nil || index < 1 || index > len(s.Steps) {
		return Step{}, false
	}
	return s.Steps[index-1], true
}

// Field looks a field up by name and reports the step it belongs to.
func (s *Schema) Field(name string) (FieldSpec, int, bool) {
	if s == nil {
		return FieldSpec{}, 0, false
	}
	for _, step := range s.Steps {
		for _, f := range step.Fields {
			if f.Name == name {
				return f, step.Index, true
			}
		}
	}
	return FieldSpec{}, 0, false
}

// FieldNames lists every field in step order.
func (s *Schema) FieldNames() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, step := range s.Steps {
		for _, f := range step.Fields {
			out = append(out, f.Name)
		}
	}
	return out
}

// SchemaFor returns a fresh schema for the variant. Callers may mutate the
// result without affecting other sessions.
func SchemaFor(v Variant) (*Schema, error) {
	switch v {
	case VariantIndividual:
		return IndividualSchema(), nil
	case VariantInstitute:
		return InstituteSchema(), nil
	case VariantEnquiry:
		return EnquirySchema(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}

func numbered(steps ...Step) []Step {
	for i := range steps {
		steps[i].Index = i + 1
	}
	return steps
}

func text(name, label, placeholder string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindText, Placeholder: placeholder}
}

func narrative(name, label, placeholder string) FieldSpec {
	f := text(name, label, placeholder)
	f.Multiline = true
	return f
}

func choice(name, label string, options []Option) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindChoice, Options: options}
}

func set(name, label string, options []Option) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindSet, Options: options}
}

func consent(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindFlag}
}

func (f FieldSpec) required(message string) FieldSpec {
	f.Required = true
	f.Message = message
	return f
}

func (f FieldSpec) format(tag string) FieldSpec {
	f.Format = tag
	return f
}

func (f FieldSpec) when(expr string) FieldSpec {
	f.VisibleWhen = expr
	return f
}
