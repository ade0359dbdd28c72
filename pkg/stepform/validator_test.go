package stepform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// completeValue returns a value that satisfies the presence rule of field.
func completeValue(field application.FieldSpec) application.Value {
	switch field.Kind {
	case application.KindChoice:
		return application.Choice(field.Options[0].Value)
	case application.KindSet:
		return application.Set(field.Options[0].Value)
	case application.KindFlag:
		return application.Flag(true)
	case application.KindFile:
		return application.File(&application.Attachment{Name: "cv.pdf", Size: 1})
	default:
		return application.Text("value")
	}
}

func TestValidatorPresenceProperties(t *testing.T) {
	for _, variant := range []application.Variant{application.VariantIndividual, application.VariantInstitute, application.VariantEnquiry} {
		schema, _ := application.SchemaFor(variant)
		v := stepform.NewValidator(schema)

		for _, step := range schema.Steps {
			full, _ := application.New(variant)
			for _, f := range step.Required() {
				if err := full.SetField(f.Name, completeValue(f)); err != nil {
					t.Fatalf("%s step %d: set %q: %v", variant, step.Index, f.Name, err)
				}
			}
			if errs := v.Validate(step.Index, full); len(errs) != 0 {
				t.Fatalf("%s step %d: complete state reported %v", variant, step.Index, errs)
			}

			for _, missing := range step.Required() {
				partial := full.Clone()
				_ = partial.SetField(missing.Name, emptyValue(missing.Kind))
				errs := v.Validate(step.Index, partial)
				if errs[missing.Name] != missing.Message {
					t.Fatalf("%s step %d: missing %q gave %v", variant, step.Index, missing.Name, errs)
				}
			}
		}
	}
}

func emptyValue(kind application.Kind) application.Value {
	switch kind {
	case application.KindChoice:
		return application.Choice("")
	case application.KindSet:
		return application.Set()
	case application.KindFlag:
		return application.Flag(false)
	case application.KindFile:
		return application.File(nil)
	default:
		return application.Text("   ")
	}
}

func TestValidatorIsPure(t *testing.T) {
	schema := application.IndividualSchema()
	v := stepform.NewValidator(schema)
	rec := application.NewIndividual()
	before := rec.Clone()

	first := v.Validate(1, rec)
	second := v.Validate(1, rec)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validate not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, application.Record(rec)); diff != "" {
		t.Fatalf("validate mutated the record (-want +got):\n%s", diff)
	}
	if errs := v.Validate(9, rec); len(errs) != 0 {
		t.Fatalf("out-of-range step should be empty, got %v", errs)
	}
}

func TestValidatorFormatChecksAreOptIn(t *testing.T) {
	rec := application.NewIndividual()
	_ = rec.SetField("firstName", application.Text("Asha"))
	_ = rec.SetField("lastName", application.Text("Rao"))
	_ = rec.SetField("email", application.Text("not-an-email"))
	_ = rec.SetField("phone", application.Text("12ab"))
	_ = rec.SetField("dateOfBirth", application.Text("01/01/2002"))
	_ = rec.SetField("pincode", application.Text("416416"))

	loose := stepform.NewValidator(application.IndividualSchema())
	if errs := loose.Validate(1, rec); len(errs) != 0 {
		t.Fatalf("presence-only validator reported %v", errs)
	}

	strict := stepform.NewValidator(application.IndividualSchema(), stepform.WithFormats(true))
	want := stepform.Errors{
		"email":       "Enter a valid email address",
		"phone":       "Enter a valid phone number",
		"dateOfBirth": "Enter a valid date (YYYY-MM-DD)",
	}
	if diff := cmp.Diff(want, strict.Validate(1, rec)); diff != "" {
		t.Fatalf("format errors mismatch (-want +got):\n%s", diff)
	}

	_ = rec.SetField("email", application.Text("asha@example.com"))
	_ = rec.SetField("phone", application.Text("+91 84211 60915"))
	_ = rec.SetField("dateOfBirth", application.Text("2002-01-01"))
	if errs := strict.Validate(1, rec); len(errs) != 0 {
		t.Fatalf("valid formats rejected: %v", errs)
	}
}

func TestValidatorSkipsHiddenFieldsAndRunsRules(t *testing.T) {
	schema := application.InstituteSchema()
	rule := func(rec application.Record) stepform.Errors {
		v, _ := rec.Field("hasPreviousInternships")
		d, _ := rec.Field("previousInternshipDetails")
		if v.String() == "yes" && !d.Present() {
			return stepform.Errors{"previousInternshipDetails": "Describe your previous programs"}
		}
		return nil
	}
	v := stepform.NewValidator(schema, stepform.WithStepRule(4, rule))

	rec := application.NewInstitute()
	_ = rec.SetField("expectations", application.Text("Industry exposure"))
	_ = rec.SetField("agreeToTerms", application.Flag(true))
	_ = rec.SetField("agreeToDataProcessing", application.Flag(true))
	if errs := v.Validate(4, rec); len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}

	_ = rec.SetField("hasPreviousInternships", application.Choice("yes"))
	want := stepform.Errors{"previousInternshipDetails": "Describe your previous programs"}
	if diff := cmp.Diff(want, v.Validate(4, rec)); diff != "" {
		t.Fatalf("rule errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAllMergesSteps(t *testing.T) {
	v := stepform.NewValidator(application.EnquirySchema())
	got := v.ValidateAll(application.NewEnquiry())
	want := stepform.Errors{
		"name":    "Name is required",
		"email":   "Email is required",
		"message": "Message is required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
