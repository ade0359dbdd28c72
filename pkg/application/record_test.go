package application_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/pkg/application"
)

func TestSchemasMatchRecordFields(t *testing.T) {
	for _, variant := range application.Variants() {
		t.Run(string(variant), func(t *testing.T) {
			schema, err := application.SchemaFor(variant)
			if err != nil {
				t.Fatalf("schema: %v", err)
			}
			rec, err := application.New(variant)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			for _, step := range schema.Steps {
				for _, field := range step.Fields {
					kind, ok := application.KindOf(rec, field.Name)
					if !ok {
						t.Fatalf("step %d field %q missing from record", step.Index, field.Name)
					}
					if kind != field.Kind {
						t.Fatalf("field %q kind = %s, schema says %s", field.Name, kind, field.Kind)
					}
					if field.Required && field.Message == "" {
						t.Fatalf("required field %q has no message", field.Name)
					}
				}
			}
		})
	}
}

func TestStepCounts(t *testing.T) {
	got := map[application.Variant]int{}
	for _, variant := range application.Variants() {
		schema, _ := application.SchemaFor(variant)
		got[variant] = schema.TotalSteps()
	}
	want := map[application.Variant]int{
		application.VariantIndividual: 5,
		application.VariantInstitute:  4,
		application.VariantEnquiry:    1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("step counts mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredFieldsPerStep(t *testing.T) {
	required := func(schema *application.Schema) map[int][]string {
		out := map[int][]string{}
		for _, step := range schema.Steps {
			for _, f := range step.Required() {
				out[step.Index] = append(out[step.Index], f.Name)
			}
		}
		return out
	}

	wantIndividual := map[int][]string{
		1: {"firstName", "lastName", "email", "phone", "dateOfBirth"},
		2: {"collegeName", "course", "currentYear", "cgpa"},
		3: {"programmingLanguages"},
		4: {"preferredDomain", "internshipDuration", "startDate", "internshipMode"},
		5: {"coverLetter", "agreeToTerms", "agreeToDataProcessing"},
	}
	if diff := cmp.Diff(wantIndividual, required(application.IndividualSchema())); diff != "" {
		t.Fatalf("individual required mismatch (-want +got):\n%s", diff)
	}

	wantInstitute := map[int][]string{
		1: {"instituteName", "instituteType", "principalName", "contactPersonName", "instituteEmail", "institutePhone"},
		2: {"totalStudents", "batchSize", "preferredDomains", "internshipDuration", "preferredStartDate"},
		3: {"hasComputerLab", "internetConnectivity"},
		4: {"expectations", "agreeToTerms", "agreeToDataProcessing"},
	}
	if diff := cmp.Diff(wantInstitute, required(application.InstituteSchema())); diff != "" {
		t.Fatalf("institute required mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFieldRejectsUnknownAndMismatchedKinds(t *testing.T) {
	rec := application.NewIndividual()

	if err := rec.SetField("nickname", application.Text("x")); !errors.Is(err, application.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := rec.SetField("agreeToTerms", application.Text("yes")); !errors.Is(err, application.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if err := rec.SetField("course", application.Choice("diploma-it")); err != nil {
		t.Fatalf("set course: %v", err)
	}
	if rec.Course != "diploma-it" {
		t.Fatalf("course not stored on struct: %q", rec.Course)
	}
}

func TestCloneIsDeep(t *testing.T) {
	rec := application.NewIndividual()
	_ = rec.SetField("programmingLanguages", application.Set("Python"))

	clone := rec.Clone().(*application.Individual)
	clone.ProgrammingLanguages[0] = "PHP"

	if rec.ProgrammingLanguages[0] != "Python" {
		t.Fatalf("clone shares set storage with original")
	}
}

func TestMarshalPayloadAddsDiscriminator(t *testing.T) {
	rec := application.NewInstitute()
	_ = rec.SetField("instituteName", application.Text("Sangli Polytechnic"))
	_ = rec.SetField("preferredDomains", application.Set("JavaScript"))

	data, err := application.MarshalPayload(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["applicationType"] != "institute" {
		t.Fatalf("applicationType = %v", decoded["applicationType"])
	}
	if diff := cmp.Diff([]any{"JavaScript"}, decoded["preferredDomains"]); diff != "" {
		t.Fatalf("preferredDomains mismatch (-want +got):\n%s", diff)
	}

	back, err := application.DecodePayload(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(rec, back); diff != "" {
		t.Fatalf("decoded record mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalPayloadOmitsAttachmentBytes(t *testing.T) {
	rec := application.NewIndividual()
	resume, err := application.NewAttachment("cv.pdf", "", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if err := rec.SetField("resume", application.File(resume)); err != nil {
		t.Fatalf("set resume: %v", err)
	}

	data, err := application.MarshalPayload(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "PDF-1.4") {
		t.Fatalf("payload leaked attachment bytes: %s", data)
	}
	if !strings.Contains(string(data), `"resume":{"name":"cv.pdf","contentType":"application/pdf","size":8}`) {
		t.Fatalf("payload missing resume metadata: %s", data)
	}

	files := application.Attachments(rec)
	if len(files) != 1 || files[0].Field != "resume" || string(files[0].Attachment.Data) != "%PDF-1.4" {
		t.Fatalf("attachments = %+v", files)
	}
}

func TestDecodePayloadRejectsUnknownFieldsAndTags(t *testing.T) {
	if _, err := application.DecodePayload([]byte(`{"applicationType":"individual","nickname":"x"}`)); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := application.DecodePayload([]byte(`{"applicationType":"corporate"}`)); !errors.Is(err, application.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := application.DecodeVariant(application.VariantEnquiry, []byte(`{"applicationType":"individual"}`)); !errors.Is(err, application.ErrUnknownVariant) {
		t.Fatalf("expected tag mismatch to fail, got %v", err)
	}

	rec, err := application.DecodeVariant(application.VariantIndividual, []byte(`{"firstName":"Asha","frameworks":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := rec.(*application.Individual).Frameworks; got == nil {
		t.Fatalf("null set not normalized")
	}
}
