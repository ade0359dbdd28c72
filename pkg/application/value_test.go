package application_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/pkg/application"
)

func TestValuePresence(t *testing.T) {
	cases := []struct {
		name  string
		value application.Value
		want  bool
	}{
		{"zero", application.Value{}, false},
		{"blank text", application.Text("   "), false},
		{"text", application.Text(" Asha "), true},
		{"empty choice", application.Choice(""), false},
		{"choice", application.Choice("2nd"), true},
		{"empty set", application.Set(), false},
		{"set", application.Set("Python"), true},
		{"false flag", application.Flag(false), false},
		{"true flag", application.Flag(true), true},
		{"no file", application.File(nil), false},
		{"file", application.File(&application.Attachment{Name: "cv.pdf"}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Present(); got != tc.want {
				t.Fatalf("Present() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSetDedupesAndToggles(t *testing.T) {
	v := application.Set("Python", "Python", "PHP")
	if diff := cmp.Diff([]string{"Python", "PHP"}, v.Items()); diff != "" {
		t.Fatalf("dedupe mismatch (-want +got):\n%s", diff)
	}

	added := v.With("Python")
	if len(added.Items()) != 2 {
		t.Fatalf("re-adding a member changed the set: %v", added.Items())
	}

	round := v.With("CSS").Without("CSS")
	if !round.Equal(v) {
		t.Fatalf("toggle round trip = %v, want %v", round.Items(), v.Items())
	}
}

func TestValueEqualIgnoresSetOrder(t *testing.T) {
	if !application.Set("a", "b").Equal(application.Set("b", "a")) {
		t.Fatalf("sets with the same members should be equal")
	}
	if application.Text("a").Equal(application.Choice("a")) {
		t.Fatalf("values of different kinds should differ")
	}
}

func TestAttachmentConstraints(t *testing.T) {
	if _, err := application.NewAttachment("cv.exe", "", []byte("x")); !errors.Is(err, application.ErrAttachmentType) {
		t.Fatalf("expected ErrAttachmentType, got %v", err)
	}

	big := make([]byte, application.MaxResumeSize+1)
	if _, err := application.NewAttachment("cv.PDF", "", big); !errors.Is(err, application.ErrAttachmentTooLarge) {
		t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
	}

	a, err := application.NewAttachment("/tmp/uploads/resume.docx", "", []byte("doc"))
	if err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if a.Name != "resume.docx" || !strings.Contains(a.ContentType, "wordprocessingml") || a.Size != 3 {
		t.Fatalf("unexpected attachment %+v", a)
	}

	rec := application.NewIndividual()
	err = rec.SetField("resume", application.File(&application.Attachment{Name: "cv.png", Size: 10}))
	if !errors.Is(err, application.ErrAttachmentType) {
		t.Fatalf("record accepted a rejected attachment: %v", err)
	}
	if rec.Resume != nil {
		t.Fatalf("rejected attachment was stored")
	}
}

func TestParseVariant(t *testing.T) {
	got, err := application.ParseVariant(" Institute ")
	if err != nil || got != application.VariantInstitute {
		t.Fatalf("ParseVariant = %q, %v", got, err)
	}
	if _, err := application.ParseVariant("corporate"); !errors.Is(err, application.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}
