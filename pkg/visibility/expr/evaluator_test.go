package expr

import (
	"testing"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"hasExperience":    "yes",
		"agreeToTerms":     true,
		"preferredDomains": []any{"JavaScript", "HTML & CSS"},
		"courseName":       "",
		"batch":            "25",
	}

	cases := []struct {
		rule string
		want bool
	}{
		{``, true},
		{`hasExperience == "yes"`, true},
		{`hasExperience != "yes"`, false},
		{`hasExperience == 'no'`, false},
		{`agreeToTerms == true`, true},
		{`agreeToTerms`, true},
		{`!agreeToTerms`, false},
		{`courseName`, false},
		{`missing == ""`, true},
		{`missing`, false},
		{`preferredDomains contains "HTML & CSS"`, true},
		{`preferredDomains contains "Python Programming"`, false},
		{`batch == 25`, true},
		{`hasExperience == "no" || (agreeToTerms && preferredDomains)`, true},
		{`hasExperience == "yes" && !(batch == 25)`, false},
	}

	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("field", tc.rule, visibility.Context{Values: values})
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestCompileRejectsMalformedRules(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		`hasExperience = "yes"`,
		`hasExperience == `,
		`(hasExperience == "yes"`,
		`"yes" == hasExperience`,
		`hasExperience == "yes`,
		`a && `,
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("Compile(%q) expected error", rule)
		}
	}
}

func TestEvaluatorAgainstRecord(t *testing.T) {
	t.Parallel()

	rec := application.NewIndividual()
	eval := New()
	rule := `hasExperience == "yes"`

	visible, err := eval.Eval("experienceDetails", rule, visibility.FromRecord(rec))
	if err != nil || visible {
		t.Fatalf("expected hidden for empty record, got %v, %v", visible, err)
	}

	if err := rec.SetField("hasExperience", application.Choice("yes")); err != nil {
		t.Fatalf("set: %v", err)
	}
	visible, err = eval.Eval("experienceDetails", rule, visibility.FromRecord(rec))
	if err != nil || !visible {
		t.Fatalf("expected visible once hasExperience=yes, got %v, %v", visible, err)
	}
}
