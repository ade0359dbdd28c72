package internsite_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	internsite "github.com/goliatone/go-internsite"
	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

func TestNewSessionUsesGivenGateway(t *testing.T) {
	var calls int
	gw := stepform.GatewayFunc(func(_ context.Context, sub stepform.Submission) (stepform.Receipt, error) {
		calls++
		return stepform.Receipt{Reference: "ref-" + string(sub.Variant)}, nil
	})

	ctrl, err := internsite.NewSession(application.VariantEnquiry, gw)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for name, v := range map[string]application.Value{
		"name":    application.Text("Ada"),
		"email":   application.Text("ada@example.com"),
		"message": application.Text("Hello"),
	} {
		if err := ctrl.Set(name, v); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	receipt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff("ref-enquiry", receipt.Reference); diff != "" {
		t.Fatalf("reference mismatch (-want +got):\n%s", diff)
	}
	if calls != 1 {
		t.Fatalf("gateway called %d times", calls)
	}
}

func TestNewSessionDefaultsToStub(t *testing.T) {
	ctrl, err := internsite.NewSession(application.VariantInstitute, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if diff := cmp.Diff(4, ctrl.TotalSteps()); diff != "" {
		t.Fatalf("total steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(application.Variants(), internsite.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
}
