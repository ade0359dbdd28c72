// Package internsite is the embedding entry point for the internship
// application forms. A session is a stepform.Controller for one application
// variant: it owns the record being edited, validates each step before
// advancing, and hands the completed record to a submission gateway.
//
// The pkg/ tree holds the building blocks (application records and schemas,
// the step controller, gateways, template rendering and the terminal runner);
// the website itself lives in internal/site and is started by
// cmd/internsite.
package internsite

import (
	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/gateway"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// NewSession returns a controller for variant that submits through gw. A nil
// gateway falls back to the simulated stub gateway.
func NewSession(variant application.Variant, gw stepform.Gateway, opts ...stepform.Option) (*stepform.Controller, error) {
	if gw == nil {
		gw = gateway.NewStub()
	}
	return stepform.NewController(variant, gw, opts...)
}

// Variants lists the supported application variants in presentation order.
func Variants() []application.Variant {
	return application.Variants()
}
