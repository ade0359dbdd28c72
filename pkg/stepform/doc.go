// Package stepform implements the stepped form controller shared by the
// application flows.
//
// A Controller owns one Store (the typed record plus per-field errors), a
// Validator built from the variant schema, a Navigator clamped to the
// schema's step range, and an injected Gateway that receives the completed
// record. All mutations are serialized by the controller; while a submission
// is in flight every mutating call returns ErrBusy.
//
//	ctrl, _ := stepform.NewController(application.VariantIndividual, gateway.NewStub())
//	_ = ctrl.Set("firstName", application.Text("Asha"))
//	errs, _ := ctrl.Next() // errs lists the missing step-1 fields
package stepform
