// Package application defines the typed records collected by the stepped
// application forms. Each variant (individual, institute, enquiry) is a fixed
// struct whose fields carry one of five value kinds: free text, a choice from
// an option catalog, a string set, a boolean flag, or an optional file
// attachment. Records expose a name-keyed Field/SetField surface over the
// typed struct so renderers and stores can edit values by field name while the
// validator and payload encoders stay statically checkable. Schemas describe
// the step layout, required fields, option catalogs and conditional
// visibility rules for every variant.
package application
