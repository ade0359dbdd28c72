// Package template defines the renderer-agnostic template contract used by the
// website. The pongo subpackage provides the pongo2 implementation.
package template
