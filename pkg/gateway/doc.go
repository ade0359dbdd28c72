// Package gateway provides stepform.Gateway implementations: a simulated
// stub that logs the payload after a fixed delay, an HTTP client that posts
// to the create operations of an OpenAPI described service, and a decorator
// that strips markup from text values before forwarding.
package gateway
