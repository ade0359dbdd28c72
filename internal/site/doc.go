// Package site serves the internship website: the marketing pages rendered
// from an embedded content catalog, the server-rendered individual and
// institute application flows, the contact enquiry and a JSON API over the
// same form controllers. Each visitor gets a cookie-keyed session holding
// one controller per variant.
package site
