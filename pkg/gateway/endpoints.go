package gateway

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-internsite/pkg/application"
)

//go:embed openapi/applications.yaml
var defaultDocument []byte

// OperationIDs maps variants to the operationId that creates them.
var OperationIDs = map[application.Variant]string{
	application.VariantIndividual: "createIndividualApplication",
	application.VariantInstitute:  "createInstituteApplication",
	application.VariantEnquiry:    "createEnquiry",
}

// Endpoint is a resolved create operation.
type Endpoint struct {
	OperationID string
	Method      string
	Path        string
	Multipart   bool
}

// Endpoints holds the resolved operations and the document's first server.
type Endpoints struct {
	Server string
	ops    map[application.Variant]Endpoint
}

// Lookup returns the endpoint for a variant.
func (e Endpoints) Lookup(v application.Variant) (Endpoint, error) {
	ep, ok := e.ops[v]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrNoEndpoint, v)
	}
	return ep, nil
}

// DefaultDocument returns the embedded OpenAPI document.
func DefaultDocument() []byte {
	return append([]byte{}, defaultDocument...)
}

// DefaultEndpoints resolves the embedded document.
func DefaultEndpoints(ctx context.Context) (Endpoints, error) {
	return LoadEndpoints(ctx, defaultDocument)
}

// LoadEndpoints parses an OpenAPI document and resolves the create operation
// of every variant by operationId.
func LoadEndpoints(ctx context.Context, data []byte) (Endpoints, error) {
	if len(data) == 0 {
		return Endpoints{}, errors.New("gateway: endpoint document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Endpoints{}, fmt.Errorf("gateway: load endpoint document: %w", err)
	}
	return resolve(ctx, doc)
}

// LoadEndpointsFrom reads the document from a file path or http(s) URL.
func LoadEndpointsFrom(ctx context.Context, location string) (Endpoints, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	var (
		doc *openapi3.T
		err error
	)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		var u *url.URL
		if u, err = url.Parse(location); err == nil {
			doc, err = loader.LoadFromURI(u)
		}
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return Endpoints{}, fmt.Errorf("gateway: load endpoint document %s: %w", location, err)
	}
	return resolve(ctx, doc)
}

func resolve(ctx context.Context, doc *openapi3.T) (Endpoints, error) {
	if err := doc.Validate(ctx); err != nil {
		return Endpoints{}, fmt.Errorf("gateway: invalid endpoint document: %w", err)
	}
	byID := map[string]Endpoint{}
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil || op.OperationID == "" {
					continue
				}
				byID[op.OperationID] = Endpoint{
					OperationID: op.OperationID,
					Method:      strings.ToUpper(method),
					Path:        path,
					Multipart:   acceptsMultipart(op),
				}
			}
		}
	}

	out := Endpoints{ops: map[application.Variant]Endpoint{}}
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		out.Server = doc.Servers[0].URL
	}
	for variant, id := range OperationIDs {
		if ep, ok := byID[id]; ok {
			out.ops[variant] = ep
		}
	}
	if len(out.ops) == 0 {
		return Endpoints{}, errors.New("gateway: endpoint document has no create operations")
	}
	return out, nil
}

func acceptsMultipart(op *openapi3.Operation) bool {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return false
	}
	return op.RequestBody.Value.Content.Get("multipart/form-data") != nil
}
