package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

const maxErrorBody = 4 << 10

// HTTP posts submissions to the create operations of an OpenAPI described
// service. Records with an attachment are sent as multipart/form-data with
// an `application` JSON part followed by one file part per attachment field;
// everything else is sent as JSON.
type HTTP struct {
	client    *http.Client
	base      *url.URL
	endpoints Endpoints
	headers   http.Header
	logger    *slog.Logger
}

var _ stepform.Gateway = (*HTTP)(nil)

// HTTPOption customises the HTTP gateway.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		clone := *h.client
		clone.Timeout = d
		h.client = &clone
	}
}

// WithEndpoints replaces the embedded endpoint document.
func WithEndpoints(endpoints Endpoints) HTTPOption {
	return func(h *HTTP) {
		h.endpoints = endpoints
	}
}

// WithHeader adds a header to every request, e.g. an API key.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Add(key, value)
	}
}

// WithHTTPLogger routes gateway logs to logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTP builds a gateway for baseURL. An empty baseURL falls back to the
// first server of the endpoint document.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	h := &HTTP{
		client:  &http.Client{Timeout: 30 * time.Second},
		headers: http.Header{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.endpoints.ops == nil {
		endpoints, err := DefaultEndpoints(context.Background())
		if err != nil {
			return nil, err
		}
		h.endpoints = endpoints
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = h.endpoints.Server
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base url %q", baseURL)
	}
	h.base = base
	return h, nil
}

// Submit sends the submission and maps the response.
func (h *HTTP) Submit(ctx context.Context, sub stepform.Submission) (stepform.Receipt, error) {
	if sub.Record == nil {
		return stepform.Receipt{}, ErrNoRecord
	}
	ep, err := h.endpoints.Lookup(sub.Variant)
	if err != nil {
		return stepform.Receipt{}, err
	}
	body, contentType, err := encode(sub.Record)
	if err != nil {
		return stepform.Receipt{}, err
	}

	target := h.base.JoinPath(ep.Path)
	req, err := http.NewRequestWithContext(ctx, ep.Method, target.String(), body)
	if err != nil {
		return stepform.Receipt{}, fmt.Errorf("gateway: build request: %w", err)
	}
	for key, values := range h.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if sub.Attempt > 0 {
		req.Header.Set("X-Submission-Attempt", fmt.Sprint(sub.Attempt))
	}

	started := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return stepform.Receipt{}, fmt.Errorf("gateway: %s %s: %w", ep.Method, target.Redacted(), err)
	}
	defer resp.Body.Close()

	h.logger.Info("gateway response",
		"operation", ep.OperationID,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)
	return h.decode(sub.Variant, resp)
}

func (h *HTTP) decode(variant application.Variant, resp *http.Response) (stepform.Receipt, error) {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var receipt stepform.Receipt
		if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil && !errors.Is(err, io.EOF) {
			return stepform.Receipt{}, fmt.Errorf("gateway: decode receipt: %w", err)
		}
		return receipt, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var payload struct {
			Errors map[string][]string `json:"errors"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Errors) > 0 {
			schema, _ := application.SchemaFor(variant)
			mapped := MapErrorPayload(schema, payload.Errors)
			mapped.Status = resp.StatusCode
			return stepform.Receipt{}, mapped
		}
		return stepform.Receipt{}, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return stepform.Receipt{}, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
}

func encode(rec application.Record) (io.Reader, string, error) {
	payload, err := application.MarshalPayload(rec)
	if err != nil {
		return nil, "", err
	}
	files := application.Attachments(rec)
	if len(files) == 0 {
		return bytes.NewReader(payload), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="application"`},
		"Content-Type":        {"application/json"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("gateway: multipart: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("gateway: multipart: %w", err)
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Attachment.Name))
		contentType := f.Attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		fw, err := mw.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("gateway: multipart: %w", err)
		}
		if _, err := fw.Write(f.Attachment.Data); err != nil {
			return nil, "", fmt.Errorf("gateway: multipart: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("gateway: multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
