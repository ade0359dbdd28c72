// Package intake is a reference receiving endpoint for submitted
// applications. It decodes the payload the HTTP gateway sends, re-runs every
// step of the validator and logs accepted records. Nothing is persisted.
package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// maxBody bounds one request: the JSON part plus a full-size resume.
const maxBody = application.MaxResumeSize + 1<<20

// Routes maps request paths below /intake to variants. They mirror the
// paths of the embedded gateway OpenAPI document.
var Routes = map[string]application.Variant{
	"/individual-applications": application.VariantIndividual,
	"/institute-applications":  application.VariantInstitute,
	"/enquiries":               application.VariantEnquiry,
}

// Handler accepts applications for every variant.
type Handler struct {
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time
	validators map[application.Variant]*stepform.Validator
}

// Option customises a Handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
	formats bool
}

// WithLogger routes intake logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormatChecks enables the syntax checks of the validator.
func WithFormatChecks(enabled bool) Option {
	return func(c *handlerConfig) {
		c.formats = enabled
	}
}

// WithIDGenerator overrides the reference generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *handlerConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the acceptance timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *handlerConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a handler with a validator per variant.
func New(opts ...Option) (*Handler, error) {
	cfg := handlerConfig{logger: slog.Default(), newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	h := &Handler{
		logger:     cfg.logger,
		newID:      cfg.newID,
		now:        cfg.now,
		validators: make(map[application.Variant]*stepform.Validator),
	}
	for _, variant := range application.Variants() {
		schema, err := application.SchemaFor(variant)
		if err != nil {
			return nil, err
		}
		h.validators[variant] = stepform.NewValidator(schema, stepform.WithFormats(cfg.formats))
	}
	return h, nil
}

// Mount registers the intake routes under /intake.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/intake", func(r chi.Router) {
		for path, variant := range Routes {
			r.Post(path, h.accept(variant))
		}
	})
}

type errorResponse struct {
	Errors map[string][]string `json:"errors"`
}

func (h *Handler) accept(variant application.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		rec, err := decodeRequest(variant, r)
		if err != nil {
			h.logger.Warn("intake payload rejected", "variant", variant, "error", err)
			var attErr *attachmentError
			if errors.As(err, &attErr) {
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: map[string][]string{attErr.field: {attErr.Error()}}})
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Errors: map[string][]string{"form": {"malformed payload"}}})
			return
		}

		if errs := h.validators[variant].ValidateAll(rec); len(errs) > 0 {
			out := make(map[string][]string, len(errs))
			for field, msg := range errs {
				out[field] = []string{msg}
			}
			h.logger.Info("intake validation failed", "variant", variant, "fields", errs.Fields())
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: out})
			return
		}

		receipt := stepform.Receipt{Reference: h.newID(), AcceptedAt: h.now().UTC()}
		attrs := []any{"variant", variant, "reference", receipt.Reference, "attempt", r.Header.Get("X-Submission-Attempt")}
		if payload, err := application.MarshalPayload(rec); err == nil {
			attrs = append(attrs, "payload", json.RawMessage(payload))
		}
		for _, a := range application.Attachments(rec) {
			attrs = append(attrs, "attachment", a.Attachment.Name, "attachment_size", a.Attachment.Size)
		}
		h.logger.Info("application received", attrs...)
		writeJSON(w, http.StatusCreated, receipt)
	}
}

type attachmentError struct {
	field string
	err   error
}

func (e *attachmentError) Error() string {
	switch {
	case errors.Is(e.err, application.ErrAttachmentTooLarge):
		return "File must be 5 MB or smaller"
	case errors.Is(e.err, application.ErrAttachmentType):
		return "Accepted formats: " + strings.Join(application.AcceptedExtensions(), ", ")
	default:
		return e.err.Error()
	}
}

func (e *attachmentError) Unwrap() error { return e.err }

// decodeRequest accepts a JSON body, or a multipart body with the JSON in an
// "application" part and files in parts named after their fields.
func decodeRequest(variant application.Variant, r *http.Request) (application.Record, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("intake: content type: %w", err)
	}
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("intake: read body: %w", err)
		}
		return application.DecodeVariant(variant, body)
	case "multipart/form-data":
		return decodeMultipart(variant, r)
	default:
		return nil, fmt.Errorf("intake: unsupported content type %q", mediaType)
	}
}

func decodeMultipart(variant application.Variant, r *http.Request) (application.Record, error) {
	if err := r.ParseMultipartForm(maxBody); err != nil {
		return nil, fmt.Errorf("intake: multipart: %w", err)
	}
	payload := r.FormValue("application")
	if payload == "" {
		file, _, err := r.FormFile("application")
		if err != nil {
			return nil, fmt.Errorf("intake: multipart: missing application part")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("intake: multipart: %w", err)
		}
		payload = string(raw)
	}
	rec, err := application.DecodeVariant(variant, []byte(payload))
	if err != nil {
		return nil, err
	}
	for _, a := range application.Attachments(rec) {
		file, header, err := r.FormFile(a.Field)
		if err != nil {
			return nil, fmt.Errorf("intake: multipart: missing %s part", a.Field)
		}
		data, err := io.ReadAll(io.LimitReader(file, application.MaxResumeSize+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("intake: multipart: %w", err)
		}
		att, err := application.NewAttachment(header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			return nil, &attachmentError{field: a.Field, err: err}
		}
		if err := rec.SetField(a.Field, application.File(att)); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode intake response", "error", err)
	}
}
