package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

type patchRequest struct {
	Values map[string]json.RawMessage `json:"values"`
}

type attachmentRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

func (s *Server) apiForm(w http.ResponseWriter, r *http.Request) (*stepform.Controller, bool) {
	variant, err := application.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown_variant", err.Error(), nil)
		return nil, false
	}
	ctrl, err := s.form(r, variant)
	if err != nil {
		s.logger.Error("build form", "variant", variant, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to open form", nil)
		return nil, false
	}
	return ctrl, true
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.apiForm(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleAPIPatch(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.apiForm(w, r)
	if !ok {
		return
	}
	var req patchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBody*2))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body", nil)
		return
	}

	names := make([]string, 0, len(req.Values))
	for name := range req.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	rejected := stepform.Errors{}
	for _, name := range names {
		spec, _, found := ctrl.Schema().Field(name)
		if !found {
			rejected[name] = "Unknown field"
			continue
		}
		v, err := valueFromJSON(spec, req.Values[name])
		if err == nil {
			err = ctrl.Set(name, v)
		}
		if err != nil {
			if errors.Is(err, stepform.ErrBusy) || errors.Is(err, stepform.ErrAlreadySubmitted) {
				s.respondControllerError(w, ctrl, err)
				return
			}
			rejected[name] = inputMessage(err)
		}
	}
	if len(rejected) > 0 {
		respondError(w, http.StatusUnprocessableEntity, "invalid_values", "some values were rejected",
			map[string]any{"errors": rejected, "state": ctrl.Snapshot()})
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.apiForm(w, r)
	if !ok {
		return
	}
	var err error
	switch action := chi.URLParam(r, "action"); action {
	case "next":
		var errs stepform.Errors
		errs, err = ctrl.Next()
		if err == nil && len(errs) > 0 {
			err = stepform.ErrValidation
		}
	case "prev":
		err = ctrl.Prev()
	case "reset":
		err = ctrl.Reset()
	default:
		respondError(w, http.StatusNotFound, "unknown_action", fmt.Sprintf("unknown action %q", action), nil)
		return
	}
	if err != nil {
		s.respondControllerError(w, ctrl, err)
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.apiForm(w, r)
	if !ok {
		return
	}
	receipt, err := submit(ctrl, r)
	if err != nil {
		s.respondControllerError(w, ctrl, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"receipt": receipt,
		"state":   ctrl.Snapshot(),
	})
}

func (s *Server) respondControllerError(w http.ResponseWriter, ctrl *stepform.Controller, err error) {
	var subErr *stepform.SubmissionError
	state := ctrl.Snapshot()
	switch {
	case errors.Is(err, stepform.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "please fix the highlighted fields", state)
	case errors.Is(err, stepform.ErrBusy):
		respondError(w, http.StatusConflict, "busy", busyNotice, state)
	case errors.Is(err, stepform.ErrAlreadySubmitted):
		respondError(w, http.StatusConflict, "already_submitted", "application already submitted", state)
	case errors.Is(err, stepform.ErrNotLastStep):
		respondError(w, http.StatusConflict, "not_last_step", "submit is only available on the last step", state)
	case errors.As(err, &subErr):
		respondError(w, http.StatusBadGateway, "submission_failed", stepform.FailureNotice, state)
	default:
		s.logger.Error("form api action failed", "variant", ctrl.Variant(), "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "unexpected error", nil)
	}
}

// valueFromJSON decodes a PATCH value by the kind the field expects:
// strings for text and choices, string arrays for sets, booleans for flags
// and {name, contentType, data} (base64 data) or null for files.
func valueFromJSON(spec application.FieldSpec, raw json.RawMessage) (application.Value, error) {
	switch spec.Kind {
	case application.KindText, application.KindChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return application.Value{}, fmt.Errorf("%w: %s wants a string", application.ErrKindMismatch, spec.Name)
		}
		if spec.Kind == application.KindChoice {
			return application.Choice(s), nil
		}
		return application.Text(s), nil
	case application.KindSet:
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return application.Value{}, fmt.Errorf("%w: %s wants a string array", application.ErrKindMismatch, spec.Name)
		}
		return application.Set(items...), nil
	case application.KindFlag:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return application.Value{}, fmt.Errorf("%w: %s wants a boolean", application.ErrKindMismatch, spec.Name)
		}
		return application.Flag(b), nil
	case application.KindFile:
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return application.File(nil), nil
		}
		var req attachmentRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return application.Value{}, fmt.Errorf("%w: %s wants an attachment object", application.ErrKindMismatch, spec.Name)
		}
		a, err := application.NewAttachment(req.Name, req.ContentType, req.Data)
		if err != nil {
			return application.Value{}, err
		}
		return application.File(a), nil
	default:
		return application.Value{}, fmt.Errorf("%w: %s", application.ErrKindMismatch, spec.Name)
	}
}
