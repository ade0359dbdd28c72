package site

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

const (
	busyNotice      = "Your application is being submitted. Please wait."
	rateLimitNotice = "Too many submissions from your network. Please wait a moment and try again."
	staleNotice     = "This form changed in another window. Please review the current step."
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Page Not Found")
	data["status"] = http.StatusNotFound
	data["message"] = "The page you are looking for does not exist."
	s.respondHTML(w, http.StatusNotFound, "error", data)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "")
	data["home"] = s.content.Home
	s.respondHTML(w, http.StatusOK, "home", data)
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Services")
	data["services"] = s.content.Services
	s.respondHTML(w, http.StatusOK, "services", data)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "About")
	data["about"] = s.content.About
	s.respondHTML(w, http.StatusOK, "about", data)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.form(r, application.VariantEnquiry)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderContact(w, r, http.StatusOK, ctrl, nil, false)
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.form(r, application.VariantEnquiry)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := parsePost(w, r); err != nil {
		s.renderContact(w, r, http.StatusBadRequest, ctrl, nil, false)
		return
	}
	inputErrs, err := applyStep(ctrl, r)
	if err != nil {
		s.renderContact(w, r, s.statusFor(r, err), ctrl, nil, false)
		return
	}
	if len(inputErrs) > 0 {
		s.renderContact(w, r, http.StatusUnprocessableEntity, ctrl, inputErrs, false)
		return
	}
	if _, err := submit(ctrl, r); err != nil {
		s.renderContact(w, r, s.statusFor(r, err), ctrl, nil, false)
		return
	}
	// A sent enquiry leaves an empty form behind the success banner.
	if err := ctrl.Reset(); err != nil {
		s.logger.Warn("reset enquiry after submit", "error", err)
	}
	s.renderContact(w, r, http.StatusOK, ctrl, nil, true)
}

func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, status int, ctrl *stepform.Controller, inputErrs stepform.Errors, sent bool) {
	data := s.page(r, "Contact")
	data["contact"] = s.content.Contact
	data["form"] = formView(ctrl, inputErrs)
	data["sent"] = sent
	s.respondHTML(w, status, "contact", data)
}

func (s *Server) handleApplySelect(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Apply")
	data["apply"] = s.content.Apply
	s.respondHTML(w, http.StatusOK, "apply", data)
}

// applyVariant resolves the {variant} path parameter of the apply pages.
// The enquiry is only reachable through the contact page.
func applyVariant(r *http.Request) (application.Variant, bool) {
	v, err := application.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil || v == application.VariantEnquiry {
		return "", false
	}
	return v, true
}

func (s *Server) handleApplyForm(w http.ResponseWriter, r *http.Request) {
	variant, ok := applyVariant(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ctrl, err := s.form(r, variant)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderApply(w, r, http.StatusOK, ctrl, nil, "")
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	variant, ok := applyVariant(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	ctrl, err := s.form(r, variant)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := parsePost(w, r); err != nil {
		s.renderApply(w, r, http.StatusBadRequest, ctrl, nil, "The upload could not be read. Files must be 5 MB or smaller.")
		return
	}

	action := r.PostFormValue("action")
	if action == "reset" {
		err := ctrl.Reset()
		s.renderApply(w, r, s.statusFor(r, err), ctrl, nil, noticeFor(err))
		return
	}
	if !postedStepMatches(ctrl, r) {
		s.renderApply(w, r, http.StatusConflict, ctrl, nil, staleNotice)
		return
	}

	inputErrs, err := applyStep(ctrl, r)
	if err != nil {
		s.renderApply(w, r, s.statusFor(r, err), ctrl, nil, noticeFor(err))
		return
	}
	if len(inputErrs) > 0 {
		s.renderApply(w, r, http.StatusUnprocessableEntity, ctrl, inputErrs, "")
		return
	}

	switch action {
	case "prev":
		err = ctrl.Prev()
	case "submit":
		if !s.limiter.Allow(r.Context(), ClientIP(r), s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window) {
			s.renderApply(w, r, http.StatusTooManyRequests, ctrl, nil, rateLimitNotice)
			return
		}
		_, err = submit(ctrl, r)
	default:
		var errs stepform.Errors
		errs, err = ctrl.Next()
		if err == nil && len(errs) > 0 {
			s.renderApply(w, r, http.StatusUnprocessableEntity, ctrl, nil, "")
			return
		}
	}
	s.renderApply(w, r, s.statusFor(r, err), ctrl, nil, noticeFor(err))
}

func (s *Server) renderApply(w http.ResponseWriter, r *http.Request, status int, ctrl *stepform.Controller, inputErrs stepform.Errors, notice string) {
	card, _ := s.content.Apply.Card(ctrl.Variant())
	data := s.page(r, card.Title)
	data["card"] = card
	form := formView(ctrl, inputErrs)
	if notice != "" {
		form["notice"] = notice
	}
	data["form"] = form
	s.respondHTML(w, status, "form", data)
}

// statusFor maps controller errors to the HTTP status of the re-rendered
// page. The controller already recorded errors and notices for display.
func (s *Server) statusFor(r *http.Request, err error) int {
	var subErr *stepform.SubmissionError
	switch {
	case err == nil, errors.Is(err, stepform.ErrAlreadySubmitted):
		return http.StatusOK
	case errors.Is(err, stepform.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stepform.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, stepform.ErrNotLastStep):
		return http.StatusBadRequest
	case errors.As(err, &subErr):
		return http.StatusBadGateway
	default:
		s.logger.Error("form action failed", "path", r.URL.Path, "error", err)
		return http.StatusInternalServerError
	}
}

func noticeFor(err error) string {
	if errors.Is(err, stepform.ErrBusy) {
		return busyNotice
	}
	return ""
}

// submit hands the application to the gateway detached from request
// cancellation and deadlines; form.submit_timeout is the only bound.
func submit(ctrl *stepform.Controller, r *http.Request) (stepform.Receipt, error) {
	return ctrl.Submit(context.WithoutCancel(r.Context()))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	data := s.page(r, "Error")
	data["status"] = http.StatusInternalServerError
	data["message"] = "Something went wrong. Please try again."
	s.respondHTML(w, http.StatusInternalServerError, "error", data)
}
