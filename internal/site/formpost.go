package site

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// maxFormBody leaves room for the text fields next to a full-size resume.
const maxFormBody = application.MaxResumeSize + 1<<20

func parsePost(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormBody)
	}
	return r.ParseForm()
}

// postedStepMatches guards against a stale page posting values for a step
// the session has already left. Posts without a step marker are accepted.
func postedStepMatches(ctrl *stepform.Controller, r *http.Request) bool {
	raw := r.PostFormValue("step")
	if raw == "" {
		return true
	}
	n, err := strconv.Atoi(raw)
	return err == nil && n == ctrl.Step()
}

// applyStep stores the posted values of every field on the displayed step.
// Unchecked checkboxes are absent from form posts, so sets and flags on the
// step are always replaced wholesale. The returned mapping lists values that
// were rejected; a non-nil error means the controller refused edits.
func applyStep(ctrl *stepform.Controller, r *http.Request) (stepform.Errors, error) {
	rejected := stepform.Errors{}
	for _, spec := range ctrl.CurrentStep().Fields {
		v, ok, err := postedValue(r, spec)
		if err != nil {
			rejected[spec.Name] = inputMessage(err)
			continue
		}
		if !ok {
			continue
		}
		if err := ctrl.Set(spec.Name, v); err != nil {
			if errors.Is(err, stepform.ErrBusy) || errors.Is(err, stepform.ErrAlreadySubmitted) {
				return nil, err
			}
			rejected[spec.Name] = inputMessage(err)
		}
	}
	return rejected, nil
}

func postedValue(r *http.Request, spec application.FieldSpec) (application.Value, bool, error) {
	values, present := r.PostForm[spec.Name]
	switch spec.Kind {
	case application.KindText:
		if !present {
			return application.Value{}, false, nil
		}
		return application.Text(values[0]), true, nil
	case application.KindChoice:
		if !present {
			return application.Value{}, false, nil
		}
		return application.Choice(values[0]), true, nil
	case application.KindSet:
		return application.Set(values...), true, nil
	case application.KindFlag:
		return application.Flag(present && values[0] != ""), true, nil
	case application.KindFile:
		return postedFile(r, spec.Name)
	default:
		return application.Value{}, false, fmt.Errorf("site: field %q has unsupported kind %s", spec.Name, spec.Kind)
	}
}

func postedFile(r *http.Request, name string) (application.Value, bool, error) {
	if r.PostFormValue("remove_"+name) != "" {
		return application.File(nil), true, nil
	}
	if r.MultipartForm == nil {
		return application.Value{}, false, nil
	}
	file, header, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return application.Value{}, false, nil
	}
	if err != nil {
		return application.Value{}, false, err
	}
	defer file.Close()
	if header.Filename == "" {
		return application.Value{}, false, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, application.MaxResumeSize+1))
	if err != nil {
		return application.Value{}, false, err
	}
	a, err := application.NewAttachment(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return application.Value{}, false, err
	}
	return application.File(a), true, nil
}

func inputMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrAttachmentTooLarge):
		return "File must be 5 MB or smaller"
	case errors.Is(err, application.ErrAttachmentType):
		return "Accepted formats: " + strings.Join(application.AcceptedExtensions(), ", ")
	case errors.Is(err, stepform.ErrUnknownOption):
		return "Select a valid option"
	default:
		return "Invalid value"
	}
}
