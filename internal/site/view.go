package site

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// Template data is built from plain maps so pongo2 sees native ints and
// bools instead of JSON-decoded floats.

func (s *Server) page(r *http.Request, title string) map[string]any {
	nav := make([]any, 0, len(s.content.Nav))
	for _, link := range s.content.Nav {
		nav = append(nav, map[string]any{
			"label":  link.Label,
			"href":   link.Href,
			"active": isActive(link.Href, r.URL.Path),
		})
	}
	if title == "" {
		title = s.content.Brand.Title
	} else {
		title = title + " | " + s.content.Brand.ShortName
	}
	return map[string]any{
		"title": title,
		"nav":   nav,
	}
}

// globals are the layout values shared by every page: brand copy, footer
// links and the selected theme.
func (s *Server) globals() map[string]any {
	return map[string]any{
		"brand":      s.content.Brand,
		"footer":     s.content.Footer,
		"themeName":  s.theme.Theme,
		"themeVars":  CSSVarsBlock(s.theme),
		"stylesheet": s.theme.AssetURL("stylesheet"),
		"script":     s.theme.AssetURL("script"),
	}
}

func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

var simpleCondition = regexp.MustCompile(`^\s*(\w+)\s*==\s*"([^"]*)"\s*$`)

// formView flattens a controller into template data. inputErrs holds
// messages for posted values that could not be stored and take precedence
// over the validation mapping.
func formView(ctrl *stepform.Controller, inputErrs stepform.Errors) map[string]any {
	st := ctrl.Snapshot()
	step := ctrl.CurrentStep()
	visible := make(map[string]bool, len(st.Fields))
	for _, f := range st.Fields {
		visible[f.Name] = true
	}

	errs := st.Errors
	for k, v := range inputErrs {
		errs[k] = v
	}

	fields := make([]any, 0, len(step.Fields))
	for _, spec := range step.Fields {
		v, _ := ctrl.Value(spec.Name)
		fields = append(fields, fieldView(spec, v, errs[spec.Name], visible[spec.Name]))
	}

	schema := ctrl.Schema()
	steps := make([]any, 0, schema.TotalSteps())
	for _, s := range schema.Steps {
		steps = append(steps, map[string]any{
			"index":   s.Index,
			"title":   s.Title,
			"done":    s.Index < st.Step,
			"current": s.Index == st.Step,
		})
	}

	return map[string]any{
		"variant":     string(st.Variant),
		"phase":       st.Phase.String(),
		"step":        st.Step,
		"total":       st.TotalSteps,
		"progress":    st.Progress,
		"title":       st.Title,
		"subtitle":    st.Subtitle,
		"steps":       steps,
		"fields":      fields,
		"hasErrors":   len(errs) > 0,
		"notice":      st.Notice,
		"isFirst":     ctrl.IsFirst(),
		"isLast":      ctrl.IsLast(),
		"submitted":   st.Phase == stepform.PhaseSubmitted,
		"submitting":  st.Phase == stepform.PhaseSubmitting,
		"reference":   st.Reference,
		"multipart":   hasFileField(step),
		"acceptFiles": strings.Join(application.AcceptedExtensions(), ","),
	}
}

func fieldView(spec application.FieldSpec, v application.Value, msg string, visible bool) map[string]any {
	options := make([]any, 0, len(spec.Options))
	for _, opt := range spec.Options {
		selected := false
		switch v.Kind() {
		case application.KindChoice:
			selected = v.String() == opt.Value
		case application.KindSet:
			selected = v.Contains(opt.Value)
		}
		options = append(options, map[string]any{
			"value":    opt.Value,
			"label":    opt.Label,
			"selected": selected,
		})
	}
	out := map[string]any{
		"name":        spec.Name,
		"label":       spec.Label,
		"kind":        spec.Kind.String(),
		"required":    spec.Required,
		"placeholder": spec.Placeholder,
		"multiline":   spec.Multiline,
		"options":     options,
		"error":       msg,
		"hidden":      !visible,
	}
	switch v.Kind() {
	case application.KindText, application.KindChoice:
		out["value"] = v.String()
	case application.KindFlag:
		out["checked"] = v.Bool()
	case application.KindFile:
		if a := v.Attachment(); a != nil {
			out["file"] = a.Name
		}
	}
	if m := simpleCondition.FindStringSubmatch(spec.VisibleWhen); m != nil {
		out["whenField"] = m[1]
		out["whenValue"] = m[2]
	}
	return out
}

func hasFileField(step application.Step) bool {
	for _, f := range step.Fields {
		if f.Kind == application.KindFile {
			return true
		}
	}
	return false
}
