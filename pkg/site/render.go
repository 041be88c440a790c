package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/vmtco/funday/pkg/content"
	"github.com/vmtco/funday/pkg/form"
	"github.com/vmtco/funday/pkg/rsvp"
	"github.com/vmtco/funday/pkg/toast"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, also used as template file names.
const (
	pageHome         = "home"
	pageDetails      = "details"
	pageRSVP         = "rsvp"
	pageConfirmation = "confirmation"
	pageNotFound     = "notfound"
)

var pages = []string{pageHome, pageDetails, pageRSVP, pageConfirmation, pageNotFound}

// view is the data passed to every page template.
type view struct {
	Page     string
	Event    *content.Event
	Live     bool
	Toasts   []toast.Toast
	Form     *formView
	Greeting string
}

// formView is the RSVP form as rendered.
type formView struct {
	Token      string
	State      rsvp.FormState
	Errors     rsvp.FormErrors
	Activities []string
	Dietary    []string
}

// textField is the data for the "text-field" template.
type textField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
}

var funcs = template.FuncMap{
	"accent": func(i int) string {
		return [...]string{"blue", "pink", "purple"}[i%3]
	},
	"alternate": func(i int) string {
		if i%2 == 0 {
			return "blue"
		}
		return "pink"
	},
	"field": func(name, label, typ, placeholder, value string, errs form.Errors) textField {
		return textField{
			Name:        name,
			Label:       label,
			Type:        typ,
			Placeholder: placeholder,
			Value:       value,
			Error:       errs.Get(name),
		}
	},
}

// parseTemplates parses the layout with each page.
func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// render executes the page into a buffer first so a template error never
// produces a partial response.
func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, v view) {
	t, ok := s.templates[v.Page]
	if !ok {
		s.logger.Error("unknown page template", "page", v.Page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	v.Event = s.event
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", "page", v.Page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
