package site

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/vmtco/funday/pkg/rsvp"
	"github.com/vmtco/funday/pkg/toast"
	"github.com/vmtco/funday/pkg/urlparam"
)

// maxFormBytes bounds a POST /rsvp body.
const maxFormBytes = 64 << 10

// tokenField carries the form token in the RSVP form.
const tokenField = "form"

// activitiesParam reads the checked activity boxes.
var activitiesParam = urlparam.Strings(rsvp.FieldActivities)

// BusyNotice is shown when a form is posted while it is still submitting.
const BusyNotice = "Your RSVP is already being submitted. Please wait."

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, view{Page: pageHome})
}

func (s *Site) handleDetails(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, view{Page: pageDetails})
}

func (s *Site) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, view{Page: pageNotFound})
}

func (s *Site) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	name := rsvp.ConfirmationName(r.URL.Query())
	s.render(w, r, http.StatusOK, view{
		Page:     pageConfirmation,
		Greeting: rsvp.Greeting(name),
	})
}

func (s *Site) handleRSVPForm(w http.ResponseWriter, r *http.Request) {
	token, ctl := s.forms.Create()
	s.renderForm(w, r, http.StatusOK, token, ctl, nil)
}

func (s *Site) handleRSVPSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	token := r.PostForm.Get(tokenField)
	ctl, ok := s.forms.Get(token)
	if !ok {
		// Expired or unknown token: the posted values are all we need.
		token, ctl = s.forms.Create()
	}
	applyForm(ctl, r.PostForm)

	out := ctl.Submit(r.Context())
	s.metrics.RecordOutcome(out)

	var flash toast.Flash
	switch out.Kind {
	case rsvp.Accepted:
		s.forms.Remove(token)
		http.Redirect(w, r, out.Location, http.StatusSeeOther)
	case rsvp.Invalid:
		s.renderForm(w, r, http.StatusUnprocessableEntity, token, ctl, &flash)
	case rsvp.Busy:
		toast.Warning(&flash, BusyNotice)
		s.renderForm(w, r, http.StatusConflict, token, ctl, &flash)
	case rsvp.Failed:
		toast.Error(&flash, out.Alert)
		s.renderForm(w, r, http.StatusServiceUnavailable, token, ctl, &flash)
	}
}

func (s *Site) renderForm(w http.ResponseWriter, r *http.Request, status int, token string, ctl *rsvp.Controller, flash *toast.Flash) {
	v := view{
		Page: pageRSVP,
		Live: s.live,
		Form: &formView{
			Token:      token,
			State:      ctl.State(),
			Errors:     ctl.Errors(),
			Activities: s.event.Activities,
			Dietary:    s.event.DietaryOptions,
		},
	}
	if flash != nil {
		v.Toasts = flash.Toasts()
	}
	s.render(w, r, status, v)
}

// applyForm copies posted values into ctl. Scalar fields are only updated
// when present; the activities set is replaced by the checked boxes.
func applyForm(ctl *rsvp.Controller, values url.Values) {
	for _, field := range []string{
		rsvp.FieldFirstName,
		rsvp.FieldLastName,
		rsvp.FieldEmail,
		rsvp.FieldCellPhone,
		rsvp.FieldEmergencyPhone,
		rsvp.FieldAttending,
		rsvp.FieldDietaryRestrictions,
		rsvp.FieldComments,
	} {
		if _, ok := values[field]; ok {
			ctl.Update(field, values.Get(field))
		}
	}

	posted := activitiesParam.From(values)
	checked := make(map[string]bool, len(posted))
	for _, a := range posted {
		checked[a] = true
	}
	for _, a := range ctl.State().Activities {
		if !checked[a] {
			ctl.Toggle(a, false)
		}
	}
	for _, a := range posted {
		ctl.Toggle(a, true)
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Forms  int    `json:"forms"`
}

func (s *Site) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(healthResponse{Status: "ok", Forms: s.forms.Count()})
}
