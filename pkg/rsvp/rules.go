package rsvp

import (
	"regexp"

	"github.com/vmtco/funday/pkg/form"
)

// FormErrors maps a field name to its inline message.
type FormErrors = form.Errors

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
)

// Validation messages.
const (
	MsgFirstNameRequired      = "First name is required"
	MsgLastNameRequired       = "Last name is required"
	MsgEmailRequired          = "Email is required"
	MsgEmailInvalid           = "Email is invalid"
	MsgCellPhoneRequired      = "Cell phone number is required"
	MsgEmergencyPhoneRequired = "Emergency contact number is required"
	MsgPhoneInvalid           = "Please enter a valid phone number"
	MsgActivitiesRequired     = "Please select at least one activity"
)

var rules = form.NewRules[FormState]().
	Add(FieldFirstName, func(s FormState) any { return s.FirstName },
		form.Required(MsgFirstNameRequired)).
	Add(FieldLastName, func(s FormState) any { return s.LastName },
		form.Required(MsgLastNameRequired)).
	Add(FieldEmail, func(s FormState) any { return s.Email },
		form.Required(MsgEmailRequired),
		form.Match(emailPattern, MsgEmailInvalid)).
	Add(FieldCellPhone, func(s FormState) any { return s.CellPhone },
		form.Required(MsgCellPhoneRequired),
		form.Match(phonePattern, MsgPhoneInvalid)).
	Add(FieldEmergencyPhone, func(s FormState) any { return s.EmergencyPhone },
		form.Required(MsgEmergencyPhoneRequired),
		form.Match(phonePattern, MsgPhoneInvalid)).
	AddIf(FieldActivities,
		func(s FormState) bool { return s.Attending == AttendingYes },
		func(s FormState) any { return s.Activities },
		form.Required(MsgActivitiesRequired))

// Validate checks s against the form rules and returns a fresh error map.
// It has no side effects; an empty map means s can be submitted.
func Validate(s FormState) FormErrors {
	return rules.Check(s)
}
