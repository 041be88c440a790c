package rsvp

import (
	"net/url"

	"github.com/vmtco/funday/pkg/urlparam"
)

// ConfirmationPath is the route the form navigates to after a submission.
const ConfirmationPath = "/confirmation"

// DefaultGuestName is shown when the confirmation view has no name.
const DefaultGuestName = "Friend"

// NameParam is the query parameter carrying the guest's first name.
var NameParam = urlparam.String("name", DefaultGuestName)

// ConfirmationURL returns the confirmation route for firstName, escaped.
func ConfirmationURL(firstName string) string {
	return urlparam.Build(ConfirmationPath, NameParam.With(firstName))
}

// ConfirmationName reads the guest name from the confirmation query.
func ConfirmationName(values url.Values) string {
	return NameParam.From(values)
}

// Greeting is the confirmation headline for name.
func Greeting(name string) string {
	return "Thanks, " + name + "!"
}
