// Package live runs the RSVP form over a websocket.
//
// One connection is one rendered form with its own rsvp.Controller. The
// browser streams field edits and submit requests as JSON; the server
// answers with published errors, status changes, navigation and toasts.
//
// Client to server:
//
//	{"type":"input","field":"email","value":"jane@x.com"}
//	{"type":"toggle","value":"Volleyball","checked":true}
//	{"type":"submit"}
//
// Server to client:
//
//	{"type":"errors","errors":{"email":"Email is invalid"}}
//	{"type":"status","submitting":true}
//	{"type":"navigate","url":"/confirmation?name=Jane"}
//	{"type":"toast","level":"error","message":"..."}
//
// Reads are handled in order on the connection's goroutine. A submission
// runs on its own goroutine so edits keep flowing while it is in flight;
// the controller refuses a second submit until the first finishes.
package live
