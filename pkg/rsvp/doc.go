// Package rsvp owns the RSVP form: its field state, the validation rules
// and the submission state machine.
//
// A Controller is bound to exactly one rendered form. Field edits go through
// Update and Toggle; Submit validates the current state and, when it is
// valid, hands a snapshot to a Submitter. At most one submission is in flight
// per controller, and the controller always returns to Idle afterwards:
//
//	Idle --submit(invalid)--> Idle            (errors published)
//	Idle --submit(valid)----> Submitting --done--> Idle + navigate
//
// Validation errors are recomputed wholesale on every submit attempt and are
// left untouched by edits in between.
package rsvp
