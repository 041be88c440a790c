package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmtco/funday/pkg/form"
)

// Status is the submission status of a controller.
type Status int

const (
	Idle Status = iota
	Submitting
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// FailureAlert is the message shown when a submission fails.
const FailureAlert = "There was an error submitting your RSVP. Please try again."

var (
	// ErrSubmitting is returned when Submit is called while a submission is
	// already in flight.
	ErrSubmitting = errors.New("rsvp: submission already in progress")

	// ErrInvalid is returned when the form has validation errors.
	ErrInvalid = errors.New("rsvp: form has validation errors")
)

// OutcomeKind classifies the result of Submit.
type OutcomeKind int

const (
	// Accepted means the submission completed and the form should navigate.
	Accepted OutcomeKind = iota
	// Invalid means validation failed; nothing was submitted.
	Invalid
	// Busy means another submission was in flight; nothing was validated.
	Busy
	// Failed means the submitter returned an error.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Invalid:
		return "invalid"
	case Busy:
		return "busy"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one Submit call.
type Outcome struct {
	Kind OutcomeKind

	// Errors is the error map published by this attempt. Nil for Busy.
	Errors FormErrors

	// Location is the navigation target when Kind is Accepted.
	Location string

	// Alert is the user-facing message when Kind is Failed.
	Alert string

	// Err is nil for Accepted, ErrInvalid, ErrSubmitting, or the
	// submitter's error.
	Err error
}

// OK reports whether the submission was accepted.
func (o Outcome) OK() bool {
	return o.Kind == Accepted
}

// Options configures a Controller.
type Options struct {
	// Activities is the closed activity catalog. Defaults to DefaultActivities.
	Activities []string

	// DietaryOptions is the closed set of dietary answers. Defaults to
	// DefaultDietaryOptions.
	DietaryOptions []string

	// Submitter transmits valid forms. Defaults to Simulated{}.
	Submitter Submitter

	// OnStatus, if set, is called after every status change, outside the
	// controller's lock.
	OnStatus func(Status)

	// Logger is used for submission failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Controller owns one form's state, its published errors and its
// submission status. It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	state  FormState
	errors FormErrors
	status Status

	activities catalog
	dietary    form.Validator
	submitter  Submitter
	onStatus   func(Status)
	logger     *slog.Logger
}

// NewController returns a controller holding a fresh form.
func NewController(opts Options) *Controller {
	acts := opts.Activities
	if len(acts) == 0 {
		acts = DefaultActivities
	}
	diets := opts.DietaryOptions
	if len(diets) == 0 {
		diets = DefaultDietaryOptions
	}
	sub := opts.Submitter
	if sub == nil {
		sub = Simulated{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		state:      NewFormState(),
		errors:     FormErrors{},
		activities: newCatalog(acts),
		dietary:    form.Chain(form.Required(""), form.OneOf("", diets...)),
		submitter:  sub,
		onStatus:   opts.OnStatus,
		logger:     logger,
	}
}

// State returns a copy of the current form state.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Errors returns a copy of the errors published by the last submit attempt.
func (c *Controller) Errors() FormErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyErrors(c.errors)
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Update replaces a scalar field's value. Edits are accepted while
// Submitting and never touch the published errors. It reports false for
// unknown fields, for the activities field (use Toggle), for attendance
// values other than yes or no and for dietary answers outside the options.
func (c *Controller) Update(field, value string) bool {
	if field == FieldDietaryRestrictions && c.dietary.Validate(value) != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.set(field, value)
}

// Toggle selects or deselects an activity. Names outside the catalog are
// ignored and reported as false.
func (c *Controller) Toggle(activity string, on bool) bool {
	if !c.activities.contains(activity) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.toggle(activity, on)
	return true
}

// Submit validates the form and, if it is valid, runs the submitter on a
// snapshot of the state. It blocks until the submission finishes. The
// controller is back in Idle when Submit returns, whatever the outcome.
func (c *Controller) Submit(ctx context.Context) Outcome {
	c.mu.Lock()
	if c.status == Submitting {
		c.mu.Unlock()
		return Outcome{Kind: Busy, Err: ErrSubmitting}
	}

	errs := Validate(c.state)
	c.errors = errs
	if len(errs) > 0 {
		c.mu.Unlock()
		return Outcome{Kind: Invalid, Errors: copyErrors(errs), Err: ErrInvalid}
	}

	c.status = Submitting
	snapshot := c.state.Clone()
	c.mu.Unlock()
	c.notify(Submitting)

	defer func() {
		c.mu.Lock()
		c.status = Idle
		c.mu.Unlock()
		c.notify(Idle)
	}()

	if err := c.run(ctx, snapshot); err != nil {
		c.logger.Warn("rsvp submission failed",
			"error", err,
			"attending", string(snapshot.Attending),
		)
		return Outcome{Kind: Failed, Errors: FormErrors{}, Alert: FailureAlert, Err: err}
	}

	return Outcome{
		Kind:     Accepted,
		Errors:   FormErrors{},
		Location: ConfirmationURL(snapshot.FirstName),
	}
}

// run calls the submitter, turning a panic into an error.
func (c *Controller) run(ctx context.Context, snapshot FormState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rsvp: submitter panic: %v", r)
		}
	}()
	return c.submitter.Submit(ctx, snapshot)
}

func (c *Controller) notify(s Status) {
	if c.onStatus != nil {
		c.onStatus(s)
	}
}

func copyErrors(e FormErrors) FormErrors {
	out := make(FormErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
