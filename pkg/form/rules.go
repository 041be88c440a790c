package form

import "errors"

// Errors maps field names to a single human-readable message.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Rules is an ordered set of field rules over values of type T.
type Rules[T any] struct {
	rules []rule[T]
}

type rule[T any] struct {
	field     string
	when      func(T) bool
	get       func(T) any
	validator Validator
}

// NewRules returns an empty rule set.
func NewRules[T any]() *Rules[T] {
	return &Rules[T]{}
}

// Add registers validators for field. They run in order; the first failure
// becomes the field's message.
func (r *Rules[T]) Add(field string, get func(T) any, validators ...Validator) *Rules[T] {
	return r.AddIf(field, nil, get, validators...)
}

// AddIf is Add, but the field is only checked when cond reports true.
func (r *Rules[T]) AddIf(field string, cond func(T) bool, get func(T) any, validators ...Validator) *Rules[T] {
	r.rules = append(r.rules, rule[T]{
		field:     field,
		when:      cond,
		get:       get,
		validator: Chain(validators...),
	})
	return r
}

// Check evaluates every rule against v and returns a new error map.
// All fields are checked; a failure on one never skips another.
func (r *Rules[T]) Check(v T) Errors {
	errs := make(Errors)
	for _, rl := range r.rules {
		if rl.when != nil && !rl.when(v) {
			continue
		}
		if _, seen := errs[rl.field]; seen {
			continue
		}
		if err := rl.validator.Validate(rl.get(v)); err != nil {
			errs[rl.field] = messageOf(err)
		}
	}
	return errs
}

func messageOf(err error) string {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
