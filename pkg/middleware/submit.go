package middleware

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vmtco/funday/pkg/rsvp"
)

// InstrumentSubmitter wraps next with a span, submission metrics and a log
// line per submission. m and logger may be nil.
func InstrumentSubmitter(next rsvp.Submitter, m *Metrics, logger *slog.Logger) rsvp.Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return rsvp.SubmitterFunc(func(ctx context.Context, s rsvp.FormState) error {
		ctx, span := StartSpan(ctx, "rsvp.submit",
			attribute.String("rsvp.attending", string(s.Attending)),
			attribute.Int("rsvp.activities", len(s.Activities)),
		)
		defer span.End()

		// A panicking submitter is still counted as failed.
		outcome := rsvp.Failed.String()
		done := m.SubmissionStarted()
		defer func() { done(outcome) }()

		err := next.Submit(ctx, s)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		outcome = rsvp.Accepted.String()
		span.SetStatus(codes.Ok, "")
		logger.InfoContext(ctx, "rsvp submitted",
			"attending", string(s.Attending),
			"activities", len(s.Activities),
		)
		return nil
	})
}

// RecordOutcome counts submit attempts that were rejected before reaching
// the submitter. Accepted and failed attempts are counted by
// InstrumentSubmitter.
func (m *Metrics) RecordOutcome(out rsvp.Outcome) {
	switch out.Kind {
	case rsvp.Invalid, rsvp.Busy:
		m.RecordSubmission(out.Kind.String())
	}
}
