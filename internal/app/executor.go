package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// Remote operations run as a pipeline: Validate → Fetch → Verify → Apply.
//
// Nothing local changes before Apply, so a failure in an earlier step leaves
// the store exactly as it was.

// Step names a stage of a pipelined operation.
type Step string

const (
	StepValidate Step = "validate"
	StepFetch    Step = "fetch"
	StepVerify   Step = "verify"
	StepApply    Step = "apply"
)

// StepError records the step in which an operation failed.
type StepError struct {
	Op    string
	Step  Step
	Cause error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *StepError) Unwrap() error {
	return e.Cause
}

// StepOf extracts the failing step from an error returned by Execute.
func StepOf(err error) (Step, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}

	return "", false
}

// causeOf strips the StepError wrapper, if any.
func causeOf(err error) error {
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Cause != nil {
		return stepErr.Cause
	}

	return err
}

// Operation holds the steps of a pipelined operation. Nil steps are skipped;
// a nil Verify passes the fetched value through unchanged.
type Operation[I, F, O any] struct {
	// Name identifies the operation in logs and errors.
	Name string

	// Validate checks the input before anything remote is touched.
	Validate func(ctx context.Context, in I) error

	// Fetch reads from the remote side.
	Fetch func(ctx context.Context, in I) (F, error)

	// Verify checks or normalizes what Fetch returned.
	Verify func(ctx context.Context, in I, fetched F) (F, error)

	// Apply commits the verified value locally and builds the result.
	Apply func(ctx context.Context, in I, verified F) (O, error)
}

// Execute runs op for in. The logger on ctx is preferred over fallback.
func Execute[I, F, O any](ctx context.Context, fallback *slog.Logger, op Operation[I, F, O], in I) (O, error) {
	var zero O

	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = fallback
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step Step, err error) (O, error) {
		logger.WarnContext(ctx, "operation step failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return zero, &StepError{Op: op.Name, Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, in); err != nil {
			return fail(StepValidate, err)
		}
	}

	var fetched F

	if op.Fetch != nil {
		var err error

		fetched, err = op.Fetch(ctx, in)
		if err != nil {
			return fail(StepFetch, err)
		}

		logger.DebugContext(ctx, "fetched", slog.Duration("elapsed", time.Since(start)))
	}

	if op.Verify != nil {
		var err error

		fetched, err = op.Verify(ctx, in, fetched)
		if err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Apply == nil {
		return zero, nil
	}

	out, err := op.Apply(ctx, in, fetched)
	if err != nil {
		return fail(StepApply, err)
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}
