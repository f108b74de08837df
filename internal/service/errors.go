package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Typed errors returned by the service layer. Handlers map them onto HTTP
// status codes; nothing below this package formats HTTP responses.

// NotFoundError reports a lookup miss for a concrete entity.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a rejected state transition or assignment. Current is
// the status the entity held when the rule fired, Attempted the requested one.
type ConflictError struct {
	Entity    string
	ID        uuid.UUID
	Current   string
	Attempted string
	Rule      string
}

func (e *ConflictError) Error() string {
	if e.Attempted != "" {
		return fmt.Sprintf("%s %s: cannot go from %q to %q: %s", e.Entity, e.ID, e.Current, e.Attempted, e.Rule)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Rule)
}

// ValidationError reports bad input that survived DTO binding, e.g. a
// malformed decimal or a date in the past.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Detail)
	}
	return e.Detail
}

// StepError records one failed step inside a multi-entity operation.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// PartialFailure reports a cascade that completed some steps but not all.
// Completed lists the steps that were applied before the failure; callers
// should surface both halves so an operator can reconcile by hand.
type PartialFailure struct {
	Op        string
	Completed []string
	Failed    []StepError
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: %d steps completed, %d failed", e.Op, len(e.Completed), len(e.Failed))
}

// Convenience match helpers used by handlers and tests.

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsPartialFailure(err error) bool {
	var pf *PartialFailure
	return errors.As(err, &pf)
}
