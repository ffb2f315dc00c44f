/*
errors.go - Centralized error types for the incapacity domain

PURPOSE:
  All domain error types in one place. Callers branch with errors.Is and the
  helpers below; the API layer maps categories to HTTP statuses.

ERROR CATEGORIES:
  1. Validation errors - caller-supplied data violates an invariant
  2. Not-found errors  - a referenced id does not resolve
  3. Dependency errors - a collaborator (store, mail, chart service) failed
  4. Render errors     - a report renderer received malformed input

SEE ALSO:
  - engine.go: returns these errors
  - report/: wraps ErrRender
*/
package incapacity

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced incapacity does not exist.
	ErrNotFound = errors.New("incapacity not found")

	// ErrInvalidPeriod is returned when period_end is not strictly after
	// period_start.
	ErrInvalidPeriod = errors.New("invalid period: end must be after start")

	// ErrNegativeAmount is returned when a requested amount is negative.
	ErrNegativeAmount = errors.New("requested amount must be non-negative")

	// ErrUnknownStatus is returned when a status value is outside the
	// closed status set.
	ErrUnknownStatus = errors.New("unknown incapacity status")

	// ErrDependency is returned when a collaborator fails (store, mail
	// transport, chart-image service).
	ErrDependency = errors.New("dependency failure")

	// ErrRender is returned when a report renderer cannot produce output.
	// No partial report is ever returned alongside it.
	ErrRender = errors.New("report rendering failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which record failed to resolve.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("incapacity %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Field   string
	Message string
	Cause   error // one of the validation sentinels
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// DependencyError wraps a collaborator failure with the collaborator's name.
type DependencyError struct {
	Dependency string // "store", "mail", "chart"
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return ErrDependency }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
// Client errors are surfaced directly and never retried.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrUnknownStatus)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
