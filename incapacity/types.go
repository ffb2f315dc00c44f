/*
Package incapacity contains the medical-leave domain model and lifecycle engine.

PURPOSE:
  An incapacity is an employee's medical-leave request: a period of absence,
  a free-text reason, a requested reimbursement amount, and a lifecycle
  status driven by the HR review workflow. This package owns the record
  shape, the status set, and the engine that mutates records through their
  lifecycle.

KEY CONCEPTS IN THIS FILE (types.go):
  - Status: the closed set of lifecycle states
  - Record: the persisted incapacity
  - DurationDays / ReportDays: the two duration forms used by the system

DESIGN PRINCIPLES:
  1. Precision: requested amounts use decimal.Decimal, never float64
  2. Single writer: records are mutated only through the Engine
  3. Borrowed values: the Engine reads a copy from the store and writes back
     an updated value; it holds no long-lived references

SEE ALSO:
  - engine.go: lifecycle operations (create, update, transition)
  - errors.go: error taxonomy
  - store.go: persistence interface
*/
package incapacity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ID string

// =============================================================================
// STATUS - Lifecycle states
// =============================================================================

// Status is the lifecycle state of an incapacity.
//
// Nominal flow:
//
//	REGISTERED → VALIDATING → PENDING_REVIEW → IN_REVIEW → APPROVED
//	           → AWAITING_PAYMENT → PAID → CLOSED
//
// Side branches:
//   - CORRECTION: returned to the employee for fixes
//   - REJECTED: terminal, set from IN_REVIEW
//
// Transition enforces none of this ordering: any status may be set from any
// status. The flow above documents intent, not a guard.
type Status string

const (
	// StatusRegistered is the initial state of every new incapacity.
	StatusRegistered Status = "REGISTERED"

	// StatusValidating means documents and data are being checked.
	StatusValidating Status = "VALIDATING"

	// StatusCorrection means the employee must fix something and resubmit.
	StatusCorrection Status = "CORRECTION"

	// StatusPendingReview means the record is waiting for an HR reviewer.
	StatusPendingReview Status = "PENDING_REVIEW"

	// StatusInReview means HR is actively reviewing the record.
	StatusInReview Status = "IN_REVIEW"

	// StatusApproved means the incapacity is authorized for payment.
	StatusApproved Status = "APPROVED"

	// StatusRejected means the incapacity did not meet requirements.
	StatusRejected Status = "REJECTED"

	// StatusAwaitingPayment means the approved incapacity is queued for payment.
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"

	// StatusPaid means payment completed.
	StatusPaid Status = "PAID"

	// StatusClosed means the process is finished and archived.
	StatusClosed Status = "CLOSED"
)

// AllStatuses lists every valid status, in nominal flow order.
var AllStatuses = []Status{
	StatusRegistered,
	StatusValidating,
	StatusCorrection,
	StatusPendingReview,
	StatusInReview,
	StatusApproved,
	StatusRejected,
	StatusAwaitingPayment,
	StatusPaid,
	StatusClosed,
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// =============================================================================
// RECORD - The persisted incapacity
// =============================================================================

// Record is an incapacity as persisted by the store.
type Record struct {
	ID        ID
	SubjectID string // the requesting employee; not owned by this package

	RegisteredAt time.Time // stamped once at creation, never mutated

	PeriodStart time.Time
	PeriodEnd   time.Time // invariant: strictly after PeriodStart

	Reason          string
	RequestedAmount decimal.Decimal // non-negative
	DocumentURL     string          // optional link to the supporting document

	Status Status
	Notes  string // optional, overwritten on status changes

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationDays returns the leave duration of the record in days.
func (r Record) DurationDays() int {
	return DurationDays(r.PeriodStart, r.PeriodEnd)
}

// =============================================================================
// DURATION
// =============================================================================

// DurationDays is ceil(|end - start| in days). Symmetric in its arguments.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// ReportDays is the inclusive duration used for report line-items: both the
// first and the last day of the period count.
func ReportDays(start, end time.Time) int {
	return DurationDays(start, end) + 1
}
