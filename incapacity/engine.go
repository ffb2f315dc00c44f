/*
engine.go - Incapacity lifecycle engine

PURPOSE:
  Handles the full lifecycle of an incapacity record:
  1. Create:     validate period and amount, stamp timestamps, force
                 the initial status to REGISTERED
  2. Update:     partial update with merged-value period validation
  3. Transition: set the status field (unguarded, see below)
  4. Delete:     administrative removal

TRANSITIONS:
  Transition sets the status unconditionally. The documented flow
  (REGISTERED → ... → CLOSED, see types.go) is informational only; HR may
  move a record between any two statuses. The table is kept as a reference
  for a future hardening pass, not enforced here.

EXAMPLE:
  eng := incapacity.NewEngine(store)
  rec, err := eng.Create(ctx, incapacity.CreateInput{
      SubjectID:   "emp-123",
      PeriodStart: start,
      PeriodEnd:   end,
      Reason:      "surgery recovery",
  })
  rec, err = eng.Transition(ctx, rec.ID, incapacity.StatusApproved, "docs verified")

SEE ALSO:
  - types.go: Record and Status
  - store.go: persistence interface
*/
package incapacity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine applies lifecycle operations to incapacity records. It is stateless
// between calls: every operation is a pure function of its inputs plus store
// reads and writes.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates an engine backed by the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewEngineWithClock creates an engine with a fixed clock, for tests.
func NewEngineWithClock(store Store, now func() time.Time) *Engine {
	return &Engine{store: store, now: now}
}

// =============================================================================
// CREATE
// =============================================================================

// CreateInput carries the caller-supplied fields for a new incapacity.
// Any Status supplied by the caller is ignored: new records always start
// as REGISTERED.
type CreateInput struct {
	SubjectID       string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Reason          string
	RequestedAmount decimal.Decimal
	DocumentURL     string
	Notes           string
}

// Create validates the input and persists a new record in REGISTERED state.
// RegisteredAt and the audit timestamps are stamped here, never taken from
// the caller.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if err := validatePeriod(in.PeriodStart, in.PeriodEnd); err != nil {
		return nil, err
	}
	if err := validateAmount(in.RequestedAmount); err != nil {
		return nil, err
	}

	now := e.now()
	rec := Record{
		ID:              ID(uuid.NewString()),
		SubjectID:       in.SubjectID,
		RegisteredAt:    now,
		PeriodStart:     in.PeriodStart,
		PeriodEnd:       in.PeriodEnd,
		Reason:          in.Reason,
		RequestedAmount: in.RequestedAmount,
		DocumentURL:     in.DocumentURL,
		Status:          StatusRegistered,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.store.Save(ctx, rec); err != nil {
		return nil, &DependencyError{Dependency: "store", Err: fmt.Errorf("save incapacity: %w", err)}
	}
	return &rec, nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	PeriodStart     *time.Time
	PeriodEnd       *time.Time
	Reason          *string
	RequestedAmount *decimal.Decimal
	DocumentURL     *string
	Status          *Status
	Notes           *string
}

// Update applies a partial update to an existing record. If either period
// bound changes, the period invariant is re-validated against the merged
// (existing + patch) values.
func (e *Engine) Update(ctx context.Context, id ID, patch Patch) (*Record, error) {
	rec, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.PeriodStart != nil || patch.PeriodEnd != nil {
		start := rec.PeriodStart
		end := rec.PeriodEnd
		if patch.PeriodStart != nil {
			start = *patch.PeriodStart
		}
		if patch.PeriodEnd != nil {
			end = *patch.PeriodEnd
		}
		if err := validatePeriod(start, end); err != nil {
			return nil, err
		}
		rec.PeriodStart = start
		rec.PeriodEnd = end
	}

	if patch.RequestedAmount != nil {
		if err := validateAmount(*patch.RequestedAmount); err != nil {
			return nil, err
		}
		rec.RequestedAmount = *patch.RequestedAmount
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, &ValidationError{Field: "status", Message: string(*patch.Status), Cause: ErrUnknownStatus}
		}
		rec.Status = *patch.Status
	}
	if patch.Reason != nil {
		rec.Reason = *patch.Reason
	}
	if patch.DocumentURL != nil {
		rec.DocumentURL = *patch.DocumentURL
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}

	rec.UpdatedAt = e.now()
	if err := e.store.Update(ctx, *rec); err != nil {
		return nil, &DependencyError{Dependency: "store", Err: fmt.Errorf("update incapacity: %w", err)}
	}
	return rec, nil
}

// =============================================================================
// TRANSITION
// =============================================================================

// Transition sets the record's status to newStatus. No transition-graph
// guard is applied: any status may be set from any status. When notes is
// non-empty it overwrites the record's notes.
func (e *Engine) Transition(ctx context.Context, id ID, newStatus Status, notes string) (*Record, error) {
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: string(newStatus), Cause: ErrUnknownStatus}
	}

	rec, err := e.get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Status = newStatus
	if notes != "" {
		rec.Notes = notes
	}
	rec.UpdatedAt = e.now()

	if err := e.store.Update(ctx, *rec); err != nil {
		return nil, &DependencyError{Dependency: "store", Err: fmt.Errorf("transition incapacity: %w", err)}
	}
	return rec, nil
}

// =============================================================================
// READS / DELETE
// =============================================================================

// Get returns a record by id, or NotFoundError.
func (e *Engine) Get(ctx context.Context, id ID) (*Record, error) {
	return e.get(ctx, id)
}

// ListBySubject returns all records for one employee.
func (e *Engine) ListBySubject(ctx context.Context, subjectID string) ([]Record, error) {
	return e.store.FindBySubject(ctx, subjectID)
}

// ListByStatus returns all records in the given status.
func (e *Engine) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: string(status), Cause: ErrUnknownStatus}
	}
	return e.store.FindByStatus(ctx, status)
}

// ListPendingReview returns records waiting for or under HR review.
func (e *Engine) ListPendingReview(ctx context.Context) ([]Record, error) {
	return e.store.FindPendingReview(ctx)
}

// Delete removes a record. Fails with NotFoundError if the id does not
// resolve.
func (e *Engine) Delete(ctx context.Context, id ID) error {
	if _, err := e.get(ctx, id); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return &DependencyError{Dependency: "store", Err: fmt.Errorf("delete incapacity: %w", err)}
	}
	return nil
}

func (e *Engine) get(ctx context.Context, id ID) (*Record, error) {
	rec, err := e.store.FindByID(ctx, id)
	if err != nil {
		return nil, &DependencyError{Dependency: "store", Err: fmt.Errorf("find incapacity: %w", err)}
	}
	if rec == nil {
		return nil, &NotFoundError{ID: id}
	}
	return rec, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func validatePeriod(start, end time.Time) error {
	if !end.After(start) {
		return &ValidationError{
			Field:   "period",
			Message: "end date must be after start date",
			Cause:   ErrInvalidPeriod,
		}
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &ValidationError{
			Field:   "requested_amount",
			Message: "must not be negative",
			Cause:   ErrNegativeAmount,
		}
	}
	return nil
}
