/*
store.go - Persistence interface for incapacity records

PURPOSE:
  Defines the contract between the lifecycle engine and the database.
  Implementations exist for SQLite (store/sqlite) and in-memory testing
  (store/memory).

OWNERSHIP:
  The store exclusively owns persisted records. Find* methods return copies;
  Save/Update write a full record value back. Records use last-write-wins
  semantics: there is no optimistic concurrency token, and concurrent
  transitions on the same id race.
*/
package incapacity

import (
	"context"
	"time"
)

// Store handles persistence of incapacity records.
type Store interface {
	// FindByID returns the record, or nil if the id does not resolve.
	FindByID(ctx context.Context, id ID) (*Record, error)

	// FindBySubject returns all records for one employee, most recently
	// registered first.
	FindBySubject(ctx context.Context, subjectID string) ([]Record, error)

	// FindBySubjects returns all records for a set of employees, most
	// recently registered first. Used to merge a company's incapacities.
	FindBySubjects(ctx context.Context, subjectIDs []string) ([]Record, error)

	// FindByStatus returns all records in the given status.
	FindByStatus(ctx context.Context, status Status) ([]Record, error)

	// FindPendingReview returns records in PENDING_REVIEW or IN_REVIEW.
	FindPendingReview(ctx context.Context) ([]Record, error)

	// FindByDateRange returns records whose period_start falls in [from, to],
	// inclusive on both ends.
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Record, error)

	// Save persists a new record.
	Save(ctx context.Context, rec Record) error

	// Update overwrites an existing record. Last write wins.
	Update(ctx context.Context, rec Record) error

	// Delete removes a record. Reserved for administrative purge.
	Delete(ctx context.Context, id ID) error
}
