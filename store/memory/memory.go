// Package memory provides in-memory Store and Directory implementations
// for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	records   map[incapacity.ID]incapacity.Record
	companies map[string]dispatch.Company
	employees map[string]dispatch.Employee
}

func New() *Store {
	return &Store{
		records:   make(map[incapacity.ID]incapacity.Record),
		companies: make(map[string]dispatch.Company),
		employees: make(map[string]dispatch.Employee),
	}
}

// FindByID returns the record, or nil if the id does not resolve.
func (m *Store) FindByID(_ context.Context, id incapacity.ID) (*incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// FindBySubject returns all records for one employee, most recently
// registered first.
func (m *Store) FindBySubject(_ context.Context, subjectID string) ([]incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collect(func(rec incapacity.Record) bool {
		return rec.SubjectID == subjectID
	}), nil
}

// FindBySubjects returns all records for a set of employees, most recently
// registered first.
func (m *Store) FindBySubjects(_ context.Context, subjectIDs []string) ([]incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		wanted[id] = true
	}
	return m.collect(func(rec incapacity.Record) bool {
		return wanted[rec.SubjectID]
	}), nil
}

// FindByStatus returns all records in the given status.
func (m *Store) FindByStatus(_ context.Context, status incapacity.Status) ([]incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collect(func(rec incapacity.Record) bool {
		return rec.Status == status
	}), nil
}

// FindPendingReview returns records in PENDING_REVIEW or IN_REVIEW.
func (m *Store) FindPendingReview(_ context.Context) ([]incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collect(func(rec incapacity.Record) bool {
		return rec.Status == incapacity.StatusPendingReview ||
			rec.Status == incapacity.StatusInReview
	}), nil
}

// FindByDateRange returns records whose period_start falls in [from, to],
// inclusive on both ends.
func (m *Store) FindByDateRange(_ context.Context, from, to time.Time) ([]incapacity.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collect(func(rec incapacity.Record) bool {
		return !rec.PeriodStart.Before(from) && !rec.PeriodStart.After(to)
	}), nil
}

// Save persists a new record.
func (m *Store) Save(_ context.Context, rec incapacity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.ID] = rec
	return nil
}

// Update overwrites an existing record. Last write wins.
func (m *Store) Update(_ context.Context, rec incapacity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.ID] = rec
	return nil
}

// Delete removes a record.
func (m *Store) Delete(_ context.Context, id incapacity.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, id)
	return nil
}

// collect returns the matching records sorted most recently registered
// first. Callers hold the read lock.
func (m *Store) collect(match func(incapacity.Record) bool) []incapacity.Record {
	var out []incapacity.Record
	for _, rec := range m.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.After(out[j].RegisteredAt)
	})
	return out
}

// =============================================================================
// DIRECTORY
// =============================================================================

// ListCompanies returns every registered company, ordered by name.
func (m *Store) ListCompanies(_ context.Context) ([]dispatch.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []dispatch.Company
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindCompany returns one company by id, or (nil, nil) when absent.
func (m *Store) FindCompany(_ context.Context, id string) (*dispatch.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ListCompanyEmployees returns the roster of one company, ordered by name.
func (m *Store) ListCompanyEmployees(_ context.Context, companyID string) ([]dispatch.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []dispatch.Employee
	for _, e := range m.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindEmployee returns one employee by id, or (nil, nil) when absent.
func (m *Store) FindEmployee(_ context.Context, id string) (*dispatch.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// SaveCompany inserts or replaces a company.
func (m *Store) SaveCompany(_ context.Context, c dispatch.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.companies[c.ID] = c
	return nil
}

// SaveEmployee inserts or replaces an employee.
func (m *Store) SaveEmployee(_ context.Context, e dispatch.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees[e.ID] = e
	return nil
}

var (
	_ incapacity.Store   = (*Store)(nil)
	_ dispatch.Directory = (*Store)(nil)
)
