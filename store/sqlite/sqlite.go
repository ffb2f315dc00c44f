/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements incapacity.Store (records) and dispatch.Directory (companies
  and rosters) on one database. In production the same patterns apply to
  PostgreSQL with only dialect differences.

KEY TABLES:
  incapacities:  one row per record, amounts stored as decimal text
  employees:     the per-company roster
  companies:     report recipients

INDEXES:
  - idx_incapacities_subject: per-employee listings and company merges
  - idx_incapacities_status:  status and pending-review listings
  - idx_incapacities_period:  date-range report queries
  - idx_employees_company:    roster resolution

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Records are last-write-wins; the
  lock serializes writers, nothing more.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/incapacity.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := incapacity.NewEngine(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - incapacity/store.go: record interface definition
  - dispatch/directory.go: directory interface definition
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
)

// Store implements incapacity.Store and dispatch.Directory using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL REFERENCES companies(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_company ON employees(company_id);

	CREATE TABLE IF NOT EXISTS incapacities (
		id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL,
		registered_at TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		reason TEXT NOT NULL,
		requested_amount TEXT NOT NULL,
		document_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_incapacities_subject ON incapacities(subject_id);
	CREATE INDEX IF NOT EXISTS idx_incapacities_status ON incapacities(status);
	CREATE INDEX IF NOT EXISTS idx_incapacities_period ON incapacities(period_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INCAPACITY STORE
// =============================================================================

const recordColumns = `id, subject_id, registered_at, period_start, period_end,
	reason, requested_amount, document_url, status, notes, created_at, updated_at`

// FindByID returns the record, or nil if the id does not resolve.
func (s *Store) FindByID(ctx context.Context, id incapacity.ID) (*incapacity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM incapacities WHERE id = ?`, string(id))

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query incapacity: %w", err)
	}
	return &rec, nil
}

// FindBySubject returns all records for one employee, most recently
// registered first.
func (s *Store) FindBySubject(ctx context.Context, subjectID string) ([]incapacity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM incapacities
		 WHERE subject_id = ? ORDER BY registered_at DESC`, subjectID)
}

// FindBySubjects returns all records for a set of employees, most recently
// registered first.
func (s *Store) FindBySubjects(ctx context.Context, subjectIDs []string) ([]incapacity.Record, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(subjectIDs)), ",")
	args := make([]any, len(subjectIDs))
	for i, id := range subjectIDs {
		args[i] = id
	}

	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM incapacities
		 WHERE subject_id IN (`+placeholders+`) ORDER BY registered_at DESC`, args...)
}

// FindByStatus returns all records in the given status.
func (s *Store) FindByStatus(ctx context.Context, status incapacity.Status) ([]incapacity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM incapacities
		 WHERE status = ? ORDER BY registered_at DESC`, string(status))
}

// FindPendingReview returns records in PENDING_REVIEW or IN_REVIEW.
func (s *Store) FindPendingReview(ctx context.Context) ([]incapacity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM incapacities
		 WHERE status IN (?, ?) ORDER BY registered_at DESC`,
		string(incapacity.StatusPendingReview), string(incapacity.StatusInReview))
}

// FindByDateRange returns records whose period_start falls in [from, to],
// inclusive on both ends.
func (s *Store) FindByDateRange(ctx context.Context, from, to time.Time) ([]incapacity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM incapacities
		 WHERE period_start >= ? AND period_start <= ?
		 ORDER BY registered_at DESC`,
		formatTime(from), formatTime(to))
}

// Save persists a new record.
func (s *Store) Save(ctx context.Context, rec incapacity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO incapacities (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordArgs(rec)...)
	if err != nil {
		return fmt.Errorf("insert incapacity: %w", err)
	}
	return nil
}

// Update overwrites an existing record. Last write wins.
func (s *Store) Update(ctx context.Context, rec incapacity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE incapacities SET
			subject_id = ?, registered_at = ?, period_start = ?, period_end = ?,
			reason = ?, requested_amount = ?, document_url = ?, status = ?,
			notes = ?, created_at = ?, updated_at = ?
		 WHERE id = ?`,
		rec.SubjectID,
		formatTime(rec.RegisteredAt),
		formatTime(rec.PeriodStart),
		formatTime(rec.PeriodEnd),
		rec.Reason,
		rec.RequestedAmount.String(),
		rec.DocumentURL,
		string(rec.Status),
		rec.Notes,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
		string(rec.ID))
	if err != nil {
		return fmt.Errorf("update incapacity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update incapacity: id %s not found", rec.ID)
	}
	return nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id incapacity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM incapacities WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete incapacity: %w", err)
	}
	return nil
}

// queryRecords runs a SELECT over recordColumns and scans every row.
// Callers hold the read lock.
func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]incapacity.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incapacities: %w", err)
	}
	defer rows.Close()

	var records []incapacity.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incapacity: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// DIRECTORY
// =============================================================================

// ListCompanies returns every registered company, ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]dispatch.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []dispatch.Company
	for rows.Next() {
		var c dispatch.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// FindCompany returns one company by id, or (nil, nil) when absent.
func (s *Store) FindCompany(ctx context.Context, id string) (*dispatch.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c dispatch.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query company: %w", err)
	}
	return &c, nil
}

// ListCompanyEmployees returns the roster of one company, ordered by name.
func (s *Store) ListCompanyEmployees(ctx context.Context, companyID string) ([]dispatch.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, email FROM employees
		 WHERE company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var employees []dispatch.Employee
	for rows.Next() {
		var e dispatch.Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// FindEmployee returns one employee by id, or (nil, nil) when absent.
func (s *Store) FindEmployee(ctx context.Context, id string) (*dispatch.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e dispatch.Employee
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, email FROM employees WHERE id = ?`, id).
		Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query employee: %w", err)
	}
	return &e, nil
}

// SaveCompany inserts or replaces a company.
func (s *Store) SaveCompany(ctx context.Context, c dispatch.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO companies (id, name, email) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Email)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

// SaveEmployee inserts or replaces an employee.
func (s *Store) SaveEmployee(ctx context.Context, e dispatch.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO employees (id, company_id, name, email) VALUES (?, ?, ?, ?)`,
		e.ID, e.CompanyID, e.Name, e.Email)
	if err != nil {
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (incapacity.Record, error) {
	var (
		rec        incapacity.Record
		id         string
		registered string
		start, end string
		amount     string
		status     string
		created    string
		updated    string
	)
	err := row.Scan(&id, &rec.SubjectID, &registered, &start, &end,
		&rec.Reason, &amount, &rec.DocumentURL, &status, &rec.Notes,
		&created, &updated)
	if err != nil {
		return incapacity.Record{}, err
	}

	rec.ID = incapacity.ID(id)
	rec.Status = incapacity.Status(status)
	if rec.RequestedAmount, err = decimal.NewFromString(amount); err != nil {
		return incapacity.Record{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	for _, pair := range []struct {
		raw string
		dst *time.Time
	}{
		{registered, &rec.RegisteredAt},
		{start, &rec.PeriodStart},
		{end, &rec.PeriodEnd},
		{created, &rec.CreatedAt},
		{updated, &rec.UpdatedAt},
	} {
		t, err := time.Parse(time.RFC3339Nano, pair.raw)
		if err != nil {
			return incapacity.Record{}, fmt.Errorf("parse time %q: %w", pair.raw, err)
		}
		*pair.dst = t
	}
	return rec, nil
}

func recordArgs(rec incapacity.Record) []any {
	return []any{
		string(rec.ID),
		rec.SubjectID,
		formatTime(rec.RegisteredAt),
		formatTime(rec.PeriodStart),
		formatTime(rec.PeriodEnd),
		rec.Reason,
		rec.RequestedAmount.String(),
		rec.DocumentURL,
		string(rec.Status),
		rec.Notes,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	}
}

// formatTime stores times as UTC RFC3339Nano. Period bounds are
// day-granularity, so the lexical comparisons in range queries hold.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

var (
	_ incapacity.Store   = (*Store)(nil)
	_ dispatch.Directory = (*Store)(nil)
)
