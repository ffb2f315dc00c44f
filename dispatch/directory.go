/*
Package dispatch assembles and delivers per-company incapacity reports.

PURPOSE:
  The engine knows records, the report package knows encodings; this
  package joins them. For one company it resolves the employee roster,
  pulls the incapacities in the requested period, aggregates statistics,
  renders every encoding, and hands the result to the mailer. For all
  companies it fans the same work out over a bounded worker pool.

FAILURE SEMANTICS:
  A company with no registered employees or no incapacities in the period
  is a reported failure with a reason, not an error that aborts the batch.
  One company's failure never stops another company's report.

SEE ALSO:
  - reporter.go: delivery and the batch worker pool
  - report/: encodings
  - stats/: aggregation
*/
package dispatch

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/report"
	"github.com/sigi/incapacity-engine/stats"
)

// =============================================================================
// DIRECTORY
// =============================================================================

// Company is a report recipient.
type Company struct {
	ID    string
	Name  string
	Email string
}

// Employee is a member of a company's roster.
type Employee struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
}

// Directory resolves companies and their rosters. The SQLite store
// implements it next to the incapacity store.
type Directory interface {
	// ListCompanies returns every registered company.
	ListCompanies(ctx context.Context) ([]Company, error)

	// FindCompany returns one company by id, or (nil, nil) when absent.
	FindCompany(ctx context.Context, id string) (*Company, error)

	// ListCompanyEmployees returns the roster of one company.
	ListCompanyEmployees(ctx context.Context, companyID string) ([]Employee, error)
}

// =============================================================================
// PER-COMPANY FAILURE REASONS
// =============================================================================

var (
	// ErrNoEmployees marks a company whose roster is empty.
	ErrNoEmployees = errors.New("company has no registered employees")

	// ErrNoIncapacities marks a company with no incapacities in the period.
	ErrNoIncapacities = errors.New("no incapacities in the selected period")
)

// =============================================================================
// REPORT ASSEMBLY
// =============================================================================

// BuildCompanyReport gathers the company's incapacities and assembles the
// renderer input. A nil range means no period filter: every incapacity of
// the roster is included and the displayed period spans the records
// themselves. Rows are ordered newest registration first. Returns
// ErrNoEmployees or ErrNoIncapacities when there is nothing to report.
func (r *Reporter) BuildCompanyReport(ctx context.Context, company Company, rng *stats.DateRange) (report.Data, error) {
	employees, err := r.dir.ListCompanyEmployees(ctx, company.ID)
	if err != nil {
		return report.Data{}, err
	}
	if len(employees) == 0 {
		return report.Data{}, ErrNoEmployees
	}

	names := make(map[string]string, len(employees))
	ids := make([]string, 0, len(employees))
	for _, emp := range employees {
		names[emp.ID] = emp.Name
		ids = append(ids, emp.ID)
	}

	records, err := r.store.FindBySubjects(ctx, ids)
	if err != nil {
		return report.Data{}, err
	}

	inRange := records[:0:0]
	for _, rec := range records {
		if rng == nil || rng.Contains(rec.PeriodStart) {
			inRange = append(inRange, rec)
		}
	}
	if len(inRange) == 0 {
		return report.Data{}, ErrNoIncapacities
	}

	sort.Slice(inRange, func(i, j int) bool {
		return inRange[i].RegisteredAt.After(inRange[j].RegisteredAt)
	})

	rows := make([]report.DetailRow, 0, len(inRange))
	for _, rec := range inRange {
		rows = append(rows, report.NewDetailRow(rec, names[rec.SubjectID]))
	}

	return report.Data{
		Company:     report.Company{Name: company.Name, Email: company.Email},
		Period:      reportPeriod(rng, inRange),
		Stats:       stats.Aggregate(inRange, rng),
		Rows:        rows,
		GeneratedAt: r.now(),
	}, nil
}

// reportPeriod formats the displayed period: the requested range when one
// was given, otherwise the span of the records themselves.
func reportPeriod(rng *stats.DateRange, records []incapacity.Record) report.Period {
	if rng != nil {
		return report.Period{
			Start: rng.From.Format(report.DateLayout),
			End:   rng.To.Format(report.DateLayout),
		}
	}

	from, to := records[0].PeriodStart, records[0].PeriodEnd
	for _, rec := range records[1:] {
		if rec.PeriodStart.Before(from) {
			from = rec.PeriodStart
		}
		if rec.PeriodEnd.After(to) {
			to = rec.PeriodEnd
		}
	}
	return report.Period{
		Start: from.Format(report.DateLayout),
		End:   to.Format(report.DateLayout),
	}
}

// MonthRange returns the inclusive range covering the calendar month of t,
// the default range of scheduled reports.
func MonthRange(t time.Time) stats.DateRange {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return stats.DateRange{
		From: from,
		To:   from.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}
