/*
reporter_test.go - Report assembly and batch delivery tests

Tests for:
- Per-company report assembly (roster merge, range filter, row order)
- Failure reasons for empty rosters and empty periods
- Batch dispatch accounting over the worker pool
*/
package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigi/incapacity-engine/chart"
	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
	"github.com/sigi/incapacity-engine/stats"
	"github.com/sigi/incapacity-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fakeMailer records sent messages; optionally fails for chosen recipients.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []mail.Message
	reject map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, to := range msg.To {
		if f.reject[to] {
			return errors.New("smtp: mailbox unavailable")
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

var testNow = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func januaryRange() *stats.DateRange {
	rng := dispatch.MonthRange(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return &rng
}

func seedCompany(t *testing.T, store *memory.Store, id, name string, employees int) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveCompany(ctx, dispatch.Company{
		ID: id, Name: name, Email: id + "@corp.test",
	}))
	for i := 0; i < employees; i++ {
		require.NoError(t, store.SaveEmployee(ctx, dispatch.Employee{
			ID:        id + "-emp-" + string(rune('a'+i)),
			CompanyID: id,
			Name:      "Employee " + string(rune('A'+i)),
			Email:     "emp@corp.test",
		}))
	}
}

func seedRecord(t *testing.T, store *memory.Store, subjectID string, start time.Time, status incapacity.Status, registered time.Time) incapacity.Record {
	t.Helper()

	rec := incapacity.Record{
		ID:              incapacity.ID(subjectID + start.Format("0102") + string(status)),
		SubjectID:       subjectID,
		RegisteredAt:    registered,
		PeriodStart:     start,
		PeriodEnd:       start.AddDate(0, 0, 4),
		Reason:          "medical leave",
		RequestedAmount: decimal.NewFromInt(150000),
		Status:          status,
	}
	require.NoError(t, store.Save(context.Background(), rec))
	return rec
}

func newTestReporter(store *memory.Store, mailer mail.Mailer) *dispatch.Reporter {
	return dispatch.NewReporter(store, store, mailer, chart.URLRenderer{}, nil, 2).
		WithClock(func() time.Time { return testNow })
}

// =============================================================================
// ASSEMBLY
// =============================================================================

func TestBuildCompanyReport(t *testing.T) {
	store := memory.New()
	seedCompany(t, store, "acme", "Acme Corp", 2)

	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, "acme-emp-a", jan10, incapacity.StatusApproved, jan10)
	seedRecord(t, store, "acme-emp-b", jan20, incapacity.StatusRegistered, jan20)
	// Outside the range, must not appear
	seedRecord(t, store, "acme-emp-a",
		time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), incapacity.StatusApproved, testNow)

	reporter := newTestReporter(store, &fakeMailer{})
	company, err := store.FindCompany(context.Background(), "acme")
	require.NoError(t, err)

	data, err := reporter.BuildCompanyReport(context.Background(), *company, januaryRange())
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", data.Company.Name)
	assert.Equal(t, "01/01/2025", data.Period.Start)
	assert.Equal(t, "31/01/2025", data.Period.End)
	assert.Equal(t, 2, data.Stats.Total)
	assert.Equal(t, 1, data.Stats.Approved)
	assert.Equal(t, 1, data.Stats.Pending)
	assert.Equal(t, testNow, data.GeneratedAt)

	// Newest registration first, inclusive day counts
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Employee B", data.Rows[0].Employee)
	assert.Equal(t, "Employee A", data.Rows[1].Employee)
	assert.Equal(t, 5, data.Rows[0].Days)
}

func TestBuildCompanyReport_NilRangeIncludesEverything(t *testing.T) {
	// GIVEN: Records in different months
	store := memory.New()
	seedCompany(t, store, "acme", "Acme Corp", 2)

	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mar05 := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, "acme-emp-a", jan10, incapacity.StatusApproved, jan10)
	seedRecord(t, store, "acme-emp-b", mar05, incapacity.StatusRegistered, mar05)

	reporter := newTestReporter(store, &fakeMailer{})
	company, err := store.FindCompany(context.Background(), "acme")
	require.NoError(t, err)

	// WHEN: Building without a range
	data, err := reporter.BuildCompanyReport(context.Background(), *company, nil)
	require.NoError(t, err)

	// THEN: No record is filtered out and the displayed period spans them
	assert.Equal(t, 2, data.Stats.Total)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "10/01/2025", data.Period.Start)
	assert.Equal(t, "09/03/2025", data.Period.End)
}

func TestBuildCompanyReport_EmptyRoster(t *testing.T) {
	store := memory.New()
	seedCompany(t, store, "ghost", "Ghost LLC", 0)

	reporter := newTestReporter(store, &fakeMailer{})
	company, err := store.FindCompany(context.Background(), "ghost")
	require.NoError(t, err)

	_, err = reporter.BuildCompanyReport(context.Background(), *company, januaryRange())
	assert.ErrorIs(t, err, dispatch.ErrNoEmployees)
}

func TestBuildCompanyReport_EmptyPeriod(t *testing.T) {
	store := memory.New()
	seedCompany(t, store, "idle", "Idle Inc", 1)

	reporter := newTestReporter(store, &fakeMailer{})
	company, err := store.FindCompany(context.Background(), "idle")
	require.NoError(t, err)

	_, err = reporter.BuildCompanyReport(context.Background(), *company, januaryRange())
	assert.ErrorIs(t, err, dispatch.ErrNoIncapacities)
}

// =============================================================================
// SINGLE DELIVERY
// =============================================================================

func TestSendCompanyReport(t *testing.T) {
	store := memory.New()
	seedCompany(t, store, "acme", "Acme Corp", 1)
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seedRecord(t, store, "acme-emp-a", jan10, incapacity.StatusApproved, jan10)

	mailer := &fakeMailer{}
	reporter := newTestReporter(store, mailer)

	result, err := reporter.SendCompanyReport(context.Background(), "acme", januaryRange())
	require.NoError(t, err)

	assert.True(t, result.Sent)
	assert.Empty(t, result.Reason)
	assert.Equal(t, 1, result.Incapacities)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, []string{"acme@corp.test"}, msg.To)
	assert.Contains(t, msg.Subject, "Acme Corp")
	assert.Contains(t, msg.HTML, "Acme Corp")
	require.Len(t, msg.Attachments, 3)
	assert.Equal(t, "incapacity-report.pdf", msg.Attachments[0].Filename)
}

func TestSendCompanyReport_UnknownCompany(t *testing.T) {
	reporter := newTestReporter(memory.New(), &fakeMailer{})

	_, err := reporter.SendCompanyReport(context.Background(), "nope", januaryRange())
	assert.True(t, incapacity.IsNotFound(err))
}

// =============================================================================
// BATCH
// =============================================================================

func TestSendAllReports_MixedOutcomes(t *testing.T) {
	// GIVEN: One company with data, one with an empty roster, one whose
	// mailbox rejects delivery
	store := memory.New()
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	seedCompany(t, store, "acme", "Acme Corp", 1)
	seedRecord(t, store, "acme-emp-a", jan10, incapacity.StatusApproved, jan10)

	seedCompany(t, store, "ghost", "Ghost LLC", 0)

	seedCompany(t, store, "bounce", "Bounce SA", 1)
	seedRecord(t, store, "bounce-emp-a", jan10, incapacity.StatusRegistered, jan10)

	mailer := &fakeMailer{reject: map[string]bool{"bounce@corp.test": true}}
	reporter := newTestReporter(store, mailer)

	// WHEN: Dispatching the whole batch
	batch, err := reporter.SendAllReports(context.Background(), januaryRange())
	require.NoError(t, err)

	// THEN: Every company is accounted for exactly once
	assert.Equal(t, 3, batch.TotalCompanies)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 2, batch.Failed)
	require.Len(t, batch.Results, 3)

	byID := make(map[string]dispatch.CompanyResult)
	for _, r := range batch.Results {
		byID[r.CompanyID] = r
	}
	assert.True(t, byID["acme"].Sent)
	assert.False(t, byID["ghost"].Sent)
	assert.Equal(t, dispatch.ErrNoEmployees.Error(), byID["ghost"].Reason)
	assert.False(t, byID["bounce"].Sent)
	assert.Contains(t, byID["bounce"].Reason, "mailbox unavailable")
}

func TestSendAllReports_NoCompanies(t *testing.T) {
	reporter := newTestReporter(memory.New(), &fakeMailer{})

	batch, err := reporter.SendAllReports(context.Background(), januaryRange())
	require.NoError(t, err)
	assert.Equal(t, 0, batch.TotalCompanies)
	assert.Empty(t, batch.Results)
}

func TestMonthRange(t *testing.T) {
	rng := dispatch.MonthRange(time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.True(t, rng.Contains(time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}
