/*
scheduler_test.go - Monthly report scheduler tests

Exercises the due-date check, the once-per-month dedup, retry after a
failed batch, and that Stop returns while a batch is still in flight.
*/
package api_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigi/incapacity-engine/api"
	"github.com/sigi/incapacity-engine/chart"
	"github.com/sigi/incapacity-engine/dispatch"
	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
	"github.com/sigi/incapacity-engine/store/memory"
)

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// seedReportableStore registers one company with one employee and one
// incapacity in January 2025.
func seedReportableStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveCompany(ctx, dispatch.Company{
		ID: "acme", Name: "Acme Corp", Email: "hr@acme.test",
	}))
	require.NoError(t, store.SaveEmployee(ctx, dispatch.Employee{
		ID: "emp-1", CompanyID: "acme", Name: "Jane Roe", Email: "jane@acme.test",
	}))

	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, incapacity.Record{
		ID:              "inc-1",
		SubjectID:       "emp-1",
		RegisteredAt:    jan10,
		PeriodStart:     jan10,
		PeriodEnd:       jan10.AddDate(0, 0, 4),
		Reason:          "medical leave",
		RequestedAmount: decimal.NewFromInt(150000),
		Status:          incapacity.StatusApproved,
	}))
	return store
}

func newTestScheduler(dir dispatch.Directory, store *memory.Store, mailer mail.Mailer, now time.Time) *api.ReportScheduler {
	reporter := dispatch.NewReporter(dir, store, mailer, chart.URLRenderer{}, nil, 2)
	scheduler := api.NewReportScheduler(reporter, nil).
		WithClock(func() time.Time { return now })
	scheduler.CheckInterval = 5 * time.Millisecond
	return scheduler
}

// =============================================================================
// DUE-DATE CHECK
// =============================================================================

func TestReportScheduler_DispatchesOnFirstOfMonth(t *testing.T) {
	store := seedReportableStore(t)
	mailer := &fakeMailer{}
	scheduler := newTestScheduler(store, store, mailer, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))

	scheduler.Start()
	defer scheduler.Stop()

	require.Eventually(t, func() bool { return mailer.count() == 1 },
		time.Second, 5*time.Millisecond)

	// The batch covers the previous calendar month
	mailer.mu.Lock()
	subject := mailer.sent[0].Subject
	mailer.mu.Unlock()
	assert.Contains(t, subject, "01/01/2025")
	assert.Contains(t, subject, "31/01/2025")

	// Later ticks in the same month must not dispatch again
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, mailer.count())
}

func TestReportScheduler_SkipsMidMonth(t *testing.T) {
	store := seedReportableStore(t)
	mailer := &fakeMailer{}
	scheduler := newTestScheduler(store, store, mailer, time.Date(2025, 2, 15, 8, 0, 0, 0, time.UTC))

	scheduler.Start()
	defer scheduler.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, mailer.count())
}

func TestReportScheduler_DisabledDoesNotRun(t *testing.T) {
	store := seedReportableStore(t)
	mailer := &fakeMailer{}
	scheduler := newTestScheduler(store, store, mailer, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	scheduler.Enabled = false

	scheduler.Start()
	defer scheduler.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, mailer.count())
}

// =============================================================================
// RETRY
// =============================================================================

// flakyDirectory fails the first ListCompanies calls, then delegates.
type flakyDirectory struct {
	dispatch.Directory

	mu       sync.Mutex
	failures int
}

func (f *flakyDirectory) ListCompanies(ctx context.Context) ([]dispatch.Company, error) {
	f.mu.Lock()
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()

	if fail {
		return nil, errors.New("directory unavailable")
	}
	return f.Directory.ListCompanies(ctx)
}

func TestReportScheduler_RetriesAfterFailedBatch(t *testing.T) {
	store := seedReportableStore(t)
	mailer := &fakeMailer{}
	dir := &flakyDirectory{Directory: store, failures: 2}
	scheduler := newTestScheduler(dir, store, mailer, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))

	scheduler.Start()
	defer scheduler.Stop()

	// The failed ticks leave the month unsent, so a later tick succeeds
	require.Eventually(t, func() bool { return mailer.count() == 1 },
		time.Second, 5*time.Millisecond)
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// stallingDirectory blocks ListCompanies until released, signalling entry.
type stallingDirectory struct {
	dispatch.Directory

	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stallingDirectory) ListCompanies(ctx context.Context) ([]dispatch.Company, error) {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return s.Directory.ListCompanies(ctx)
}

func TestReportScheduler_StopReturnsWhileBatchInFlight(t *testing.T) {
	// GIVEN: A batch blocked inside the directory on the first of the month
	store := seedReportableStore(t)
	dir := &stallingDirectory{
		Directory: store,
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	scheduler := newTestScheduler(dir, store, &fakeMailer{}, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))

	scheduler.Start()
	<-dir.entered

	// WHEN: Stop is requested mid-batch, then the batch unblocks
	stopped := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight batch finished")
	case <-time.After(50 * time.Millisecond):
	}
	close(dir.release)

	// THEN: Stop completes once the batch drains
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the batch was released")
	}
}
