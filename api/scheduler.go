/*
scheduler.go - Automated monthly report scheduler

PURPOSE:
  Periodically checks whether the monthly report batch is due and sends
  every company's report for the previous calendar month.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - A batch is due on the first day of a month that has not been
    dispatched yet; the last dispatched month is tracked in memory
  - Dispatch failures are logged and retried on the next tick

LOCKING:
  mu guards the start/stop lifecycle only. The sent month has its own
  mutex: Stop holds mu across wg.Wait, so the run goroutine must never
  need mu while a batch is in flight.

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReportScheduler(reporter, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: SendAllReports endpoint (manual dispatch)
  - dispatch/reporter.go: batch delivery
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sigi/incapacity-engine/dispatch"
)

// ReportScheduler handles automated monthly report dispatch.
type ReportScheduler struct {
	Reporter      *dispatch.Reporter
	CheckInterval time.Duration
	Enabled       bool

	log    *zap.Logger
	now    func() time.Time
	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	sentMu sync.Mutex
	sent   string // "2006-01" of the last dispatched batch
}

// NewReportScheduler creates a new scheduler.
func NewReportScheduler(reporter *dispatch.Reporter, log *zap.Logger) *ReportScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportScheduler{
		Reporter:      reporter,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		log:           log,
		now:           time.Now,
		stop:          make(chan bool),
	}
}

// WithClock fixes the scheduler's clock, for tests. Must be called before
// Start.
func (rs *ReportScheduler) WithClock(now func() time.Time) *ReportScheduler {
	rs.now = now
	return rs
}

// Start begins the scheduler.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info("report scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info("report scheduler started",
		zap.Duration("check_interval", rs.CheckInterval))
}

// Stop stops the scheduler.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.log.Info("report scheduler stopped")
	}
}

func (rs *ReportScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndSend()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndSend()
		case <-rs.stop:
			return
		}
	}
}

// checkAndSend dispatches the previous month's batch when a new month has
// started and that batch has not gone out yet.
func (rs *ReportScheduler) checkAndSend() {
	now := rs.now()
	if now.Day() != 1 {
		return
	}

	month := now.Format("2006-01")
	rs.sentMu.Lock()
	alreadySent := rs.sent == month
	rs.sentMu.Unlock()
	if alreadySent {
		return
	}

	rng := dispatch.MonthRange(now.AddDate(0, -1, 0))
	rs.log.Info("dispatching monthly report batch",
		zap.Time("from", rng.From),
		zap.Time("to", rng.To))

	batch, err := rs.Reporter.SendAllReports(context.Background(), &rng)
	if err != nil {
		// Left unsent so the next tick retries.
		rs.log.Error("monthly report batch failed", zap.Error(err))
		return
	}

	rs.sentMu.Lock()
	rs.sent = month
	rs.sentMu.Unlock()

	rs.log.Info("monthly report batch dispatched",
		zap.Int("total", batch.TotalCompanies),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed))
}
