/*
reporter.go - report delivery and the batch worker pool

DELIVERY:
  One company report becomes one email: HTML body with embedded chart
  image URLs, plus the PDF, CSV, and XLSX encodings attached.

BATCH:
  SendAllReports fans companies out over a bounded worker pool. Results
  are accumulated under a mutex and summarized in a BatchResult; a failed
  company carries its reason and never aborts the batch.
*/
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sigi/incapacity-engine/chart"
	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/mail"
	"github.com/sigi/incapacity-engine/report"
	"github.com/sigi/incapacity-engine/stats"
)

// DefaultWorkers bounds batch concurrency. Report rendering is cheap; the
// bound exists to keep a batch from opening one SMTP conversation per
// company at once.
const DefaultWorkers = 4

// =============================================================================
// REPORTER
// =============================================================================

// Reporter assembles and delivers company reports.
type Reporter struct {
	dir     Directory
	store   incapacity.Store
	mailer  mail.Mailer
	charts  chart.Renderer
	log     *zap.Logger
	workers int
	now     func() time.Time
}

// NewReporter wires a reporter. A nil logger is replaced with a no-op one
// and a non-positive worker count falls back to DefaultWorkers.
func NewReporter(dir Directory, store incapacity.Store, mailer mail.Mailer, charts chart.Renderer, log *zap.Logger, workers int) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Reporter{
		dir:     dir,
		store:   store,
		mailer:  mailer,
		charts:  charts,
		log:     log,
		workers: workers,
		now:     time.Now,
	}
}

// WithClock fixes the reporter's clock, for tests.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

// =============================================================================
// RESULTS
// =============================================================================

// CompanyResult is the outcome of one company's report.
type CompanyResult struct {
	CompanyID    string `json:"company_id"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Sent         bool   `json:"sent"`
	Reason       string `json:"reason,omitempty"` // set when Sent is false
	Incapacities int    `json:"incapacities"`
}

// BatchResult summarizes one SendAllReports run.
type BatchResult struct {
	TotalCompanies int             `json:"total_companies"`
	Succeeded      int             `json:"succeeded"`
	Failed         int             `json:"failed"`
	Results        []CompanyResult `json:"results"`
}

// =============================================================================
// SINGLE COMPANY
// =============================================================================

// SendCompanyReport builds, renders, and emails one company's report. A
// nil range means the report is unfiltered. The returned result carries
// the failure reason instead of an error for per-company conditions
// (empty roster, empty period, send failure); an error return means the
// company id itself did not resolve.
func (r *Reporter) SendCompanyReport(ctx context.Context, companyID string, rng *stats.DateRange) (CompanyResult, error) {
	company, err := r.dir.FindCompany(ctx, companyID)
	if err != nil {
		return CompanyResult{}, fmt.Errorf("find company: %w", err)
	}
	if company == nil {
		return CompanyResult{}, &incapacity.NotFoundError{ID: incapacity.ID(companyID)}
	}
	return r.send(ctx, *company, rng), nil
}

func (r *Reporter) send(ctx context.Context, company Company, rng *stats.DateRange) CompanyResult {
	result := CompanyResult{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Email:       company.Email,
	}

	data, err := r.BuildCompanyReport(ctx, company, rng)
	if err != nil {
		result.Reason = err.Error()
		r.log.Warn("company report skipped",
			zap.String("company", company.Name),
			zap.String("reason", result.Reason))
		return result
	}
	result.Incapacities = len(data.Rows)

	msg, err := r.buildMessage(data)
	if err != nil {
		result.Reason = err.Error()
		r.log.Error("company report render failed",
			zap.String("company", company.Name),
			zap.Error(err))
		return result
	}
	msg.To = []string{company.Email}

	if err := r.mailer.Send(ctx, msg); err != nil {
		result.Reason = err.Error()
		return result
	}

	result.Sent = true
	r.log.Info("company report sent",
		zap.String("company", company.Name),
		zap.Int("incapacities", result.Incapacities))
	return result
}

// buildMessage renders every encoding and assembles the outgoing email.
func (r *Reporter) buildMessage(data report.Data) (mail.Message, error) {
	charts, err := chart.BuildReportCharts(r.charts, data.Stats)
	if err != nil {
		return mail.Message{}, fmt.Errorf("build charts: %w", err)
	}

	html, err := report.RenderHTML(data, charts)
	if err != nil {
		return mail.Message{}, err
	}
	pdf, err := report.RenderPDF(data)
	if err != nil {
		return mail.Message{}, err
	}
	csv, err := report.RenderCSV(data)
	if err != nil {
		return mail.Message{}, err
	}
	xlsx, err := report.RenderXLSX(data)
	if err != nil {
		return mail.Message{}, err
	}

	subject := fmt.Sprintf("Incapacity Report - %s (%s to %s)",
		data.Company.Name, data.Period.Start, data.Period.End)
	text := fmt.Sprintf(
		"Incapacity report for %s, %s to %s. %d incapacities in the period. The full report is attached.",
		data.Company.Name, data.Period.Start, data.Period.End, len(data.Rows))

	return mail.Message{
		Subject: subject,
		Text:    text,
		HTML:    html,
		Attachments: []mail.Attachment{
			{Filename: "incapacity-report.pdf", ContentType: "application/pdf", Content: pdf},
			{Filename: "incapacity-report.csv", ContentType: "text/csv", Content: []byte(csv)},
			{Filename: "incapacity-report.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Content: xlsx},
		},
	}, nil
}

// =============================================================================
// BATCH
// =============================================================================

// SendAllReports sends the report for every registered company over the
// worker pool. A nil range means the reports are unfiltered. Per-company
// failures are recorded in the batch result.
func (r *Reporter) SendAllReports(ctx context.Context, rng *stats.DateRange) (BatchResult, error) {
	companies, err := r.dir.ListCompanies(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list companies: %w", err)
	}

	batch := BatchResult{TotalCompanies: len(companies)}
	if len(companies) == 0 {
		return batch, nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan Company)
	)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range jobs {
				result := r.send(ctx, company, rng)
				mu.Lock()
				batch.Results = append(batch.Results, result)
				if result.Sent {
					batch.Succeeded++
				} else {
					batch.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, company := range companies {
		jobs <- company
	}
	close(jobs)
	wg.Wait()

	r.log.Info("report batch finished",
		zap.Int("total", batch.TotalCompanies),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed))
	return batch, nil
}
