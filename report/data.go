/*
Package report renders company incapacity reports.

PURPOSE:
  Turns an aggregated statistics summary plus per-incapacity detail rows
  into the four delivery encodings: an HTML email body with embedded chart
  images, a paginated PDF, a CSV text document, and an XLSX workbook.

INPUTS:
  All renderers consume the same Data value. Row order is preserved as
  given (callers pass reverse-chronological by registration). An empty row
  set renders an explicit "no data" message, never a silently empty table.

FAILURE SEMANTICS:
  Renderers either return complete output or an error wrapping
  incapacity.ErrRender. Partial reports are never returned.

SEE ALSO:
  - html.go, pdf.go, csv.go, xlsx.go: the four encodings
  - chart/: chart image URLs embedded in the HTML body
*/
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/stats"
)

// DateLayout is the day-month-year layout used in report bodies.
const DateLayout = "02/01/2006"

// =============================================================================
// DATA MODEL
// =============================================================================

// Company identifies the report recipient.
type Company struct {
	Name  string
	Email string
}

// Period is the report date range, already formatted for display.
type Period struct {
	Start string
	End   string
}

// DetailRow is one report line-item, derived from a single incapacity.
// Days uses the inclusive duration form (both endpoints count).
type DetailRow struct {
	Employee    string
	Reason      string
	PeriodStart string
	PeriodEnd   string
	Days        int
	Status      string
	Amount      decimal.Decimal
	DocumentURL string // empty when the incapacity has no attached document
}

// Data is the shared input of every renderer.
type Data struct {
	Company     Company
	Period      Period
	Stats       stats.Statistics
	Rows        []DetailRow
	GeneratedAt time.Time
}

func (d Data) validate() error {
	if d.Company.Name == "" {
		return renderErr("company name is empty")
	}
	for i, row := range d.Rows {
		if row.Days < 0 {
			return renderErr(fmt.Sprintf("row %d: negative day count", i))
		}
	}
	return nil
}

func renderErr(msg string) error {
	return fmt.Errorf("%w: %s", incapacity.ErrRender, msg)
}

// =============================================================================
// ROW CONSTRUCTION
// =============================================================================

// NewDetailRow derives a report row from a record. employeeName is resolved
// by the caller; the engine does not own the employee directory.
func NewDetailRow(rec incapacity.Record, employeeName string) DetailRow {
	return DetailRow{
		Employee:    employeeName,
		Reason:      rec.Reason,
		PeriodStart: rec.PeriodStart.Format(DateLayout),
		PeriodEnd:   rec.PeriodEnd.Format(DateLayout),
		Days:        incapacity.ReportDays(rec.PeriodStart, rec.PeriodEnd),
		Status:      string(rec.Status),
		Amount:      rec.RequestedAmount,
		DocumentURL: rec.DocumentURL,
	}
}

// =============================================================================
// AMOUNT FORMATTING
// =============================================================================

// Amounts are displayed with thousands grouping in a fixed locale. This is
// presentation only; the underlying decimal value is untouched.
var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with grouped thousands, without a
// currency symbol.
func FormatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%v", number.Decimal(d.InexactFloat64()))
}

// FormatMoney renders a monetary value prefixed with the currency symbol.
func FormatMoney(d decimal.Decimal) string {
	return "$" + FormatAmount(d)
}
