/*
csv_test.go - CSV encoding tests

Tests for:
- Block layout (header, statistics, detail)
- Quote-doubling escape round-trip under a standard CSV reader
- Empty-period message
*/
package report_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigi/incapacity-engine/report"
	"github.com/sigi/incapacity-engine/stats"
)

func sampleData(rows []report.DetailRow) report.Data {
	return report.Data{
		Company: report.Company{Name: "Acme Corp", Email: "hr@acme.test"},
		Period:  report.Period{Start: "01/01/2025", End: "31/01/2025"},
		Stats: stats.Statistics{
			Total:               len(rows),
			Approved:            1,
			TotalApprovedAmount: decimal.NewFromInt(150000),
		},
		Rows:        rows,
		GeneratedAt: time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
	}
}

func sampleRow() report.DetailRow {
	return report.DetailRow{
		Employee:    "Jane Roe",
		Reason:      "Flu, with fever",
		PeriodStart: "15/01/2025",
		PeriodEnd:   "20/01/2025",
		Days:        6,
		Status:      "APPROVED",
		Amount:      decimal.NewFromInt(150000),
	}
}

func TestRenderCSV_Layout(t *testing.T) {
	out, err := report.RenderCSV(sampleData([]report.DetailRow{sampleRow()}))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Incapacity Report", lines[0])
	assert.Equal(t, "Company,Acme Corp", lines[1])
	assert.Equal(t, "Period,01/01/2025 to 31/01/2025", lines[2])
	assert.Contains(t, out, "STATISTICS SUMMARY")
	assert.Contains(t, out, "Total Incapacities,1")
	assert.Contains(t, out, "INCAPACITY DETAIL")
	assert.Contains(t, out, "Employee,Reason,Start,End,Days,Status,Amount,DocumentURL")
	assert.Contains(t, out, "No document")
}

func TestRenderCSV_EscapingRoundTrip(t *testing.T) {
	// GIVEN: A reason containing a comma and a quote
	row := sampleRow()
	row.Reason = `Flu, with "high" fever`

	out, err := report.RenderCSV(sampleData([]report.DetailRow{row}))
	require.NoError(t, err)

	// WHEN: The detail line is parsed by a standard CSV reader
	var detailLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Jane Roe,") {
			detailLine = line
			break
		}
	}
	require.NotEmpty(t, detailLine, "detail line not found in output")

	fields, err := csv.NewReader(strings.NewReader(detailLine)).Read()
	require.NoError(t, err)

	// THEN: The escaped field round-trips exactly
	require.Len(t, fields, 8)
	assert.Equal(t, `Flu, with "high" fever`, fields[1])
	assert.Equal(t, "6", fields[4])
	assert.Equal(t, "$150,000", fields[6])
}

func TestRenderCSV_EmptyPeriod(t *testing.T) {
	out, err := report.RenderCSV(sampleData(nil))
	require.NoError(t, err)
	assert.Contains(t, out, "No incapacities in the selected period")
}

func TestRenderCSV_RejectsEmptyCompany(t *testing.T) {
	data := sampleData(nil)
	data.Company.Name = ""

	_, err := report.RenderCSV(data)
	assert.Error(t, err)
}
