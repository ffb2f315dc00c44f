/*
render_test.go - HTML, PDF, and XLSX encoding tests
*/
package report_test

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sigi/incapacity-engine/chart"
	"github.com/sigi/incapacity-engine/report"
)

func sampleCharts() chart.ReportCharts {
	return chart.ReportCharts{
		StatusPieURL:      "https://quickchart.io/chart?c=pie",
		MonthlyCountsURL:  "https://quickchart.io/chart?c=bar",
		MonthlyAmountsURL: "https://quickchart.io/chart?c=line",
	}
}

// =============================================================================
// HTML
// =============================================================================

func TestRenderHTML_WithRows(t *testing.T) {
	row := sampleRow()
	row.DocumentURL = "https://docs.test/incapacity-1.pdf"

	out, err := report.RenderHTML(sampleData([]report.DetailRow{row}), sampleCharts())
	require.NoError(t, err)

	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "01/01/2025")
	assert.Contains(t, out, "Jane Roe")
	assert.Contains(t, out, "APPROVED")
	assert.Contains(t, out, "$150,000")
	assert.Contains(t, out, "https://quickchart.io/chart?c=pie")
	assert.Contains(t, out, "https://docs.test/incapacity-1.pdf")
	assert.Contains(t, out, "SIGI - Incapacity Management System")
}

func TestRenderHTML_EmptyPeriodOmitsCharts(t *testing.T) {
	out, err := report.RenderHTML(sampleData(nil), sampleCharts())
	require.NoError(t, err)

	assert.Contains(t, out, "No incapacities were found in the selected period.")
	assert.NotContains(t, out, "quickchart.io")
}

func TestRenderHTML_EscapesReason(t *testing.T) {
	row := sampleRow()
	row.Reason = `<script>alert("x")</script>`

	out, err := report.RenderHTML(sampleData([]report.DetailRow{row}), sampleCharts())
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;script&gt;")
}

// =============================================================================
// PDF
// =============================================================================

func TestRenderPDF_SinglePage(t *testing.T) {
	out, err := report.RenderPDF(sampleData([]report.DetailRow{sampleRow()}))
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderPDF_PaginatesLongTables(t *testing.T) {
	// GIVEN: Enough rows to overflow the first page
	var rows []report.DetailRow
	for i := 0; i < 40; i++ {
		row := sampleRow()
		row.Employee = fmt.Sprintf("Employee %02d", i)
		rows = append(rows, row)
	}

	long, err := report.RenderPDF(sampleData(rows))
	require.NoError(t, err)
	short, err := report.RenderPDF(sampleData(rows[:1]))
	require.NoError(t, err)

	// THEN: The long report spans more pages than the short one
	pages := pageCount(long)
	assert.Greater(t, pages, pageCount(short))
	assert.Equal(t, 1, pageCount(short))

	// AND: Every page re-draws the column header and numbers its footer
	// against the true total
	text := pdfText(long)
	assert.Equal(t, pages, strings.Count(text, "(Employee)"),
		"column header should appear once per page")
	assert.Contains(t, text, fmt.Sprintf("Page 1 of %d", pages))
	assert.Contains(t, text, fmt.Sprintf("Page %d of %d", pages, pages))
}

func TestRenderPDF_EmptyPeriod(t *testing.T) {
	out, err := report.RenderPDF(sampleData(nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// pageCount counts page objects in the raw PDF stream, excluding the
// page-tree object.
func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

// pdfText inflates every content stream and concatenates the results, so
// tests can assert on the text operators of the rendered pages.
func pdfText(pdf []byte) string {
	var out bytes.Buffer
	marker := []byte(">>\nstream\n")
	rest := pdf
	for {
		i := bytes.Index(rest, marker)
		if i < 0 {
			break
		}
		rest = rest[i+len(marker):]
		end := bytes.Index(rest, []byte("endstream"))
		if end < 0 {
			break
		}
		if zr, err := zlib.NewReader(bytes.NewReader(rest[:end])); err == nil {
			data, _ := io.ReadAll(zr)
			zr.Close()
			out.Write(data)
		}
		rest = rest[end:]
	}
	return out.String()
}

// =============================================================================
// XLSX
// =============================================================================

func TestRenderXLSX_RoundTrip(t *testing.T) {
	out, err := report.RenderXLSX(sampleData([]report.DetailRow{sampleRow()}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Incapacity Report", title)

	company, err := f.GetCellValue("Report", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", company)

	rows, err := f.GetRows("Report")
	require.NoError(t, err)

	var found bool
	for _, row := range rows {
		if len(row) > 0 && row[0] == "Jane Roe" {
			found = true
			assert.Equal(t, "Flu, with fever", row[1])
		}
	}
	assert.True(t, found, "detail row not present in workbook")
}
