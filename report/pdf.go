/*
pdf.go - PDF report encoding

LAYOUT (A4 portrait, point units):
  - Centered title, company name and period, separator rule
  - First stat row: four colored boxes (total / approved / rejected /
    pending), 110x80pt with a 15pt gap
  - Second stat row: one wide box for the total approved amount
  - Detail table with column widths Employee 100 / Reason 80 / Start 70 /
    End 70 / Days 40 / Status 70 / Amount 65; reasons are truncated to 15
    characters with an ellipsis
  - Manual pagination: a new page starts once the cursor passes y=700 and
    the column header is re-drawn at the top of every page
  - Footer on every page: generation timestamp and "Page X of N"
*/
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfLeft       = 50.0
	pdfRight      = 545.0
	pdfWidth      = pdfRight - pdfLeft
	pdfPageBottom = 700.0 // past this, start a new page
	pdfFooterY    = 750.0

	statBoxWidth  = 110.0
	statBoxHeight = 80.0
	statBoxGap    = 15.0

	tableRowHeight = 30.0
	reasonMaxChars = 15
)

var pdfColWidths = [7]float64{100, 80, 70, 70, 40, 70, 65}

var pdfHeaders = [7]string{"Employee", "Reason", "Start", "End", "Days", "Status", "Amount"}

// RenderPDF produces the paginated PDF encoding of the report.
func RenderPDF(data Data) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AliasNbPages("")

	generated := data.GeneratedAt.Format("02/01/2006 15:04")
	doc.SetFooterFunc(func() {
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(153, 153, 153)
		doc.SetXY(pdfLeft, pdfFooterY)
		doc.CellFormat(pdfWidth, 10,
			fmt.Sprintf("Generated on %s | Page %d of {nb}", generated, doc.PageNo()),
			"", 0, "C", false, 0, "")
	})

	doc.AddPage()

	// Header
	doc.SetFont("Helvetica", "B", 24)
	doc.SetTextColor(102, 126, 234)
	doc.SetXY(pdfLeft, 50)
	doc.CellFormat(pdfWidth, 28, "Incapacity Report", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 18)
	doc.SetTextColor(51, 51, 51)
	doc.SetX(pdfLeft)
	doc.CellFormat(pdfWidth, 22, data.Company.Name, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(102, 102, 102)
	doc.SetX(pdfLeft)
	doc.CellFormat(pdfWidth, 16,
		fmt.Sprintf("Period: %s to %s", data.Period.Start, data.Period.End),
		"", 1, "C", false, 0, "")

	y := doc.GetY() + 10
	doc.SetDrawColor(102, 126, 234)
	doc.SetLineWidth(2)
	doc.Line(pdfLeft, y, pdfRight, y)
	y += 20

	// Statistics
	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(102, 126, 234)
	doc.SetXY(pdfLeft, y)
	doc.CellFormat(pdfWidth, 20, "Statistics Summary", "", 1, "L", false, 0, "")
	y = doc.GetY() + 10

	drawStatBox(doc, pdfLeft, y, statBoxWidth, "Total", fmt.Sprintf("%d", data.Stats.Total), 102, 126, 234)
	drawStatBox(doc, pdfLeft+(statBoxWidth+statBoxGap), y, statBoxWidth, "Approved", fmt.Sprintf("%d", data.Stats.Approved), 76, 175, 80)
	drawStatBox(doc, pdfLeft+(statBoxWidth+statBoxGap)*2, y, statBoxWidth, "Rejected", fmt.Sprintf("%d", data.Stats.Rejected), 244, 67, 54)
	drawStatBox(doc, pdfLeft+(statBoxWidth+statBoxGap)*3, y, statBoxWidth, "Pending", fmt.Sprintf("%d", data.Stats.Pending), 255, 193, 7)

	y += statBoxHeight + statBoxGap
	drawStatBox(doc, pdfLeft, y, statBoxWidth*2+statBoxGap, "Total Approved Amount", FormatMoney(data.Stats.TotalApprovedAmount), 76, 175, 80)
	y += statBoxHeight + 30

	// Detail table
	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(102, 126, 234)
	doc.SetXY(pdfLeft, y)
	doc.CellFormat(pdfWidth, 20, "Incapacity Detail", "", 1, "L", false, 0, "")
	y = doc.GetY() + 8

	if len(data.Rows) == 0 {
		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(153, 153, 153)
		doc.SetXY(pdfLeft, y)
		doc.CellFormat(pdfWidth, 16, "No incapacities were found in the selected period.", "", 1, "C", false, 0, "")
	} else {
		y = drawTableHeader(doc, y)

		for _, row := range data.Rows {
			if y > pdfPageBottom {
				doc.AddPage()
				y = drawTableHeader(doc, 50)
			}

			doc.SetFont("Helvetica", "", 8)
			doc.SetTextColor(51, 51, 51)
			doc.SetXY(pdfLeft, y)

			values := [7]string{
				row.Employee,
				truncate(row.Reason, reasonMaxChars),
				row.PeriodStart,
				row.PeriodEnd,
				fmt.Sprintf("%d", row.Days),
				row.Status,
				FormatMoney(row.Amount),
			}
			for i, v := range values {
				align := "L"
				if i == 4 || i == 6 {
					align = "C"
				}
				doc.CellFormat(pdfColWidths[i], 12, v, "", 0, align, false, 0, "")
			}

			doc.SetDrawColor(221, 221, 221)
			doc.SetLineWidth(0.5)
			doc.Line(pdfLeft, y+tableRowHeight-5, pdfRight, y+tableRowHeight-5)

			y += tableRowHeight
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, renderErr(fmt.Sprintf("write pdf: %v", err))
	}
	return buf.Bytes(), nil
}

// drawTableHeader draws the bold column header row with its underline and
// returns the y position of the first data row.
func drawTableHeader(doc *fpdf.Fpdf, y float64) float64 {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(102, 126, 234)
	doc.SetXY(pdfLeft, y)
	for i, h := range pdfHeaders {
		doc.CellFormat(pdfColWidths[i], 12, h, "", 0, "L", false, 0, "")
	}

	doc.SetDrawColor(102, 126, 234)
	doc.SetLineWidth(1)
	doc.Line(pdfLeft, y+15, pdfRight, y+15)

	return y + 25
}

// drawStatBox draws a filled rectangle with a small label and a large
// centered value, both in white.
func drawStatBox(doc *fpdf.Fpdf, x, y, w float64, label, value string, r, g, b int) {
	doc.SetFillColor(r, g, b)
	doc.SetDrawColor(221, 221, 221)
	doc.Rect(x, y, w, statBoxHeight, "FD")

	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "", 10)
	doc.SetXY(x+5, y+10)
	doc.CellFormat(w-10, 12, label, "", 0, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 18)
	doc.SetXY(x+5, y+35)
	doc.CellFormat(w-10, 22, value, "", 0, "C", false, 0, "")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
