/*
csv.go - CSV report encoding

LAYOUT:
  1. Header block: report title, company, period
  2. Statistics block: the five summary figures
  3. Detail block: Employee,Reason,Start,End,Days,Status,Amount,DocumentURL

ESCAPING:
  Text fields containing a comma, double quote, or newline are wrapped in
  double quotes with internal quotes doubled. This is required for
  round-trip correctness under standard CSV parsing.
*/
package report

import (
	"fmt"
	"strings"
)

// RenderCSV produces the CSV encoding of the report.
func RenderCSV(data Data) (string, error) {
	if err := data.validate(); err != nil {
		return "", err
	}

	var lines []string

	// Header block
	lines = append(lines, "Incapacity Report")
	lines = append(lines, "Company,"+escapeCSV(data.Company.Name))
	lines = append(lines, fmt.Sprintf("Period,%s to %s", data.Period.Start, data.Period.End))
	lines = append(lines, "")

	// Statistics block
	lines = append(lines, "STATISTICS SUMMARY")
	lines = append(lines, fmt.Sprintf("Total Incapacities,%d", data.Stats.Total))
	lines = append(lines, fmt.Sprintf("Approved,%d", data.Stats.Approved))
	lines = append(lines, fmt.Sprintf("Rejected,%d", data.Stats.Rejected))
	lines = append(lines, fmt.Sprintf("Pending,%d", data.Stats.Pending))
	lines = append(lines, "Total Approved Amount,"+escapeCSV(FormatMoney(data.Stats.TotalApprovedAmount)))
	lines = append(lines, "")

	// Detail block
	lines = append(lines, "INCAPACITY DETAIL")
	lines = append(lines, "Employee,Reason,Start,End,Days,Status,Amount,DocumentURL")

	if len(data.Rows) == 0 {
		lines = append(lines, "No incapacities in the selected period")
	} else {
		for _, row := range data.Rows {
			doc := row.DocumentURL
			if doc == "" {
				doc = "No document"
			}
			lines = append(lines, strings.Join([]string{
				escapeCSV(row.Employee),
				escapeCSV(row.Reason),
				row.PeriodStart,
				row.PeriodEnd,
				fmt.Sprintf("%d", row.Days),
				row.Status,
				escapeCSV(FormatMoney(row.Amount)),
				escapeCSV(doc),
			}, ","))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// escapeCSV quotes values containing a comma, quote, or newline, doubling
// internal quotes.
func escapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
