/*
html.go - HTML report encoding (email body)

LAYOUT:
  Self-contained document: gradient header with company name, period
  banner, five statistic cards, three chart images (pie / bar / line, URLs
  produced by the chart package), and the detail table with a document link
  per row. An empty detail set renders an explicit message instead of an
  empty table, and the charts section is omitted entirely.
*/
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sigi/incapacity-engine/chart"
)

// RenderHTML produces the HTML encoding of the report with the given chart
// image URLs embedded.
func RenderHTML(data Data, charts chart.ReportCharts) (string, error) {
	if err := data.validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, htmlData{Data: data, Charts: charts}); err != nil {
		return "", renderErr(fmt.Sprintf("execute html template: %v", err))
	}
	return buf.String(), nil
}

type htmlData struct {
	Data   Data
	Charts chart.ReportCharts
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":       FormatMoney,
	"statusStyle": statusBadgeStyle,
}).Parse(htmlSource))

// statusBadgeStyle colors the status badge like the chart palette: green
// for approved, red for rejected, amber otherwise.
func statusBadgeStyle(status string) template.CSS {
	switch status {
	case "APPROVED":
		return "background-color: #4CAF50; color: white;"
	case "REJECTED":
		return "background-color: #f44336; color: white;"
	default:
		return "background-color: #FFC107; color: black;"
	}
}

const htmlSource = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 900px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { padding: 30px; background-color: #f9f9f9; }
  .period { background: #e3f2fd; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: center; }
  .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin: 20px 0; }
  .stat-card { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); text-align: center; }
  .stat-number { font-size: 32px; font-weight: bold; color: #667eea; margin: 10px 0; }
  .stat-label { color: #666; font-size: 14px; text-transform: uppercase; }
  .chart-container { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin: 20px 0; text-align: center; }
  .chart-container img { max-width: 100%; height: auto; border-radius: 8px; }
  .charts-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 20px; margin: 20px 0; }
  .table-container { overflow-x: auto; margin: 20px 0; }
  table { width: 100%; border-collapse: collapse; background: white; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
  th { background-color: #667eea; color: white; padding: 12px; text-align: left; font-weight: bold; }
  td { padding: 10px; border-bottom: 1px solid #ddd; }
  .badge { padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; }
  .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; background: #e9ecef; border-radius: 0 0 10px 10px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Incapacity Report</h1>
    <h2>{{.Data.Company.Name}}</h2>
  </div>
  <div class="content">
    <div class="period">
      <strong>Report period:</strong> {{.Data.Period.Start}} to {{.Data.Period.End}}
    </div>

    <h3 style="color: #667eea;">Statistics Summary</h3>
    <div class="stats-grid">
      <div class="stat-card">
        <div class="stat-label">Total Incapacities</div>
        <div class="stat-number">{{.Data.Stats.Total}}</div>
      </div>
      <div class="stat-card">
        <div class="stat-label">Approved</div>
        <div class="stat-number" style="color: #4CAF50;">{{.Data.Stats.Approved}}</div>
      </div>
      <div class="stat-card">
        <div class="stat-label">Rejected</div>
        <div class="stat-number" style="color: #f44336;">{{.Data.Stats.Rejected}}</div>
      </div>
      <div class="stat-card">
        <div class="stat-label">Pending</div>
        <div class="stat-number" style="color: #FFC107;">{{.Data.Stats.Pending}}</div>
      </div>
      <div class="stat-card">
        <div class="stat-label">Total Approved Amount</div>
        <div class="stat-number" style="font-size: 24px;">{{money .Data.Stats.TotalApprovedAmount}}</div>
      </div>
    </div>

    {{if .Data.Rows}}
    <h3 style="color: #667eea;">Charts</h3>
    <div class="chart-container">
      <img src="{{.Charts.StatusPieURL}}" alt="Status Distribution" />
    </div>
    <div class="charts-grid">
      <div class="chart-container">
        <img src="{{.Charts.MonthlyCountsURL}}" alt="Incapacities per Month" />
      </div>
      <div class="chart-container">
        <img src="{{.Charts.MonthlyAmountsURL}}" alt="Approved Amounts per Month" />
      </div>
    </div>
    {{end}}

    <h3 style="color: #667eea;">Incapacity Detail</h3>
    {{if .Data.Rows}}
    <div class="table-container">
      <table>
        <thead>
          <tr>
            <th>Employee</th>
            <th>Reason</th>
            <th>Start</th>
            <th>End</th>
            <th style="text-align: center;">Days</th>
            <th>Status</th>
            <th style="text-align: right;">Amount</th>
            <th style="text-align: center;">Document</th>
          </tr>
        </thead>
        <tbody>
          {{range .Data.Rows}}
          <tr>
            <td>{{.Employee}}</td>
            <td>{{.Reason}}</td>
            <td>{{.PeriodStart}}</td>
            <td>{{.PeriodEnd}}</td>
            <td style="text-align: center;">{{.Days}}</td>
            <td><span class="badge" style="{{statusStyle .Status}}">{{.Status}}</span></td>
            <td style="text-align: right;">{{money .Amount}}</td>
            <td style="text-align: center;">
              {{if .DocumentURL}}<a href="{{.DocumentURL}}" target="_blank" style="color: #667eea; font-weight: bold;">View</a>{{else}}<span style="color: #999;">No document</span>{{end}}
            </td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>
    {{else}}
    <p style="text-align: center; padding: 30px; color: #666;">No incapacities were found in the selected period.</p>
    {{end}}
  </div>
  <div class="footer">
    <p><strong>SIGI - Incapacity Management System</strong></p>
    <p>Automatic report generated on {{.Data.GeneratedAt.Format "02/01/2006 15:04"}}</p>
    <p>Please do not reply to this message.</p>
  </div>
</div>
</body>
</html>`
