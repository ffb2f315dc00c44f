package chart

import (
	"github.com/sigi/incapacity-engine/stats"
)

// Report chart palette. The pie slice colors double as the status colors
// used by the HTML and PDF renderers.
const (
	ColorPrimary  = "#667eea"
	ColorApproved = "#4CAF50"
	ColorRejected = "#f44336"
	ColorPending  = "#FFC107"
)

func boolPtr(b bool) *bool { return &b }

// StatusPie builds the pie chart of the approved/rejected/pending split.
func StatusPie(s stats.Statistics) Spec {
	return Spec{
		Type: "pie",
		Data: Data{
			Labels: []string{"Approved", "Rejected", "Pending"},
			Datasets: []Dataset{{
				Data:            []float64{float64(s.Approved), float64(s.Rejected), float64(s.Pending)},
				BackgroundColor: []string{ColorApproved, ColorRejected, ColorPending},
			}},
		},
		Options: &Options{
			Plugins: &Plugins{
				Legend: &Legend{
					Position: "bottom",
					Labels:   &LegendLabels{Font: &Font{Size: 14}},
				},
				Title: &Title{
					Display: true,
					Text:    "Status Distribution",
					Font:    &Font{Size: 18, Weight: "bold"},
				},
			},
		},
	}
}

// MonthlyCounts builds the bar chart of incapacity counts per month,
// capped to the most recent months.
func MonthlyCounts(series []stats.MonthBucket) Spec {
	series = stats.LastN(series, stats.ChartMonths)

	labels := make([]string, len(series))
	values := make([]float64, len(series))
	for i, b := range series {
		labels[i] = b.Label
		values[i] = float64(b.Count)
	}

	return Spec{
		Type: "bar",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Incapacities",
				Data:            values,
				BackgroundColor: ColorPrimary,
			}},
		},
		Options: &Options{
			Plugins: &Plugins{
				Legend: &Legend{Display: boolPtr(false)},
				Title: &Title{
					Display: true,
					Text:    "Incapacities per Month",
					Font:    &Font{Size: 18, Weight: "bold"},
				},
			},
			Scales: &Scales{Y: &Axis{BeginAtZero: true, Ticks: &Ticks{StepSize: 1}}},
		},
	}
}

// MonthlyApprovedAmounts builds the line chart of approved amounts per
// month, capped to the most recent months.
func MonthlyApprovedAmounts(series []stats.MonthBucket) Spec {
	series = stats.LastN(series, stats.ChartMonths)

	labels := make([]string, len(series))
	values := make([]float64, len(series))
	for i, b := range series {
		labels[i] = b.Label
		values[i] = b.Amount.InexactFloat64()
	}

	return Spec{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Approved Amount",
				Data:            values,
				BorderColor:     ColorApproved,
				BackgroundColor: "rgba(76, 175, 80, 0.1)",
				Fill:            true,
				Tension:         0.4,
			}},
		},
		Options: &Options{
			Plugins: &Plugins{
				Legend: &Legend{Display: boolPtr(false)},
				Title: &Title{
					Display: true,
					Text:    "Approved Amounts per Month",
					Font:    &Font{Size: 18, Weight: "bold"},
				},
			},
			Scales: &Scales{Y: &Axis{BeginAtZero: true}},
		},
	}
}
