/*
Package stats rolls collections of incapacity records up into the
statistical summaries that feed company reports.

PURPOSE:
  Given a set of records (already scoped to a company or employee by the
  caller) and an optional date range, compute:
  - counts partitioned by status bucket
  - the monetary total of approved requests
  - chronological per-month count and approved-amount series

BUCKETS:
  The three named buckets are a fixed classification:
    approved: APPROVED
    rejected: REJECTED
    pending:  REGISTERED, PENDING_REVIEW, IN_REVIEW
  Every other status (VALIDATING, CORRECTION, AWAITING_PAYMENT, PAID,
  CLOSED) counts toward the total but toward none of the named buckets.
  Downstream report totals depend on this exact three-bucket shape, so do
  not complete the partition.

EDGE CASES:
  An empty input set yields total=0, zero sums, and empty series. Renderers
  show an explicit "no data" state for that case.
*/
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigi/incapacity-engine/incapacity"
)

// ChartMonths caps time-series chart series to the most recent entries.
const ChartMonths = 6

// =============================================================================
// TYPES
// =============================================================================

// DateRange bounds a report period. Both ends are inclusive and are applied
// against a record's period start.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// MonthBucket is one entry of a per-month series. Label is "MM/YYYY".
type MonthBucket struct {
	Label  string
	Count  int
	Amount decimal.Decimal
}

// Statistics is the aggregated summary of a record set.
type Statistics struct {
	Total    int
	Approved int
	Rejected int
	Pending  int

	// TotalApprovedAmount sums requested amounts over APPROVED records only.
	TotalApprovedAmount decimal.Decimal

	// PerMonth counts records by month of period start, chronological.
	PerMonth []MonthBucket

	// PerMonthApprovedAmount sums approved amounts by month, chronological.
	PerMonthApprovedAmount []MonthBucket
}

// Empty reports whether the statistics describe an empty record set.
func (s Statistics) Empty() bool { return s.Total == 0 }

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate computes statistics over records, optionally restricted to a
// date range. Records whose period start falls outside the range are
// excluded entirely.
func Aggregate(records []incapacity.Record, rng *DateRange) Statistics {
	s := Statistics{TotalApprovedAmount: decimal.Zero}

	counts := make(map[monthKey]int)
	amounts := make(map[monthKey]decimal.Decimal)

	for _, rec := range records {
		if rng != nil && !rng.Contains(rec.PeriodStart) {
			continue
		}

		s.Total++
		key := keyFor(rec.PeriodStart)
		counts[key]++

		switch rec.Status {
		case incapacity.StatusApproved:
			s.Approved++
			s.TotalApprovedAmount = s.TotalApprovedAmount.Add(rec.RequestedAmount)
			if cur, ok := amounts[key]; ok {
				amounts[key] = cur.Add(rec.RequestedAmount)
			} else {
				amounts[key] = rec.RequestedAmount
			}
		case incapacity.StatusRejected:
			s.Rejected++
		case incapacity.StatusRegistered, incapacity.StatusPendingReview, incapacity.StatusInReview:
			s.Pending++
		}
		// VALIDATING, CORRECTION, AWAITING_PAYMENT, PAID and CLOSED are
		// counted in Total only.
	}

	s.PerMonth = countSeries(counts)
	s.PerMonthApprovedAmount = amountSeries(amounts)
	return s
}

// LastN returns the trailing n entries of a series, used to cap chart
// series to the most recent months.
func LastN(series []MonthBucket, n int) []MonthBucket {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// =============================================================================
// MONTH SERIES
// =============================================================================

type monthKey struct {
	Year  int
	Month time.Month
}

func keyFor(t time.Time) monthKey {
	return monthKey{Year: t.Year(), Month: t.Month()}
}

func (k monthKey) label() string {
	return fmt.Sprintf("%02d/%04d", int(k.Month), k.Year)
}

func sortedKeys[V any](m map[monthKey]V) []monthKey {
	keys := make([]monthKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})
	return keys
}

func countSeries(counts map[monthKey]int) []MonthBucket {
	series := make([]MonthBucket, 0, len(counts))
	for _, k := range sortedKeys(counts) {
		series = append(series, MonthBucket{Label: k.label(), Count: counts[k], Amount: decimal.Zero})
	}
	return series
}

func amountSeries(amounts map[monthKey]decimal.Decimal) []MonthBucket {
	series := make([]MonthBucket, 0, len(amounts))
	for _, k := range sortedKeys(amounts) {
		series = append(series, MonthBucket{Label: k.label(), Amount: amounts[k]})
	}
	return series
}
