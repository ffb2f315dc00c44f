/*
aggregate_test.go - Statistics aggregation tests

Tests for:
- Status bucket classification (and the statuses outside every bucket)
- Approved-amount totals
- Per-month series ordering and labels
- Date-range filtering
*/
package stats_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigi/incapacity-engine/incapacity"
	"github.com/sigi/incapacity-engine/stats"
)

func record(status incapacity.Status, start time.Time, amount int64) incapacity.Record {
	return incapacity.Record{
		ID:              incapacity.ID(string(status) + start.Format("2006-01-02")),
		SubjectID:       "emp-1",
		PeriodStart:     start,
		PeriodEnd:       start.AddDate(0, 0, 3),
		Status:          status,
		RequestedAmount: decimal.NewFromInt(amount),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_SingleApprovedRecord(t *testing.T) {
	records := []incapacity.Record{
		record(incapacity.StatusApproved, day(2025, 1, 15), 150000),
	}

	s := stats.Aggregate(records, nil)

	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Approved)
	assert.Equal(t, 0, s.Rejected)
	assert.Equal(t, 0, s.Pending)
	assert.True(t, s.TotalApprovedAmount.Equal(decimal.NewFromInt(150000)))

	require.Len(t, s.PerMonth, 1)
	assert.Equal(t, "01/2025", s.PerMonth[0].Label)
	assert.Equal(t, 1, s.PerMonth[0].Count)

	require.Len(t, s.PerMonthApprovedAmount, 1)
	assert.Equal(t, "01/2025", s.PerMonthApprovedAmount[0].Label)
	assert.True(t, s.PerMonthApprovedAmount[0].Amount.Equal(decimal.NewFromInt(150000)))
}

func TestAggregate_BucketClassification(t *testing.T) {
	// One record per status. Approved/rejected map to their own buckets,
	// pending covers the three review-queue statuses, and the remaining
	// five statuses count toward the total only.
	var records []incapacity.Record
	for _, status := range incapacity.AllStatuses {
		records = append(records, record(status, day(2025, 2, 1), 100))
	}

	s := stats.Aggregate(records, nil)

	assert.Equal(t, len(incapacity.AllStatuses), s.Total)
	assert.Equal(t, 1, s.Approved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 3, s.Pending)
	assert.Equal(t, 5, s.Total-s.Approved-s.Rejected-s.Pending)
	assert.True(t, s.TotalApprovedAmount.Equal(decimal.NewFromInt(100)))
}

func TestAggregate_EmptySet(t *testing.T) {
	s := stats.Aggregate(nil, nil)

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Total)
	assert.True(t, s.TotalApprovedAmount.IsZero())
	assert.Empty(t, s.PerMonth)
	assert.Empty(t, s.PerMonthApprovedAmount)
}

func TestAggregate_RangeIsInclusive(t *testing.T) {
	records := []incapacity.Record{
		record(incapacity.StatusApproved, day(2025, 1, 1), 100),  // on From
		record(incapacity.StatusApproved, day(2025, 1, 31), 100), // on To
		record(incapacity.StatusApproved, day(2025, 2, 1), 100),  // past To
		record(incapacity.StatusApproved, day(2024, 12, 31), 100),
	}

	rng := &stats.DateRange{From: day(2025, 1, 1), To: day(2025, 1, 31)}
	s := stats.Aggregate(records, rng)

	assert.Equal(t, 2, s.Total)
	assert.True(t, s.TotalApprovedAmount.Equal(decimal.NewFromInt(200)))
}

func TestAggregate_MonthSeriesSortedAcrossYears(t *testing.T) {
	records := []incapacity.Record{
		record(incapacity.StatusRegistered, day(2025, 1, 10), 0),
		record(incapacity.StatusRegistered, day(2024, 12, 10), 0),
		record(incapacity.StatusRegistered, day(2025, 2, 10), 0),
		record(incapacity.StatusRejected, day(2024, 12, 20), 0),
	}

	s := stats.Aggregate(records, nil)

	require.Len(t, s.PerMonth, 3)
	assert.Equal(t, "12/2024", s.PerMonth[0].Label)
	assert.Equal(t, "01/2025", s.PerMonth[1].Label)
	assert.Equal(t, "02/2025", s.PerMonth[2].Label)
	assert.Equal(t, 2, s.PerMonth[0].Count)
}

func TestAggregate_AmountSeriesOnlyHasApprovedMonths(t *testing.T) {
	records := []incapacity.Record{
		record(incapacity.StatusApproved, day(2025, 1, 10), 500),
		record(incapacity.StatusApproved, day(2025, 1, 20), 250),
		record(incapacity.StatusRejected, day(2025, 2, 10), 9999),
	}

	s := stats.Aggregate(records, nil)

	require.Len(t, s.PerMonthApprovedAmount, 1)
	assert.Equal(t, "01/2025", s.PerMonthApprovedAmount[0].Label)
	assert.True(t, s.PerMonthApprovedAmount[0].Amount.Equal(decimal.NewFromInt(750)))
}

func TestLastN(t *testing.T) {
	var series []stats.MonthBucket
	for m := time.January; m <= time.August; m++ {
		series = append(series, stats.MonthBucket{Label: day(2025, m, 1).Format("01/2006")})
	}

	capped := stats.LastN(series, stats.ChartMonths)
	require.Len(t, capped, 6)
	assert.Equal(t, "03/2025", capped[0].Label)
	assert.Equal(t, "08/2025", capped[5].Label)

	short := stats.LastN(series[:2], stats.ChartMonths)
	assert.Len(t, short, 2)
}
