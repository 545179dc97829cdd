package metrics

import (
	"sort"
	"time"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

// ReturnPoint is one day's fractional return.
type ReturnPoint struct {
	Date   time.Time
	Return float64
}

// ReturnSeries is the ordered sequence of per-day fractional returns derived
// from the filtered set. It feeds every risk/ratio metric.
type ReturnSeries []ReturnPoint

// Values returns the return values in date order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Return
	}
	return out
}

// BuildReturns derives the daily return series from the filtered set.
//
// Deal rows are grouped by close date and each day's P&L sum is divided by
// the balance of the first deal row in the filtered set. Dividing the whole
// series by that single fixed baseline, rather than compounding day over day,
// is a deliberate property of the system that every downstream ratio depends
// on; do not change it to a compounding return.
//
// Returns an empty series when the filtered set is empty, contains no deal
// rows, or the baseline balance is zero.
func BuildReturns(filtered []ledger.TradeRecord) ReturnSeries {
	var baseline float64
	daily := make(map[time.Time]float64)
	first := true

	for _, rec := range filtered {
		if !rec.IsDeal() {
			continue
		}
		if first {
			baseline = rec.Balance
			first = false
		}
		daily[rec.CloseDate()] += rec.PLAmount
	}

	if first || baseline == 0 {
		return ReturnSeries{}
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make(ReturnSeries, 0, len(dates))
	for _, d := range dates {
		series = append(series, ReturnPoint{Date: d, Return: daily[d] / baseline})
	}
	return series
}
