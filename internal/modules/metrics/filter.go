package metrics

import (
	"time"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

// AllMarkets is the market-filter sentinel that disables market matching.
const AllMarkets = ""

// Filter narrows the ledger to rows whose close date falls inside
// [start, end] and, when market is not the all-markets sentinel, whose market
// name matches exactly. Comparisons are on calendar dates, not timestamps, so
// every trade of a boundary day is included.
//
// An inverted range is a caller error; the documented recovery is to raise
// end up to start rather than reject. Zero start and end disable the date
// restriction entirely (used before any range has been established).
func Filter(records []ledger.TradeRecord, start, end time.Time, market string) []ledger.TradeRecord {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		end = start
	}

	startDate := ledger.DateOf(start)
	endDate := ledger.DateOf(end)

	out := make([]ledger.TradeRecord, 0, len(records))
	for _, rec := range records {
		if !start.IsZero() {
			d := rec.CloseDate()
			if d.Before(startDate) || d.After(endDate) {
				continue
			}
		}
		if market != AllMarkets && rec.Market != market {
			continue
		}
		out = append(out, rec)
	}
	return out
}
