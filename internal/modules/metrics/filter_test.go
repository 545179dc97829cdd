package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func deal(closeDay int, market string, pl, balance float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		TransactionType: ledger.TxTypeDeal,
		CloseTime:       time.Date(2025, time.March, closeDay, 14, 30, 0, 0, time.UTC),
		Market:          market,
		PLAmount:        pl,
		Balance:         balance,
	}
}

func cashRow(closeDay int, summary string, amount float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		TransactionType: "CASH",
		CloseTime:       time.Date(2025, time.March, closeDay, 9, 0, 0, 0, time.UTC),
		PLAmount:        amount,
		Summary:         summary,
	}
}

func TestFilterDateWindowIsInclusive(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(5, "Gold", 20, 1020),
		deal(9, "Gold", 30, 1050),
	}

	got := Filter(records, day(1), day(5), AllMarkets)
	require.Len(t, got, 2, "boundary days must be included")
	assert.Equal(t, 10.0, got[0].PLAmount)
	assert.Equal(t, 20.0, got[1].PLAmount)
}

func TestFilterComparesDatesNotTimestamps(t *testing.T) {
	// Trade closes at 14:30 on the end date; a timestamp comparison against
	// midnight would drop it.
	records := []ledger.TradeRecord{deal(5, "Gold", 20, 1020)}

	got := Filter(records, day(5), day(5), AllMarkets)
	assert.Len(t, got, 1)
}

func TestFilterCoercesInvertedRange(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(3, "Gold", 10, 1000),
		deal(7, "Gold", 20, 1010),
	}

	// end < start collapses to the single day [start, start].
	got := Filter(records, day(3), day(1), AllMarkets)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].PLAmount)
}

func TestFilterZeroRangePassesEverything(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(28, "Oil", -5, 995),
	}

	got := Filter(records, time.Time{}, time.Time{}, AllMarkets)
	assert.Len(t, got, 2)
}

func TestFilterMarketExactMatch(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(2, "Gold Mini", 5, 1005),
		deal(3, "Oil", -5, 1000),
	}

	got := Filter(records, time.Time{}, time.Time{}, "Gold")
	require.Len(t, got, 1, "market match is exact, not a prefix match")
	assert.Equal(t, "Gold", got[0].Market)
}

func TestFilterNoMatchingMarket(t *testing.T) {
	records := []ledger.TradeRecord{deal(1, "Gold", 10, 1000)}

	got := Filter(records, time.Time{}, time.Time{}, "Silver")
	assert.Empty(t, got)
}

func TestFilterIsIdempotent(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(5, "Oil", 20, 1020),
		deal(9, "Gold", 30, 1050),
	}

	once := Filter(records, day(1), day(5), "Gold")
	twice := Filter(once, day(1), day(5), "Gold")
	assert.Equal(t, once, twice)
}

func TestBuildReturnsFixedBaseline(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 100, 1000),
		deal(2, "Gold", -50, 950),
		deal(3, "Gold", 75, 1025),
	}

	series := BuildReturns(records)
	require.Len(t, series, 3)

	// Every day divides by the first deal's balance, never the prior day's.
	assert.InDelta(t, 0.100, series[0].Return, 1e-12)
	assert.InDelta(t, -0.050, series[1].Return, 1e-12)
	assert.InDelta(t, 0.075, series[2].Return, 1e-12)
}

func TestBuildReturnsGroupsByDay(t *testing.T) {
	records := []ledger.TradeRecord{
		deal(1, "Gold", 100, 1000),
		deal(1, "Oil", -40, 1060),
		deal(2, "Gold", 50, 1110),
	}

	series := BuildReturns(records)
	require.Len(t, series, 2)
	assert.InDelta(t, 0.060, series[0].Return, 1e-12)
	assert.InDelta(t, 0.050, series[1].Return, 1e-12)
}

func TestBuildReturnsEmptyCases(t *testing.T) {
	assert.Empty(t, BuildReturns(nil))

	// Cash-only ledger: no deals, no returns.
	assert.Empty(t, BuildReturns([]ledger.TradeRecord{
		cashRow(1, ledger.SummaryCashIn, 500),
	}))

	// Zero baseline balance cannot produce a meaningful series.
	assert.Empty(t, BuildReturns([]ledger.TradeRecord{
		deal(1, "Gold", 100, 0),
	}))
}
