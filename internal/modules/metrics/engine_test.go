package metrics

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(0.02, zerolog.Nop())
}

func TestEngineStartsEmpty(t *testing.T) {
	e := testEngine(t)

	snap := e.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.Empty())
	assert.Empty(t, snap.Values)
}

func TestEngineLoadResetsRangeToDealExtent(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		cashRow(1, ledger.SummaryCashIn, 1000),
		deal(3, "Gold", 10, 1010),
		deal(9, "Oil", 20, 1030),
	})

	start, end := e.DateRange()
	// Range spans deal close dates only, not the earlier cash movement.
	assert.Equal(t, day(3), start)
	assert.Equal(t, day(9), end)
	assert.Equal(t, AllMarkets, e.Market())
}

func TestEngineLoadAssignsFreshLedgerID(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{deal(1, "Gold", 10, 1000)})
	first := e.Snapshot().LedgerID

	e.Load([]ledger.TradeRecord{deal(1, "Gold", 10, 1000)})
	assert.NotEqual(t, first, e.Snapshot().LedgerID)
}

func TestEngineSetDateRangeCoercesInversion(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(9, "Gold", 20, 1020),
	})

	e.SetDateRange(day(5), day(2))

	start, end := e.DateRange()
	assert.Equal(t, day(5), start)
	assert.Equal(t, day(5), end, "inverted end must be coerced up to start")
}

func TestEngineSetMarketRecomputes(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(2, "Oil", -5, 995),
	})

	e.SetMarket("Gold")

	v, ok := e.Metric("Total Trades")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	e.SetMarket(AllMarkets)
	v, _ = e.Metric("Total Trades")
	assert.Equal(t, 2.0, v)
}

func TestEngineZeroMatchMarketYieldsEmptySnapshot(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{deal(1, "Gold", 10, 1000)})

	e.SetMarket("Silver")

	snap := e.Snapshot()
	assert.True(t, snap.Empty())
	_, ok := snap.Metric("Total Trades")
	assert.False(t, ok, "empty snapshots carry no metric values")
}

func TestEngineReplaceLedgerPreservesFilters(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(9, "Oil", 20, 1020),
	})
	e.SetDateRange(day(1), day(5))
	e.SetMarket("Gold")

	e.ReplaceLedger([]ledger.TradeRecord{
		deal(2, "Gold", 50, 2000),
		deal(8, "Oil", 30, 2050),
	})

	start, end := e.DateRange()
	assert.Equal(t, day(1), start)
	assert.Equal(t, day(5), end)
	assert.Equal(t, "Gold", e.Market())

	v, ok := e.Metric("Total Trades")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestEngineReadersSeeImmutableSnapshots(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{deal(1, "Gold", 10, 1000)})

	held := e.Snapshot()
	heldTrades, _ := held.Metric("Total Trades")

	e.ReplaceLedger([]ledger.TradeRecord{
		deal(1, "Gold", 10, 1000),
		deal(2, "Gold", 20, 1020),
	})

	// The held snapshot is unchanged by the concurrent mutation.
	v, _ := held.Metric("Total Trades")
	assert.Equal(t, heldTrades, v)

	v, _ = e.Snapshot().Metric("Total Trades")
	assert.Equal(t, 2.0, v)
}

func TestEngineOnRecomputeHook(t *testing.T) {
	e := testEngine(t)

	var published []*Snapshot
	e.OnRecompute(func(s *Snapshot) { published = append(published, s) })

	e.Load([]ledger.TradeRecord{deal(1, "Gold", 10, 1000)})
	e.SetMarket("Gold")

	require.Len(t, published, 2)
	assert.Equal(t, "Gold", published[1].Market)
}

func TestEngineSetRiskFreeRate(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		deal(1, "Gold", 100, 1000),
		deal(2, "Gold", -50, 950),
	})

	before, ok := e.Metric("Sharpe Ratio")
	require.True(t, ok)

	e.SetRiskFreeRate(0.10)

	after, ok := e.Metric("Sharpe Ratio")
	require.True(t, ok)
	assert.Less(t, after, before, "a higher risk-free rate lowers excess return")
}

func TestSnapshotComputesFullCatalogue(t *testing.T) {
	e := testEngine(t)
	e.Load([]ledger.TradeRecord{
		deal(1, "Gold", 100, 1000),
		deal(2, "Gold", -50, 950),
		deal(3, "Oil", 75, 1025),
		cashRow(1, ledger.SummaryCashIn, 1000),
	})

	snap := e.Snapshot()
	for _, entry := range Catalogue {
		_, ok := snap.Metric(entry.Label)
		assert.True(t, ok, "missing catalogue metric %q", entry.Label)
	}
}

func TestCatalogueOrderIsStable(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 45)
	assert.Equal(t, "Total Trades", labels[0])
	assert.Equal(t, "Win Rate", labels[9])
	assert.Equal(t, "Tracking Error", labels[44])
}

func TestLookupFindsAuxiliaryMetrics(t *testing.T) {
	_, ok := Lookup("Total Profit")
	assert.True(t, ok)

	_, ok = Lookup("No Such Metric")
	assert.False(t, ok)
}

func TestDealExtentIgnoresNonDeals(t *testing.T) {
	start, end := dealExtent([]ledger.TradeRecord{
		cashRow(1, ledger.SummaryCashIn, 100),
	})
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())

	start, end = dealExtent(nil)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}
