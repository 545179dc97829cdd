package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
)

func testSnapshot(t *testing.T, records []ledger.TradeRecord) *metrics.Snapshot {
	t.Helper()
	return metrics.ComputeSnapshot(
		uuid.New(), records, time.Time{}, time.Time{}, metrics.AllMarkets, 0.02/365, zerolog.Nop())
}

func testDeal(day int, pl, balance float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		TransactionType: ledger.TxTypeDeal,
		CloseTime:       time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC),
		Market:          "Gold",
		PLAmount:        pl,
		Balance:         balance,
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42", FormatValue(42, metrics.KindCount))
	assert.Equal(t, "$1234.50", FormatValue(1234.5, metrics.KindCurrency))
	assert.Equal(t, "$-50.00", FormatValue(-50, metrics.KindCurrency))
	assert.Equal(t, "66.67%", FormatValue(0.666666, metrics.KindPercent))
	assert.Equal(t, "1.73", FormatValue(1.7321, metrics.KindFloat))
}

func TestFormatValueDegenerate(t *testing.T) {
	assert.Equal(t, "∞", FormatValue(math.Inf(1), metrics.KindFloat))
	assert.Equal(t, "∞", FormatValue(math.NaN(), metrics.KindPercent))
	assert.Equal(t, "∞", FormatValue(math.NaN(), metrics.KindCurrency))
	assert.Equal(t, "-∞", FormatValue(math.Inf(-1), metrics.KindFloat))
}

func TestAssembleEmptySnapshot(t *testing.T) {
	rep := Assemble(testSnapshot(t, nil))

	require.NotNil(t, rep.Entries)
	assert.Empty(t, rep.Entries)
}

func TestAssemblePreservesCatalogueOrder(t *testing.T) {
	rep := Assemble(testSnapshot(t, []ledger.TradeRecord{
		testDeal(1, 100, 1000),
		testDeal(2, -50, 950),
	}))

	require.Len(t, rep.Entries, len(metrics.Catalogue))
	for i, entry := range metrics.Catalogue {
		assert.Equal(t, entry.Label, rep.Entries[i].Label)
	}
}

func TestAssembleFormatsByKind(t *testing.T) {
	rep := Assemble(testSnapshot(t, []ledger.TradeRecord{
		testDeal(1, 100, 1000),
		testDeal(2, -50, 950),
		testDeal(3, 75, 1025),
	}))

	byLabel := make(map[string]Entry)
	for _, e := range rep.Entries {
		byLabel[e.Label] = e
	}

	assert.Equal(t, "3", byLabel["Total Trades"].Value)
	assert.Equal(t, "66.67%", byLabel["Win Rate"].Value)
	assert.Equal(t, "$41.67", byLabel["Average Trade"].Value)
	assert.Equal(t, "-3.50", byLabel["Profit Factor"].Value)
	assert.Equal(t, "-5.00%", byLabel["Max Drawdown %"].Value)
	assert.Equal(t, "$50.00", byLabel["Max Drawdown $"].Value)

	// Constant zero benchmark: correlation is undefined, renders as the glyph.
	assert.Equal(t, "∞", byLabel["R-Squared"].Value)
}

func TestAssembleAllWinnersRendersInfinity(t *testing.T) {
	rep := Assemble(testSnapshot(t, []ledger.TradeRecord{
		testDeal(1, 100, 1000),
		testDeal(2, 50, 1050),
	}))

	byLabel := make(map[string]Entry)
	for _, e := range rep.Entries {
		byLabel[e.Label] = e
	}

	assert.Equal(t, "∞", byLabel["Profit Factor"].Value)
	assert.Equal(t, "∞", byLabel["Sortino Ratio"].Value)
}

func TestAssembleExplanations(t *testing.T) {
	rep := Assemble(testSnapshot(t, []ledger.TradeRecord{testDeal(1, 100, 1000)}))

	byLabel := make(map[string]Entry)
	for _, e := range rep.Entries {
		byLabel[e.Label] = e
	}

	assert.Equal(t,
		"The percentage of trades that resulted in a profit.",
		byLabel["Win Rate"].Explanation)
	assert.Equal(t,
		"No explanation available for this metric.",
		Explanation("Unknown Metric"))
}

func TestReportMarshalsWithNonFiniteRawValues(t *testing.T) {
	rep := Assemble(testSnapshot(t, []ledger.TradeRecord{
		testDeal(1, 100, 1000),
		testDeal(2, 50, 1050), // no losses: several raw values are +Inf
	}))

	data, err := json.Marshal(rep)
	require.NoError(t, err, "non-finite raw values must serialize as null")
	assert.Contains(t, string(data), `"raw":null`)
}
