package rating

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
)

func snapshotOf(t *testing.T, records []ledger.TradeRecord) *metrics.Snapshot {
	t.Helper()
	return metrics.ComputeSnapshot(
		uuid.New(), records, time.Time{}, time.Time{}, metrics.AllMarkets, 0.02/365, zerolog.Nop())
}

func deal(day int, pl, balance float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		TransactionType: ledger.TxTypeDeal,
		CloseTime:       time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC),
		Market:          "Gold",
		PLAmount:        pl,
		Balance:         balance,
	}
}

func cash(day int, summary string, amount float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		TransactionType: "CASH",
		CloseTime:       time.Date(2025, time.March, day, 9, 0, 0, 0, time.UTC),
		PLAmount:        amount,
		Summary:         summary,
	}
}

func TestEmptySnapshotRatesZero(t *testing.T) {
	assert.Equal(t, 0.0, Calculate(snapshotOf(t, nil)))
}

func TestRatingStaysInUnitInterval(t *testing.T) {
	scenarios := [][]ledger.TradeRecord{
		// all winners: several components hit the degenerate +Inf case
		{deal(1, 100, 1000), deal(2, 200, 1200)},
		// all losers
		{deal(1, -100, 900), deal(2, -200, 700)},
		// mixed with cash movements
		{
			cash(1, ledger.SummaryCashIn, 1000),
			deal(2, 100, 1100),
			deal(3, -50, 1050),
			cash(4, ledger.SummaryCashOut, 200),
		},
		// single trade
		{deal(1, 1, 1)},
	}

	for i, records := range scenarios {
		r := Calculate(snapshotOf(t, records))
		assert.GreaterOrEqual(t, r, 0.0, "scenario %d", i)
		assert.LessOrEqual(t, r, 1.0, "scenario %d", i)
	}
}

func TestAllWinnersScoreDegenerateComponentsAsOne(t *testing.T) {
	s := Breakdown(snapshotOf(t, []ledger.TradeRecord{
		deal(1, 100, 1000),
		deal(2, 200, 1200),
	}))

	// No losing trades: profit factor and sortino are +Inf, which is the
	// degenerate-good case and earns a full sub-score.
	assert.Equal(t, 1.0, s.SubScores["win_rate"])
	assert.Equal(t, 1.0, s.SubScores["profit_factor"])
	assert.Equal(t, 1.0, s.SubScores["sortino_ratio"])
}

func TestNetDepositsRatioComponent(t *testing.T) {
	// net deposits 300, total profit 150 -> ratio 0.5.
	s := Breakdown(snapshotOf(t, []ledger.TradeRecord{
		cash(1, ledger.SummaryCashIn, 500),
		cash(2, ledger.SummaryCashOut, 200),
		deal(3, 150, 650),
		deal(4, -0.0, 650),
	}))

	assert.InDelta(t, 150.0/300.0, s.SubScores["net_deposits_ratio"], 1e-9)
}

func TestNetDepositsRatioZeroWhenNoDeposits(t *testing.T) {
	s := Breakdown(snapshotOf(t, []ledger.TradeRecord{
		deal(1, 100, 1000),
		deal(2, -50, 950),
	}))

	// No cash movements: net deposits is 0, the component scores 0 rather
	// than dividing by zero.
	assert.Equal(t, 0.0, s.SubScores["net_deposits_ratio"])
}

func TestNegativeProfitFactorScoresZero(t *testing.T) {
	s := Breakdown(snapshotOf(t, []ledger.TradeRecord{
		deal(1, 10, 1000),
		deal(2, -100, 900),
	}))

	// Profit factor is negative for a net-losing account; sub-scores clamp
	// at zero so one bad component cannot drag the rating negative.
	assert.Equal(t, 0.0, s.SubScores["profit_factor"])
	assert.GreaterOrEqual(t, s.Rating, 0.0)
}

func TestWeightsSumToOne(t *testing.T) {
	total := weightWinRate + weightProfitFactor + weightSharpe +
		weightSortino + weightCalmar + weightNetDepositsRatio
	require.InDelta(t, 1.0, total, 1e-12)
}

func TestPerfectAccountApproachesFullRating(t *testing.T) {
	// Strong, all-winning account funded by deposits with profit exceeding
	// net deposits: every component saturates.
	s := Breakdown(snapshotOf(t, []ledger.TradeRecord{
		cash(1, ledger.SummaryCashIn, 100),
		deal(2, 200, 300),
		deal(3, 300, 600),
		deal(4, 400, 1000),
	}))

	assert.InDelta(t, 1.0, s.Rating, 1e-9)
	assert.Equal(t, "100.00%", s.Percentage)
}
