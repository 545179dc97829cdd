// Package rating computes the composite trader rating in [0, 1].
package rating

import (
	"fmt"
	"math"

	"github.com/aristath/traderlens/internal/modules/metrics"
)

// Component weights. They sum to 1 so the rating stays in the unit interval;
// changing one weight means rebalancing the rest.
const (
	weightWinRate          = 0.15
	weightProfitFactor     = 0.15
	weightSharpe           = 0.15
	weightSortino          = 0.15
	weightCalmar           = 0.15
	weightNetDepositsRatio = 0.25
)

// ratioScale normalizes the open-ended ratio metrics: a value of 3 or better
// earns a full sub-score.
const ratioScale = 3.0

// Score holds the rating and its weighted sub-scores for inspection.
type Score struct {
	Rating     float64            `json:"rating"`
	SubScores  map[string]float64 `json:"sub_scores"`
	Percentage string             `json:"percentage"`
}

// Calculate computes the composite trader rating for a snapshot.
//
// Sub-scores are clamped into [0, 1] before weighting. Degenerate metric
// values are decided, not propagated: NaN scores 0 (no evidence is no
// credit), +Inf scores 1 (the degenerate-good case, e.g. no losing trades),
// -Inf scores 0. An empty snapshot rates 0.
func Calculate(snap *metrics.Snapshot) float64 {
	return Breakdown(snap).Rating
}

// Breakdown computes the rating together with its per-component sub-scores.
func Breakdown(snap *metrics.Snapshot) Score {
	s := Score{SubScores: map[string]float64{}}
	if snap.Empty() {
		s.Percentage = formatPercent(0)
		return s
	}

	winRate := metrics.WinRate(snap)
	profitFactor := metrics.ProfitFactor(snap)
	sharpe := metrics.SharpeRatio(snap)
	sortino := metrics.SortinoRatio(snap)
	calmar := metrics.CalmarRatio(snap)

	netDeposits := metrics.NetDeposits(snap)
	netDepositsRatio := 0.0
	if netDeposits > 0 {
		netDepositsRatio = metrics.TotalProfit(snap) / netDeposits
	}

	s.SubScores["win_rate"] = sanitize(winRate, func(v float64) float64 {
		return v
	})
	s.SubScores["profit_factor"] = sanitize(profitFactor, func(v float64) float64 {
		return v / ratioScale
	})
	s.SubScores["sharpe_ratio"] = sanitize(sharpe, func(v float64) float64 {
		return math.Max(v, 0) / ratioScale
	})
	s.SubScores["sortino_ratio"] = sanitize(sortino, func(v float64) float64 {
		return math.Max(v, 0) / ratioScale
	})
	s.SubScores["calmar_ratio"] = sanitize(calmar, func(v float64) float64 {
		return math.Max(v, 0) / ratioScale
	})
	s.SubScores["net_deposits_ratio"] = clampUnit(netDepositsRatio)

	s.Rating = weightWinRate*s.SubScores["win_rate"] +
		weightProfitFactor*s.SubScores["profit_factor"] +
		weightSharpe*s.SubScores["sharpe_ratio"] +
		weightSortino*s.SubScores["sortino_ratio"] +
		weightCalmar*s.SubScores["calmar_ratio"] +
		weightNetDepositsRatio*s.SubScores["net_deposits_ratio"]

	s.Percentage = formatPercent(s.Rating)
	return s
}

// sanitize decides degenerate inputs before scaling, then clamps the scaled
// score into the unit interval.
func sanitize(v float64, scale func(float64) float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return 0
	}
	return clampUnit(scale(v))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
