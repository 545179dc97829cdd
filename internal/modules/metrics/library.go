package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

// Metric library. Every function is a pure function of the snapshot and
// returns a float64; degenerate input resolves to +Inf, NaN, or zero under
// the safe-divide policy and never to an error. Callers do not need to guard
// individual calls.

// Deals returns the deal rows of the filtered set, in ledger order.
func (s *Snapshot) Deals() []ledger.TradeRecord {
	out := make([]ledger.TradeRecord, 0, len(s.Filtered))
	for _, rec := range s.Filtered {
		if rec.IsDeal() {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Snapshot) dealAmounts() []float64 {
	deals := s.Deals()
	out := make([]float64, len(deals))
	for i, rec := range deals {
		out[i] = rec.PLAmount
	}
	return out
}

func (s *Snapshot) balances() []float64 {
	out := make([]float64, len(s.Filtered))
	for i, rec := range s.Filtered {
		out[i] = rec.Balance
	}
	return out
}

// drawdowns returns 1 - balance/runningPeak for every filtered row.
func (s *Snapshot) drawdowns() []float64 {
	balances := s.balances()
	out := make([]float64, len(balances))
	peak := math.Inf(-1)
	for i, b := range balances {
		if b > peak {
			peak = b
		}
		out[i] = 1 - b/peak
	}
	return out
}

// ---------------------------------------------------------------------------
// Counting metrics
// ---------------------------------------------------------------------------

// TotalTrades counts deal rows in the filtered set.
func TotalTrades(s *Snapshot) float64 {
	return float64(len(s.Deals()))
}

// ProfitableTrades counts deal rows with positive P&L.
func ProfitableTrades(s *Snapshot) float64 {
	count := 0
	for _, rec := range s.Deals() {
		if rec.PLAmount > 0 {
			count++
		}
	}
	return float64(count)
}

// LosingTrades counts deal rows with zero or negative P&L.
func LosingTrades(s *Snapshot) float64 {
	count := 0
	for _, rec := range s.Deals() {
		if rec.PLAmount <= 0 {
			count++
		}
	}
	return float64(count)
}

// TradeDays is the number of days in the return series.
func TradeDays(s *Snapshot) float64 {
	return float64(len(s.Returns))
}

// MaximumConsecutiveWins is the longest run of profitable deals in ledger order.
func MaximumConsecutiveWins(s *Snapshot) float64 {
	return longestRun(s.Deals(), func(pl float64) bool { return pl > 0 })
}

// MaximumConsecutiveLosses is the longest run of losing deals in ledger order.
func MaximumConsecutiveLosses(s *Snapshot) float64 {
	return longestRun(s.Deals(), func(pl float64) bool { return pl < 0 })
}

func longestRun(deals []ledger.TradeRecord, match func(float64) bool) float64 {
	longest, current := 0, 0
	for _, rec := range deals {
		if match(rec.PLAmount) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return float64(longest)
}

// ---------------------------------------------------------------------------
// Rate metrics
// ---------------------------------------------------------------------------

// WinRate is profitable deals over total deals (safe-divide).
func WinRate(s *Snapshot) float64 {
	return SafeDivide(ProfitableTrades(s), TotalTrades(s))
}

// LossRate is the complement of the win rate.
func LossRate(s *Snapshot) float64 {
	return 1 - WinRate(s)
}

// ---------------------------------------------------------------------------
// Dollar metrics
// ---------------------------------------------------------------------------

// ProfitableAmount sums the P&L of profitable deals.
func ProfitableAmount(s *Snapshot) float64 {
	total := 0.0
	for _, rec := range s.Deals() {
		if rec.PLAmount > 0 {
			total += rec.PLAmount
		}
	}
	return total
}

// LossAmount sums the P&L of losing deals. The result is negative or zero.
func LossAmount(s *Snapshot) float64 {
	total := 0.0
	for _, rec := range s.Deals() {
		if rec.PLAmount < 0 {
			total += rec.PLAmount
		}
	}
	return total
}

// AverageTrade is the mean deal P&L, or zero with no deals.
func AverageTrade(s *Snapshot) float64 {
	amounts := s.dealAmounts()
	if len(amounts) == 0 {
		return 0
	}
	return stat.Mean(amounts, nil)
}

// AvgWin is the average profit of a winning deal.
func AvgWin(s *Snapshot) float64 {
	return SafeDivide(ProfitableAmount(s), ProfitableTrades(s))
}

// AvgLoss is the average (negative) loss of a losing deal.
func AvgLoss(s *Snapshot) float64 {
	return SafeDivide(LossAmount(s), LosingTrades(s))
}

// ProfitFactor is gross profit over gross loss. The denominator keeps its
// negative sign, so a losing account reports a negative factor; values above 1
// indicate profitability only when losses exist at all.
func ProfitFactor(s *Snapshot) float64 {
	return SafeDivide(ProfitableAmount(s), LossAmount(s))
}

// Expectancy is the expected P&L per deal.
func Expectancy(s *Snapshot) float64 {
	return WinRate(s)*AvgWin(s) - LossRate(s)*AvgLoss(s)
}

// LargestWinningTrade is the best single filtered row.
func LargestWinningTrade(s *Snapshot) float64 {
	best := math.NaN()
	for _, rec := range s.Filtered {
		if math.IsNaN(best) || rec.PLAmount > best {
			best = rec.PLAmount
		}
	}
	return best
}

// LargestLosingTrade is the worst single filtered row.
func LargestLosingTrade(s *Snapshot) float64 {
	worst := math.NaN()
	for _, rec := range s.Filtered {
		if math.IsNaN(worst) || rec.PLAmount < worst {
			worst = rec.PLAmount
		}
	}
	return worst
}

// TotalProfit is ProfitableAmount minus LossAmount. The loss amount carries
// its negative sign, so this is the historical definition, preserved as-is.
func TotalProfit(s *Snapshot) float64 {
	return ProfitableAmount(s) - LossAmount(s)
}

// ProfitPerDay spreads the total profit over the calendar span of the
// filtered set.
func ProfitPerDay(s *Snapshot) float64 {
	if len(s.Filtered) == 0 {
		return 0
	}
	first := s.Filtered[0].CloseTime
	last := s.Filtered[len(s.Filtered)-1].CloseTime
	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return TotalProfit(s) / float64(days)
}

// ---------------------------------------------------------------------------
// Cash movement metrics
// ---------------------------------------------------------------------------

func (s *Snapshot) sumBySummary(summary string) float64 {
	total := 0.0
	for _, rec := range s.Filtered {
		if rec.Summary == summary {
			total += rec.PLAmount
		}
	}
	return total
}

// Deposits sums "Cash In" rows in the filtered set.
func Deposits(s *Snapshot) float64 {
	return s.sumBySummary(ledger.SummaryCashIn)
}

// Withdrawals sums "Cash Out" rows in the filtered set.
func Withdrawals(s *Snapshot) float64 {
	return s.sumBySummary(ledger.SummaryCashOut)
}

// NetDeposits is deposits minus withdrawals.
func NetDeposits(s *Snapshot) float64 {
	return Deposits(s) - Withdrawals(s)
}

// NetWithdrawals computes the identical expression as NetDeposits. Both entry
// points are kept deliberately; see the design notes.
func NetWithdrawals(s *Snapshot) float64 {
	return Deposits(s) - Withdrawals(s)
}

// FundingPaid sums CFD funding interest paid within the date window.
func FundingPaid(s *Snapshot) float64 {
	return s.sumBySummary(ledger.SummaryFundingPaid)
}

// FundingReceived sums CFD funding interest received within the date window.
func FundingReceived(s *Snapshot) float64 {
	return s.sumBySummary(ledger.SummaryFundingReceived)
}

// ---------------------------------------------------------------------------
// Return-series statistics
// ---------------------------------------------------------------------------

// AvgDailyReturn is the mean of the return series (NaN when empty).
func AvgDailyReturn(s *Snapshot) float64 {
	return mean(s.Returns.Values())
}

// StdDev is the population standard deviation of the return series.
func StdDev(s *Snapshot) float64 {
	return popStdDev(s.Returns.Values())
}

// ReturnRate is the fractional change of the balance across the filtered set.
func ReturnRate(s *Snapshot) float64 {
	if len(s.Filtered) < 2 {
		return 0
	}
	initial := s.Filtered[0].Balance
	final := s.Filtered[len(s.Filtered)-1].Balance
	return final/initial - 1
}

// Skewness is the population skewness of the return series.
func Skewness(s *Snapshot) float64 {
	return popSkew(s.Returns.Values())
}

// Kurtosis is the population excess kurtosis of the return series.
func Kurtosis(s *Snapshot) float64 {
	return popExcessKurtosis(s.Returns.Values())
}

// ValueAtRisk is the (1-c)*100th percentile of the return series, c = 0.95.
func ValueAtRisk(s *Snapshot) float64 {
	return valueAtRisk(s, 0.95)
}

func valueAtRisk(s *Snapshot, confidence float64) float64 {
	values := s.Returns.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	return percentile(values, 100*(1-confidence))
}

// ExpectedShortfall is the mean of returns at or below the VaR threshold.
func ExpectedShortfall(s *Snapshot) float64 {
	threshold := valueAtRisk(s, 0.95)
	below := filterValues(s.Returns.Values(), func(r float64) bool { return r <= threshold })
	if len(below) == 0 {
		return math.NaN()
	}
	return mean(below)
}

// downsideDeviation is the root mean square of returns below the threshold.
func downsideDeviation(s *Snapshot, threshold float64) float64 {
	downside := filterValues(s.Returns.Values(), func(r float64) bool { return r < threshold })
	return math.Sqrt(centralMomentAboutZero(downside, 2))
}

func centralMomentAboutZero(xs []float64, k float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, x := range xs {
		total += math.Pow(x, k)
	}
	return total / float64(len(xs))
}

// ---------------------------------------------------------------------------
// Drawdown metrics
// ---------------------------------------------------------------------------

// MaxDrawdown is the deepest peak-to-trough decline of the cumulative return
// curve, as a fraction in [-1, 0].
func MaxDrawdown(s *Snapshot) float64 {
	values := s.Returns.Values()
	if len(s.Filtered) == 0 || len(values) == 0 {
		return 0
	}

	cumulative := 1.0
	peak := math.Inf(-1)
	maxDD := math.Inf(1)
	for _, r := range values {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		dd := cumulative/peak - 1
		if dd < maxDD {
			maxDD = dd
		}
	}

	// Limit max drawdown to -100%
	return math.Max(math.Min(maxDD, 0), -1)
}

// MaxDrawdownDollars is the largest running-peak-to-balance decline in
// account currency.
func MaxDrawdownDollars(s *Snapshot) float64 {
	if len(s.Filtered) == 0 {
		return 0
	}
	peak := math.Inf(-1)
	maxDD := math.Inf(-1)
	for _, b := range s.balances() {
		if b > peak {
			peak = b
		}
		if dd := peak - b; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// PainIndex is the mean drawdown of the filtered balance curve.
func PainIndex(s *Snapshot) float64 {
	return mean(s.drawdowns())
}

// UlcerIndex is the root mean square drawdown of the filtered balance curve.
func UlcerIndex(s *Snapshot) float64 {
	return math.Sqrt(centralMomentAboutZero(s.drawdowns(), 2))
}

// ---------------------------------------------------------------------------
// Ratio metrics
// ---------------------------------------------------------------------------

// SharpeRatio is mean excess return over total volatility.
func SharpeRatio(s *Snapshot) float64 {
	return SafeDivide(AvgDailyReturn(s)-s.CashRate, StdDev(s))
}

// SortinoRatio is mean excess return over downside volatility.
func SortinoRatio(s *Snapshot) float64 {
	downside := filterValues(s.Returns.Values(), func(r float64) bool { return r < 0 })
	return SafeDivide(AvgDailyReturn(s)-s.CashRate, popStdDev(downside))
}

// CalmarRatio is return rate over absolute max drawdown, +Inf when the
// drawdown is zero.
func CalmarRatio(s *Snapshot) float64 {
	maxDD := MaxDrawdown(s)
	if maxDD == 0 {
		return math.Inf(1)
	}
	return SafeDivide(ReturnRate(s), math.Abs(maxDD))
}

// OmegaRatio is the probability-weighted gains over losses around the cash
// rate threshold.
func OmegaRatio(s *Snapshot) float64 {
	threshold := s.CashRate
	values := s.Returns.Values()
	above := filterValues(values, func(r float64) bool { return r > threshold })
	below := filterValues(values, func(r float64) bool { return r <= threshold })
	return SafeDivide(sum(above), math.Abs(sum(below)))
}

// KappaThree is excess return over cubed downside deviation.
func KappaThree(s *Snapshot) float64 {
	downside := filterValues(s.Returns.Values(), func(r float64) bool { return r < 0 })
	dd := popStdDev(downside)
	return SafeDivide(AvgDailyReturn(s)-s.CashRate, math.Pow(dd, 3))
}

// GainToPainRatio is total return over the absolute sum of losing returns.
func GainToPainRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	negative := filterValues(values, func(r float64) bool { return r < 0 })
	return SafeDivide(sum(values), math.Abs(sum(negative)))
}

// VanSharpeRatio is the Sharpe variation on logarithmic returns.
func VanSharpeRatio(s *Snapshot) float64 {
	return SafeDivide(math.Log(1+AvgDailyReturn(s)), math.Log(1+StdDev(s)))
}

// InformationRatio measures excess return against the zero benchmark over
// tracking volatility. With the zero benchmark it degenerates to mean over
// standard deviation.
func InformationRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	return SafeDivide(mean(values), popStdDev(values))
}

// PayoffRatio is the absolute average win over the average loss.
func PayoffRatio(s *Snapshot) float64 {
	return SafeDivide(math.Abs(AvgWin(s)), AvgLoss(s))
}

// RiskRewardRatio is the average win over the average loss.
func RiskRewardRatio(s *Snapshot) float64 {
	return SafeDivide(AvgWin(s), AvgLoss(s))
}

// RSquared is the squared correlation with the zero benchmark. A constant
// benchmark has no variance, so this is NaN by construction and renders as
// undefined.
func RSquared(s *Snapshot) float64 {
	values := s.Returns.Values()
	benchmark := make([]float64, len(values))
	r := stat.Correlation(values, benchmark, nil)
	return r * r
}

// ModifiedSharpeRatio adjusts the Sharpe ratio for skewness and kurtosis.
func ModifiedSharpeRatio(s *Snapshot) float64 {
	if len(s.Filtered) == 0 {
		return 0
	}
	sr := SharpeRatio(s)
	return sr / (1 + (Skewness(s)/6)*sr - (Kurtosis(s)-3)/24*sr*sr)
}

// SterlingRatio is return rate over the average drawdown.
func SterlingRatio(s *Snapshot) float64 {
	avgDD := mean(s.drawdowns())
	if avgDD == 0 {
		return math.Inf(1)
	}
	return SafeDivide(ReturnRate(s), avgDD)
}

// BurkeRatio is return rate over the square root of the sum of squared
// drawdowns.
func BurkeRatio(s *Snapshot) float64 {
	ssd := 0.0
	for _, dd := range s.drawdowns() {
		ssd += dd * dd
	}
	if ssd == 0 {
		return math.Inf(1)
	}
	return SafeDivide(ReturnRate(s), math.Sqrt(ssd))
}

// TailRatio is the 95th percentile of returns over the absolute 5th
// percentile. Plain division: a zero lower tail yields +Inf or NaN.
func TailRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	return math.Abs(percentile(values, 95)) / math.Abs(percentile(values, 5))
}

// UpsidePotentialRatio is mean upside return over downside deviation.
func UpsidePotentialRatio(s *Snapshot) float64 {
	upside := filterValues(s.Returns.Values(), func(r float64) bool { return r > 0 })
	return SafeDivide(mean(upside), downsideDeviation(s, 0))
}

// RachevRatio is expected tail gain over expected tail loss at 95% confidence.
func RachevRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	if len(values) == 0 {
		return math.Inf(1)
	}
	positive := filterValues(values, func(r float64) bool { return r > 0 })
	negative := filterValues(values, func(r float64) bool { return r < 0 })
	if len(positive) == 0 || len(negative) == 0 {
		return math.Inf(1)
	}
	varGain := percentile(positive, 100*(1-0.95))
	varLoss := math.Abs(percentile(negative, 100*0.95))
	return SafeDivide(varGain, varLoss)
}

// UlcerPerformanceIndex is excess return over the ulcer index.
func UlcerPerformanceIndex(s *Snapshot) float64 {
	return SafeDivide(AvgDailyReturn(s)-s.CashRate, UlcerIndex(s))
}

// SerenityIndex scales the Sharpe ratio by the square root of the number of
// trading days.
func SerenityIndex(s *Snapshot) float64 {
	return SharpeRatio(s) * math.Sqrt(TradeDays(s))
}

// BernardoLedoitRatio is the average gain over the absolute average loss.
func BernardoLedoitRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	positive := filterValues(values, func(r float64) bool { return r > 0 })
	negative := filterValues(values, func(r float64) bool { return r < 0 })
	return SafeDivide(mean(positive), math.Abs(mean(negative)))
}

// KRatio is the slope of the cumulative return line over return volatility,
// a consistency measure.
func KRatio(s *Snapshot) float64 {
	values := s.Returns.Values()
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, cumulativeSum(values), nil, false)
	return SafeDivide(slope, StdDev(s))
}

// ProspectRatio applies loss-aversion weighting (2.25) to gains versus losses.
func ProspectRatio(s *Snapshot) float64 {
	const lossAversion = 2.25
	values := s.Returns.Values()
	gains := filterValues(values, func(r float64) bool { return r > 0 })
	losses := filterValues(values, func(r float64) bool { return r <= 0 })
	return SafeDivide(
		math.Pow(mean(gains), 0.88),
		lossAversion*math.Pow(math.Abs(mean(losses)), 0.88),
	)
}

// JensensAlpha is the return above the CAPM prediction, with the zero-vector
// market and beta = 1 simplifications used throughout.
func JensensAlpha(s *Snapshot) float64 {
	const beta = 1.0
	values := s.Returns.Values()
	benchmark := make([]float64, len(values))
	marketMean := mean(benchmark)
	return AvgDailyReturn(s) - (s.CashRate + beta*(marketMean-s.CashRate))
}

// TreynorRatio is excess return over beta, with the beta = 1 simplification.
func TreynorRatio(s *Snapshot) float64 {
	const beta = 1.0
	return SafeDivide(AvgDailyReturn(s)-s.CashRate, beta)
}

// TrackingError is the volatility of the difference against the zero
// benchmark, which degenerates to plain return volatility.
func TrackingError(s *Snapshot) float64 {
	return popStdDev(s.Returns.Values())
}
