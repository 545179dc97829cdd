package metrics

// Kind selects how a metric value is rendered in the report.
type Kind int

const (
	// KindCount renders as a plain integer.
	KindCount Kind = iota
	// KindCurrency renders as $X.XX in account currency.
	KindCurrency
	// KindPercent renders as X.XX%.
	KindPercent
	// KindFloat renders as a bare two-decimal number.
	KindFloat
)

// Entry is one catalogued metric: a display label, a render kind, and the
// function that computes it from a snapshot.
type Entry struct {
	Label   string
	Kind    Kind
	Compute func(*Snapshot) float64
}

// Catalogue is the full ordered metric list. Report order is part of the
// contract: consumers diff reports positionally, so entries must never be
// reordered, renamed, or removed. New metrics append at the end.
//
// "Gross Profit" is deposits minus withdrawals, the same expression as
// "Net Deposits". Both rows are kept because downstream consumers read both
// labels.
var Catalogue = []Entry{
	{"Total Trades", KindCount, TotalTrades},
	{"Total Deposits", KindCurrency, Deposits},
	{"Total Withdrawals", KindCurrency, Withdrawals},
	{"Gross Profit", KindCurrency, NetDeposits},
	{"Net Deposits", KindCurrency, NetDeposits},
	{"CFD Funding Paid", KindCurrency, FundingPaid},
	{"CFD Funding Received", KindCurrency, FundingReceived},
	{"Maximum Consecutive Wins", KindCount, MaximumConsecutiveWins},
	{"Maximum Consecutive Losses", KindCount, MaximumConsecutiveLosses},
	{"Win Rate", KindPercent, WinRate},
	{"Average Trade", KindCurrency, AverageTrade},
	{"Profit Factor", KindFloat, ProfitFactor},
	{"Sharpe Ratio", KindFloat, SharpeRatio},
	{"Max Drawdown %", KindPercent, MaxDrawdown},
	{"Max Drawdown $", KindCurrency, MaxDrawdownDollars},
	{"Expectancy", KindCurrency, Expectancy},
	{"Risk-Reward Ratio", KindFloat, RiskRewardRatio},
	{"Sortino Ratio", KindFloat, SortinoRatio},
	{"Calmar Ratio", KindFloat, CalmarRatio},
	{"Omega Ratio", KindFloat, OmegaRatio},
	{"Kappa Three", KindFloat, KappaThree},
	{"Gain to Pain Ratio", KindFloat, GainToPainRatio},
	{"Van Sharpe Ratio", KindFloat, VanSharpeRatio},
	{"Information Ratio", KindFloat, InformationRatio},
	{"Payoff Ratio", KindFloat, PayoffRatio},
	{"Profit per Day", KindCurrency, ProfitPerDay},
	{"R-Squared", KindFloat, RSquared},
	{"Skewness", KindFloat, Skewness},
	{"Kurtosis", KindFloat, Kurtosis},
	{"Value at Risk (95%)", KindPercent, ValueAtRisk},
	{"Expected Shortfall (95%)", KindPercent, ExpectedShortfall},
	{"Modified Sharpe Ratio", KindFloat, ModifiedSharpeRatio},
	{"Sterling Ratio", KindFloat, SterlingRatio},
	{"Burke Ratio", KindFloat, BurkeRatio},
	{"Tail Ratio", KindFloat, TailRatio},
	{"Upside Potential Ratio", KindFloat, UpsidePotentialRatio},
	{"Rachev Ratio", KindFloat, RachevRatio},
	{"Pain Index", KindFloat, PainIndex},
	{"Ulcer Performance Index", KindFloat, UlcerPerformanceIndex},
	{"Serenity Index", KindFloat, SerenityIndex},
	{"Bernardo Ledoit Ratio", KindFloat, BernardoLedoitRatio},
	{"K-Ratio", KindFloat, KRatio},
	{"Prospect Ratio", KindFloat, ProspectRatio},
	{"Jensen's Alpha", KindFloat, JensensAlpha},
	{"Tracking Error", KindFloat, TrackingError},
}

// auxiliary holds computed-but-uncatalogued metrics, reachable through the
// raw metric endpoint and the rating engine.
var auxiliary = []Entry{
	{"Loss Rate", KindPercent, LossRate},
	{"Profitable Trades", KindCount, ProfitableTrades},
	{"Losing Trades", KindCount, LosingTrades},
	{"Profitable Amount", KindCurrency, ProfitableAmount},
	{"Loss Amount", KindCurrency, LossAmount},
	{"Average Win", KindCurrency, AvgWin},
	{"Average Loss", KindCurrency, AvgLoss},
	{"Largest Winning Trade", KindCurrency, LargestWinningTrade},
	{"Largest Losing Trade", KindCurrency, LargestLosingTrade},
	{"Total Profit", KindCurrency, TotalProfit},
	{"Net Withdrawals", KindCurrency, NetWithdrawals},
	{"Average Daily Return", KindPercent, AvgDailyReturn},
	{"Standard Deviation", KindFloat, StdDev},
	{"Return Rate", KindPercent, ReturnRate},
	{"Trade Days", KindCount, TradeDays},
	{"Ulcer Index", KindFloat, UlcerIndex},
	{"Treynor Ratio", KindFloat, TreynorRatio},
}

// Lookup returns the catalogue or auxiliary entry with the given label.
func Lookup(label string) (Entry, bool) {
	for _, e := range Catalogue {
		if e.Label == label {
			return e, true
		}
	}
	for _, e := range auxiliary {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Labels returns the catalogue labels in report order.
func Labels() []string {
	out := make([]string, len(Catalogue))
	for i, e := range Catalogue {
		out[i] = e.Label
	}
	return out
}
