package report

// explanations maps catalogue labels to the one-line description shown next
// to each report entry. Wording is part of the client contract.
var explanations = map[string]string{
	"Total Trades":               "The total number of trades executed in the trading period.",
	"Total Deposits":             "The total amount of money deposited into the trading account.",
	"Total Withdrawals":          "The total amount of money withdrawn from the trading account.",
	"Gross Profit":               "The total amount of money Deposited minus total amount of money withdrawn from the trading account.",
	"Net Deposits":               "The difference between total deposits and total withdrawals.",
	"Net Profit":                 "The difference between total deposits and Net Withdrawals.",
	"CFD Funding Paid":           "Amount of money paid when holding a Contract For Difference",
	"CFD Funding Received":       "Amount of money received when holding a Contract For Difference",
	"Win Rate":                   "The percentage of trades that resulted in a profit.",
	"Profit Factor":              "The ratio of gross profit to gross loss. Values above 1 indicate overall profitability.",
	"Sharpe Ratio":               "A measure of risk-adjusted return. Higher values indicate better risk-adjusted performance.",
	"Max Drawdown %":             "The largest peak-to-trough decline in the account balance, expressed as a percentage.",
	"Max Drawdown $":             "The largest peak-to-trough decline in the account balance, expressed in dollars.",
	"Average Trade":              "The average profit or loss per trade.",
	"Expectancy":                 "The average amount you can expect to win (or lose) per trade.",
	"Risk-Reward Ratio":          "The ratio of the average win to the average loss.",
	"Sortino Ratio":              "Similar to Sharpe ratio, but only considers downside deviation.",
	"Calmar Ratio":               "The ratio of average annual rate of return to maximum drawdown.",
	"Omega Ratio":                "A probability-weighted ratio of gains versus losses for a threshold return target.",
	"Kappa Three":                "A measure of downside risk-adjusted performance.",
	"Gain to Pain Ratio":         "The ratio of the sum of all returns to the absolute value of all losses.",
	"Van Sharpe Ratio":           "A variation of the Sharpe ratio using logarithmic returns.",
	"Information Ratio":          "Measures the risk-adjusted returns of an investment compared to a benchmark.",
	"Maximum Consecutive Wins":   "The highest number of winning trades in a row.",
	"Maximum Consecutive Losses": "The highest number of losing trades in a row.",
	"Payoff Ratio":               "The ratio of average winning trade to average losing trade.",
	"Profit per Day":             "The average daily profit over the trading period.",
	"R-Squared":                  "Indicates how well the trading performance correlates with a benchmark.",
	"Skewness":                   "Measures the asymmetry of the return distribution.",
	"Kurtosis":                   "Measures the 'tailedness' of the return distribution.",
	"Value at Risk (95%)":        "The maximum loss expected with 95% confidence over a specific time frame.",
	"Expected Shortfall (95%)":   "The expected loss in the worst 5% of cases.",
	"Modified Sharpe Ratio":      "An adjusted Sharpe ratio that accounts for skewness and kurtosis.",
	"Sterling Ratio":             "A risk-adjusted return metric that uses average drawdown instead of standard deviation.",
	"Burke Ratio":                "A performance measurement that uses downside risk to determine reward.",
	"Tail Ratio":                 "The ratio of the 95th percentile of returns to the absolute value of the 5th percentile.",
	"Upside Potential Ratio":     "The ratio of upside returns to downside risk.",
	"Rachev Ratio":               "A ratio of expected tail gain to expected tail loss.",
	"Pain Index":                 "The average of all drawdowns over the period.",
	"Ulcer Performance Index":    "A risk-adjusted return measure that penalizes deep and long-lasting drawdowns.",
	"Serenity Index":             "A risk-adjusted performance measure that accounts for the length of the track record.",
	"Bernardo Ledoit Ratio":      "The ratio of the average gain to the average loss.",
	"K-Ratio":                    "Measures the consistency of returns over time.",
	"Prospect Ratio":             "A ratio that incorporates behavioral finance concepts into performance measurement.",
	"Tracking Error":             "The standard deviation of the difference between the strategy's returns and the benchmark's returns.",
	"Jensen's Alpha":             "The average return on the portfolio over and above that predicted by the capital asset pricing model (CAPM).",
}

// Explanation returns the description for a metric label, or a generic
// fallback for labels without one.
func Explanation(label string) string {
	if e, ok := explanations[label]; ok {
		return e
	}
	return "No explanation available for this metric."
}
