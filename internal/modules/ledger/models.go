// Package ledger defines the trade ledger data model and its SQLite store.
package ledger

import (
	"time"
)

// Transaction types as they appear in broker statements. Only DEAL rows are
// executed trades; everything else is a cash movement or funding charge.
const (
	TxTypeDeal = "DEAL"
)

// Summary labels used to classify non-deal rows. The funding "Recieved"
// spelling matches the broker's export and must not be corrected.
const (
	SummaryCashIn          = "Cash In"
	SummaryCashOut         = "Cash Out"
	SummaryFundingPaid     = "CFD funding Interest Paid"
	SummaryFundingReceived = "CFD funding Interest Recieved"
)

// TradeRecord is one row of the trade ledger.
type TradeRecord struct {
	TransactionType string    `json:"transaction_type"`
	CloseTime       time.Time `json:"close_time"`
	OpenTime        time.Time `json:"open_time,omitempty"` // zero for non-deal rows
	Market          string    `json:"market"`
	PLAmount        float64   `json:"pl_amount"`
	Balance         float64   `json:"balance"`
	Size            float64   `json:"size"`
	Summary         string    `json:"summary"`
}

// IsDeal reports whether the record is an executed trade.
func (r TradeRecord) IsDeal() bool {
	return r.TransactionType == TxTypeDeal
}

// CloseDate returns the calendar date (UTC midnight) of the close timestamp.
func (r TradeRecord) CloseDate() time.Time {
	return DateOf(r.CloseTime)
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
