package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RawRecord is a trade row as handed over by the external loader, before
// validation. Amount fields may arrive locale-formatted ("1,234.56") and the
// balance column may be missing entirely.
type RawRecord struct {
	TransactionType string `json:"transaction_type"`
	CloseTime       string `json:"close_time"`
	OpenTime        string `json:"open_time,omitempty"`
	Market          string `json:"market"`
	PLAmount        string `json:"pl_amount"`
	Balance         string `json:"balance,omitempty"`
	Size            string `json:"size,omitempty"`
	Summary         string `json:"summary"`
}

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize validates and orders raw rows into a usable ledger.
//
// Rows with an unparseable close timestamp or P&L amount are dropped with a
// warning; ingest itself never fails (a malformed file yields an empty
// ledger, not an error). Rows are sorted by close time, and when no row
// carries a balance the running balance is derived as the cumulative sum of
// P&L in chronological order.
func Normalize(raw []RawRecord, log zerolog.Logger) []TradeRecord {
	records := make([]TradeRecord, 0, len(raw))
	dropped := 0
	balanceSupplied := false

	for i, row := range raw {
		closeTime, err := parseTime(row.CloseTime)
		if err != nil {
			log.Warn().Int("row", i).Str("close_time", row.CloseTime).
				Msg("Dropping ledger row with unparseable close timestamp")
			dropped++
			continue
		}

		amount, err := ParseAmount(row.PLAmount)
		if err != nil {
			log.Warn().Int("row", i).Str("pl_amount", row.PLAmount).
				Msg("Dropping ledger row with non-numeric P&L amount")
			dropped++
			continue
		}

		rec := TradeRecord{
			TransactionType: row.TransactionType,
			CloseTime:       closeTime,
			Market:          row.Market,
			PLAmount:        amount,
			Summary:         row.Summary,
		}

		// Open time is optional: cash movements have none.
		if row.OpenTime != "" {
			if openTime, err := parseTime(row.OpenTime); err == nil {
				rec.OpenTime = openTime
			} else {
				log.Warn().Int("row", i).Str("open_time", row.OpenTime).
					Msg("Ignoring unparseable open timestamp")
			}
		}

		if row.Balance != "" {
			if balance, err := ParseAmount(row.Balance); err == nil {
				rec.Balance = balance
				balanceSupplied = true
			}
		}

		if row.Size != "" {
			if size, err := ParseAmount(row.Size); err == nil {
				rec.Size = size
			}
		}

		records = append(records, rec)
	}

	// Chronological order; stable so same-timestamp rows keep file order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CloseTime.Before(records[j].CloseTime)
	})

	// Derive the running balance when the statement did not include one.
	if !balanceSupplied {
		cumulative := 0.0
		for i := range records {
			cumulative += records[i].PLAmount
			records[i].Balance = cumulative
		}
	}

	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Int("kept", len(records)).
			Msg("Some ledger rows were dropped during normalization")
	}

	return records
}

// ParseAmount parses a decimal amount that may carry thousands separators.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return value, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
