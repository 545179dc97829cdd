package ledger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParsesAndSorts(t *testing.T) {
	raw := []RawRecord{
		{
			TransactionType: TxTypeDeal,
			CloseTime:       "2025-03-04 16:00:00",
			OpenTime:        "2025-03-04 10:00:00",
			Market:          "Oil",
			PLAmount:        "-50.25",
			Balance:         "1,149.75",
			Size:            "2",
		},
		{
			TransactionType: TxTypeDeal,
			CloseTime:       "2025-03-03 14:30:00",
			Market:          "Gold",
			PLAmount:        "1,200.00",
			Balance:         "1,200.00",
		},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 2)

	// Sorted chronologically regardless of input order
	assert.Equal(t, "Gold", records[0].Market)
	assert.Equal(t, "Oil", records[1].Market)

	assert.Equal(t, 1200.0, records[0].PLAmount)
	assert.Equal(t, -50.25, records[1].PLAmount)
	assert.Equal(t, 1149.75, records[1].Balance)
	assert.Equal(t, 2.0, records[1].Size)

	assert.Equal(t, time.Date(2025, time.March, 3, 14, 30, 0, 0, time.UTC), records[0].CloseTime)
	assert.Equal(t, time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC), records[1].OpenTime)
}

func TestNormalizeDropsMalformedRows(t *testing.T) {
	raw := []RawRecord{
		{TransactionType: TxTypeDeal, CloseTime: "not a date", PLAmount: "100"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03", PLAmount: "garbage"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03", PLAmount: "100", Balance: "100"},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].PLAmount)
}

func TestNormalizeAllMalformedYieldsEmptyLedger(t *testing.T) {
	raw := []RawRecord{
		{CloseTime: "???", PLAmount: "1"},
		{CloseTime: "2025-01-01", PLAmount: ""},
	}

	records := Normalize(raw, zerolog.Nop())
	assert.Empty(t, records)
}

func TestNormalizeDerivesBalanceWhenMissing(t *testing.T) {
	raw := []RawRecord{
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-04", PLAmount: "-40"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03", PLAmount: "100"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-05", PLAmount: "25"},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 3)

	// Cumulative P&L in chronological order
	assert.Equal(t, 100.0, records[0].Balance)
	assert.Equal(t, 60.0, records[1].Balance)
	assert.Equal(t, 85.0, records[2].Balance)
}

func TestNormalizeKeepsSuppliedBalances(t *testing.T) {
	raw := []RawRecord{
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03", PLAmount: "100", Balance: "5100"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-04", PLAmount: "-40"},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 2)

	assert.Equal(t, 5100.0, records[0].Balance)
	// A row without a balance stays at zero when any row supplied one
	assert.Equal(t, 0.0, records[1].Balance)
}

func TestNormalizeStableForSameTimestamp(t *testing.T) {
	raw := []RawRecord{
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03 14:30:00", Market: "First", PLAmount: "1"},
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03 14:30:00", Market: "Second", PLAmount: "2"},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Market)
	assert.Equal(t, "Second", records[1].Market)
}

func TestNormalizeIgnoresBadOpenTime(t *testing.T) {
	raw := []RawRecord{
		{TransactionType: TxTypeDeal, CloseTime: "2025-03-03", OpenTime: "whenever", PLAmount: "10"},
	}

	records := Normalize(raw, zerolog.Nop())
	require.Len(t, records, 1)
	assert.True(t, records[0].OpenTime.IsZero())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"1,234.56", 1234.56, false},
		{"-50.25", -50.25, false},
		{" 100 ", 100, false},
		{"1,000,000", 1000000, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		value, err := ParseAmount(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, value, tt.input)
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, input := range []string{
		"2025-03-03T14:30:00Z",
		"2025-03-03 14:30:00",
		"2025-03-03",
	} {
		parsed, err := parseTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, time.UTC, parsed.Location())
	}
}
