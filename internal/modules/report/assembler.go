package report

import (
	"math"
	"strconv"
	"time"

	"github.com/aristath/traderlens/internal/modules/metrics"
)

// RawValue is a float64 whose JSON form is null for NaN and infinities,
// which encoding/json otherwise refuses to marshal.
type RawValue float64

// MarshalJSON implements json.Marshaler.
func (v RawValue) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// Entry is one rendered report row.
type Entry struct {
	Label       string   `json:"label"`
	Value       string   `json:"value"`
	Raw         RawValue `json:"raw"`
	Explanation string   `json:"explanation"`
}

// Report is the ordered metric report for one snapshot, with the filter
// window it was computed under.
type Report struct {
	LedgerID   string    `json:"ledger_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Market     string    `json:"market"`
	ComputedAt time.Time `json:"computed_at"`
	Entries    []Entry   `json:"entries"`
}

// Assemble renders the snapshot into the catalogue-ordered report.
//
// An empty snapshot yields a report with zero entries, never an error: "no
// data" is a valid state the client renders as an empty table. A label whose
// computation was dropped from the snapshot is skipped, so one bad formula
// removes one row instead of poisoning the report.
func Assemble(snap *metrics.Snapshot) Report {
	rep := Report{
		LedgerID:   snap.LedgerID.String(),
		Start:      snap.Start,
		End:        snap.End,
		Market:     snap.Market,
		ComputedAt: snap.ComputedAt,
		Entries:    []Entry{},
	}

	if snap.Empty() {
		return rep
	}

	for _, entry := range metrics.Catalogue {
		raw, ok := snap.Metric(entry.Label)
		if !ok {
			continue
		}
		rep.Entries = append(rep.Entries, Entry{
			Label:       entry.Label,
			Value:       FormatValue(raw, entry.Kind),
			Raw:         RawValue(raw),
			Explanation: Explanation(entry.Label),
		})
	}
	return rep
}
