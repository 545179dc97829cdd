package metrics

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/modules/ledger"
)

// Snapshot is an immutable view of the engine state: the filter window, the
// filtered ledger rows, the derived return series, and every eagerly computed
// metric value. Readers receive a snapshot pointer and may hold it as long as
// they like; the engine never mutates a published snapshot.
type Snapshot struct {
	LedgerID uuid.UUID `json:"ledger_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Market   string    `json:"market"`

	// CashRate is the daily risk-free rate (annual rate / 365).
	CashRate float64 `json:"cash_rate"`

	Filtered []ledger.TradeRecord `json:"-"`
	Returns  ReturnSeries         `json:"-"`

	// Values holds every computed metric by label. NaN and Inf values are
	// kept as-is; formatting maps them to the infinity glyph downstream.
	Values map[string]float64 `json:"-"`

	ComputedAt time.Time `json:"computed_at"`
}

// Metric returns the computed value for a label. The boolean is false when
// the label is unknown or its computation panicked during the snapshot build.
func (s *Snapshot) Metric(label string) (float64, bool) {
	v, ok := s.Values[label]
	return v, ok
}

// Empty reports whether the filter matched no rows. An empty snapshot carries
// no metric values and renders as an empty report.
func (s *Snapshot) Empty() bool {
	return len(s.Filtered) == 0
}

// ComputeSnapshot filters the ledger, derives the return series, and computes
// every catalogued and auxiliary metric eagerly.
//
// Each entry is computed in isolation: a panic inside one formula drops that
// single label from Values and is logged, rather than failing the whole
// snapshot. When the filter matches nothing, Values stays empty and every
// consumer sees the documented empty-state behavior.
func ComputeSnapshot(
	ledgerID uuid.UUID,
	records []ledger.TradeRecord,
	start, end time.Time,
	market string,
	cashRate float64,
	log zerolog.Logger,
) *Snapshot {
	s := &Snapshot{
		LedgerID:   ledgerID,
		Start:      start,
		End:        end,
		Market:     market,
		CashRate:   cashRate,
		Filtered:   Filter(records, start, end, market),
		Values:     make(map[string]float64),
		ComputedAt: time.Now().UTC(),
	}
	s.Returns = BuildReturns(s.Filtered)

	if s.Empty() {
		return s
	}

	for _, entry := range Catalogue {
		computeEntry(s, entry, log)
	}
	for _, entry := range auxiliary {
		computeEntry(s, entry, log)
	}
	return s
}

func computeEntry(s *Snapshot, entry Entry, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("metric", entry.Label).
				Interface("panic", r).
				Msg("Metric computation failed, dropping entry")
		}
	}()
	s.Values[entry.Label] = entry.Compute(s)
}
