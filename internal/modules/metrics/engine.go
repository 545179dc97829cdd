package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/utils"
)

// Engine owns the ledger and filter state and recomputes metric snapshots on
// every mutation. Mutations are serialized by a mutex; readers never take it,
// they load the current snapshot atomically. A reader can therefore hold a
// stale snapshot across a concurrent recompute, which is the intended
// consistency model: every read sees some fully computed state.
type Engine struct {
	mu sync.Mutex

	records  []ledger.TradeRecord
	ledgerID uuid.UUID
	start    time.Time
	end      time.Time
	market   string

	cashRate float64
	snapshot atomic.Pointer[Snapshot]
	log      zerolog.Logger

	// onRecompute, when set, is called with each newly published snapshot.
	// Used to fan out change events and archive snapshots.
	onRecompute func(*Snapshot)
}

// NewEngine creates an engine with an empty ledger. annualRate is the annual
// risk-free rate; the daily cash rate used by the ratio metrics is
// annualRate/365.
func NewEngine(annualRate float64, log zerolog.Logger) *Engine {
	e := &Engine{
		cashRate: annualRate / 365,
		log:      log.With().Str("component", "metrics-engine").Logger(),
	}
	e.snapshot.Store(ComputeSnapshot(uuid.Nil, nil, time.Time{}, time.Time{}, AllMarkets, e.cashRate, e.log))
	return e
}

// OnRecompute registers the snapshot hook. Must be called before the engine
// is shared between goroutines.
func (e *Engine) OnRecompute(fn func(*Snapshot)) {
	e.onRecompute = fn
}

// Load replaces the ledger and resets the filter to the full extent of the
// new data: the date range spans the first to last deal close date and the
// market filter is cleared. Each load is assigned a fresh ledger identity.
func (e *Engine) Load(records []ledger.TradeRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = records
	e.ledgerID = uuid.New()
	e.start, e.end = dealExtent(records)
	e.market = AllMarkets
	e.recompute()
}

// ReplaceLedger swaps the ledger data but preserves the current date range
// and market filter. Used by the scheduled reload so a background refresh
// does not clobber a filter the user has set.
func (e *Engine) ReplaceLedger(records []ledger.TradeRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = records
	e.ledgerID = uuid.New()
	e.recompute()
}

// SetDateRange updates the filter window. An end before start is coerced up
// to start, mirroring the filter's own recovery rule, so the published range
// always reads back valid.
func (e *Engine) SetDateRange(start, end time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		end = start
	}
	e.start, e.end = start, end
	e.recompute()
}

// SetMarket updates the market filter. AllMarkets clears it.
func (e *Engine) SetMarket(market string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.market = market
	e.recompute()
}

// SetRiskFreeRate changes the annual risk-free rate and recomputes.
func (e *Engine) SetRiskFreeRate(annualRate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cashRate = annualRate / 365
	e.recompute()
}

// Snapshot returns the current immutable snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Metric returns a single metric from the current snapshot.
func (e *Engine) Metric(label string) (float64, bool) {
	return e.Snapshot().Metric(label)
}

// DateRange returns the current filter window.
func (e *Engine) DateRange() (time.Time, time.Time) {
	s := e.Snapshot()
	return s.Start, s.End
}

// Market returns the current market filter.
func (e *Engine) Market() string {
	return e.Snapshot().Market
}

// recompute builds and publishes a new snapshot. Callers must hold e.mu.
func (e *Engine) recompute() {
	timer := utils.NewTimer("metrics_recompute", e.log)
	snap := ComputeSnapshot(e.ledgerID, e.records, e.start, e.end, e.market, e.cashRate, e.log)
	e.snapshot.Store(snap)
	timer.StopWithContext(map[string]interface{}{
		"rows":    len(snap.Filtered),
		"metrics": len(snap.Values),
	})

	e.log.Debug().
		Int("filtered", len(snap.Filtered)).
		Int("return_days", len(snap.Returns)).
		Str("market", snap.Market).
		Msg("Snapshot recomputed")

	if e.onRecompute != nil {
		e.onRecompute(snap)
	}
}

// dealExtent returns the first and last deal close dates of the ledger, or
// zero times when it holds no deals.
func dealExtent(records []ledger.TradeRecord) (time.Time, time.Time) {
	var start, end time.Time
	for _, rec := range records {
		if !rec.IsDeal() {
			continue
		}
		d := rec.CloseDate()
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	return start, end
}
