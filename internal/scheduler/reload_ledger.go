package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/events"
	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
)

// ReloadLedgerJob re-reads the trade store and swaps the engine's ledger.
// Catches writes that bypassed the API, e.g. a restored backup.
type ReloadLedgerJob struct {
	repo   *ledger.TradeRepository
	engine *metrics.Engine
	bus    *events.Bus
	log    zerolog.Logger
}

// NewReloadLedgerJob creates a new ReloadLedgerJob
func NewReloadLedgerJob(
	repo *ledger.TradeRepository,
	engine *metrics.Engine,
	bus *events.Bus,
	log zerolog.Logger,
) *ReloadLedgerJob {
	return &ReloadLedgerJob{
		repo:   repo,
		engine: engine,
		bus:    bus,
		log:    log.With().Str("job", "reload_ledger").Logger(),
	}
}

// Name returns the job name
func (j *ReloadLedgerJob) Name() string {
	return "reload_ledger"
}

// Run reloads the ledger from the store. Active date and market filters
// survive the swap.
func (j *ReloadLedgerJob) Run() error {
	records, err := j.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to read trade store: %w", err)
	}

	j.engine.ReplaceLedger(records)

	j.bus.Emit(events.LedgerReplaced, "scheduler", map[string]interface{}{
		"rows": len(records),
	})

	j.log.Debug().Int("rows", len(records)).Msg("Ledger reloaded from store")
	return nil
}
