package reliability

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/database"
)

// Maintenance runs periodic database upkeep: integrity checks on every
// database and VACUUM on the snapshot cache. The ledger database is
// append-only and rewritten wholesale on upload, so it is never vacuumed.
type Maintenance struct {
	ledgerDB *database.DB
	cacheDB  *database.DB
	log      zerolog.Logger
}

// NewMaintenance creates a maintenance service
func NewMaintenance(ledgerDB, cacheDB *database.DB, log zerolog.Logger) *Maintenance {
	return &Maintenance{
		ledgerDB: ledgerDB,
		cacheDB:  cacheDB,
		log:      log.With().Str("service", "maintenance").Logger(),
	}
}

// Run executes one maintenance pass
func (m *Maintenance) Run(ctx context.Context) error {
	for _, db := range []*database.DB{m.ledgerDB, m.cacheDB} {
		if db == nil {
			continue
		}
		if err := db.QuickCheck(ctx); err != nil {
			m.log.Error().
				Err(err).
				Str("database", db.Name()).
				Msg("Integrity check failed")
			return fmt.Errorf("integrity check failed for %s: %w", db.Name(), err)
		}
		m.log.Debug().Str("database", db.Name()).Msg("Integrity check OK")
	}

	if m.cacheDB != nil {
		if err := m.vacuum(m.cacheDB); err != nil {
			return err
		}
	}

	m.log.Info().Msg("Maintenance pass completed")
	return nil
}

// vacuum reclaims free pages and logs the size delta
func (m *Maintenance) vacuum(db *database.DB) error {
	sizeBefore := fileSize(db.Path())

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed for %s: %w", db.Name(), err)
	}

	sizeAfter := fileSize(db.Path())
	m.log.Info().
		Str("database", db.Name()).
		Int64("size_before", sizeBefore).
		Int64("size_after", sizeAfter).
		Int64("reclaimed", sizeBefore-sizeAfter).
		Msg("VACUUM completed")

	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
