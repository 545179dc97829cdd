package metrics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// archiveSchema stores one row per published snapshot. Payloads are msgpack
// so the full metric map round-trips without a column per label.
const archiveSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY,
	ledger_id TEXT NOT NULL,
	market TEXT NOT NULL,
	start_date INTEGER NOT NULL,
	end_date INTEGER NOT NULL,
	filtered_rows INTEGER NOT NULL,
	computed_at INTEGER NOT NULL,
	payload BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_computed_at ON snapshots(computed_at);
`

// archivePayload is the msgpack body of an archived snapshot.
type archivePayload struct {
	Values   map[string]float64 `msgpack:"values"`
	Returns  []float64          `msgpack:"returns"`
	CashRate float64            `msgpack:"cash_rate"`
}

// ArchivedSnapshot is one archive listing row.
type ArchivedSnapshot struct {
	ID           int64              `json:"id"`
	LedgerID     string             `json:"ledger_id"`
	Market       string             `json:"market"`
	Start        time.Time          `json:"start"`
	End          time.Time          `json:"end"`
	FilteredRows int                `json:"filtered_rows"`
	ComputedAt   time.Time          `json:"computed_at"`
	Values       map[string]float64 `json:"values,omitempty"`
}

// SnapshotArchive persists published snapshots to the cache database. The
// archive is history, not state: losing it never affects the live engine, so
// it lives in the cache-profile database that backups skip.
type SnapshotArchive struct {
	db  *sql.DB
	log zerolog.Logger

	// keep bounds the archive; older rows are pruned on insert.
	keep int
}

// NewSnapshotArchive creates an archive retaining the most recent keep rows.
func NewSnapshotArchive(db *sql.DB, keep int, log zerolog.Logger) *SnapshotArchive {
	return &SnapshotArchive{
		db:   db,
		log:  log.With().Str("component", "snapshot-archive").Logger(),
		keep: keep,
	}
}

// Migrate applies the snapshots schema.
func (a *SnapshotArchive) Migrate() error {
	if _, err := a.db.Exec(archiveSchema); err != nil {
		return fmt.Errorf("failed to apply snapshots schema: %w", err)
	}
	return nil
}

// Record archives a published snapshot and prunes beyond the retention bound.
// Empty snapshots are skipped; an all-zero archive row has no diagnostic value.
func (a *SnapshotArchive) Record(snap *Snapshot) error {
	if snap.Empty() {
		return nil
	}

	payload, err := msgpack.Marshal(archivePayload{
		Values:   snap.Values,
		Returns:  snap.Returns.Values(),
		CashRate: snap.CashRate,
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot payload: %w", err)
	}

	_, err = a.db.Exec(`
		INSERT INTO snapshots (ledger_id, market, start_date, end_date, filtered_rows, computed_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.LedgerID.String(),
		snap.Market,
		snap.Start.Unix(),
		snap.End.Unix(),
		len(snap.Filtered),
		snap.ComputedAt.Unix(),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if a.keep > 0 {
		_, err = a.db.Exec(`
			DELETE FROM snapshots WHERE id NOT IN (
				SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
			)
		`, a.keep)
		if err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
	}

	return nil
}

// Recent lists the most recently archived snapshots, newest first, without
// payloads.
func (a *SnapshotArchive) Recent(limit int) ([]ArchivedSnapshot, error) {
	rows, err := a.db.Query(`
		SELECT id, ledger_id, market, start_date, end_date, filtered_rows, computed_at
		FROM snapshots ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []ArchivedSnapshot
	for rows.Next() {
		var s ArchivedSnapshot
		var start, end, computed int64
		if err := rows.Scan(&s.ID, &s.LedgerID, &s.Market, &start, &end, &s.FilteredRows, &computed); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.Start = time.Unix(start, 0).UTC()
		s.End = time.Unix(end, 0).UTC()
		s.ComputedAt = time.Unix(computed, 0).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}

// Get loads one archived snapshot with its decoded metric values.
func (a *SnapshotArchive) Get(id int64) (*ArchivedSnapshot, error) {
	var s ArchivedSnapshot
	var start, end, computed int64
	var payload []byte

	err := a.db.QueryRow(`
		SELECT id, ledger_id, market, start_date, end_date, filtered_rows, computed_at, payload
		FROM snapshots WHERE id = ?
	`, id).Scan(&s.ID, &s.LedgerID, &s.Market, &start, &end, &s.FilteredRows, &computed, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}

	var body archivePayload
	if err := msgpack.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %d payload: %w", id, err)
	}

	s.Start = time.Unix(start, 0).UTC()
	s.End = time.Unix(end, 0).UTC()
	s.ComputedAt = time.Unix(computed, 0).UTC()
	s.Values = body.Values
	return &s, nil
}
