package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/database"
)

// Schema is the trades table definition, applied at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY,
	transaction_type TEXT NOT NULL,
	close_time INTEGER NOT NULL,
	open_time INTEGER,
	market TEXT NOT NULL DEFAULT '',
	pl_amount REAL NOT NULL,
	balance REAL NOT NULL,
	size REAL NOT NULL DEFAULT 0,
	summary TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
CREATE INDEX IF NOT EXISTS idx_trades_market ON trades(market);
`

// tradesColumns avoids SELECT * so schema changes fail loudly at scan time.
const tradesColumns = `transaction_type, close_time, open_time, market, pl_amount, balance, size, summary`

// TradeRepository handles trade database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trades").Logger(),
	}
}

// Migrate applies the trades schema.
func (r *TradeRepository) Migrate() error {
	if _, err := r.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to apply trades schema: %w", err)
	}
	return nil
}

// ReplaceAll atomically swaps the stored ledger for a new one. The ledger is
// replaced wholesale on every load/update event, never mutated row by row.
func (r *TradeRepository) ReplaceAll(records []TradeRecord) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM trades"); err != nil {
			return fmt.Errorf("failed to clear trades: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO trades
			(transaction_type, close_time, open_time, market, pl_amount, balance, size, summary, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for _, rec := range records {
			var openTime interface{}
			if !rec.OpenTime.IsZero() {
				openTime = rec.OpenTime.Unix()
			}
			_, err := stmt.Exec(
				rec.TransactionType,
				rec.CloseTime.Unix(),
				openTime,
				rec.Market,
				rec.PLAmount,
				rec.Balance,
				rec.Size,
				rec.Summary,
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert trade: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Int("count", len(records)).Msg("Ledger replaced")
	return nil
}

// GetAll retrieves the full ledger in chronological order.
func (r *TradeRepository) GetAll() ([]TradeRecord, error) {
	query := `SELECT ` + tradesColumns + ` FROM trades ORDER BY close_time ASC, id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var records []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var closeUnix int64
		var openUnix sql.NullInt64

		err := rows.Scan(
			&rec.TransactionType,
			&closeUnix,
			&openUnix,
			&rec.Market,
			&rec.PLAmount,
			&rec.Balance,
			&rec.Size,
			&rec.Summary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		rec.CloseTime = time.Unix(closeUnix, 0).UTC()
		if openUnix.Valid {
			rec.OpenTime = time.Unix(openUnix.Int64, 0).UTC()
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return records, nil
}

// Count returns the number of stored ledger rows.
func (r *TradeRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

// Markets returns the distinct market names present in the ledger, sorted.
func (r *TradeRepository) Markets() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT market FROM trades WHERE market != '' ORDER BY market ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query markets: %w", err)
	}
	defer rows.Close()

	var markets []string
	for rows.Next() {
		var market string
		if err := rows.Scan(&market); err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		markets = append(markets, market)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating markets: %w", err)
	}

	return markets, nil
}
