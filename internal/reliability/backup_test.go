package reliability

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/database"
)

func testDB(t *testing.T, name string) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBackupDatabase(t *testing.T) {
	db := testDB(t, "ledger")
	_, err := db.Exec("CREATE TABLE trades (id INTEGER PRIMARY KEY, market TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO trades (market) VALUES ('Gold'), ('Oil')")
	require.NoError(t, err)

	svc := NewBackupService(map[string]*database.DB{"ledger": db}, zerolog.Nop())

	dest := filepath.Join(t.TempDir(), "ledger-copy.db")
	require.NoError(t, svc.BackupDatabase("ledger", dest))

	// The copy must be an independent, readable database
	copyDB, err := database.New(database.Config{
		Path:    dest,
		Profile: database.ProfileStandard,
		Name:    "copy",
	})
	require.NoError(t, err)
	defer copyDB.Close()

	var count int
	require.NoError(t, copyDB.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestBackupDatabaseOverwritesExisting(t *testing.T) {
	db := testDB(t, "ledger")
	_, err := db.Exec("CREATE TABLE trades (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	svc := NewBackupService(map[string]*database.DB{"ledger": db}, zerolog.Nop())

	dest := filepath.Join(t.TempDir(), "ledger-copy.db")
	require.NoError(t, svc.BackupDatabase("ledger", dest))
	require.NoError(t, svc.BackupDatabase("ledger", dest))
}

func TestBackupDatabaseUnknownName(t *testing.T) {
	svc := NewBackupService(map[string]*database.DB{}, zerolog.Nop())
	err := svc.BackupDatabase("nope", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database")
}

func TestDatabaseNamesStableOrder(t *testing.T) {
	svc := NewBackupService(map[string]*database.DB{
		"ledger": testDB(t, "ledger"),
		"cache":  testDB(t, "cache"),
	}, zerolog.Nop())

	assert.Equal(t, []string{"cache", "ledger"}, svc.DatabaseNames())
}

func TestMaintenanceRun(t *testing.T) {
	ledgerDB := testDB(t, "ledger")
	cacheDB := testDB(t, "cache")

	_, err := cacheDB.Exec("CREATE TABLE snapshots (id INTEGER PRIMARY KEY, payload BLOB)")
	require.NoError(t, err)

	m := NewMaintenance(ledgerDB, cacheDB, zerolog.Nop())
	require.NoError(t, m.Run(context.Background()))
}
