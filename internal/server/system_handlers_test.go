package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/traderlens/internal/database"
	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
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

func testSystemHandlers(t *testing.T) *SystemHandlers {
	t.Helper()
	engine := metrics.NewEngine(0.02, zerolog.Nop())
	engine.Load([]ledger.TradeRecord{{
		TransactionType: ledger.TxTypeDeal,
		CloseTime:       time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		Market:          "Gold",
		PLAmount:        100,
		Balance:         1000,
	}})
	return NewSystemHandlers(zerolog.Nop(), t.TempDir(), testDB(t, "ledger"), testDB(t, "cache"), engine)
}

func TestHandleHealth(t *testing.T) {
	h := testSystemHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string            `json:"status"`
		Databases map[string]string `json:"databases"`
		Engine    struct {
			FilteredRows int `json:"filtered_rows"`
		} `json:"engine"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Databases["ledger"])
	assert.Equal(t, "ok", resp.Databases["cache"])
	assert.Equal(t, 1, resp.Engine.FilteredRows)
}

func TestHandleSystemStatus(t *testing.T) {
	h := testSystemHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "cpu_percent")
	assert.Contains(t, resp, "memory_percent")
	assert.Contains(t, resp, "goroutines")
}

func TestHandleDatabaseStats(t *testing.T) {
	h := testSystemHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/database/stats", nil)
	rec := httptest.NewRecorder()
	h.HandleDatabaseStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Databases, 2)
	assert.NotEmpty(t, resp.LastChecked)
}
