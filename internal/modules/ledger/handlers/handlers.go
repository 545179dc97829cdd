// Package handlers provides HTTP handlers for ledger operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/events"
	"github.com/aristath/traderlens/internal/modules/ledger"
	"github.com/aristath/traderlens/internal/modules/metrics"
)

// Handler handles ledger HTTP requests
type Handler struct {
	repo   *ledger.TradeRepository
	engine *metrics.Engine
	bus    *events.Bus
	log    zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(
	repo *ledger.TradeRepository,
	engine *metrics.Engine,
	bus *events.Bus,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		repo:   repo,
		engine: engine,
		bus:    bus,
		log:    log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetTrades handles GET /api/ledger/trades
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query trades")
		http.Error(w, "Failed to query trades", http.StatusInternalServerError)
		return
	}

	limit := len(records)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"trades": records[:limit],
			"count":  limit,
			"total":  len(records),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleUploadTrades handles POST /api/ledger/trades.
//
// The body is the full broker statement as a JSON array of raw rows. The
// stored ledger is replaced wholesale and the metrics engine reloaded; there
// is no row-level mutation API on purpose.
func (h *Handler) HandleUploadTrades(w http.ResponseWriter, r *http.Request) {
	var raw []ledger.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body: expected a JSON array of trade rows", http.StatusBadRequest)
		return
	}

	records := ledger.Normalize(raw, h.log)
	if len(records) == 0 && len(raw) > 0 {
		http.Error(w, "No valid rows in upload", http.StatusUnprocessableEntity)
		return
	}

	if err := h.repo.ReplaceAll(records); err != nil {
		h.log.Error().Err(err).Msg("Failed to replace ledger")
		http.Error(w, "Failed to store ledger", http.StatusInternalServerError)
		return
	}

	h.engine.Load(records)

	h.bus.Emit(events.LedgerLoaded, "ledger", map[string]interface{}{
		"rows":     len(records),
		"rejected": len(raw) - len(records),
	})

	start, end := h.engine.DateRange()
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"rows":     len(records),
			"rejected": len(raw) - len(records),
			"start":    start,
			"end":      end,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetMarkets handles GET /api/ledger/markets
func (h *Handler) HandleGetMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.repo.Markets()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query markets")
		http.Error(w, "Failed to query markets", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"markets": markets,
			"count":   len(markets),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetSummary handles GET /api/ledger/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count trades")
		http.Error(w, "Failed to count trades", http.StatusInternalServerError)
		return
	}

	snap := h.engine.Snapshot()
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"stored_rows":   count,
			"filtered_rows": len(snap.Filtered),
			"ledger_id":     snap.LedgerID.String(),
			"start":         snap.Start,
			"end":           snap.End,
			"market":        snap.Market,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
