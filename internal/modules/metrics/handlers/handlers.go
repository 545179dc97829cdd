// Package handlers provides HTTP handlers for metric reports, filtering, and
// the trader rating.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/events"
	"github.com/aristath/traderlens/internal/modules/metrics"
	"github.com/aristath/traderlens/internal/modules/rating"
	"github.com/aristath/traderlens/internal/modules/report"
)

const dateLayout = "2006-01-02"

// Handler handles metrics HTTP requests
type Handler struct {
	engine  *metrics.Engine
	archive *metrics.SnapshotArchive
	bus     *events.Bus
	log     zerolog.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(
	engine *metrics.Engine,
	archive *metrics.SnapshotArchive,
	bus *events.Bus,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		engine:  engine,
		archive: archive,
		bus:     bus,
		log:     log.With().Str("handler", "metrics").Logger(),
	}
}

// HandleGetReport handles GET /api/metrics/report
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	rep := report.Assemble(h.engine.Snapshot())

	response := map[string]interface{}{
		"data": rep,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetRating handles GET /api/metrics/rating
func (h *Handler) HandleGetRating(w http.ResponseWriter, r *http.Request) {
	score := rating.Breakdown(h.engine.Snapshot())

	response := map[string]interface{}{
		"data": score,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetRawMetric handles GET /api/metrics/raw/{label}
func (h *Handler) HandleGetRawMetric(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	// Labels contain spaces and parentheses; the router may hand the param
	// back still escaped.
	if unescaped, err := url.PathUnescape(label); err == nil {
		label = unescaped
	}

	entry, known := metrics.Lookup(label)
	if !known {
		http.Error(w, "Unknown metric", http.StatusNotFound)
		return
	}

	snap := h.engine.Snapshot()
	value, ok := snap.Metric(label)
	if !ok {
		// Known label but no value: the snapshot is empty.
		http.Error(w, "No data for metric", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"label":       label,
			"value":       report.FormatValue(value, entry.Kind),
			"raw":         report.RawValue(value),
			"explanation": report.Explanation(label),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// filterRequest is the PUT /api/metrics/filter body. Absent fields leave the
// corresponding filter untouched; an explicit empty market clears the market
// filter.
type filterRequest struct {
	Start        *string  `json:"start"`
	End          *string  `json:"end"`
	Market       *string  `json:"market"`
	RiskFreeRate *float64 `json:"risk_free_rate"`
}

// HandleSetFilter handles PUT /api/metrics/filter
func (h *Handler) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Start != nil || req.End != nil {
		start, end := h.engine.DateRange()

		if req.Start != nil {
			parsed, err := time.Parse(dateLayout, *req.Start)
			if err != nil {
				http.Error(w, "Invalid start date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			start = parsed
		}
		if req.End != nil {
			parsed, err := time.Parse(dateLayout, *req.End)
			if err != nil {
				http.Error(w, "Invalid end date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = parsed
		}

		h.engine.SetDateRange(start, end)
	}

	if req.Market != nil {
		h.engine.SetMarket(*req.Market)
	}

	if req.RiskFreeRate != nil {
		if *req.RiskFreeRate < 0 || *req.RiskFreeRate > 1 {
			http.Error(w, "Risk-free rate must be a fraction in [0, 1]", http.StatusBadRequest)
			return
		}
		h.engine.SetRiskFreeRate(*req.RiskFreeRate)
	}

	snap := h.engine.Snapshot()
	h.bus.Emit(events.FilterChanged, "metrics", map[string]interface{}{
		"start":  snap.Start.Format(dateLayout),
		"end":    snap.End.Format(dateLayout),
		"market": snap.Market,
	})

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"start":         snap.Start,
			"end":           snap.End,
			"market":        snap.Market,
			"filtered_rows": len(snap.Filtered),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetFilter handles GET /api/metrics/filter
func (h *Handler) HandleGetFilter(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"start":         snap.Start,
			"end":           snap.End,
			"market":        snap.Market,
			"filtered_rows": len(snap.Filtered),
			"computed_at":   snap.ComputedAt,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleListSnapshots handles GET /api/metrics/snapshots
func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	snapshots, err := h.archive.Recent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"snapshots": snapshots,
			"count":     len(snapshots),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetSnapshot handles GET /api/metrics/snapshots/{id}
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid snapshot ID", http.StatusBadRequest)
		return
	}

	snap, err := h.archive.Get(id)
	if err != nil {
		http.Error(w, "Snapshot not found", http.StatusNotFound)
		return
	}

	// Raw values may be NaN or Inf, which encoding/json refuses; RawValue
	// maps those to null.
	values := make(map[string]report.RawValue, len(snap.Values))
	for label, v := range snap.Values {
		values[label] = report.RawValue(v)
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"id":            snap.ID,
			"ledger_id":     snap.LedgerID,
			"market":        snap.Market,
			"start":         snap.Start,
			"end":           snap.End,
			"filtered_rows": snap.FilteredRows,
			"computed_at":   snap.ComputedAt,
			"values":        values,
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
