package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all metrics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/metrics", func(r chi.Router) {
		r.Get("/report", h.HandleGetReport)
		r.Get("/rating", h.HandleGetRating)
		r.Get("/raw/{label}", h.HandleGetRawMetric)

		r.Get("/filter", h.HandleGetFilter)
		r.Put("/filter", h.HandleSetFilter)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.HandleListSnapshots)
			r.Get("/{id}", h.HandleGetSnapshot)
		})
	})
}
