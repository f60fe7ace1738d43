package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all customer routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.HandleList)
	r.Post("/customers", h.HandleCreate)
	r.Get("/customers/{id}", h.HandleGet)
	r.Put("/customers/{id}", h.HandleUpdate)
}
