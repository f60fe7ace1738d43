package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers account read routes.
// POST /accounts and the money-moving routes belong to the ledger handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/accounts", h.HandleList)
	r.Get("/accounts/{id}", h.HandleGet)
	r.Get("/customers/{id}/accounts", h.HandleListByCustomer)
	r.Get("/account-types", h.HandleListTypes)
}
