package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all ledger routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/accounts", h.HandleOpenAccount)

	r.Post("/accounts/{id}/withdrawal", h.HandleWithdraw)
	r.Get("/accounts/{id}/withdrawal", h.HandleRequiresPost)
	r.Post("/accounts/{id}/deposit", h.HandleDeposit)
	r.Get("/accounts/{id}/deposit", h.HandleRequiresPost)

	r.Get("/transactions", h.HandleListTransactions)
	r.Get("/customers/{id}/transactions", h.HandleListCustomerTransactions)
	r.Get("/accounts/{id}/transactions", h.HandleListAccountTransactions)
}
