package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolios", h.HandleList)
	r.Post("/portfolios", h.HandleCreate)
	r.Get("/portfolios/{id}/positions", h.HandleValuePortfolio)
	r.Post("/portfolios/{id}/positions/buy", h.HandleBuy)

	r.Get("/positions/{id}/tickers", h.HandleValuePosition)

	r.Get("/customers/{id}/portfolios", h.HandleListCustomerPortfolios)
	r.Get("/customers/{id}/positions", h.HandleListCustomerPositions)
	r.Get("/customers/{id}/tickers", h.HandleListCustomerTickers)
}
