// Package handlers provides HTTP handlers for portfolios, buy orders and valuations.
package handlers

import (
	"net/http"

	"github.com/aristath/bank/internal/httpapi"
	"github.com/aristath/bank/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleList handles GET /portfolios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	h.write(w, list, err)
}

// HandleCreate handles POST /portfolios
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req portfolio.CreatePortfolioRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	p, err := h.service.CreatePortfolio(r.Context(), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusCreated, p)
}

// HandleListCustomerPortfolios handles GET /customers/{id}/portfolios
func (h *Handler) HandleListCustomerPortfolios(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByCustomer(r.Context(), chi.URLParam(r, "id"))
	h.write(w, list, err)
}

// HandleListCustomerPositions handles GET /customers/{id}/positions
func (h *Handler) HandleListCustomerPositions(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.PositionsForCustomer(r.Context(), chi.URLParam(r, "id"))
	h.write(w, list, err)
}

// HandleListCustomerTickers handles GET /customers/{id}/tickers
func (h *Handler) HandleListCustomerTickers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.TickersForCustomer(r.Context(), chi.URLParam(r, "id"))
	h.write(w, list, err)
}

// HandleValuePosition handles GET /positions/{id}/tickers
func (h *Handler) HandleValuePosition(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.ValuePosition(r.Context(), chi.URLParam(r, "id"))
	h.write(w, v, err)
}

// HandleValuePortfolio handles GET /portfolios/{id}/positions
func (h *Handler) HandleValuePortfolio(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ValuePortfolio(r.Context(), chi.URLParam(r, "id"))
	h.write(w, list, err)
}

// HandleBuy handles POST /portfolios/{id}/positions/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req portfolio.BuyRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	result, err := h.service.Buy(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, result)
}

func (h *Handler) write(w http.ResponseWriter, data interface{}, err error) {
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, data)
}
