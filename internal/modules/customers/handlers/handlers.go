// Package handlers provides HTTP handlers for customer operations.
package handlers

import (
	"net/http"

	"github.com/aristath/bank/internal/httpapi"
	"github.com/aristath/bank/internal/modules/customers"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles customer HTTP requests
type Handler struct {
	service *customers.Service
	log     zerolog.Logger
}

// NewHandler creates a new customer handler
func NewHandler(service *customers.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "customers").Logger(),
	}
}

// HandleList handles GET /customers
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, list)
}

// HandleGet handles GET /customers/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, c)
}

// HandleCreate handles POST /customers
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req customers.CreateRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusCreated, c)
}

// HandleUpdate handles PUT /customers/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req customers.UpdateRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, c)
}
