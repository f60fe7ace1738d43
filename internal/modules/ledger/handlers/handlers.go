// Package handlers provides HTTP handlers for ledger operations.
package handlers

import (
	"context"
	"net/http"

	"github.com/aristath/bank/internal/domain"
	"github.com/aristath/bank/internal/httpapi"
	"github.com/aristath/bank/internal/modules/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles ledger HTTP requests
type Handler struct {
	engine       *ledger.Engine
	transactions *ledger.TransactionRepository
	log          zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(
	engine *ledger.Engine,
	transactions *ledger.TransactionRepository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		engine:       engine,
		transactions: transactions,
		log:          log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleOpenAccount handles POST /accounts
func (h *Handler) HandleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req ledger.OpenAccountRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	acct, err := h.engine.OpenAccount(r.Context(), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusCreated, acct)
}

// HandleWithdraw handles POST /accounts/{id}/withdrawal
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleMove(w, r, h.engine.Withdraw)
}

// HandleDeposit handles POST /accounts/{id}/deposit
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.handleMove(w, r, h.engine.Deposit)
}

type moveFunc func(ctx context.Context, accountID string, req ledger.MoveRequest) (*ledger.MoveResult, error)

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request, op moveFunc) {
	var req ledger.MoveRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}

	result, err := op(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, result)
}

// HandleRequiresPost answers GET on the money-moving routes
func (h *Handler) HandleRequiresPost(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteError(w, h.log, domain.InvalidRequest("%s requires POST", r.URL.Path))
}

// HandleListTransactions handles GET /transactions
func (h *Handler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.List(r.Context())
	h.writeList(w, list, err)
}

// HandleListCustomerTransactions handles GET /customers/{id}/transactions
func (h *Handler) HandleListCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.ListByCustomer(r.Context(), chi.URLParam(r, "id"))
	h.writeList(w, list, err)
}

// HandleListAccountTransactions handles GET /accounts/{id}/transactions
func (h *Handler) HandleListAccountTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.ListByAccount(r.Context(), chi.URLParam(r, "id"))
	h.writeList(w, list, err)
}

func (h *Handler) writeList(w http.ResponseWriter, list []ledger.Transaction, err error) {
	if err != nil {
		httpapi.WriteError(w, h.log, err)
		return
	}
	httpapi.WriteJSON(w, h.log, http.StatusOK, list)
}
