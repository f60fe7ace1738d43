// Package ledger implements the money-moving operations: account opening,
// withdrawals and deposits, each recorded as one immutable transaction row.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/aristath/bank/internal/domain"
	"github.com/aristath/bank/internal/events"
	"github.com/aristath/bank/internal/modules/accounts"
	"github.com/shopspring/decimal"
)

// Transaction is an append-only ledger record. DebitID is where money left,
// CreditID is where it arrived; either may be empty for cash movements.
type Transaction struct {
	ID         string
	Amount     decimal.Decimal
	Note       string
	DebitID    *string
	CreditID   *string
	CustomerID string
	CreatedAt  time.Time
}

// MarshalJSON renders the amount at currency precision and missing sides as null
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string      `json:"id"`
		Amount     json.Number `json:"amount"`
		Note       string      `json:"note"`
		DebitID    *string     `json:"debit_id"`
		CreditID   *string     `json:"credit_id"`
		CustomerID string      `json:"customer_id"`
	}{
		ID:         t.ID,
		Amount:     domain.MoneyJSON(t.Amount),
		Note:       t.Note,
		DebitID:    t.DebitID,
		CreditID:   t.CreditID,
		CustomerID: t.CustomerID,
	})
}

// RecordedEvent builds the transaction.recorded event for t
func (t Transaction) RecordedEvent(module string) events.Event {
	return events.New(module, t.ID, &events.TransactionRecordedData{
		TransactionID: t.ID,
		Amount:        domain.MoneyJSON(t.Amount),
		Note:          t.Note,
		DebitID:       t.DebitID,
		CreditID:      t.CreditID,
		CustomerID:    t.CustomerID,
	}, t.CreatedAt)
}

// OpenAccountRequest is the body of POST /accounts
type OpenAccountRequest struct {
	Balance    json.Number `json:"balance"`
	AcctTypeID *int        `json:"acct_type_id"`
	CustomerID string      `json:"customer_id"`
	// DebitID names the funding source of the opening balance
	DebitID string `json:"debit_id"`
}

// MoveRequest is the body of the withdrawal and deposit endpoints
type MoveRequest struct {
	Amount     json.Number `json:"amount"`
	CustomerID string      `json:"customer_id"`
	PIN        *int        `json:"pin"`
}

// MoveResult is returned by Withdraw and Deposit
type MoveResult struct {
	Account     accounts.Account `json:"account"`
	Transaction Transaction      `json:"transaction"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
