// Package accounts holds bank accounts and the account type reference data.
package accounts

import (
	"encoding/json"
	"time"

	"github.com/aristath/bank/internal/domain"
	"github.com/shopspring/decimal"
)

// Account is a customer's money account. Balance changes only together with a transaction row.
type Account struct {
	ID         string
	Balance    decimal.Decimal
	Hold       bool
	AcctTypeID int
	CustomerID string
	CreatedAt  time.Time
}

// MarshalJSON renders the balance as a fixed two-decimal number
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string      `json:"id"`
		Balance    json.Number `json:"balance"`
		AcctTypeID int         `json:"acct_type_id"`
		Hold       bool        `json:"hold"`
		CustomerID string      `json:"customer_id"`
	}{
		ID:         a.ID,
		Balance:    domain.MoneyJSON(a.Balance),
		AcctTypeID: a.AcctTypeID,
		Hold:       a.Hold,
		CustomerID: a.CustomerID,
	})
}

// AccountType is immutable reference data (checking, savings, ...)
type AccountType struct {
	ID           int
	Type         string
	InterestRate decimal.Decimal
	MinBalance   decimal.Decimal
}

// MarshalJSON renders rates and balances as JSON numbers
func (t AccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           int         `json:"id"`
		Type         string      `json:"type"`
		InterestRate json.Number `json:"interest_rate"`
		MinBalance   json.Number `json:"min_balance"`
	}{
		ID:           t.ID,
		Type:         t.Type,
		InterestRate: domain.PriceJSON(t.InterestRate),
		MinBalance:   domain.MoneyJSON(t.MinBalance),
	})
}
