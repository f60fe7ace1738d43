// Package portfolio resolves stock purchases into ticker and position rows and
// values holdings against the price oracle.
package portfolio

import (
	"encoding/json"
	"time"

	"github.com/aristath/bank/internal/domain"
	"github.com/aristath/bank/internal/modules/ledger"
	"github.com/shopspring/decimal"
)

// Portfolio groups a customer's positions
type Portfolio struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"-"`
}

// Ticker is a held symbol. Quantity lives here rather than on the position,
// and each ticker row is owned by exactly one position.
type Ticker struct {
	ID        string
	Symbol    string
	Price     decimal.Decimal
	Quantity  int
	CreatedAt time.Time
}

// MarshalJSON renders the ticker with its symbol under "ticker"
func (t Ticker) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string      `json:"id"`
		Ticker   string      `json:"ticker"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{
		ID:       t.ID,
		Ticker:   t.Symbol,
		Price:    domain.PriceJSON(t.Price),
		Quantity: t.Quantity,
	})
}

// Position links one ticker row to a portfolio
type Position struct {
	ID          string    `json:"id"`
	TickerID    string    `json:"ticker_id"`
	PortfolioID string    `json:"portfolio_id"`
	CreatedAt   time.Time `json:"-"`
}

// Holding is a position joined with its ticker
type Holding struct {
	Position Position
	Ticker   Ticker
}

// PositionValue is the market value of one holding
type PositionValue struct {
	Symbol string
	Value  decimal.Decimal
}

// MarshalJSON renders {"<SYMBOL>_position_value": value}
func (v PositionValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]json.Number{
		v.Symbol + "_position_value": domain.MoneyJSON(v.Value),
	})
}

// BuyRequest is the body of POST /portfolios/{id}/positions/buy
type BuyRequest struct {
	Ticker    string       `json:"ticker"`
	Quantity  *json.Number `json:"quantity"`
	AccountID string       `json:"account_id"`
}

// BuyResult carries the affected ticker, the position when one was created, and the transaction
type BuyResult struct {
	Ticker      Ticker             `json:"ticker"`
	Position    *Position          `json:"position,omitempty"`
	Transaction ledger.Transaction `json:"transaction"`
}

// CreatePortfolioRequest is the body of POST /portfolios
type CreatePortfolioRequest struct {
	CustomerID string `json:"customer_id"`
}
