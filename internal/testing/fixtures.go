package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/google/uuid"
)

// Seeded account type ids
const (
	CheckingTypeID = 1
	SavingsTypeID  = 2
)

// SeedCustomer inserts a customer with the given PIN and returns its id
func SeedCustomer(t *testing.T, db *database.DB, pin int) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO customers (id, first_name, last_name, pin, password, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, "Test", "Customer", pin, "not-a-real-hash", time.Now().UnixNano())
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	return id
}

// SeedAccount inserts an account without a paired transaction and returns its id
func SeedAccount(t *testing.T, db *database.DB, customerID string, acctTypeID int, balance string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO accounts (id, balance, hold, acct_type_id, customer_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, balance, false, acctTypeID, customerID, time.Now().UnixNano())
	if err != nil {
		t.Fatalf("Failed to seed account: %v", err)
	}
	return id
}

// SeedPortfolio inserts a portfolio for the customer and links it as the customer's portfolio
func SeedPortfolio(t *testing.T, db *database.DB, customerID string) string {
	t.Helper()

	ctx := context.Background()
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO portfolios (id, customer_id, created_at) VALUES (?, ?, ?)`,
		id, customerID, time.Now().UnixNano()); err != nil {
		t.Fatalf("Failed to seed portfolio: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE customers SET portfolio_id = ? WHERE id = ?`, id, customerID); err != nil {
		t.Fatalf("Failed to link portfolio: %v", err)
	}
	return id
}

// SeedHolding inserts a ticker row and the position linking it to portfolioID.
// Returns the ticker id and position id.
func SeedHolding(t *testing.T, db *database.DB, portfolioID, symbol, price string, quantity int) (string, string) {
	t.Helper()

	ctx := context.Background()
	tickerID := uuid.NewString()
	positionID := uuid.NewString()
	now := time.Now().UnixNano()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO tickers (id, ticker, price, quantity, created_at) VALUES (?, ?, ?, ?, ?)`,
		tickerID, symbol, price, quantity, now); err != nil {
		t.Fatalf("Failed to seed ticker: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO positions (id, ticker_id, portfolio_id, created_at) VALUES (?, ?, ?, ?)`,
		positionID, tickerID, portfolioID, now); err != nil {
		t.Fatalf("Failed to seed position: %v", err)
	}
	return tickerID, positionID
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// TickingClock returns a clock that starts at start and advances by step on every call
func TickingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

// FailTransactionInserts makes every INSERT into transactions abort until the test ends
func FailTransactionInserts(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`CREATE TRIGGER fail_transaction_insert BEFORE INSERT ON transactions BEGIN SELECT RAISE(ABORT, 'transaction insert rejected'); END`); err != nil {
		t.Fatalf("Failed to install transaction trigger: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DROP TRIGGER IF EXISTS fail_transaction_insert`)
	})
}
