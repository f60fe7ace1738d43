package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

// transactionColumns must match scanTransaction
const transactionColumns = `id, amount, note, debit_id, credit_id, customer_id, created_at`

// TransactionRepository reads and appends transaction rows. There is no update or delete.
type TransactionRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db database.Executor, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		log: log.With().Str("repo", "transaction").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *TransactionRepository) WithTx(tx database.Executor) *TransactionRepository {
	return &TransactionRepository{db: tx, log: r.log}
}

// Create appends a transaction row
func (r *TransactionRepository) Create(ctx context.Context, t *Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, note, debit_id, credit_id, customer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Amount.String(), t.Note, nullable(t.DebitID), nullable(t.CreditID), t.CustomerID, t.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.log.Debug().Str("transaction_id", t.ID).Str("amount", t.Amount.StringFixed(2)).Msg("Transaction recorded")
	return nil
}

// List returns every transaction in recording order
func (r *TransactionRepository) List(ctx context.Context) ([]Transaction, error) {
	return r.list(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY created_at, id")
}

// ListByCustomer returns transactions owned by the customer
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]Transaction, error) {
	return r.list(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE customer_id = ? ORDER BY created_at, id",
		customerID)
}

// ListByAccount returns transactions where the account is on either side
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	return r.list(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE debit_id = ? OR credit_id = ? ORDER BY created_at, id",
		accountID, accountID)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	result := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(rows *sql.Rows) (Transaction, error) {
	var (
		t                 Transaction
		debitID, creditID sql.NullString
		createdAt         int64
	)
	if err := rows.Scan(&t.ID, &t.Amount, &t.Note, &debitID, &creditID, &t.CustomerID, &createdAt); err != nil {
		return Transaction{}, err
	}
	if debitID.Valid {
		t.DebitID = &debitID.String
	}
	if creditID.Valid {
		t.CreditID = &creditID.String
	}
	t.CreatedAt = time.Unix(0, createdAt)
	return t, nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
