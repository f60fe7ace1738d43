package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// accountColumns must match scanAccount
const accountColumns = `id, balance, hold, acct_type_id, customer_id, created_at`

// Repository handles account database operations
type Repository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewRepository creates a new account repository
func NewRepository(db database.Executor, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "account").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *Repository) WithTx(tx database.Executor) *Repository {
	return &Repository{db: tx, log: r.log}
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, a *Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, balance, hold, acct_type_id, customer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Balance.String(), a.Hold, a.AcctTypeID, a.CustomerID, a.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account, returning nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.get(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
}

// GetByIDForUpdate is GetByID with a row lock on dialects that support one.
// Must be called on a repository bound to a transaction.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*Account, error) {
	return r.get(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = ?"+r.db.Dialect().ForUpdate(), id)
}

func (r *Repository) get(ctx context.Context, query, id string) (*Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return a, nil
}

// List returns every account in creation order
func (r *Repository) List(ctx context.Context) ([]Account, error) {
	return r.list(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY created_at, id")
}

// ListByCustomer returns the customer's accounts in creation order
func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]Account, error) {
	return r.list(ctx, "SELECT "+accountColumns+" FROM accounts WHERE customer_id = ? ORDER BY created_at, id", customerID)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	result := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// UpdateBalance stores a new balance. Callers pair it with a transaction insert.
func (r *Repository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, "UPDATE accounts SET balance = ? WHERE id = ?", balance.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("failed to update balance of account %s: %d rows affected", id, n)
	}

	r.log.Debug().Str("account_id", id).Str("balance", balance.StringFixed(2)).Msg("Balance updated")
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(s scanner) (*Account, error) {
	var (
		a         Account
		createdAt int64
	)
	if err := s.Scan(&a.ID, &a.Balance, &a.Hold, &a.AcctTypeID, &a.CustomerID, &createdAt); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(0, createdAt)
	return &a, nil
}

// TypeRepository reads account types
type TypeRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewTypeRepository creates a new account type repository
func NewTypeRepository(db database.Executor, log zerolog.Logger) *TypeRepository {
	return &TypeRepository{
		db:  db,
		log: log.With().Str("repo", "account_type").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *TypeRepository) WithTx(tx database.Executor) *TypeRepository {
	return &TypeRepository{db: tx, log: r.log}
}

// GetByID retrieves an account type, returning nil when it does not exist
func (r *TypeRepository) GetByID(ctx context.Context, id int) (*AccountType, error) {
	var t AccountType
	err := r.db.QueryRowContext(ctx,
		"SELECT id, type, interest_rate, min_balance FROM account_types WHERE id = ?", id,
	).Scan(&t.ID, &t.Type, &t.InterestRate, &t.MinBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account type %d: %w", id, err)
	}
	return &t, nil
}

// List returns every account type ordered by id
func (r *TypeRepository) List(ctx context.Context) ([]AccountType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, type, interest_rate, min_balance FROM account_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	defer rows.Close()

	result := make([]AccountType, 0)
	for rows.Next() {
		var t AccountType
		if err := rows.Scan(&t.ID, &t.Type, &t.InterestRate, &t.MinBalance); err != nil {
			return nil, fmt.Errorf("failed to scan account type: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
