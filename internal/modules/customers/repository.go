package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

// customerColumns must match scanCustomer
const customerColumns = `id, first_name, last_name, pin, password, portfolio_id, created_at`

// Repository handles customer database operations
type Repository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewRepository creates a new customer repository
func NewRepository(db database.Executor, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "customer").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *Repository) WithTx(tx database.Executor) *Repository {
	return &Repository{db: tx, log: r.log}
}

// Create inserts a new customer
func (r *Repository) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, pin, password, portfolio_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.FirstName, c.LastName, c.PIN, c.PasswordHash, nullString(c.PortfolioID), c.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	r.log.Info().Str("customer_id", c.ID).Msg("Customer created")
	return nil
}

// GetByID retrieves a customer, returning nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id string) (*Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = ?", id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	return c, nil
}

// List returns all customers in creation order
func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	result := make([]Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Update overwrites the mutable customer fields
func (r *Repository) Update(ctx context.Context, c *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET first_name = ?, last_name = ?, pin = ?, password = ?, portfolio_id = ?
		WHERE id = ?
	`, c.FirstName, c.LastName, c.PIN, c.PasswordHash, nullString(c.PortfolioID), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update customer %s: %w", c.ID, sql.ErrNoRows)
	}
	return nil
}

// SetPortfolioIfUnset links portfolioID to the customer unless one is already linked
func (r *Repository) SetPortfolioIfUnset(ctx context.Context, customerID, portfolioID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE customers SET portfolio_id = ? WHERE id = ? AND portfolio_id IS NULL",
		portfolioID, customerID)
	if err != nil {
		return fmt.Errorf("failed to link portfolio to customer %s: %w", customerID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(s scanner) (*Customer, error) {
	var (
		c           Customer
		portfolioID sql.NullString
		createdAt   int64
	)

	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PIN, &c.PasswordHash, &portfolioID, &createdAt); err != nil {
		return nil, err
	}
	if portfolioID.Valid {
		c.PortfolioID = &portfolioID.String
	}
	c.CreatedAt = time.Unix(0, createdAt)
	return &c, nil
}

func nullString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
