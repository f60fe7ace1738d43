package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

const portfolioColumns = `id, customer_id, created_at`

// PortfolioRepository handles portfolio database operations
type PortfolioRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db database.Executor, log zerolog.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *PortfolioRepository) WithTx(tx database.Executor) *PortfolioRepository {
	return &PortfolioRepository{db: tx, log: r.log}
}

// Create inserts a new portfolio
func (r *PortfolioRepository) Create(ctx context.Context, p *Portfolio) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO portfolios (id, customer_id, created_at) VALUES (?, ?, ?)",
		p.ID, p.CustomerID, p.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return nil
}

// GetByID retrieves a portfolio, returning nil when it does not exist
func (r *PortfolioRepository) GetByID(ctx context.Context, id string) (*Portfolio, error) {
	return r.get(ctx, "SELECT "+portfolioColumns+" FROM portfolios WHERE id = ?", id)
}

// GetByIDForUpdate retrieves a portfolio and row-locks it until the transaction ends
func (r *PortfolioRepository) GetByIDForUpdate(ctx context.Context, id string) (*Portfolio, error) {
	return r.get(ctx, "SELECT "+portfolioColumns+" FROM portfolios WHERE id = ?"+r.db.Dialect().ForUpdate(), id)
}

func (r *PortfolioRepository) get(ctx context.Context, query, id string) (*Portfolio, error) {
	var (
		p         Portfolio
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.CustomerID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %s: %w", id, err)
	}
	p.CreatedAt = time.Unix(0, createdAt)
	return &p, nil
}

// List returns every portfolio in creation order
func (r *PortfolioRepository) List(ctx context.Context) ([]Portfolio, error) {
	return r.list(ctx, "SELECT "+portfolioColumns+" FROM portfolios ORDER BY created_at, id")
}

// ListByCustomer returns the customer's portfolios, oldest first
func (r *PortfolioRepository) ListByCustomer(ctx context.Context, customerID string) ([]Portfolio, error) {
	return r.list(ctx, "SELECT "+portfolioColumns+" FROM portfolios WHERE customer_id = ? ORDER BY created_at, id", customerID)
}

func (r *PortfolioRepository) list(ctx context.Context, query string, args ...interface{}) ([]Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	result := make([]Portfolio, 0)
	for rows.Next() {
		var (
			p         Portfolio
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		p.CreatedAt = time.Unix(0, createdAt)
		result = append(result, p)
	}
	return result, rows.Err()
}
