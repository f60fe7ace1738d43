package portfolio

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

const tickerColumns = `id, ticker, price, quantity, created_at`

// TickerRepository handles ticker database operations
type TickerRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewTickerRepository creates a new ticker repository
func NewTickerRepository(db database.Executor, log zerolog.Logger) *TickerRepository {
	return &TickerRepository{
		db:  db,
		log: log.With().Str("repo", "ticker").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *TickerRepository) WithTx(tx database.Executor) *TickerRepository {
	return &TickerRepository{db: tx, log: r.log}
}

// Create inserts a new ticker row
func (r *TickerRepository) Create(ctx context.Context, t *Ticker) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tickers (id, ticker, price, quantity, created_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Symbol, t.Price.String(), t.Quantity, t.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create ticker %s: %w", t.Symbol, err)
	}
	return nil
}

// GetByID retrieves a ticker, returning nil when it does not exist
func (r *TickerRepository) GetByID(ctx context.Context, id string) (*Ticker, error) {
	t, err := scanTicker(r.db.QueryRowContext(ctx, "SELECT "+tickerColumns+" FROM tickers WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticker %s: %w", id, err)
	}
	return t, nil
}

// AddQuantity increments the held quantity and records the latest purchase price
func (r *TickerRepository) AddQuantity(ctx context.Context, id string, quantity int, price decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tickers SET quantity = quantity + ?, price = ? WHERE id = ?",
		quantity, price.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update ticker %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("failed to update ticker %s: %d rows affected", id, n)
	}
	return nil
}

// ListByPortfolio returns the tickers held through the portfolio's positions
func (r *TickerRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]Ticker, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.ticker, t.price, t.quantity, t.created_at
		FROM positions p
		JOIN tickers t ON t.id = p.ticker_id
		WHERE p.portfolio_id = ?
		ORDER BY p.created_at, p.id
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers for portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	result := make([]Ticker, 0)
	for rows.Next() {
		t, err := scanTicker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTicker(s scanner) (*Ticker, error) {
	var (
		t         Ticker
		createdAt int64
	)
	if err := s.Scan(&t.ID, &t.Symbol, &t.Price, &t.Quantity, &createdAt); err != nil {
		return nil, err
	}
	t.CreatedAt = time.Unix(0, createdAt)
	return &t, nil
}
