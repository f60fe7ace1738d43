package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

const positionColumns = `id, ticker_id, portfolio_id, created_at`

// PositionRepository handles position database operations
type PositionRepository struct {
	db  database.Executor
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db database.Executor, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

// WithTx returns a repository bound to tx
func (r *PositionRepository) WithTx(tx database.Executor) *PositionRepository {
	return &PositionRepository{db: tx, log: r.log}
}

// Create inserts a new position
func (r *PositionRepository) Create(ctx context.Context, p *Position) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO positions (id, ticker_id, portfolio_id, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.TickerID, p.PortfolioID, p.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}
	return nil
}

// GetByID retrieves a position, returning nil when it does not exist
func (r *PositionRepository) GetByID(ctx context.Context, id string) (*Position, error) {
	p, err := scanPosition(r.db.QueryRowContext(ctx, "SELECT "+positionColumns+" FROM positions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position %s: %w", id, err)
	}
	return p, nil
}

// ListByPortfolio returns the portfolio's positions, oldest first
func (r *PositionRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]Position, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+positionColumns+" FROM positions WHERE portfolio_id = ? ORDER BY created_at, id", portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions for portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	result := make([]Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

const holdingSelect = `
	SELECT p.id, p.ticker_id, p.portfolio_id, p.created_at,
	       t.id, t.ticker, t.price, t.quantity, t.created_at
	FROM positions p
	JOIN tickers t ON t.id = p.ticker_id
`

// GetHolding returns the position joined with its ticker, or nil when absent
func (r *PositionRepository) GetHolding(ctx context.Context, positionID string) (*Holding, error) {
	h, err := scanHolding(r.db.QueryRowContext(ctx, holdingSelect+" WHERE p.id = ?", positionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding %s: %w", positionID, err)
	}
	return h, nil
}

// ListHoldings returns every position of the portfolio joined with its ticker
func (r *PositionRepository) ListHoldings(ctx context.Context, portfolioID string) ([]Holding, error) {
	rows, err := r.db.QueryContext(ctx, holdingSelect+" WHERE p.portfolio_id = ? ORDER BY p.created_at, p.id", portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings for portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	result := make([]Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		result = append(result, *h)
	}
	return result, rows.Err()
}

// FindHolding returns the portfolio's holding of symbol, or nil when it holds none.
// Symbols match case-insensitively.
func (r *PositionRepository) FindHolding(ctx context.Context, portfolioID, symbol string) (*Holding, error) {
	holdings, err := r.ListHoldings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	for i := range holdings {
		if strings.EqualFold(holdings[i].Ticker.Symbol, symbol) {
			return &holdings[i], nil
		}
	}
	return nil, nil
}

func scanPosition(s scanner) (*Position, error) {
	var (
		p         Position
		tickerID  sql.NullString
		createdAt int64
	)
	if err := s.Scan(&p.ID, &tickerID, &p.PortfolioID, &createdAt); err != nil {
		return nil, err
	}
	p.TickerID = tickerID.String
	p.CreatedAt = time.Unix(0, createdAt)
	return &p, nil
}

func scanHolding(s scanner) (*Holding, error) {
	var (
		h                  Holding
		posCreated, tickAt int64
	)
	err := s.Scan(
		&h.Position.ID, &h.Position.TickerID, &h.Position.PortfolioID, &posCreated,
		&h.Ticker.ID, &h.Ticker.Symbol, &h.Ticker.Price, &h.Ticker.Quantity, &tickAt,
	)
	if err != nil {
		return nil, err
	}
	h.Position.CreatedAt = time.Unix(0, posCreated)
	h.Ticker.CreatedAt = time.Unix(0, tickAt)
	return &h, nil
}
