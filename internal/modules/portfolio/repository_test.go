package portfolio

import (
	"context"
	"testing"

	"github.com/aristath/bank/internal/database"
	testingpkg "github.com/aristath/bank/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRepository_Holdings(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	defer cleanup()
	ctx := context.Background()
	repo := NewPositionRepository(db, zerolog.Nop())

	portfolioID := testingpkg.SeedPortfolio(t, db, testingpkg.SeedCustomer(t, db, 1))
	aaaTicker, aaaPosition := testingpkg.SeedHolding(t, db, portfolioID, "AAA", "1.25", 2)
	testingpkg.SeedHolding(t, db, portfolioID, "BBB", "3", 1)

	holdings, err := repo.ListHoldings(ctx, portfolioID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "AAA", holdings[0].Ticker.Symbol)
	assert.Equal(t, "BBB", holdings[1].Ticker.Symbol)
	assert.Equal(t, "1.25", holdings[0].Ticker.Price.String())

	h, err := repo.GetHolding(ctx, aaaPosition)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, aaaTicker, h.Ticker.ID)
	assert.Equal(t, portfolioID, h.Position.PortfolioID)

	found, err := repo.FindHolding(ctx, portfolioID, "aaa")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, aaaPosition, found.Position.ID)

	missing, err := repo.FindHolding(ctx, portfolioID, "ZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := repo.GetHolding(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTickerRepository_AddQuantity(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	defer cleanup()
	ctx := context.Background()
	repo := NewTickerRepository(db, zerolog.Nop())

	portfolioID := testingpkg.SeedPortfolio(t, db, testingpkg.SeedCustomer(t, db, 1))
	tickerID, _ := testingpkg.SeedHolding(t, db, portfolioID, "XYZ", "20", 10)

	require.NoError(t, repo.AddQuantity(ctx, tickerID, 5, dec("22.5")))

	ticker, err := repo.GetByID(ctx, tickerID)
	require.NoError(t, err)
	assert.Equal(t, 15, ticker.Quantity)
	assert.Equal(t, "22.5", ticker.Price.String())

	assert.Error(t, repo.AddQuantity(ctx, "missing", 1, dec("1")))
}

func TestPortfolioRepository_ListByCustomer(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	defer cleanup()
	ctx := context.Background()
	repo := NewPortfolioRepository(db, zerolog.Nop())

	customerID := testingpkg.SeedCustomer(t, db, 1)
	first := testingpkg.SeedPortfolio(t, db, customerID)
	testingpkg.SeedPortfolio(t, db, testingpkg.SeedCustomer(t, db, 2))

	list, err := repo.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	p, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPortfolioRepository_GetByIDForUpdate(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	defer cleanup()
	ctx := context.Background()
	repo := NewPortfolioRepository(db, zerolog.Nop())

	customerID := testingpkg.SeedCustomer(t, db, 1)
	portfolioID := testingpkg.SeedPortfolio(t, db, customerID)

	err := database.WithTransaction(ctx, db, func(tx *database.Tx) error {
		p, err := repo.WithTx(tx).GetByIDForUpdate(ctx, portfolioID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, customerID, p.CustomerID)

		missing, err := repo.WithTx(tx).GetByIDForUpdate(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}
