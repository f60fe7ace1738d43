package ledger

import (
	"context"
	"testing"
	"time"

	testingpkg "github.com/aristath/bank/internal/testing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_ListByAccountMatchesBothSides(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "ledger")
	defer cleanup()
	ctx := context.Background()

	customerID := testingpkg.SeedCustomer(t, db, 1)
	repo := NewTransactionRepository(db, zerolog.Nop())
	clock := testingpkg.TickingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)

	records := []Transaction{
		{Amount: decimal.NewFromInt(10), Note: "in", CreditID: strPtr("acct-1")},
		{Amount: decimal.NewFromInt(5), Note: "out", DebitID: strPtr("acct-1")},
		{Amount: decimal.NewFromInt(7), Note: "other", DebitID: strPtr("acct-2"), CreditID: strPtr("portfolio-1")},
	}
	for i := range records {
		records[i].ID = uuid.NewString()
		records[i].CustomerID = customerID
		records[i].CreatedAt = clock()
		require.NoError(t, repo.Create(ctx, &records[i]))
	}

	list, err := repo.ListByAccount(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "in", list[0].Note)
	assert.Equal(t, "out", list[1].Note)
	assert.Nil(t, list[0].DebitID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byCustomer, err := repo.ListByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 3)
}

func TestTransaction_MarshalJSON(t *testing.T) {
	data, err := Transaction{
		ID:         "t1",
		Amount:     decimal.RequireFromString("200"),
		Note:       "Withdrawal at 2026-01-01 00:00:00",
		DebitID:    strPtr("a1"),
		CustomerID: "c1",
	}.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"t1","amount":200.00,"note":"Withdrawal at 2026-01-01 00:00:00","debit_id":"a1","credit_id":null,"customer_id":"c1"}`, string(data))
}
