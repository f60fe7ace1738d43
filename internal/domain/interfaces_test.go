package domain

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedOracle struct {
	gotSymbol string
	gotDate   time.Time
}

func (o *fixedOracle) ClosePrice(_ context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	o.gotSymbol = symbol
	o.gotDate = date
	return decimal.NewFromInt(20), nil
}

func TestPriorClose_AsksForPreviousDay(t *testing.T) {
	oracle := &fixedOracle{}
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	price, err := PriorClose(context.Background(), oracle, "XYZ", now)
	require.NoError(t, err)

	assert.True(t, price.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "XYZ", oracle.gotSymbol)
	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), oracle.gotDate)
}
