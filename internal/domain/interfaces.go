package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceOracle supplies last-close prices for ticker symbols.
// Implementations return an UpstreamError when the provider does not answer with a price.
type PriceOracle interface {
	// ClosePrice returns the closing price of symbol on the given trading date
	ClosePrice(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error)
}

// Clock abstracts time.Now so notes and oracle dates are deterministic in tests
type Clock func() time.Time

// SystemClock is the production clock
func SystemClock() time.Time {
	return time.Now()
}

// PriorClose asks the oracle for symbol's close on the day before now
func PriorClose(ctx context.Context, oracle PriceOracle, symbol string, now time.Time) (decimal.Decimal, error) {
	return oracle.ClosePrice(ctx, symbol, PreviousDay(now))
}
