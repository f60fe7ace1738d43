// Package domain provides core domain types shared across modules.
package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision balances, amounts and costs are kept at
const CurrencyPlaces = 2

// NoteTimeLayout formats timestamps embedded in transaction notes
const NoteTimeLayout = "2006-01-02 15:04:05"

// RoundCurrency rounds to currency precision
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// HasCurrencyPrecision reports whether d carries no more than two decimal places
func HasCurrencyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(CurrencyPlaces))
}

// MoneyJSON renders a monetary value as a JSON number fixed at currency precision
func MoneyJSON(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(CurrencyPlaces))
}

// PriceJSON renders a price as a JSON number without losing precision
func PriceJSON(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// PreviousDay returns the calendar day before now, truncated to midnight in now's location.
// Price lookups use the prior day's close.
func PreviousDay(now time.Time) time.Time {
	y, m, d := now.AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
