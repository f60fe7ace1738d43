package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already rounded", "200.00", "200"},
		{"rounds half up", "10.005", "10.01"},
		{"rounds down", "10.004", "10"},
		{"large value", "123456789.129", "123456789.13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCurrency(decimal.RequireFromString(tt.input))
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestHasCurrencyPrecision(t *testing.T) {
	assert.True(t, HasCurrencyPrecision(decimal.RequireFromString("12.34")))
	assert.True(t, HasCurrencyPrecision(decimal.RequireFromString("12")))
	assert.False(t, HasCurrencyPrecision(decimal.RequireFromString("12.345")))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(map[string]json.Number{"balance": MoneyJSON(decimal.RequireFromString("800"))})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"balance": 800.00}`, string(data))
	assert.Equal(t, `{"balance":800.00}`, string(data))
}

func TestPriceJSON(t *testing.T) {
	assert.Equal(t, json.Number("20.125"), PriceJSON(decimal.RequireFromString("20.125")))
}

func TestPreviousDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), PreviousDay(now))
}
