package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "sqlite unchanged",
			dialect:  DialectSQLite,
			query:    "SELECT * FROM accounts WHERE id = ? AND customer_id = ?",
			expected: "SELECT * FROM accounts WHERE id = ? AND customer_id = ?",
		},
		{
			name:     "postgres numbered",
			dialect:  DialectPostgres,
			query:    "UPDATE accounts SET balance = ? WHERE id = ?",
			expected: "UPDATE accounts SET balance = $1 WHERE id = $2",
		},
		{
			name:     "postgres skips literals",
			dialect:  DialectPostgres,
			query:    "SELECT '?' AS q, id FROM tickers WHERE ticker = ?",
			expected: "SELECT '?' AS q, id FROM tickers WHERE ticker = $1",
		},
		{
			name:     "postgres no placeholders",
			dialect:  DialectPostgres,
			query:    "SELECT 1",
			expected: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.Rebind(tt.query))
		})
	}
}

func TestDialect_ForUpdate(t *testing.T) {
	assert.Equal(t, "", DialectSQLite.ForUpdate())
	assert.Equal(t, " FOR UPDATE", DialectPostgres.ForUpdate())
}
