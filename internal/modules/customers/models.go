// Package customers manages bank customers and their credentials.
package customers

import "time"

// Customer is an account holder. The PIN authorizes withdrawals and deposits;
// the password is only ever stored as a bcrypt hash and never serialized.
type Customer struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PIN          int       `json:"pin"`
	PasswordHash string    `json:"-"`
	PortfolioID  *string   `json:"portfolio_id"`
	CreatedAt    time.Time `json:"-"`
}

// CreateRequest is the body of POST /customers
type CreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PIN       *int   `json:"pin"`
	Password  string `json:"password"`
}

// UpdateRequest is the body of PUT /customers/{id}; nil fields are left untouched
type UpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	PIN       *int    `json:"pin"`
	Password  *string `json:"password"`
}
