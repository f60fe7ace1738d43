package accounts

import (
	"context"

	"github.com/aristath/bank/internal/domain"
)

// Service exposes read access to accounts and account types.
// Balance mutations go through the ledger engine.
type Service struct {
	accounts *Repository
	types    *TypeRepository
}

// NewService creates a new account service
func NewService(accounts *Repository, types *TypeRepository) *Service {
	return &Service{accounts: accounts, types: types}
}

// Get returns the account or a NotFound error
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFound("account %s not found", id)
	}
	return a, nil
}

// List returns every account
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.accounts.List(ctx)
}

// ListByCustomer returns the customer's accounts. An unknown customer has none.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Account, error) {
	return s.accounts.ListByCustomer(ctx, customerID)
}

// ListTypes returns every account type
func (s *Service) ListTypes(ctx context.Context) ([]AccountType, error) {
	return s.types.List(ctx)
}
