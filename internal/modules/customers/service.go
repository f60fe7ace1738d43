package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aristath/bank/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service implements customer registration and profile updates
type Service struct {
	repo     *Repository
	clock    domain.Clock
	hashCost int
	log      zerolog.Logger
}

// NewService creates a new customer service
func NewService(repo *Repository, clock domain.Clock, log zerolog.Logger) *Service {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Service{
		repo:     repo,
		clock:    clock,
		hashCost: bcrypt.DefaultCost,
		log:      log.With().Str("service", "customer").Logger(),
	}
}

// Create registers a customer; every field is required
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	switch {
	case firstName == "":
		return nil, domain.InvalidRequest("first_name is required")
	case lastName == "":
		return nil, domain.InvalidRequest("last_name is required")
	case req.PIN == nil:
		return nil, domain.InvalidRequest("pin is required")
	case *req.PIN < 0:
		return nil, domain.InvalidRequest("pin must not be negative")
	case req.Password == "":
		return nil, domain.InvalidRequest("password is required")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		PIN:          *req.PIN,
		PasswordHash: hash,
		CreatedAt:    s.clock(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the customer or a NotFound error
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("customer %s not found", id)
	}
	return c, nil
}

// List returns every customer
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update; a new password is re-hashed
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, domain.InvalidRequest("first_name must not be empty")
		}
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, domain.InvalidRequest("last_name must not be empty")
		}
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PIN != nil {
		if *req.PIN < 0 {
			return nil, domain.InvalidRequest("pin must not be negative")
		}
		c.PIN = *req.PIN
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, domain.InvalidRequest("password must not be empty")
		}
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		c.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Str("customer_id", c.ID).Msg("Customer updated")
	return c, nil
}

// checkPassword reports whether password matches the customer's stored hash
func (s *Service) checkPassword(c *Customer, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.InvalidRequest("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
