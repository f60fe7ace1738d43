package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aristath/bank/internal/database"
	"github.com/aristath/bank/internal/domain"
	"github.com/aristath/bank/internal/events"
	"github.com/aristath/bank/internal/modules/accounts"
	"github.com/aristath/bank/internal/modules/customers"
	"github.com/aristath/bank/internal/modules/ledger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const eventModule = "portfolio"

// Service handles portfolio reads, buy orders and valuations
type Service struct {
	db             *database.DB
	portfolios     *PortfolioRepository
	positions      *PositionRepository
	tickers        *TickerRepository
	accounts       *accounts.Repository
	customers      *customers.Repository
	transactions   *ledger.TransactionRepository
	locks          *ledger.AccountLocks
	oracle         domain.PriceOracle
	publisher      events.Publisher
	clock          domain.Clock
	checkingTypeID int
	log            zerolog.Logger
}

// NewService creates a new portfolio service.
// locks must be the table shared with the ledger engine so buys and withdrawals on one account serialize.
func NewService(
	db *database.DB,
	portfolioRepo *PortfolioRepository,
	positionRepo *PositionRepository,
	tickerRepo *TickerRepository,
	accountRepo *accounts.Repository,
	customerRepo *customers.Repository,
	transactionRepo *ledger.TransactionRepository,
	locks *ledger.AccountLocks,
	oracle domain.PriceOracle,
	publisher events.Publisher,
	clock domain.Clock,
	checkingTypeID int,
	log zerolog.Logger,
) *Service {
	if clock == nil {
		clock = domain.SystemClock
	}
	if locks == nil {
		locks = ledger.NewAccountLocks()
	}
	return &Service{
		db:             db,
		portfolios:     portfolioRepo,
		positions:      positionRepo,
		tickers:        tickerRepo,
		accounts:       accountRepo,
		customers:      customerRepo,
		transactions:   transactionRepo,
		locks:          locks,
		oracle:         oracle,
		publisher:      publisher,
		clock:          clock,
		checkingTypeID: checkingTypeID,
		log:            log.With().Str("service", "portfolio").Logger(),
	}
}

// List returns every portfolio
func (s *Service) List(ctx context.Context) ([]Portfolio, error) {
	return s.portfolios.List(ctx)
}

// ListByCustomer returns the customer's portfolios
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Portfolio, error) {
	return s.portfolios.ListByCustomer(ctx, customerID)
}

// CreatePortfolio opens a portfolio for an existing customer and links it as their
// primary portfolio when they have none
func (s *Service) CreatePortfolio(ctx context.Context, req CreatePortfolioRequest) (*Portfolio, error) {
	if req.CustomerID == "" {
		return nil, domain.InvalidRequest("customer_id is required")
	}

	p := &Portfolio{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		CreatedAt:  s.clock(),
	}

	err := database.WithTransaction(ctx, s.db, func(tx *database.Tx) error {
		customerRepo := s.customers.WithTx(tx)
		customer, err := customerRepo.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NotFound("customer %s not found", req.CustomerID)
		}

		if err := s.portfolios.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		return customerRepo.SetPortfolioIfUnset(ctx, customer.ID, p.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("portfolio_id", p.ID).Str("customer_id", p.CustomerID).Msg("Portfolio created")
	return p, nil
}

// PositionsForCustomer returns the positions of the customer's first portfolio
func (s *Service) PositionsForCustomer(ctx context.Context, customerID string) ([]Position, error) {
	p, err := s.firstPortfolio(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.positions.ListByPortfolio(ctx, p.ID)
}

// TickersForCustomer returns the tickers held in the customer's first portfolio
func (s *Service) TickersForCustomer(ctx context.Context, customerID string) ([]Ticker, error) {
	p, err := s.firstPortfolio(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.tickers.ListByPortfolio(ctx, p.ID)
}

func (s *Service) firstPortfolio(ctx context.Context, customerID string) (*Portfolio, error) {
	list, err := s.portfolios.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NotFound("customer %s has no portfolio", customerID)
	}
	return &list[0], nil
}

// ValuePosition prices one position at yesterday's close
func (s *Service) ValuePosition(ctx context.Context, positionID string) (*PositionValue, error) {
	h, err := s.positions.GetHolding(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.NotFound("position %s not found", positionID)
	}
	return s.value(ctx, h.Ticker)
}

// ValuePortfolio prices every position of the portfolio in position order.
// One failed price lookup fails the whole valuation.
func (s *Service) ValuePortfolio(ctx context.Context, portfolioID string) ([]PositionValue, error) {
	p, err := s.portfolios.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("portfolio %s not found", portfolioID)
	}

	holdings, err := s.positions.ListHoldings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	result := make([]PositionValue, 0, len(holdings))
	for _, h := range holdings {
		v, err := s.value(ctx, h.Ticker)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	return result, nil
}

func (s *Service) value(ctx context.Context, t Ticker) (*PositionValue, error) {
	price, err := s.priorClose(ctx, t.Symbol)
	if err != nil {
		return nil, err
	}
	return &PositionValue{
		Symbol: t.Symbol,
		Value:  domain.RoundCurrency(price.Mul(decimal.NewFromInt(int64(t.Quantity)))),
	}, nil
}

// priorClose guarantees the UpstreamError kind and ticker name whatever the oracle returns
func (s *Service) priorClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := domain.PriorClose(ctx, s.oracle, symbol, s.clock())
	if err != nil {
		if domain.KindOf(err) == domain.KindUpstream {
			return decimal.Zero, err
		}
		return decimal.Zero, domain.WrapError(domain.KindUpstream, err, "error getting price of ticker: %s", symbol)
	}
	if !price.IsPositive() {
		return decimal.Zero, domain.NewError(domain.KindUpstream, "error getting price of ticker: %s", symbol)
	}
	return price, nil
}

// Buy purchases quantity shares of a ticker for the portfolio, paid from a checking account.
// An existing holding of the ticker in this portfolio grows; otherwise a ticker and position are created.
func (s *Service) Buy(ctx context.Context, portfolioID string, req BuyRequest) (*BuyResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Ticker))
	switch {
	case symbol == "":
		return nil, domain.InvalidRequest("ticker is required")
	case req.Quantity == nil:
		return nil, domain.InvalidRequest("quantity is required")
	case req.AccountID == "":
		return nil, domain.InvalidRequest("account_id is required")
	}

	quantity, err := parseQuantity(*req.Quantity)
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.NotFound("account %s not found", req.AccountID)
	}

	p, err := s.portfolios.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("portfolio %s not found", portfolioID)
	}

	// The oracle is called before any lock or transaction is held
	price, err := s.priorClose(ctx, symbol)
	if err != nil {
		return nil, err
	}
	totalCost := domain.RoundCurrency(price.Mul(decimal.NewFromInt(int64(quantity))))

	if acct.AcctTypeID != s.checkingTypeID {
		return nil, domain.NewError(domain.KindInvalidOperation, "funding account must be a checking account")
	}
	if acct.Balance.LessThan(totalCost) {
		return nil, domain.NewError(domain.KindInsufficientFunds, "Insufficient Funds")
	}

	// The portfolio lock serializes find-or-create of holdings across funding accounts
	unlock := s.locks.Lock(acct.ID, p.ID)
	defer unlock()

	var result BuyResult
	err = database.WithTransaction(ctx, s.db, func(tx *database.Tx) error {
		acctRepo := s.accounts.WithTx(tx)
		tickerRepo := s.tickers.WithTx(tx)
		positionRepo := s.positions.WithTx(tx)

		// Balance may have moved since the unlocked read
		locked, err := acctRepo.GetByIDForUpdate(ctx, acct.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("account %s not found", acct.ID)
		}
		if locked.Balance.LessThan(totalCost) {
			return domain.NewError(domain.KindInsufficientFunds, "Insufficient Funds")
		}

		if err := acctRepo.UpdateBalance(ctx, locked.ID, locked.Balance.Sub(totalCost)); err != nil {
			return err
		}

		lockedPortfolio, err := s.portfolios.WithTx(tx).GetByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		if lockedPortfolio == nil {
			return domain.NotFound("portfolio %s not found", p.ID)
		}

		now := s.clock()
		existing, err := positionRepo.FindHolding(ctx, p.ID, symbol)
		if err != nil {
			return err
		}

		var note string
		if existing != nil {
			if err := tickerRepo.AddQuantity(ctx, existing.Ticker.ID, quantity, price); err != nil {
				return err
			}
			updated, err := tickerRepo.GetByID(ctx, existing.Ticker.ID)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("ticker %s vanished during update", existing.Ticker.ID)
			}
			result.Ticker = *updated
			note = fmt.Sprintf("Buy, added %d shares of %s for %s; added to position at %s",
				quantity, symbol, totalCost.StringFixed(domain.CurrencyPlaces), now.Format(domain.NoteTimeLayout))
		} else {
			ticker := Ticker{
				ID:        uuid.NewString(),
				Symbol:    symbol,
				Price:     price,
				Quantity:  quantity,
				CreatedAt: now,
			}
			position := Position{
				ID:          uuid.NewString(),
				TickerID:    ticker.ID,
				PortfolioID: p.ID,
				CreatedAt:   now,
			}
			if err := tickerRepo.Create(ctx, &ticker); err != nil {
				return err
			}
			if err := positionRepo.Create(ctx, &position); err != nil {
				return err
			}
			result.Ticker = ticker
			result.Position = &position
			note = fmt.Sprintf("Buy %d shares of %s for %s; created new position, credited to portfolio at %s",
				quantity, symbol, totalCost.StringFixed(domain.CurrencyPlaces), now.Format(domain.NoteTimeLayout))
		}

		debit, credit := locked.ID, p.ID
		result.Transaction = ledger.Transaction{
			ID:         uuid.NewString(),
			Amount:     totalCost,
			Note:       note,
			DebitID:    &debit,
			CreditID:   &credit,
			CustomerID: locked.CustomerID,
			CreatedAt:  now,
		}
		return s.transactions.WithTx(tx).Create(ctx, &result.Transaction)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("portfolio_id", p.ID).
		Str("account_id", acct.ID).
		Str("symbol", symbol).
		Int("quantity", quantity).
		Str("total_cost", totalCost.StringFixed(domain.CurrencyPlaces)).
		Bool("new_position", result.Position != nil).
		Msg("Position bought")

	bought := &events.PositionBoughtData{
		PortfolioID: p.ID,
		AccountID:   acct.ID,
		TickerID:    result.Ticker.ID,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       domain.PriceJSON(price),
		TotalCost:   domain.MoneyJSON(totalCost),
		NewPosition: result.Position != nil,
	}
	if result.Position != nil {
		bought.PositionID = result.Position.ID
	}
	s.publish(ctx,
		events.New(eventModule, result.Transaction.ID, bought, result.Transaction.CreatedAt),
		result.Transaction.RecordedEvent(eventModule),
	)

	return &result, nil
}

func (s *Service) publish(ctx context.Context, evts ...events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		s.log.Error().Err(err).Int("count", len(evts)).Msg("Failed to publish portfolio events")
	}
}

func parseQuantity(n json.Number) (int, error) {
	q, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, domain.WrapError(domain.KindInvalidRequest, err, "quantity must be a whole number")
	}
	if q < 1 {
		return 0, domain.InvalidRequest("quantity must be at least 1")
	}
	return q, nil
}
