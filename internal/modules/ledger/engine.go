package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aristath/bank/internal/database"
	"github.com/aristath/bank/internal/domain"
	"github.com/aristath/bank/internal/events"
	"github.com/aristath/bank/internal/modules/accounts"
	"github.com/aristath/bank/internal/modules/customers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const eventModule = "ledger"

type direction int

const (
	withdrawal direction = iota
	deposit
)

func (d direction) String() string {
	if d == withdrawal {
		return "Withdrawal"
	}
	return "Deposit"
}

// Engine runs the balance-changing account operations.
// Every operation commits the balance change and its transaction row together.
type Engine struct {
	db           *database.DB
	accounts     *accounts.Repository
	types        *accounts.TypeRepository
	customers    *customers.Repository
	transactions *TransactionRepository
	locks        *AccountLocks
	publisher    events.Publisher
	clock        domain.Clock
	log          zerolog.Logger
}

// NewEngine creates a new ledger engine
func NewEngine(
	db *database.DB,
	accountRepo *accounts.Repository,
	typeRepo *accounts.TypeRepository,
	customerRepo *customers.Repository,
	transactionRepo *TransactionRepository,
	locks *AccountLocks,
	publisher events.Publisher,
	clock domain.Clock,
	log zerolog.Logger,
) *Engine {
	if clock == nil {
		clock = domain.SystemClock
	}
	if locks == nil {
		locks = NewAccountLocks()
	}
	return &Engine{
		db:           db,
		accounts:     accountRepo,
		types:        typeRepo,
		customers:    customerRepo,
		transactions: transactionRepo,
		locks:        locks,
		publisher:    publisher,
		clock:        clock,
		log:          log.With().Str("service", "ledger_engine").Logger(),
	}
}

// OpenAccount creates an account and records the opening balance as its initial deposit
func (e *Engine) OpenAccount(ctx context.Context, req OpenAccountRequest) (*accounts.Account, error) {
	switch {
	case req.Balance == "":
		return nil, domain.InvalidRequest("balance is required")
	case req.AcctTypeID == nil:
		return nil, domain.InvalidRequest("acct_type_id is required")
	case req.CustomerID == "":
		return nil, domain.InvalidRequest("customer_id is required")
	case req.DebitID == "":
		return nil, domain.InvalidRequest("debit_id is required")
	}

	balance, err := parseMoney(req.Balance, "balance")
	if err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, domain.InvalidRequest("balance must not be negative")
	}

	now := e.clock()
	acct := &accounts.Account{
		ID:         uuid.NewString(),
		Balance:    balance,
		AcctTypeID: *req.AcctTypeID,
		CustomerID: req.CustomerID,
		CreatedAt:  now,
	}
	txn := &Transaction{
		ID:         uuid.NewString(),
		Amount:     balance,
		Note:       fmt.Sprintf("Initial deposit at %s", now.Format(domain.NoteTimeLayout)),
		DebitID:    strPtr(req.DebitID),
		CreditID:   strPtr(acct.ID),
		CustomerID: req.CustomerID,
		CreatedAt:  now,
	}

	err = database.WithTransaction(ctx, e.db, func(tx *database.Tx) error {
		customer, err := e.customers.WithTx(tx).GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NotFound("customer %s not found", req.CustomerID)
		}

		acctType, err := e.types.WithTx(tx).GetByID(ctx, *req.AcctTypeID)
		if err != nil {
			return err
		}
		if acctType == nil {
			return domain.NotFound("account type %d not found", *req.AcctTypeID)
		}

		if err := e.accounts.WithTx(tx).Create(ctx, acct); err != nil {
			return err
		}
		return e.transactions.WithTx(tx).Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("account_id", acct.ID).
		Str("customer_id", acct.CustomerID).
		Int("acct_type_id", acct.AcctTypeID).
		Str("balance", acct.Balance.StringFixed(domain.CurrencyPlaces)).
		Msg("Account opened")

	e.publish(ctx,
		events.New(eventModule, txn.ID, &events.AccountOpenedData{
			AccountID:  acct.ID,
			CustomerID: acct.CustomerID,
			AcctTypeID: acct.AcctTypeID,
			Balance:    domain.MoneyJSON(acct.Balance),
		}, now),
		txn.RecordedEvent(eventModule),
	)

	return acct, nil
}

// Withdraw debits the account after the guard checks pass.
// Insufficient funds is reported ahead of a credential mismatch.
func (e *Engine) Withdraw(ctx context.Context, accountID string, req MoveRequest) (*MoveResult, error) {
	return e.move(ctx, withdrawal, accountID, req)
}

// Deposit credits the account after the guard checks pass
func (e *Engine) Deposit(ctx context.Context, accountID string, req MoveRequest) (*MoveResult, error) {
	return e.move(ctx, deposit, accountID, req)
}

func (e *Engine) move(ctx context.Context, dir direction, accountID string, req MoveRequest) (*MoveResult, error) {
	if req.CustomerID == "" {
		return nil, domain.InvalidRequest("customer_id is required")
	}
	if req.PIN == nil {
		return nil, domain.InvalidRequest("pin is required")
	}

	unlock := e.locks.Lock(accountID)
	defer unlock()

	var result MoveResult
	err := database.WithTransaction(ctx, e.db, func(tx *database.Tx) error {
		acctRepo := e.accounts.WithTx(tx)

		acct, err := acctRepo.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return domain.NotFound("account %s not found", accountID)
		}

		customer, err := e.customers.WithTx(tx).GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NotFound("customer %s not found", req.CustomerID)
		}

		amount, err := parseAmount(req.Amount)
		if err != nil {
			return err
		}

		if dir == withdrawal && acct.Balance.LessThan(amount) {
			return domain.NewError(domain.KindInsufficientFunds, "Insufficient Funds")
		}
		if acct.CustomerID != customer.ID {
			return domain.NewError(domain.KindIncorrectCredential, "account does not belong to customer")
		}
		if customer.PIN != *req.PIN {
			return domain.NewError(domain.KindIncorrectCredential, "Incorrect PIN")
		}

		now := e.clock()
		txn := Transaction{
			ID:         uuid.NewString(),
			Amount:     amount,
			Note:       fmt.Sprintf("%s at %s", dir, now.Format(domain.NoteTimeLayout)),
			CustomerID: req.CustomerID,
			CreatedAt:  now,
		}
		if dir == withdrawal {
			acct.Balance = acct.Balance.Sub(amount)
			txn.DebitID = strPtr(acct.ID)
		} else {
			acct.Balance = acct.Balance.Add(amount)
			txn.CreditID = strPtr(acct.ID)
		}

		if err := acctRepo.UpdateBalance(ctx, acct.ID, acct.Balance); err != nil {
			return err
		}
		if err := e.transactions.WithTx(tx).Create(ctx, &txn); err != nil {
			return err
		}

		result = MoveResult{Account: *acct, Transaction: txn}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("operation", dir.String()).
		Str("account_id", accountID).
		Str("amount", result.Transaction.Amount.StringFixed(domain.CurrencyPlaces)).
		Str("balance", result.Account.Balance.StringFixed(domain.CurrencyPlaces)).
		Msg("Balance changed")

	e.publish(ctx, result.Transaction.RecordedEvent(eventModule))
	return &result, nil
}

// publish runs after commit; a delivery failure never rolls back the ledger
func (e *Engine) publish(ctx context.Context, evts ...events.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, evts...); err != nil {
		e.log.Error().Err(err).Int("count", len(evts)).Msg("Failed to publish ledger events")
	}
}

// parseAmount validates a withdraw/deposit amount: present, positive, cents precision
func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, domain.InvalidRequest("amount is required")
	}
	amount, err := parseMoney(n, "amount")
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.InvalidRequest("amount must be greater than zero")
	}
	return amount, nil
}

func parseMoney(n json.Number, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, domain.WrapError(domain.KindInvalidRequest, err, "%s must be a number", field)
	}
	if !domain.HasCurrencyPrecision(d) {
		return decimal.Zero, domain.InvalidRequest("%s must have at most %d decimal places", field, domain.CurrencyPlaces)
	}
	return d, nil
}
