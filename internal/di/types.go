package di

import (
	"github.com/aristath/bank/internal/clientdata"
	"github.com/aristath/bank/internal/clients/polygon"
	"github.com/aristath/bank/internal/database"
	"github.com/aristath/bank/internal/events"
	"github.com/aristath/bank/internal/modules/accounts"
	"github.com/aristath/bank/internal/modules/customers"
	"github.com/aristath/bank/internal/modules/ledger"
	"github.com/aristath/bank/internal/modules/portfolio"
	"github.com/aristath/bank/internal/reliability"
	"github.com/aristath/bank/internal/scheduler"
	"github.com/aristath/bank/internal/server"
)

// Container holds all application dependencies.
// It is built by Wire and owns the database connections and the event publisher.
type Container struct {
	// Databases
	LedgerDB     *database.DB // customers, accounts, portfolios, transactions
	ClientDataDB *database.DB // market data cache, always SQLite

	// Repositories
	ClientDataRepo  *clientdata.Repository
	CustomerRepo    *customers.Repository
	AccountRepo     *accounts.Repository
	AccountTypeRepo *accounts.TypeRepository
	TransactionRepo *ledger.TransactionRepository
	PortfolioRepo   *portfolio.PortfolioRepository
	PositionRepo    *portfolio.PositionRepository
	TickerRepo      *portfolio.TickerRepository

	// Clients
	PolygonClient *polygon.Client
	Publisher     events.Publisher

	// Services
	AccountLocks     *ledger.AccountLocks // shared by the ledger engine and portfolio service
	CustomerService  *customers.Service
	AccountService   *accounts.Service
	LedgerEngine     *ledger.Engine
	PortfolioService *portfolio.Service
	BackupService    *reliability.BackupService // nil when backups are disabled

	// HTTP route registrars, in mount order
	Routes []server.RouteRegistrar

	Scheduler *scheduler.Scheduler
}

// Databases returns the open databases keyed by name
func (c *Container) Databases() map[string]*database.DB {
	dbs := make(map[string]*database.DB, 2)
	if c.LedgerDB != nil {
		dbs[c.LedgerDB.Name()] = c.LedgerDB
	}
	if c.ClientDataDB != nil {
		dbs[c.ClientDataDB.Name()] = c.ClientDataDB
	}
	return dbs
}

// Close releases the publisher and database connections. It does not stop the scheduler.
func (c *Container) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.Publisher != nil {
		keep(c.Publisher.Close())
	}
	if c.ClientDataDB != nil {
		keep(c.ClientDataDB.Close())
	}
	if c.LedgerDB != nil {
		keep(c.LedgerDB.Close())
	}
	return firstErr
}
