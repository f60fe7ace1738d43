package di

import (
	"context"
	"fmt"

	"github.com/aristath/bank/internal/clientdata"
	"github.com/aristath/bank/internal/clients/polygon"
	"github.com/aristath/bank/internal/config"
	"github.com/aristath/bank/internal/events"
	eventskafka "github.com/aristath/bank/internal/events/kafka"
	"github.com/aristath/bank/internal/modules/accounts"
	accountshandlers "github.com/aristath/bank/internal/modules/accounts/handlers"
	"github.com/aristath/bank/internal/modules/customers"
	customershandlers "github.com/aristath/bank/internal/modules/customers/handlers"
	"github.com/aristath/bank/internal/modules/ledger"
	ledgerhandlers "github.com/aristath/bank/internal/modules/ledger/handlers"
	"github.com/aristath/bank/internal/modules/portfolio"
	portfoliohandlers "github.com/aristath/bank/internal/modules/portfolio/handlers"
	"github.com/aristath/bank/internal/reliability"
	"github.com/aristath/bank/internal/server"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates every repository on the container's databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.LedgerDB == nil || container.ClientDataDB == nil {
		return fmt.Errorf("databases must be initialized before repositories")
	}

	container.ClientDataRepo = clientdata.NewRepository(container.ClientDataDB.Conn())
	container.CustomerRepo = customers.NewRepository(container.LedgerDB, log)
	container.AccountRepo = accounts.NewRepository(container.LedgerDB, log)
	container.AccountTypeRepo = accounts.NewTypeRepository(container.LedgerDB, log)
	container.TransactionRepo = ledger.NewTransactionRepository(container.LedgerDB, log)
	container.PortfolioRepo = portfolio.NewPortfolioRepository(container.LedgerDB, log)
	container.PositionRepo = portfolio.NewPositionRepository(container.LedgerDB, log)
	container.TickerRepo = portfolio.NewTickerRepository(container.LedgerDB, log)

	return nil
}

// InitializeServices creates clients, services and HTTP handlers
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if len(cfg.KafkaBrokers) > 0 {
		container.Publisher = eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Publishing ledger events to Kafka")
	} else {
		container.Publisher = events.NewLogPublisher(log)
	}

	if cfg.PolygonAPIKey == "" {
		log.Warn().Msg("POLYGON_API_KEY not set, price lookups will fail upstream")
	}
	container.PolygonClient = polygon.NewClient(
		cfg.PolygonBaseURL,
		cfg.PolygonAPIKey,
		container.ClientDataRepo,
		cfg.PriceCacheTTL,
		log,
	)

	container.AccountLocks = ledger.NewAccountLocks()

	container.CustomerService = customers.NewService(container.CustomerRepo, nil, log)
	container.AccountService = accounts.NewService(container.AccountRepo, container.AccountTypeRepo)
	container.LedgerEngine = ledger.NewEngine(
		container.LedgerDB,
		container.AccountRepo,
		container.AccountTypeRepo,
		container.CustomerRepo,
		container.TransactionRepo,
		container.AccountLocks,
		container.Publisher,
		nil,
		log,
	)
	container.PortfolioService = portfolio.NewService(
		container.LedgerDB,
		container.PortfolioRepo,
		container.PositionRepo,
		container.TickerRepo,
		container.AccountRepo,
		container.CustomerRepo,
		container.TransactionRepo,
		container.AccountLocks,
		container.PolygonClient,
		container.Publisher,
		nil,
		cfg.CheckingAccountTypeID,
		log,
	)

	container.Routes = []server.RouteRegistrar{
		customershandlers.NewHandler(container.CustomerService, log),
		accountshandlers.NewHandler(container.AccountService, log),
		ledgerhandlers.NewHandler(container.LedgerEngine, container.TransactionRepo, log),
		portfoliohandlers.NewHandler(container.PortfolioService, log),
	}

	if err := InitializeBackups(ctx, container, cfg, log); err != nil {
		return err
	}

	return nil
}

// InitializeBackups creates the backup service when a bucket is configured.
// Postgres ledgers are backed up by the database operator, not by the service.
func InitializeBackups(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.Backup.Enabled() {
		log.Info().Msg("Backups disabled (no BACKUP_S3_BUCKET)")
		return nil
	}
	if cfg.DBDriver != config.DriverSQLite {
		log.Info().Str("driver", cfg.DBDriver).Msg("Backups disabled for non-SQLite ledger")
		return nil
	}

	store, err := reliability.NewS3Client(ctx, reliability.S3Config{
		Bucket:          cfg.Backup.Bucket,
		Endpoint:        cfg.Backup.Endpoint,
		Region:          cfg.Backup.Region,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create backup storage client: %w", err)
	}

	container.BackupService = reliability.NewBackupService(store, container.Databases(), cfg.DataDir, log)
	return nil
}
